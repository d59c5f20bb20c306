package block

import (
	"errors"
	"testing"

	"mech/internal/register"
)

func TestMarkReadyOnlyTransitionsFromUnsatisfied(t *testing.T) {
	b := New(1, nil, nil, nil)
	if b.State != Unsatisfied {
		t.Fatalf("new block state = %s, want Unsatisfied", b.State)
	}
	b.MarkReady()
	if b.State != Ready {
		t.Fatalf("state after MarkReady = %s, want Ready", b.State)
	}
	b.State = Solved
	b.MarkReady()
	if b.State != Solved {
		t.Errorf("MarkReady must not override a non-Unsatisfied state, got %s", b.State)
	}
}

func TestSolveRunsStepsInOrder(t *testing.T) {
	b := New(1, nil, nil, nil)
	var order []int
	b.Plan = []Step{
		{Name: "a", Solve: func() error { order = append(order, 1); return nil }},
		{Name: "b", Solve: func() error { order = append(order, 2); return nil }},
	}
	if err := b.Solve(); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("steps ran out of order: %v", order)
	}
	if b.State != Solved {
		t.Errorf("state after successful Solve = %s, want Solved", b.State)
	}
}

func TestSolveStopsAtFirstFailingStep(t *testing.T) {
	b := New(1, nil, nil, nil)
	ran := 0
	b.Plan = []Step{
		{Name: "ok", Solve: func() error { ran++; return nil }},
		{Name: "fails", Solve: func() error { ran++; return errors.New("boom") }},
		{Name: "never", Solve: func() error { ran++; return nil }},
	}
	if err := b.Solve(); err == nil {
		t.Fatal("expected error from failing step")
	}
	if ran != 2 {
		t.Errorf("ran %d steps, want exactly 2 (stop at failure)", ran)
	}
	if b.State != Error {
		t.Errorf("state after failed Solve = %s, want Error", b.State)
	}
}

func TestRecompileResetsErrorAndSolvedToReady(t *testing.T) {
	for _, start := range []State{Error, Solved} {
		b := New(1, nil, nil, nil)
		b.State = start
		b.Recompile([]Step{})
		if b.State != Ready {
			t.Errorf("Recompile from %s left state %s, want Ready", start, b.State)
		}
	}

	b := New(1, nil, nil, nil)
	b.Recompile([]Step{})
	if b.State != Unsatisfied {
		t.Errorf("Recompile from Unsatisfied changed state to %s, want unchanged Unsatisfied", b.State)
	}
}

func TestTriggersOnHonorsWildcards(t *testing.T) {
	trig := register.NewAll(1, register.AllIndex, register.At(2))
	b := New(1, []register.Register{trig}, nil, nil)

	if !b.TriggersOn(register.New(1, 5, 2)) {
		t.Error("block should trigger on a register matching its wildcard trigger")
	}
	if b.TriggersOn(register.New(1, 5, 3)) {
		t.Error("block should not trigger on a register outside its trigger column")
	}
	if b.TriggersOn(register.New(2, 0, 2)) {
		t.Error("block should not trigger on a different table")
	}
}
