// Package block implements Mech's Block, the unit the scheduler
// schedules and runs (spec.md section 4.3). A Block has no direct
// analogue in the teacher (whose unit of compilation is a whole
// script) or in original_source/ (block.rs is not present in the
// retrieved source); it is built from spec.md section 4.3 directly, in
// the naming and accessor style the rest of original_source/ uses for
// its other core structures (schedule.rs's BlockRef usage).
package block

import (
	mecherrors "mech/internal/errors"
	"mech/internal/register"
)

// State is a Block's lifecycle stage.
type State int

const (
	Unsatisfied State = iota // missing one or more inputs, cannot run
	Ready                    // all inputs present, eligible for scheduling
	Solved                   // has produced output at least once
	Disabled                 // explicitly taken out of the schedule
	Error                    // last Solve failed; Recompile required before retry
)

func (s State) String() string {
	switch s {
	case Unsatisfied:
		return "Unsatisfied"
	case Ready:
		return "Ready"
	case Solved:
		return "Solved"
	case Disabled:
		return "Disabled"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Step is one entry of a Block's compiled Plan: a named kernel
// invocation over a fixed argument list, solved in order.
type Step struct {
	Name string
	Solve func() error
}

// SymbolTable maps a block-local variable name to the register it is
// bound to, resolved at compile time and consulted at solve time for
// diagnostics and recompilation.
type SymbolTable map[string]register.Register

// Block is one compiled, independently schedulable unit (spec.md
// section 4.3).
type Block struct {
	ID       uint64
	State    State
	Plan     []Step
	Symbols  SymbolTable
	Triggers []register.Register
	Input    []register.Register
	Output   []register.Register
}

// New builds an unsatisfied Block with the given register sets; Plan
// and Symbols are filled in by the compiler once the block's formulas
// are lowered to kernel calls.
func New(id uint64, triggers, input, output []register.Register) *Block {
	return &Block{
		ID:       id,
		State:    Unsatisfied,
		Symbols:  SymbolTable{},
		Triggers: triggers,
		Input:    input,
		Output:   output,
	}
}

// MarkReady transitions the block out of Unsatisfied once the scheduler
// has confirmed every input register has a value.
func (b *Block) MarkReady() {
	if b.State == Unsatisfied {
		b.State = Ready
	}
}

// Solve executes the block's Plan in order. A failing step leaves the
// block in the Error state and returns immediately — subsequent steps
// in the same Plan do not run, since they may assume the failed step's
// output.
func (b *Block) Solve() error {
	for _, step := range b.Plan {
		if err := step.Solve(); err != nil {
			b.State = Error
			return mecherrors.Wrap(err, mecherrors.GenericError, "block %d step %q failed", b.ID, step.Name)
		}
	}
	b.State = Solved
	return nil
}

// Recompile rebuilds the block's Plan from its current Symbols and
// register sets. The compiler package supplies the actual lowering;
// Recompile here just resets lifecycle state so a subsequent Solve
// re-runs from scratch.
func (b *Block) Recompile(plan []Step) {
	b.Plan = plan
	if b.State == Error || b.State == Solved {
		b.State = Ready
	}
}

// TriggersOn reports whether r overlaps one of b's trigger registers.
func (b *Block) TriggersOn(r register.Register) bool {
	for _, t := range b.Triggers {
		if t.Matches(r) {
			return true
		}
	}
	return false
}
