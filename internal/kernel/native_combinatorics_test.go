package kernel

import (
	"testing"

	"mech/internal/value"
)

func TestBinomialKnownValues(t *testing.T) {
	tests := []struct{ n, k, want int64 }{
		{5, 0, 1},
		{5, 5, 1},
		{5, 2, 10},
		{5, 3, 10},
		{10, 3, 120},
		{20, 10, 184756},
		{52, 5, 2598960},
	}
	for _, tt := range tests {
		if got := binomial(tt.n, tt.k); got != tt.want {
			t.Errorf("binomial(%d,%d) = %d, want %d", tt.n, tt.k, got, tt.want)
		}
	}
}

func TestNChooseKKernelZeroWhenKGreaterThanN(t *testing.T) {
	c, ok := StandardRegistry().Lookup("combinatorics/n-choose-k")
	if !ok {
		t.Fatal("combinatorics/n-choose-k not registered")
	}
	k, err := c.Compile([]value.Value{value.I64(3), value.I64(7)})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	out := solveAndGet(t, k)
	if out.(value.I64) != 0 {
		t.Errorf("n-choose-k(3,7) = %v, want I64(0) (undefined, not an error)", out)
	}
}

func TestNChooseKKernelMatchesBinomial(t *testing.T) {
	c, _ := StandardRegistry().Lookup("combinatorics/n-choose-k")
	k, err := c.Compile([]value.Value{value.I64(10), value.I64(4)})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	out := solveAndGet(t, k)
	want := binomial(10, 4)
	if int64(out.(value.I64)) != want {
		t.Errorf("n-choose-k(10,4) = %v, want %d", out, want)
	}
}
