package kernel

import (
	"modernc.org/mathutil"

	mecherrors "mech/internal/errors"
	"mech/internal/value"
)

// nChooseKKernel computes the binomial coefficient C(n, k), recovered
// from original_source/machines/combinatorics/src/n_choose_k.rs. k > n
// is defined to return zero rather than an error, per that file's own
// "undefined for k > n" comment — not a dispatch failure, a real answer.
type nChooseKKernel struct {
	n, k value.Value
	out  Ref
}

func (kn *nChooseKKernel) Solve() error {
	n, err := value.AsI64(kn.n)
	if err != nil {
		return err
	}
	k, err := value.AsI64(kn.k)
	if err != nil {
		return err
	}
	if k > n || k < 0 {
		kn.out.Set(value.I64(0))
		return nil
	}
	kn.out.Set(value.I64(binomial(n, k)))
	return nil
}
func (kn *nChooseKKernel) Out() value.Value { return kn.out.Get() }
func (kn *nChooseKKernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	ctx.Emit(opBinOp, dst, ctx.InternConst(kn.n), ctx.InternConst(kn.k))
	return dst, nil
}

// binomial computes C(n, k) via the standard multiplicative formula
// (result *= (n-k+i); result /= i, in that order, which is always an
// exact division at each step). Before each multiply, the running
// result and the divisor are reduced by their modernc.org/mathutil.GCD to keep
// intermediate products further from int64 overflow than the
// unreduced formula would.
func binomial(n, k int64) int64 {
	if k == 0 || k == n {
		return 1
	}
	if k > n-k {
		k = n - k
	}
	var result int64 = 1
	for i := int64(1); i <= k; i++ {
		num := n - k + i
		den := i
		if g := mathutil.GCD(result, den); g > 1 {
			result /= g
			den /= g
		}
		result *= num
		result /= den
	}
	return result
}

type nChooseKCompiler struct{}

func (nChooseKCompiler) Name() string { return "combinatorics/n-choose-k" }
func (nChooseKCompiler) Compile(args []value.Value) (Kernel, error) {
	if len(args) != 2 {
		return nil, mecherrors.New(mecherrors.IncorrectNumberOfArguments, "combinatorics/n-choose-k: expected 2 arguments, got %d", len(args))
	}
	return &nChooseKKernel{n: args[0], k: args[1], out: NewRef(value.Empty{})}, nil
}

func registerCombinatorics(r *Registry) {
	r.Register(nChooseKCompiler{})
}
