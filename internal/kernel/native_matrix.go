package kernel

import (
	mecherrors "mech/internal/errors"
	"mech/internal/matrix"
	"mech/internal/value"
)

// transposeKernel wraps matrix.Transpose for a float64 matrix argument,
// recovered from original_source/machines/matrix/src/transpose.rs. The
// runtime's numeric matrices are monomorphized at the Go generic level
// (Matrix[float64], Matrix[int64]); dispatch resolves to the arm
// matching the argument's concrete element type.
type transposeKernel struct {
	in  *matrix.Matrix[float64]
	out Ref
}

func (k *transposeKernel) Solve() error {
	k.out.Set(matrix.Transpose(k.in, k.in.Kind().ElemKind()))
	return nil
}
func (k *transposeKernel) Out() value.Value { return k.out.Get() }
func (k *transposeKernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	ctx.Emit(opUnOp, dst, ctx.InternConst(k.in))
	return dst, nil
}

type transposeIntKernel struct {
	in  *matrix.Matrix[int64]
	out Ref
}

func (k *transposeIntKernel) Solve() error {
	k.out.Set(matrix.Transpose(k.in, k.in.Kind().ElemKind()))
	return nil
}
func (k *transposeIntKernel) Out() value.Value { return k.out.Get() }
func (k *transposeIntKernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	ctx.Emit(opUnOp, dst, ctx.InternConst(k.in))
	return dst, nil
}

type transposeCompiler struct{}

func (transposeCompiler) Name() string { return "matrix/transpose" }
func (transposeCompiler) Compile(args []value.Value) (Kernel, error) {
	if len(args) != 1 {
		return nil, mecherrors.New(mecherrors.IncorrectNumberOfArguments, "matrix/transpose: expected 1 argument, got %d", len(args))
	}
	switch m := args[0].(type) {
	case *matrix.Matrix[float64]:
		return &transposeKernel{in: m, out: NewRef(value.Empty{})}, nil
	case *matrix.Matrix[int64]:
		return &transposeIntKernel{in: m, out: NewRef(value.Empty{})}, nil
	default:
		return nil, mecherrors.New(mecherrors.UnhandledFunctionArgumentKind, "matrix/transpose: argument is not a matrix")
	}
}

// matmulKernel wraps matrix.MatMul, recovered from
// original_source/src/matmul.rs. Shape compatibility and the named
// output shape both come from the matrix package's shape-pair table.
type matmulKernel struct {
	lhs, rhs *matrix.Matrix[float64]
	out      Ref
}

func (k *matmulKernel) Solve() error {
	out, err := matrix.MatMul(k.lhs, k.rhs, k.lhs.Kind().ElemKind())
	if err != nil {
		return err
	}
	k.out.Set(out)
	return nil
}
func (k *matmulKernel) Out() value.Value { return k.out.Get() }
func (k *matmulKernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	ctx.Emit(opBinOp, dst, ctx.InternConst(k.lhs), ctx.InternConst(k.rhs))
	return dst, nil
}

// dotKernel is the RowVector*Vector arm of matmul, selected inside
// matmulCompiler rather than registered under its own name. It yields a
// scalar value.F64, not a 1x1 Matrix1.
type dotKernel struct {
	lhs, rhs *matrix.Matrix[float64]
	out      Ref
}

func (k *dotKernel) Solve() error {
	d, err := matrix.Dot(k.lhs, k.rhs)
	if err != nil {
		return err
	}
	k.out.Set(value.F64(d))
	return nil
}
func (k *dotKernel) Out() value.Value { return k.out.Get() }
func (k *dotKernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	ctx.Emit(opBinOp, dst, ctx.InternConst(k.lhs), ctx.InternConst(k.rhs))
	return dst, nil
}

// matmulIntKernel and dotIntKernel are matmulKernel/dotKernel's int64
// counterparts, proving out the same int64 path transposeIntKernel
// already exercises for matrix/transpose — matrix.MatMul and
// matrix.Dot are generic over Numeric, so the int64 arm is the same
// call with a different type parameter, not a reimplementation.
type matmulIntKernel struct {
	lhs, rhs *matrix.Matrix[int64]
	out      Ref
}

func (k *matmulIntKernel) Solve() error {
	out, err := matrix.MatMul(k.lhs, k.rhs, k.lhs.Kind().ElemKind())
	if err != nil {
		return err
	}
	k.out.Set(out)
	return nil
}
func (k *matmulIntKernel) Out() value.Value { return k.out.Get() }
func (k *matmulIntKernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	ctx.Emit(opBinOp, dst, ctx.InternConst(k.lhs), ctx.InternConst(k.rhs))
	return dst, nil
}

type dotIntKernel struct {
	lhs, rhs *matrix.Matrix[int64]
	out      Ref
}

func (k *dotIntKernel) Solve() error {
	d, err := matrix.Dot(k.lhs, k.rhs)
	if err != nil {
		return err
	}
	k.out.Set(value.I64(d))
	return nil
}
func (k *dotIntKernel) Out() value.Value { return k.out.Get() }
func (k *dotIntKernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	ctx.Emit(opBinOp, dst, ctx.InternConst(k.lhs), ctx.InternConst(k.rhs))
	return dst, nil
}

type matmulCompiler struct{}

func (matmulCompiler) Name() string { return "matrix/matmul" }
func (matmulCompiler) Compile(args []value.Value) (Kernel, error) {
	if len(args) != 2 {
		return nil, mecherrors.New(mecherrors.IncorrectNumberOfArguments, "matrix/matmul: expected 2 arguments, got %d", len(args))
	}
	if lhs, ok1 := args[0].(*matrix.Matrix[int64]); ok1 {
		rhs, ok2 := args[1].(*matrix.Matrix[int64])
		if !ok2 {
			return nil, mecherrors.New(mecherrors.UnhandledFunctionArgumentKind, "matrix/matmul: mismatched matrix element kinds")
		}
		if lhs.Rows == 1 && lhs.Cols > 1 && rhs.Cols == 1 && rhs.Rows == lhs.Cols {
			return &dotIntKernel{lhs: lhs, rhs: rhs, out: NewRef(value.Empty{})}, nil
		}
		if lhs.Rows == 1 && lhs.Cols == 1 && rhs.Rows == 1 && rhs.Cols == 1 {
			return nil, mecherrors.New(mecherrors.UnhandledFunctionArgumentKind, "matrix/matmul: 1x1 x 1x1 is a scalar multiply")
		}
		if _, ok := matrix.ResolveMatMulShape(lhs.ShapeTag, rhs.ShapeTag); !ok {
			return nil, mecherrors.New(mecherrors.UnhandledFunctionArgumentKind, "matrix/matmul: unsupported shape pair %s x %s", lhs.ShapeTag, rhs.ShapeTag)
		}
		return &matmulIntKernel{lhs: lhs, rhs: rhs, out: NewRef(value.Empty{})}, nil
	}
	lhs, ok1 := args[0].(*matrix.Matrix[float64])
	rhs, ok2 := args[1].(*matrix.Matrix[float64])
	if !ok1 || !ok2 {
		return nil, mecherrors.New(mecherrors.UnhandledFunctionArgumentKind, "matrix/matmul: both arguments must be matrices of the same element kind")
	}
	if lhs.Rows == 1 && lhs.Cols > 1 && rhs.Cols == 1 && rhs.Rows == lhs.Cols {
		return &dotKernel{lhs: lhs, rhs: rhs, out: NewRef(value.Empty{})}, nil
	}
	if lhs.Rows == 1 && lhs.Cols == 1 && rhs.Rows == 1 && rhs.Cols == 1 {
		// Matrix1 x Matrix1: the scalar kernel handles this pair, not
		// matmul (DESIGN.md's open-question resolution).
		return nil, mecherrors.New(mecherrors.UnhandledFunctionArgumentKind, "matrix/matmul: 1x1 x 1x1 is a scalar multiply")
	}
	if _, ok := matrix.ResolveMatMulShape(lhs.ShapeTag, rhs.ShapeTag); !ok {
		return nil, mecherrors.New(mecherrors.UnhandledFunctionArgumentKind, "matrix/matmul: unsupported shape pair %s x %s", lhs.ShapeTag, rhs.ShapeTag)
	}
	return &matmulKernel{lhs: lhs, rhs: rhs, out: NewRef(value.Empty{})}, nil
}

func registerMatrix(r *Registry) {
	r.Register(transposeCompiler{})
	r.Register(matmulCompiler{})
}
