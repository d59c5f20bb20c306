package kernel

import (
	mecherrors "mech/internal/errors"
	"mech/internal/matrix"
	"mech/internal/value"
)

// sumRowKernel collapses the row axis of a matrix, summing each column
// down to one value and producing a RowVector(cols) — recovered from
// original_source/machines/stats/src/sum_row.rs, whose match arms map
// e.g. Matrix3<T> -> RowVector3<T> (nalgebra's row_sum: one entry per
// column, summed across every row).
type sumRowKernel struct {
	in  *matrix.Matrix[float64]
	out Ref
}

func (k *sumRowKernel) Solve() error {
	out := matrix.Zero[float64](1, k.in.Cols, k.in.Kind().ElemKind())
	for c := 0; c < k.in.Cols; c++ {
		var sum float64
		for r := 0; r < k.in.Rows; r++ {
			sum += k.in.At(r, c)
		}
		out.Set(0, c, sum)
	}
	k.out.Set(out)
	return nil
}
func (k *sumRowKernel) Out() value.Value { return k.out.Get() }
func (k *sumRowKernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	ctx.Emit(opUnOp, dst, ctx.InternConst(k.in))
	return dst, nil
}

type sumRowCompiler struct{}

func (sumRowCompiler) Name() string { return "stats/sum/row" }
func (sumRowCompiler) Compile(args []value.Value) (Kernel, error) {
	if len(args) != 1 {
		return nil, mecherrors.New(mecherrors.IncorrectNumberOfArguments, "stats/sum/row: expected 1 argument, got %d", len(args))
	}
	m, ok := args[0].(*matrix.Matrix[float64])
	if !ok {
		return nil, mecherrors.New(mecherrors.UnhandledFunctionArgumentKind, "stats/sum/row: argument is not a float matrix")
	}
	return &sumRowKernel{in: m, out: NewRef(value.Empty{})}, nil
}

// sumColumnKernel collapses the column axis of a matrix, summing each
// row across to one value and producing a Vector(rows) — the sibling of
// sum/row recovered from original_source/src/sum_column.rs, whose match
// arms map e.g. Matrix3<T> -> Vector3<T> (nalgebra's column_sum: one
// entry per row, summed across every column).
type sumColumnKernel struct {
	in  *matrix.Matrix[float64]
	out Ref
}

func (k *sumColumnKernel) Solve() error {
	out := matrix.Zero[float64](k.in.Rows, 1, k.in.Kind().ElemKind())
	for r := 0; r < k.in.Rows; r++ {
		var sum float64
		for c := 0; c < k.in.Cols; c++ {
			sum += k.in.At(r, c)
		}
		out.Set(r, 0, sum)
	}
	k.out.Set(out)
	return nil
}
func (k *sumColumnKernel) Out() value.Value { return k.out.Get() }
func (k *sumColumnKernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	ctx.Emit(opUnOp, dst, ctx.InternConst(k.in))
	return dst, nil
}

type sumColumnCompiler struct{}

func (sumColumnCompiler) Name() string { return "stats/sum/column" }
func (sumColumnCompiler) Compile(args []value.Value) (Kernel, error) {
	if len(args) != 1 {
		return nil, mecherrors.New(mecherrors.IncorrectNumberOfArguments, "stats/sum/column: expected 1 argument, got %d", len(args))
	}
	m, ok := args[0].(*matrix.Matrix[float64])
	if !ok {
		return nil, mecherrors.New(mecherrors.UnhandledFunctionArgumentKind, "stats/sum/column: argument is not a float matrix")
	}
	return &sumColumnKernel{in: m, out: NewRef(value.Empty{})}, nil
}

func registerStats(r *Registry) {
	r.Register(sumRowCompiler{})
	r.Register(sumColumnCompiler{})
}
