package kernel

import (
	mecherrors "mech/internal/errors"
	"mech/internal/matrix"
	"mech/internal/value"
)

// binScalarKernel is the shared shape for every math/{add,sub,mul,div}
// kernel: two bound scalar arguments, one freshly allocated output
// cell, and a float64 op applied in double precision then narrowed
// back to the input kind. Grounded on
// original_source/machines/math/src/lib.rs's per-kind binop expansion —
// this module keeps one generic kernel instead of one concrete type per
// numeric kind, since Go's type switch already gives the narrowing step
// without a macro cross-product.
type binScalarKernel struct {
	name     string
	lhs, rhs value.Value
	out      Ref
	op       func(a, b float64) float64
}

func newBinScalarKernel(name string, lhs, rhs value.Value, op func(a, b float64) float64) *binScalarKernel {
	return &binScalarKernel{name: name, lhs: lhs, rhs: rhs, out: NewRef(value.Empty{}), op: op}
}

func (k *binScalarKernel) Solve() error {
	a, err := value.AsF64(k.lhs)
	if err != nil {
		return err
	}
	b, err := value.AsF64(k.rhs)
	if err != nil {
		return err
	}
	result := k.op(a, b)
	k.out.Set(narrowLike(k.lhs, result))
	return nil
}

func (k *binScalarKernel) Out() value.Value { return k.out.Get() }

func (k *binScalarKernel) Compile(ctx Compiler) (uint32, error) {
	lc := ctx.InternConst(k.lhs)
	rc := ctx.InternConst(k.rhs)
	dst := ctx.AllocRegister()
	ctx.Emit(opBinOp, dst, lc, rc)
	return dst, nil
}

// narrowLike converts an float64 result back to the kind of like,
// preserving integer truncation semantics for integer kinds instead of
// silently returning a float.
func narrowLike(like value.Value, f float64) value.Value {
	switch like.(type) {
	case value.I8:
		return value.I8(int8(f))
	case value.I16:
		return value.I16(int16(f))
	case value.I32:
		return value.I32(int32(f))
	case value.I64:
		return value.I64(int64(f))
	case value.U8:
		return value.U8(uint8(f))
	case value.U16:
		return value.U16(uint16(f))
	case value.U32:
		return value.U32(uint32(f))
	case value.U64:
		return value.U64(uint64(f))
	case value.F32:
		return value.F32(float32(f))
	default:
		return value.F64(f)
	}
}

// elemBinMatrixF64Kernel applies op to a pair of equal-shaped float64
// matrices entry by entry, recovered from
// original_source/machines/math/src/lib.rs's per-kind binop expansion
// the same way binScalarKernel is — generalized across shapes instead
// of one concrete type per fixed matrix size.
type elemBinMatrixF64Kernel struct {
	name     string
	lhs, rhs *matrix.Matrix[float64]
	out      Ref
	op       func(a, b float64) float64
}

func (k *elemBinMatrixF64Kernel) Solve() error {
	out := matrix.Zero[float64](k.lhs.Rows, k.lhs.Cols, k.lhs.Kind().ElemKind())
	for r := 0; r < k.lhs.Rows; r++ {
		for c := 0; c < k.lhs.Cols; c++ {
			out.Set(r, c, k.op(k.lhs.At(r, c), k.rhs.At(r, c)))
		}
	}
	k.out.Set(out)
	return nil
}
func (k *elemBinMatrixF64Kernel) Out() value.Value { return k.out.Get() }
func (k *elemBinMatrixF64Kernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	ctx.Emit(opBinOp, dst, ctx.InternConst(k.lhs), ctx.InternConst(k.rhs))
	return dst, nil
}

// elemBinMatrixI64Kernel is elemBinMatrixF64Kernel's int64 counterpart,
// applying op in double precision then truncating back, matching
// narrowLike's integer-truncation policy for the scalar kernel.
type elemBinMatrixI64Kernel struct {
	name     string
	lhs, rhs *matrix.Matrix[int64]
	out      Ref
	op       func(a, b float64) float64
}

func (k *elemBinMatrixI64Kernel) Solve() error {
	out := matrix.Zero[int64](k.lhs.Rows, k.lhs.Cols, k.lhs.Kind().ElemKind())
	for r := 0; r < k.lhs.Rows; r++ {
		for c := 0; c < k.lhs.Cols; c++ {
			out.Set(r, c, int64(k.op(float64(k.lhs.At(r, c)), float64(k.rhs.At(r, c)))))
		}
	}
	k.out.Set(out)
	return nil
}
func (k *elemBinMatrixI64Kernel) Out() value.Value { return k.out.Get() }
func (k *elemBinMatrixI64Kernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	ctx.Emit(opBinOp, dst, ctx.InternConst(k.lhs), ctx.InternConst(k.rhs))
	return dst, nil
}

type mathCompiler struct {
	name string
	op   func(a, b float64) float64
}

func (c *mathCompiler) Name() string { return c.name }

func (c *mathCompiler) Compile(args []value.Value) (Kernel, error) {
	if len(args) != 2 {
		return nil, mecherrors.New(mecherrors.IncorrectNumberOfArguments, "%s: expected 2 arguments, got %d", c.name, len(args))
	}
	if lhs, ok := args[0].(*matrix.Matrix[float64]); ok {
		rhs, ok2 := args[1].(*matrix.Matrix[float64])
		if !ok2 {
			return nil, mecherrors.New(mecherrors.UnhandledFunctionArgumentKind, "%s: mismatched matrix element kinds", c.name)
		}
		if lhs.Rows != rhs.Rows || lhs.Cols != rhs.Cols {
			return nil, mecherrors.New(mecherrors.DimensionMismatch, "%s: shape %dx%d does not match %dx%d", c.name, lhs.Rows, lhs.Cols, rhs.Rows, rhs.Cols)
		}
		return &elemBinMatrixF64Kernel{name: c.name, lhs: lhs, rhs: rhs, out: NewRef(value.Empty{}), op: c.op}, nil
	}
	if lhs, ok := args[0].(*matrix.Matrix[int64]); ok {
		rhs, ok2 := args[1].(*matrix.Matrix[int64])
		if !ok2 {
			return nil, mecherrors.New(mecherrors.UnhandledFunctionArgumentKind, "%s: mismatched matrix element kinds", c.name)
		}
		if lhs.Rows != rhs.Rows || lhs.Cols != rhs.Cols {
			return nil, mecherrors.New(mecherrors.DimensionMismatch, "%s: shape %dx%d does not match %dx%d", c.name, lhs.Rows, lhs.Cols, rhs.Rows, rhs.Cols)
		}
		return &elemBinMatrixI64Kernel{name: c.name, lhs: lhs, rhs: rhs, out: NewRef(value.Empty{}), op: c.op}, nil
	}
	if !args[0].Kind().IsNumeric() || !args[1].Kind().IsNumeric() {
		return nil, mecherrors.New(mecherrors.UnhandledFunctionArgumentKind, "%s: non-numeric argument", c.name)
	}
	return newBinScalarKernel(c.name, args[0], args[1], c.op), nil
}

// opAssignKernel applies op to the sink's current value and the
// source, writing the result back into the sink's own cell — the
// compound-assignment family recovered from
// original_source/src/op_assign/*.rs. The sink argument must be a
// Reference, so the raw call dispatches without any unwrap retry; the
// kernel reads the sink's current value through its cell at Solve time
// and writes the result back into that same cell.
type opAssignKernel struct {
	name string
	sink value.Reference
	src  value.Value
	op   func(a, b float64) float64
}

func (k *opAssignKernel) Solve() error {
	cur := k.sink.Cell.Get()
	a, err := value.AsF64(cur)
	if err != nil {
		return err
	}
	b, err := value.AsF64(k.src)
	if err != nil {
		return err
	}
	k.sink.Cell.Set(narrowLike(cur, k.op(a, b)))
	return nil
}

func (k *opAssignKernel) Out() value.Value { return k.sink.Cell.Get() }

func (k *opAssignKernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	sink := ctx.InternConst(k.sink)
	src := ctx.InternConst(k.src)
	ctx.Emit(opBinOp, dst, sink, src)
	return dst, nil
}

type opAssignCompiler struct {
	name string
	op   func(a, b float64) float64
}

func (c *opAssignCompiler) Name() string { return c.name }

func (c *opAssignCompiler) Compile(args []value.Value) (Kernel, error) {
	if len(args) != 2 {
		return nil, mecherrors.New(mecherrors.IncorrectNumberOfArguments, "%s: expected 2 arguments, got %d", c.name, len(args))
	}
	sink, ok := args[0].(value.Reference)
	if !ok {
		return nil, mecherrors.New(mecherrors.UnhandledFunctionArgumentKind, "%s: sink argument must be a mutable reference", c.name)
	}
	return &opAssignKernel{name: c.name, sink: sink, src: args[1], op: c.op}, nil
}

// atan2Kernel is math/trig/atan2, recovered from
// original_source/machines/math/src/trig/atan2.rs.
type atan2Kernel struct {
	y, x value.Value
	out  Ref
}

func (k *atan2Kernel) Solve() error {
	y, err := value.AsF64(k.y)
	if err != nil {
		return err
	}
	x, err := value.AsF64(k.x)
	if err != nil {
		return err
	}
	k.out.Set(value.F64(mathAtan2(y, x)))
	return nil
}
func (k *atan2Kernel) Out() value.Value { return k.out.Get() }
func (k *atan2Kernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	ctx.Emit(opBinOp, dst, ctx.InternConst(k.y), ctx.InternConst(k.x))
	return dst, nil
}

type atan2Compiler struct{}

func (atan2Compiler) Name() string { return "math/trig/atan2" }
func (atan2Compiler) Compile(args []value.Value) (Kernel, error) {
	if len(args) != 2 {
		return nil, mecherrors.New(mecherrors.IncorrectNumberOfArguments, "math/trig/atan2: expected 2 arguments, got %d", len(args))
	}
	return &atan2Kernel{y: args[0], x: args[1], out: NewRef(value.Empty{})}, nil
}

func registerMath(r *Registry) {
	r.Register(&mathCompiler{name: "math/add", op: func(a, b float64) float64 { return a + b }})
	r.Register(&mathCompiler{name: "math/sub", op: func(a, b float64) float64 { return a - b }})
	r.Register(&mathCompiler{name: "math/mul", op: func(a, b float64) float64 { return a * b }})
	r.Register(&mathCompiler{name: "math/div", op: func(a, b float64) float64 { return a / b }})

	r.Register(&opAssignCompiler{name: "math/add_assign", op: func(a, b float64) float64 { return a + b }})
	r.Register(&opAssignCompiler{name: "math/sub_assign", op: func(a, b float64) float64 { return a - b }})
	r.Register(&opAssignCompiler{name: "math/mul_assign", op: func(a, b float64) float64 { return a * b }})
	r.Register(&opAssignCompiler{name: "math/div_assign", op: func(a, b float64) float64 { return a / b }})

	r.Register(atan2Compiler{})
}
