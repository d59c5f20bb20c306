package kernel

import (
	mecherrors "mech/internal/errors"
	"mech/internal/value"
)

// logicBinKernel implements logic/and and logic/or over Bool operands,
// recovered from original_source/src/function/logic.rs.
type logicBinKernel struct {
	name     string
	lhs, rhs value.Value
	out      Ref
	op       func(a, b bool) bool
}

func (k *logicBinKernel) Solve() error {
	a, err := value.AsBool(k.lhs)
	if err != nil {
		return err
	}
	b, err := value.AsBool(k.rhs)
	if err != nil {
		return err
	}
	k.out.Set(value.Bool(k.op(a, b)))
	return nil
}
func (k *logicBinKernel) Out() value.Value { return k.out.Get() }
func (k *logicBinKernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	ctx.Emit(opBinOp, dst, ctx.InternConst(k.lhs), ctx.InternConst(k.rhs))
	return dst, nil
}

type logicBinCompiler struct {
	name string
	op   func(a, b bool) bool
}

func (c logicBinCompiler) Name() string { return c.name }
func (c logicBinCompiler) Compile(args []value.Value) (Kernel, error) {
	if len(args) != 2 {
		return nil, mecherrors.New(mecherrors.IncorrectNumberOfArguments, "%s: expected 2 arguments, got %d", c.name, len(args))
	}
	return &logicBinKernel{name: c.name, lhs: args[0], rhs: args[1], out: NewRef(value.Empty{}), op: c.op}, nil
}

type logicNotKernel struct {
	in  value.Value
	out Ref
}

func (k *logicNotKernel) Solve() error {
	a, err := value.AsBool(k.in)
	if err != nil {
		return err
	}
	k.out.Set(value.Bool(!a))
	return nil
}
func (k *logicNotKernel) Out() value.Value { return k.out.Get() }
func (k *logicNotKernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	ctx.Emit(opUnOp, dst, ctx.InternConst(k.in))
	return dst, nil
}

type logicNotCompiler struct{}

func (logicNotCompiler) Name() string { return "logic/not" }
func (logicNotCompiler) Compile(args []value.Value) (Kernel, error) {
	if len(args) != 1 {
		return nil, mecherrors.New(mecherrors.IncorrectNumberOfArguments, "logic/not: expected 1 argument, got %d", len(args))
	}
	return &logicNotKernel{in: args[0], out: NewRef(value.Empty{})}, nil
}

func registerLogic(r *Registry) {
	r.Register(logicBinCompiler{name: "logic/and", op: func(a, b bool) bool { return a && b }})
	r.Register(logicBinCompiler{name: "logic/or", op: func(a, b bool) bool { return a || b }})
	r.Register(logicNotCompiler{})
}
