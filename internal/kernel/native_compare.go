package kernel

import (
	mecherrors "mech/internal/errors"
	"mech/internal/value"
)

// compareOp is one of the six ordering/equality relations recovered from
// original_source/src/core/src/stdlib/compare.rs. Numeric operands are
// compared via value.AsF64; Bool and Str operands compare directly.
// Bool supports only eq/neq (ordering a bool is not defined by this
// runtime's stdlib); Str supports all six, ordered bytewise.
type compareOp byte

const (
	compareEq compareOp = iota
	compareNeq
	compareLt
	compareLte
	compareGt
	compareGte
)

func (op compareOp) String() string {
	switch op {
	case compareEq:
		return "compare/eq"
	case compareNeq:
		return "compare/neq"
	case compareLt:
		return "compare/lt"
	case compareLte:
		return "compare/lte"
	case compareGt:
		return "compare/gt"
	case compareGte:
		return "compare/gte"
	default:
		return "compare/unknown"
	}
}

type compareKernel struct {
	name    string
	op      compareOp
	lhs, rhs value.Value
	out     Ref
}

func (k *compareKernel) Solve() error {
	result, err := evalCompare(k.op, k.lhs, k.rhs)
	if err != nil {
		return err
	}
	k.out.Set(value.Bool(result))
	return nil
}
func (k *compareKernel) Out() value.Value { return k.out.Get() }
func (k *compareKernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	ctx.Emit(opBinOp, dst, ctx.InternConst(k.lhs), ctx.InternConst(k.rhs))
	return dst, nil
}

func evalCompare(op compareOp, lhs, rhs value.Value) (bool, error) {
	if lb, lok := lhs.(value.Bool); lok {
		rb, rok := rhs.(value.Bool)
		if !rok {
			return false, mecherrors.New(mecherrors.KindMismatch, "%s: cannot compare bool with %s", op, rhs.Kind())
		}
		switch op {
		case compareEq:
			return bool(lb) == bool(rb), nil
		case compareNeq:
			return bool(lb) != bool(rb), nil
		default:
			return false, mecherrors.New(mecherrors.UnhandledFunctionArgumentKind, "%s: bool only supports eq/neq", op)
		}
	}
	if ls, lok := lhs.(value.Str); lok {
		rs, rok := rhs.(value.Str)
		if !rok {
			return false, mecherrors.New(mecherrors.KindMismatch, "%s: cannot compare string with %s", op, rhs.Kind())
		}
		switch op {
		case compareEq:
			return string(ls) == string(rs), nil
		case compareNeq:
			return string(ls) != string(rs), nil
		case compareLt:
			return string(ls) < string(rs), nil
		case compareLte:
			return string(ls) <= string(rs), nil
		case compareGt:
			return string(ls) > string(rs), nil
		case compareGte:
			return string(ls) >= string(rs), nil
		}
	}
	l, err := value.AsF64(lhs)
	if err != nil {
		return false, err
	}
	r, err := value.AsF64(rhs)
	if err != nil {
		return false, err
	}
	switch op {
	case compareEq:
		return l == r, nil
	case compareNeq:
		return l != r, nil
	case compareLt:
		return l < r, nil
	case compareLte:
		return l <= r, nil
	case compareGt:
		return l > r, nil
	case compareGte:
		return l >= r, nil
	}
	return false, mecherrors.New(mecherrors.Unhandled, "%s: unreachable operator", op)
}

type compareCompiler struct {
	name string
	op   compareOp
}

func (c compareCompiler) Name() string { return c.name }
func (c compareCompiler) Compile(args []value.Value) (Kernel, error) {
	if len(args) != 2 {
		return nil, mecherrors.New(mecherrors.IncorrectNumberOfArguments, "%s: expected 2 arguments, got %d", c.name, len(args))
	}
	return &compareKernel{name: c.name, op: c.op, lhs: args[0], rhs: args[1], out: NewRef(value.Empty{})}, nil
}

func registerCompare(r *Registry) {
	r.Register(compareCompiler{name: "compare/eq", op: compareEq})
	r.Register(compareCompiler{name: "compare/neq", op: compareNeq})
	r.Register(compareCompiler{name: "compare/lt", op: compareLt})
	r.Register(compareCompiler{name: "compare/lte", op: compareLte})
	r.Register(compareCompiler{name: "compare/gt", op: compareGt})
	r.Register(compareCompiler{name: "compare/gte", op: compareGte})
}
