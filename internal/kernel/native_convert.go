package kernel

import (
	"fmt"

	mecherrors "mech/internal/errors"
	"mech/internal/value"
)

// convertKernel coerces a Value to the kind named by target, recovered
// from original_source/src/function/convert.rs's per-target-kind
// dispatch. Unlike math's narrowLike (which narrows a known-good float
// back to an existing kind), convert is itself the fallible operation —
// it is a user-reachable function, not an internal narrowing step.
type convertKernel struct {
	target value.Tag
	in     value.Value
	out    Ref
}

func (k *convertKernel) Solve() error {
	out, err := convertTo(k.target, k.in)
	if err != nil {
		return err
	}
	k.out.Set(out)
	return nil
}
func (k *convertKernel) Out() value.Value { return k.out.Get() }
func (k *convertKernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	ctx.Emit(opUnOp, dst, ctx.InternConst(k.in))
	return dst, nil
}

func convertTo(target value.Tag, in value.Value) (value.Value, error) {
	switch target {
	case value.TagBool:
		b, err := value.AsBool(in)
		if err == nil {
			return value.Bool(b), nil
		}
		f, ferr := value.AsF64(in)
		if ferr != nil {
			return nil, err
		}
		return value.Bool(f != 0), nil
	case value.TagString:
		if s, err := value.AsString(in); err == nil {
			return value.Str(s), nil
		}
		return value.Str(fmt.Sprintf("%v", in)), nil
	case value.TagI8, value.TagI16, value.TagI32, value.TagI64,
		value.TagU8, value.TagU16, value.TagU32, value.TagU64,
		value.TagF32, value.TagF64:
		f, err := asConvertibleF64(in)
		if err != nil {
			return nil, err
		}
		return narrowToTag(target, f), nil
	default:
		return nil, mecherrors.New(mecherrors.UnableToConvertValueKind, "convert: unsupported target kind %s", target)
	}
}

func asConvertibleF64(in value.Value) (float64, error) {
	if f, err := value.AsF64(in); err == nil {
		return f, nil
	}
	if b, err := value.AsBool(in); err == nil {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	return 0, mecherrors.New(mecherrors.UnableToConvertValueKind, "convert: cannot convert %s to a number", in.Kind())
}

func narrowToTag(target value.Tag, f float64) value.Value {
	switch target {
	case value.TagI8:
		return value.I8(int8(f))
	case value.TagI16:
		return value.I16(int16(f))
	case value.TagI32:
		return value.I32(int32(f))
	case value.TagI64:
		return value.I64(int64(f))
	case value.TagU8:
		return value.U8(uint8(f))
	case value.TagU16:
		return value.U16(uint16(f))
	case value.TagU32:
		return value.U32(uint32(f))
	case value.TagU64:
		return value.U64(uint64(f))
	case value.TagF32:
		return value.F32(float32(f))
	default:
		return value.F64(f)
	}
}

type convertCompiler struct {
	name   string
	target value.Tag
}

func (c convertCompiler) Name() string { return c.name }
func (c convertCompiler) Compile(args []value.Value) (Kernel, error) {
	if len(args) != 1 {
		return nil, mecherrors.New(mecherrors.IncorrectNumberOfArguments, "%s: expected 1 argument, got %d", c.name, len(args))
	}
	return &convertKernel{target: c.target, in: args[0], out: NewRef(value.Empty{})}, nil
}

func registerConvert(r *Registry) {
	r.Register(convertCompiler{name: "convert/bool", target: value.TagBool})
	r.Register(convertCompiler{name: "convert/string", target: value.TagString})
	r.Register(convertCompiler{name: "convert/i8", target: value.TagI8})
	r.Register(convertCompiler{name: "convert/i16", target: value.TagI16})
	r.Register(convertCompiler{name: "convert/i32", target: value.TagI32})
	r.Register(convertCompiler{name: "convert/i64", target: value.TagI64})
	r.Register(convertCompiler{name: "convert/u8", target: value.TagU8})
	r.Register(convertCompiler{name: "convert/u16", target: value.TagU16})
	r.Register(convertCompiler{name: "convert/u32", target: value.TagU32})
	r.Register(convertCompiler{name: "convert/u64", target: value.TagU64})
	r.Register(convertCompiler{name: "convert/f32", target: value.TagF32})
	r.Register(convertCompiler{name: "convert/f64", target: value.TagF64})
}
