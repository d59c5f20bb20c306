package kernel

import (
	"fmt"

	mecherrors "mech/internal/errors"
	"mech/internal/value"
)

// Dispatch compiles args against c, retrying with mutable-reference
// arguments unwrapped when the raw arguments don't match any kernel's
// registered (kind, shape) signature. This is the open question
// resolved in DESIGN.md: the retry unwraps exactly one level per
// argument, matching the original's own description of the retry ("try
// raw, then each single-side unwrap, then the full unwrap") and the
// fact that nothing in this runtime ever produces a
// Reference(Reference(T)) for a kernel to need a deeper retry against.
func Dispatch(c NativeFunctionCompiler, args []value.Value) (Kernel, error) {
	if k, err := c.Compile(args); err == nil {
		return k, nil
	} else if !isUnhandledKind(err) {
		return nil, err
	}

	// Single-argument unwraps: for each position that holds a
	// Reference, substitute its current contents and retry with
	// everything else held raw.
	for i, a := range args {
		ref, ok := a.(value.Reference)
		if !ok {
			continue
		}
		attempt := append(append([]value.Value{}, args[:i]...), ref.Cell.Get())
		attempt = append(attempt, args[i+1:]...)
		if k, err := c.Compile(attempt); err == nil {
			log.Debug().Str("fn", c.Name()).Int("arg", i).Msg("dispatch resolved after single-argument unwrap")
			return k, nil
		} else if !isUnhandledKind(err) {
			return nil, err
		}
	}

	// Fully-unwrapped retry: every Reference argument dereferenced at
	// once, covering calls where more than one argument is a Reference.
	unwrapped := make([]value.Value, len(args))
	anyRef := false
	for i, a := range args {
		if ref, ok := a.(value.Reference); ok {
			unwrapped[i] = ref.Cell.Get()
			anyRef = true
		} else {
			unwrapped[i] = a
		}
	}
	if anyRef {
		if k, err := c.Compile(unwrapped); err == nil {
			log.Debug().Str("fn", c.Name()).Msg("dispatch resolved after full unwrap")
			return k, nil
		} else if !isUnhandledKind(err) {
			return nil, err
		}
	}

	kinds := make([]value.ValueKind, len(args))
	for i, a := range args {
		kinds[i] = a.Kind()
	}
	return nil, mecherrors.New(mecherrors.UnhandledFunctionArgumentKind,
		"%s: no kernel registered for argument kinds %v", c.Name(), kinds)
}

func isUnhandledKind(err error) bool {
	me, ok := err.(*mecherrors.MechError)
	return ok && (me.Kind == mecherrors.UnhandledFunctionArgumentKind || me.Kind == mecherrors.DimensionMismatch)
}

// shapePair is the map key used by every native_*.go dispatch table
// keyed on two matrix shapes (matmul, transpose-of, elementwise binops
// over mismatched shapes, etc).
type shapePair struct {
	LHS, RHS value.MatrixShape
}

func (p shapePair) String() string { return fmt.Sprintf("(%s,%s)", p.LHS, p.RHS) }
