package kernel

import (
	"fmt"
	"io"
	"os"

	mecherrors "mech/internal/errors"
	"mech/internal/value"
)

// stdout is where io/print and io/println write, defaulting to the
// process's own stdout. SetStdout lets a host redirect core output
// without those kernels needing to know anything about the host
// (spec.md section 6: "io/println(value) emits to stdout or to a
// host-provided writer").
var stdout io.Writer = os.Stdout

// SetStdout installs w as the destination for io/print and io/println.
func SetStdout(w io.Writer) { stdout = w }

// printKernel implements io/print and io/println, recovered from
// original_source/machines/io/src/println.rs. Output goes to stdout
// directly rather than through the package logger: these are program
// output, not runtime diagnostics, and must stay uncluttered by log
// level/timestamp prefixes.
type printKernel struct {
	name    string
	args    []value.Value
	newline bool
	out     Ref
}

func (k *printKernel) Solve() error {
	parts := make([]any, len(k.args))
	for i, a := range k.args {
		parts[i] = a.String()
	}
	line := fmt.Sprint(parts...)
	if k.newline {
		if _, err := fmt.Fprintln(stdout, line); err != nil {
			return mecherrors.Wrap(err, mecherrors.IoError, "%s: write failed", k.name)
		}
	} else {
		if _, err := fmt.Fprint(stdout, line); err != nil {
			return mecherrors.Wrap(err, mecherrors.IoError, "%s: write failed", k.name)
		}
	}
	k.out.Set(value.Empty{})
	return nil
}
func (k *printKernel) Out() value.Value { return k.out.Get() }
func (k *printKernel) Compile(ctx Compiler) (uint32, error) {
	dst := ctx.AllocRegister()
	operands := make([]uint32, 0, len(k.args))
	for _, a := range k.args {
		operands = append(operands, ctx.InternConst(a))
	}
	ctx.Emit(opVarArg, append([]uint32{dst}, operands...)...)
	return dst, nil
}

type printCompiler struct {
	name    string
	newline bool
}

func (c printCompiler) Name() string { return c.name }
func (c printCompiler) Compile(args []value.Value) (Kernel, error) {
	return &printKernel{name: c.name, args: args, newline: c.newline, out: NewRef(value.Empty{})}, nil
}

func registerIO(r *Registry) {
	r.Register(printCompiler{name: "io/print", newline: false})
	r.Register(printCompiler{name: "io/println", newline: true})
}
