// Package kernel implements Mech's native function registry and
// dispatch (spec.md section 4.2), grounded on
// original_source/src/core/src/functions.rs's MechFunction /
// NativeFunctionCompiler traits: a kernel is solved, produces one
// output value, and knows how to lower itself into the bytecode
// compiler's instruction stream.
package kernel

import (
	"github.com/rs/zerolog"

	"mech/internal/config"
	"mech/internal/value"
)

var log = zerolog.Nop()

// SetLogger installs the package-level diagnostic logger.
func SetLogger(l zerolog.Logger) { log = l }

// Kernel is one monomorphic unit of work selected by dispatch for a
// given (operation, element kind, shape combination) — the Go analogue
// of the original's MechFunctionImpl + MechFunctionCompiler pair,
// merged into one interface since this module has no separate
// "no compiler" build configuration.
type Kernel interface {
	// Solve executes the kernel against its bound arguments and writes
	// its result to its own output cell.
	Solve() error
	// Out returns the kernel's current output value.
	Out() value.Value
	// Compile lowers this kernel's invocation into one or more bytecode
	// instructions, returning the destination register holding Out().
	Compile(ctx Compiler) (uint32, error)
}

// Compiler is the subset of the bytecode compiler a kernel needs to
// lower itself: allocate a register and emit an instruction referencing
// it. Defined here (rather than importing internal/compiler directly)
// to avoid kernel <-> compiler import cycle — internal/compiler depends
// on kernel, not the reverse.
type Compiler interface {
	AllocRegister() uint32
	Emit(opcode byte, operands ...uint32)
	InternConst(v value.Value) uint32
}

// NativeFunctionCompiler is the registry entry for one named native
// function family: given fully-evaluated arguments, it selects and
// constructs the one concrete Kernel that matches their runtime kinds
// and shapes, or reports why none does.
type NativeFunctionCompiler interface {
	Name() string
	Compile(args []value.Value) (Kernel, error)
}

// Registry holds every NativeFunctionCompiler known to this runtime,
// keyed by name (mirrors Functions.function_compilers, keyed by
// hash(name) in the original — this module keys on the name itself
// since Go map lookups on strings are already O(1) and the original's
// hashing exists mainly to fit a no_std-compatible embedded table).
type Registry struct {
	compilers map[string]NativeFunctionCompiler
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{compilers: map[string]NativeFunctionCompiler{}}
}

// Register adds c under its own Name(), overwriting any prior
// registration under that name.
func (r *Registry) Register(c NativeFunctionCompiler) {
	r.compilers[c.Name()] = c
	log.Debug().Str("fn", c.Name()).Msg("registered native function")
}

// Lookup returns the compiler registered under name, if any.
func (r *Registry) Lookup(name string) (NativeFunctionCompiler, bool) {
	c, ok := r.compilers[name]
	return c, ok
}

// StandardRegistry builds a Registry pre-populated with every native
// function family this runtime ships (spec.md section 4.2's listed
// families), wired by the native_*.go files in this package, with
// nothing feature-gated out.
func StandardRegistry() *Registry {
	return FilteredRegistry(config.Default())
}

// FilteredRegistry builds the same registry StandardRegistry does,
// then removes every NativeFunctionCompiler whose own name fs reports
// disabled — the feature-flag gate over whole native function families,
// driven by an internal/config.FeatureSet a host may have loaded from a
// reduced-build-profile YAML file. Element kinds and matrix shapes are
// not gated: a family that stays registered dispatches every kind and
// shape it supports.
func FilteredRegistry(fs *config.FeatureSet) *Registry {
	r := NewRegistry()
	registerMath(r)
	registerMatrix(r)
	registerStats(r)
	registerCombinatorics(r)
	registerCompare(r)
	registerLogic(r)
	registerConvert(r)
	registerIO(r)
	for name := range r.compilers {
		if !fs.IsEnabled(name) {
			delete(r.compilers, name)
		}
	}
	return r
}
