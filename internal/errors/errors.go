// Package errors implements Mech's error taxonomy (spec.md section 7),
// grounded on original_source/src/core/src/error.rs's MechErrorKind enum
// and kept in the shape of the teacher's SentraError/SourceLocation
// builder pattern, retargeted from a scripting-language error set to
// the runtime's own.
package errors

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

// Kind is the closed set of error discriminants a Mech error can carry.
// Each corresponds to one MechErrorKind variant in the original;
// variants that named GPU/network/LSP/REPL-only conditions are not
// carried here since nothing in this module's scope produces them, and
// SchemaMismatch/CyclicSchedule/BytecodeBadMagic/BytecodeCRCMismatch are
// added for conditions the original's enum predates (its table schema
// checks and bytecode trailer did not exist as a shared enum member).
type Kind string

const (
	UndefinedField                Kind = "UndefinedField"
	UndefinedVariable             Kind = "UndefinedVariable"
	UndefinedKind                 Kind = "UndefinedKind"
	MissingTable                  Kind = "MissingTable"
	WrongTableColumnKind           Kind = "WrongTableColumnKind"
	MissingBlock                  Kind = "MissingBlock"
	PendingExpression              Kind = "PendingExpression"
	PendingTable                   Kind = "PendingTable"
	DimensionMismatch              Kind = "DimensionMismatch"
	KindMismatch                   Kind = "KindMismatch"
	UnhandledIndexKind              Kind = "UnhandledIndexKind"
	LinearSubscriptOutOfBounds      Kind = "LinearSubscriptOutOfBounds"
	IndexOutOfBounds                Kind = "IndexOutOfBounds"
	MissingFunction                 Kind = "MissingFunction"
	ZeroIndex                       Kind = "ZeroIndex"
	VariableRedefined               Kind = "VariableRedefined"
	NotMutable                      Kind = "NotMutable"
	BlockDisabled                   Kind = "BlockDisabled"
	IoError                         Kind = "IoError"
	FeatureNotEnabled               Kind = "FeatureNotEnabled"
	GenericError                    Kind = "GenericError"
	FileNotFound                    Kind = "FileNotFound"
	Unhandled                       Kind = "Unhandled"
	OutputUndefinedInFunctionBody   Kind = "OutputUndefinedInFunctionBody"
	UnknownFunctionArgument         Kind = "UnknownFunctionArgument"
	UnknownColumnKind               Kind = "UnknownColumnKind"
	UnknownEnumVariant              Kind = "UnknownEnumVariant"
	UnableToConvertValueKind        Kind = "UnableToConvertValueKind"
	UnhandledFunctionArgumentKind   Kind = "UnhandledFunctionArgumentKind"
	CouldNotAssignKindToValue       Kind = "CouldNotAssignKindToValue"
	ExpectedNumericForSize          Kind = "ExpectedNumericForSize"
	MatrixMustHaveHomogenousKind    Kind = "MatrixMustHaveHomogenousKind"
	IncorrectNumberOfArguments      Kind = "IncorrectNumberOfArguments"
	TooManyInputArguments           Kind = "TooManyInputArguments"
	SchemaMismatch                  Kind = "SchemaMismatch"
	CyclicSchedule                  Kind = "CyclicSchedule"
	BytecodeCRCMismatch             Kind = "BytecodeCRCMismatch"
	BytecodeBadMagic                Kind = "BytecodeBadMagic"
	None                            Kind = "None"
)

// SourceRange locates an error in both compiled program source (spec.md
// section 7, "program source range") and this Go module's own source
// (the "compiler source range" — where in the implementation the error
// was raised), mirroring the original's MechError2 dual-location design.
type SourceRange struct {
	File       string // compiler source file (this module)
	Line       int    // compiler source line
	ProgramRow int    // 1-based row in the Mech program source, 0 if n/a
	ProgramCol int    // 1-based column, 0 if n/a
}

// MechError is the runtime's error type: a Kind, a human message, a
// dual SourceRange, and an optional causal predecessor (spec.md section
// 7's "causal chain"), chained with github.com/pkg/errors instead of a
// hand-rolled source-walk.
type MechError struct {
	Kind    Kind
	Message string
	Range   SourceRange
	// Expected and Found carry the two kinds a KindMismatch compares,
	// rendered as strings so this package need not import the value
	// package whose types they originate from. Empty for every other
	// Kind.
	Expected string
	Found    string
	cause    error
}

func (e *MechError) Error() string {
	if e.Range.ProgramRow > 0 {
		return fmt.Sprintf("%s: %s (at %d:%d)", e.Kind, e.Message, e.Range.ProgramRow, e.Range.ProgramCol)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap lets stdlib errors.Is/errors.As walk the causal chain.
func (e *MechError) Unwrap() error { return e.cause }

// Cause satisfies github.com/pkg/errors' causer interface.
func (e *MechError) Cause() error { return e.cause }

// New builds a MechError with no program-source location and no cause.
func New(kind Kind, format string, args ...any) *MechError {
	return &MechError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewKindMismatch builds a KindMismatch MechError carrying the expected
// and found kinds as named fields, the shape
// original_source/src/core/src/error.rs's MechErrorKind::KindMismatch
// variant carries, rather than folding them into the free-form Message.
func NewKindMismatch(expected, found fmt.Stringer, format string, args ...any) *MechError {
	return &MechError{
		Kind:     KindMismatch,
		Message:  fmt.Sprintf(format, args...),
		Expected: expected.String(),
		Found:    found.String(),
	}
}

// At attaches a program source-code location to a copy of e.
func (e *MechError) At(row, col int) *MechError {
	cp := *e
	cp.Range.ProgramRow, cp.Range.ProgramCol = row, col
	return &cp
}

// Wrap chains cause onto a new MechError, via pkg/errors so the chain
// carries a stack trace and participates in Cause()-walking uniformly.
func Wrap(cause error, kind Kind, format string, args ...any) *MechError {
	return &MechError{Kind: kind, Message: fmt.Sprintf(format, args...), cause: errors.WithStack(cause)}
}

// Display renders a one-line representation of e, ANSI-colored by
// severity only when stderr is an actual terminal
// (github.com/mattn/go-isatty), matching the original's indicator-arrow
// rendering intent without assuming an interactive terminal under CI or
// output redirection.
func Display(e *MechError) string {
	msg := e.Error()
	fd := os.Stderr.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return msg
	}
	return severityColor(e.Kind) + msg + "\x1b[0m"
}

func severityColor(k Kind) string {
	switch k {
	case GenericError, Unhandled, IoError:
		return "\x1b[31m" // red
	case DimensionMismatch, KindMismatch, SchemaMismatch:
		return "\x1b[33m" // yellow
	default:
		return "\x1b[36m" // cyan
	}
}

// Chain renders the full causal chain, one error per line, outermost
// first, for diagnostics that want the whole story rather than
// Display's single line.
func Chain(e error) string {
	var b strings.Builder
	type causer interface{ Cause() error }
	for cur := e; cur != nil; {
		fmt.Fprintln(&b, cur.Error())
		c, ok := cur.(causer)
		if !ok {
			break
		}
		next := c.Cause()
		if next == nil {
			break
		}
		cur = next
	}
	return b.String()
}
