// Package compiler assembles a solved block's plan into the
// self-describing bytecode format of spec.md section 6, and the
// reverse: reading a compiled program back into the form the block
// runtime can execute. It is the one package that depends on both
// internal/kernel (for the Compiler interface kernels lower themselves
// through) and internal/bytecode (for the wire format itself), and so
// is also the one place that can assert the two packages' opcode bytes
// actually agree — internal/kernel keeps its own unexported copies and
// exports them as kernel.Opcode* only for this check, so nothing *but*
// this package needs to know they line up, grounded on original_source/src/core/src/program/compiler/context.rs's
// CompileCtx.
package compiler

import (
	"mech/internal/block"
	"mech/internal/bytecode"
	mecherrors "mech/internal/errors"
	"mech/internal/kernel"
	"mech/internal/value"
)

func init() {
	assertOpcode(bytecode.OpConstLoad, kernel.OpcodeConstLoad)
	assertOpcode(bytecode.OpNullOp, kernel.OpcodeNullOp)
	assertOpcode(bytecode.OpUnOp, kernel.OpcodeUnOp)
	assertOpcode(bytecode.OpBinOp, kernel.OpcodeBinOp)
	assertOpcode(bytecode.OpTernOp, kernel.OpcodeTernOp)
	assertOpcode(bytecode.OpQuadOp, kernel.OpcodeQuadOp)
	assertOpcode(bytecode.OpVarArg, kernel.OpcodeVarArg)
	assertOpcode(bytecode.OpRet, kernel.OpcodeRet)
}

func assertOpcode(bc bytecode.Opcode, k byte) {
	if byte(bc) != k {
		panic(mecherrors.New(mecherrors.GenericError, "compiler: bytecode/kernel opcode mismatch: %s=%d, kernel=%d", bc, byte(bc), k))
	}
}

// Call is one resolved native-function invocation in a block's plan:
// the name it was dispatched under, the arguments it was bound to, and
// the concrete Kernel kernel.Dispatch selected for them.
type Call struct {
	Name   string
	Args   []value.Value
	Kernel kernel.Kernel
}

// BuildPlan lowers calls into the block.Step slice the scheduler
// actually runs; each step delegates straight to its kernel's Solve.
func BuildPlan(calls []Call) []block.Step {
	steps := make([]block.Step, len(calls))
	for i := range calls {
		k := calls[i].Kernel
		steps[i] = block.Step{Name: calls[i].Name, Solve: k.Solve}
	}
	return steps
}

// Ctx implements kernel.Compiler, accumulating a bytecode.Program as
// each call in a plan lowers itself via Kernel.Compile.
type Ctx struct {
	prog    *bytecode.Program
	regs    uint32
	fnIDs   map[string]uint32
	fnNames []string
	current uint32
}

func NewCtx() *Ctx {
	return &Ctx{prog: bytecode.NewProgram(), fnIDs: map[string]uint32{}}
}

// SetCurrentFunction records the name of the call about to invoke
// Compile, so the next Emit can attach its function id. Spec.md
// section 4.5's instruction formats all carry an `fxn_id`; kernels
// don't know their own dispatch name at Compile time (Kernel has no
// Name()), so the driver threads it through here instead.
func (c *Ctx) SetCurrentFunction(name string) {
	id, ok := c.fnIDs[name]
	if !ok {
		id = uint32(len(c.fnNames))
		c.fnIDs[name] = id
		c.fnNames = append(c.fnNames, name)
	}
	c.current = id
}

func (c *Ctx) AllocRegister() uint32 {
	r := c.regs
	c.regs++
	return r
}

func (c *Ctx) Emit(opcode byte, operands ...uint32) {
	op := bytecode.Opcode(opcode)
	var dst uint32
	var rest []uint32
	if len(operands) > 0 {
		dst = operands[0]
		rest = append([]uint32(nil), operands[1:]...)
	}
	c.prog.Instructions = append(c.prog.Instructions, bytecode.Instruction{
		Op:       op,
		FnID:     c.current,
		Dst:      dst,
		Operands: rest,
	})
}

func (c *Ctx) InternConst(v value.Value) uint32 {
	id, err := c.prog.Consts.Intern(v)
	if err != nil {
		// Non-scalar constants (matrices, tables, ...) are bound at
		// block-build time rather than interned into the blob; callers
		// that need their register to round-trip through bytecode must
		// have already allocated one via AllocRegister.
		return c.AllocRegister()
	}
	return id
}

// Compile runs every call in a plan through its Kernel.Compile and
// returns the assembled, CRC32-trailed byte buffer (spec.md section
// 6). RegCount on the returned program reflects every register this
// Ctx allocated, including ones calls reserved for their own output.
func Compile(calls []Call) ([]byte, error) {
	ctx := NewCtx()
	for _, call := range calls {
		ctx.SetCurrentFunction(call.Name)
		if _, err := call.Kernel.Compile(ctx); err != nil {
			return nil, mecherrors.Wrap(err, mecherrors.GenericError, "compiler: %s failed to lower", call.Name)
		}
	}
	for i, name := range ctx.fnNames {
		ctx.prog.Dict = append(ctx.prog.Dict, &bytecode.DictEntry{ID: uint64(i), Name: name})
	}
	ctx.prog.RegCount = ctx.regs
	return ctx.prog.Write()
}

// Read parses a compiled program back out of buf, verifying its CRC32
// trailer and internal offsets (bytecode.Read does both).
func Read(buf []byte) (*bytecode.Program, error) {
	return bytecode.Read(buf)
}
