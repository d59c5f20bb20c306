// Package bytecode implements Mech's self-describing compiled program
// format: a fixed header, a feature list, a content-addressed type
// section, a constant table and blob, a symbol table, an instruction
// stream, a name dictionary, and a CRC32 trailer (spec.md section 6).
//
// Grounded on original_source/src/core/src/compiler.rs and
// original_source/src/core/src/program/compiler/context.rs for section
// layout, and on the teacher's internal/vmregister/bytecode.go for the
// register-machine opcode-documentation idiom (iABC-style comments)
// adapted to this runtime's own, much smaller, instruction family.
package bytecode

// Opcode is the fixed instruction-family tag from spec.md section 4.5.
// Kept byte-identical to internal/kernel's unexported opcode constants;
// that parity is asserted in internal/compiler, the one package that
// imports both.
type Opcode byte

const (
	OpConstLoad Opcode = iota // ConstLoad dst, const_id       R(dst) = Const[const_id]
	OpNullOp                  // NullOp    fxn_id, dst         R(dst) = fxn_id()
	OpUnOp                    // UnOp      fxn_id, dst, src    R(dst) = fxn_id(R(src))
	OpBinOp                   // BinOp     fxn_id, dst, lhs, rhs  R(dst) = fxn_id(R(lhs), R(rhs))
	OpTernOp                  // TernOp    fxn_id, dst, a, b, c
	OpQuadOp                  // QuadOp    fxn_id, dst, a, b, c, d
	OpVarArg                  // VarArg    fxn_id, dst, args[]  R(dst) = fxn_id(R(args)...)
	OpRet                     // Ret       src                  return R(src)
)

func (op Opcode) String() string {
	switch op {
	case OpConstLoad:
		return "ConstLoad"
	case OpNullOp:
		return "NullOp"
	case OpUnOp:
		return "UnOp"
	case OpBinOp:
		return "BinOp"
	case OpTernOp:
		return "TernOp"
	case OpQuadOp:
		return "QuadOp"
	case OpVarArg:
		return "VarArg"
	case OpRet:
		return "Ret"
	default:
		return "Unknown"
	}
}

// operandCount returns how many trailing u32 operands follow dst for a
// fixed-arity opcode, or -1 for OpVarArg, whose operand count is instead
// stored explicitly in the instruction's encoded form (see Instruction).
func (op Opcode) operandCount() int {
	switch op {
	case OpConstLoad:
		return 1 // const_id
	case OpNullOp:
		return 0
	case OpUnOp:
		return 1 // src
	case OpBinOp:
		return 2 // lhs, rhs
	case OpTernOp:
		return 3 // a, b, c
	case OpQuadOp:
		return 4 // a, b, c, d
	case OpRet:
		return 0 // src is stored in dst's slot
	case OpVarArg:
		return -1
	default:
		return 0
	}
}

// Instruction is one decoded bytecode instruction: an opcode, the
// function id it dispatches to (zero for ConstLoad/Ret, which need
// none), a destination register, and the operand registers named by
// spec.md section 4.5's per-opcode operand lists.
type Instruction struct {
	Op       Opcode
	FnID     uint32
	Dst      uint32
	Operands []uint32
}
