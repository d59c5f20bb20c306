package kernel

import "math"

// Kernel-visible opcode tags, mirroring the instruction families in
// spec.md section 4.5/6 (ConstLoad/NullOp/UnOp/BinOp/TernOp/QuadOp/
// VarArg/Ret). Defined in this package rather than imported from
// internal/bytecode to avoid a kernel <-> compiler <-> bytecode import
// cycle: internal/compiler depends on both kernel and bytecode and is
// the one place that needs to know these match bytecode's own opcode
// byte values (asserted there via bytecode.OpBinOp == kernel.OpcodeBinOp
// and friends, the exported copies below).
const (
	opConstLoad byte = iota
	opNullOp
	opUnOp
	opBinOp
	opTernOp
	opQuadOp
	opVarArg
	opRet
)

// Exported copies of the above, for internal/compiler to assert against
// internal/bytecode's own Opcode values at init time without kernel
// itself needing to import bytecode.
const (
	OpcodeConstLoad = opConstLoad
	OpcodeNullOp    = opNullOp
	OpcodeUnOp      = opUnOp
	OpcodeBinOp     = opBinOp
	OpcodeTernOp    = opTernOp
	OpcodeQuadOp    = opQuadOp
	OpcodeVarArg    = opVarArg
	OpcodeRet       = opRet
)

func mathAtan2(y, x float64) float64 { return math.Atan2(y, x) }
