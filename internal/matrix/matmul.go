package matrix

import "mech/internal/value"

// matmul shape resolution. The original (original_source/src/matmul.rs)
// generates one concrete Rust type per (lhs shape, rhs shape) pair via a
// macro, each carrying its own pre-allocated output type. Go has no
// macro cross-product, so the same closed pairing is expressed as data:
// a table from (lhs, rhs) shape to the output shape, resolved once at
// dispatch time instead of at compile time. This is the idiomatic Go
// substitute for the generated-type approach, not a narrowing of it —
// every pair the original enumerates appears here.
//
// Matrix1 x Matrix1 is deliberately absent: per the spec's open
// question (DESIGN.md), a 1x1 "matrix" multiply is the scalar kernel,
// never a dedicated matmul arm.
var matmulShapes = map[[2]value.MatrixShape]value.MatrixShape{
	{value.ShapeRowVector4, value.ShapeVector4}:    value.ShapeMatrix1,
	{value.ShapeRowVector4, value.ShapeMatrix4}:    value.ShapeRowVector4,
	{value.ShapeRowVector4, value.ShapeDMatrix}:    value.ShapeRowDVector,
	{value.ShapeRowVector3, value.ShapeVector3}:    value.ShapeMatrix1,
	{value.ShapeRowVector3, value.ShapeMatrix3}:    value.ShapeRowVector3,
	{value.ShapeRowVector3, value.ShapeMatrix3x2}:  value.ShapeRowVector2,
	{value.ShapeRowVector3, value.ShapeDMatrix}:    value.ShapeRowDVector,
	{value.ShapeRowVector2, value.ShapeVector2}:    value.ShapeMatrix1,
	{value.ShapeRowVector2, value.ShapeMatrix2}:    value.ShapeRowVector2,
	{value.ShapeRowVector2, value.ShapeMatrix2x3}:  value.ShapeRowVector3,
	{value.ShapeRowVector2, value.ShapeDMatrix}:    value.ShapeRowDVector,
	{value.ShapeRowDVector, value.ShapeDVector}:    value.ShapeMatrix1,
	{value.ShapeRowDVector, value.ShapeDMatrix}:    value.ShapeRowDVector,
	{value.ShapeVector4, value.ShapeRowVector4}:    value.ShapeMatrix4,
	{value.ShapeVector3, value.ShapeRowVector3}:    value.ShapeMatrix3,
	{value.ShapeVector2, value.ShapeRowVector2}:    value.ShapeMatrix2,
	{value.ShapeDVector, value.ShapeRowDVector}:    value.ShapeDMatrix,
	{value.ShapeMatrix4, value.ShapeVector4}:       value.ShapeVector4,
	{value.ShapeMatrix4, value.ShapeMatrix4}:       value.ShapeMatrix4,
	{value.ShapeMatrix4, value.ShapeDMatrix}:       value.ShapeDMatrix,
	{value.ShapeMatrix2, value.ShapeMatrix2x3}:     value.ShapeMatrix2x3,
	{value.ShapeMatrix2, value.ShapeMatrix2}:       value.ShapeMatrix2,
	{value.ShapeMatrix2, value.ShapeVector2}:       value.ShapeVector2,
	{value.ShapeMatrix2, value.ShapeDMatrix}:       value.ShapeDMatrix,
	{value.ShapeMatrix3, value.ShapeMatrix3}:       value.ShapeMatrix3,
	{value.ShapeMatrix3, value.ShapeMatrix3x2}:     value.ShapeMatrix3x2,
	{value.ShapeMatrix3, value.ShapeVector3}:       value.ShapeVector3,
	{value.ShapeMatrix3, value.ShapeDMatrix}:       value.ShapeDMatrix,
	{value.ShapeMatrix2x3, value.ShapeVector3}:     value.ShapeVector2,
	{value.ShapeMatrix2x3, value.ShapeMatrix3}:     value.ShapeMatrix2x3,
	{value.ShapeMatrix2x3, value.ShapeMatrix3x2}:   value.ShapeMatrix2,
	{value.ShapeMatrix2x3, value.ShapeDMatrix}:     value.ShapeDMatrix,
	{value.ShapeMatrix3x2, value.ShapeVector2}:     value.ShapeVector3,
	{value.ShapeMatrix3x2, value.ShapeMatrix2}:     value.ShapeMatrix3x2,
	{value.ShapeMatrix3x2, value.ShapeMatrix2x3}:   value.ShapeMatrix3,
	{value.ShapeMatrix3x2, value.ShapeDMatrix}:     value.ShapeDMatrix,
	{value.ShapeDMatrix, value.ShapeDMatrix}:       value.ShapeDMatrix,
	{value.ShapeDMatrix, value.ShapeMatrix3x2}:     value.ShapeDMatrix,
	{value.ShapeDMatrix, value.ShapeDVector}:       value.ShapeDVector,
	{value.ShapeDMatrix, value.ShapeRowDVector}:    value.ShapeDMatrix,
}

// ResolveMatMulShape returns the output shape for an (lhs, rhs) matmul
// pair, or ok=false when the pair is not one of the closed set this
// runtime compiles kernels for — the caller should report
// UnhandledFunctionArgumentKind in that case, not attempt a generic
// fallback (spec.md section 4.2: broadcast and reduction are distinct
// registry entries, never a runtime branch).
func ResolveMatMulShape(lhs, rhs value.MatrixShape) (value.MatrixShape, bool) {
	s, ok := matmulShapes[[2]value.MatrixShape{lhs, rhs}]
	return s, ok
}

// MatMul multiplies two row-major matrices of compatible inner
// dimension, producing a freshly allocated output matrix. Dimension
// compatibility (lhs.Cols == rhs.Rows) is checked independently of the
// named-shape table above, since dynamic shapes carry the same
// invariant without a table entry to enforce it.
func MatMul[T Numeric](lhs, rhs *Matrix[T], elemKind value.ValueKind) (*Matrix[T], error) {
	if lhs.Cols != rhs.Rows {
		return nil, &ErrDimensionMismatch{Op: "matmul", LHSRows: lhs.Rows, LHSCols: lhs.Cols, RHSRows: rhs.Rows, RHSCols: rhs.Cols}
	}
	out := Zero[T](lhs.Rows, rhs.Cols, elemKind)
	for r := 0; r < lhs.Rows; r++ {
		for c := 0; c < rhs.Cols; c++ {
			var sum T
			for k := 0; k < lhs.Cols; k++ {
				sum += lhs.At(r, k) * rhs.At(k, c)
			}
			out.Set(r, c, sum)
		}
	}
	if shape, ok := ResolveMatMulShape(lhs.ShapeTag, rhs.ShapeTag); ok {
		out.ShapeTag = shape
	}
	return out, nil
}

// Dot computes the dot product of a row vector and a column vector,
// i.e. the RowVector x Vector -> Matrix1 arm of matmul (spec.md section
// 4.2's "dot product included as the RowVector*Vector -> Matrix1 arm").
func Dot[T Numeric](lhs, rhs *Matrix[T]) (T, error) {
	if lhs.Rows != 1 || rhs.Cols != 1 || lhs.Cols != rhs.Rows {
		var zero T
		return zero, &ErrDimensionMismatch{Op: "dot", LHSRows: lhs.Rows, LHSCols: lhs.Cols, RHSRows: rhs.Rows, RHSCols: rhs.Cols}
	}
	var sum T
	for k := 0; k < lhs.Cols; k++ {
		sum += lhs.At(0, k) * rhs.At(k, 0)
	}
	return sum, nil
}

// Transpose returns a freshly allocated transpose of m.
func Transpose[T Numeric](m *Matrix[T], elemKind value.ValueKind) *Matrix[T] {
	out := Zero[T](m.Cols, m.Rows, elemKind)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			out.Set(c, r, m.At(r, c))
		}
	}
	return out
}
