package matrix

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"

	"mech/internal/value"
)

// Numeric is the element bound for Matrix[T], standing in for the
// original's trait bound over its numeric element types (spec.md
// section 4.1). golang.org/x/exp/constraints supplies the closed
// integer/float union instead of a hand-rolled interface.
type Numeric interface {
	constraints.Integer | constraints.Float
}

// Matrix is a row-major dense matrix over element type T, tagged with
// one of the shapes in spec.md section 3. Fixed shapes (Matrix2,
// Vector3, ...) and dynamic shapes (DMatrix, DVector, RowDVector) share
// this one representation; ShapeTag carries which fixed name applies, if
// any, purely for dispatch and printing.
type Matrix[T Numeric] struct {
	Rows, Cols int
	Data       []T // row-major, len == Rows*Cols
	ShapeTag   value.MatrixShape
	elemKind   value.ValueKind
}

// New builds a Matrix, inferring the closest fixed shape name from
// (rows, cols). data must have length rows*cols.
func New[T Numeric](rows, cols int, data []T, elemKind value.ValueKind) *Matrix[T] {
	if len(data) != rows*cols {
		panic(fmt.Sprintf("matrix.New: data length %d does not match %dx%d", len(data), rows, cols))
	}
	return &Matrix[T]{Rows: rows, Cols: cols, Data: data, ShapeTag: ShapeOf(rows, cols), elemKind: elemKind}
}

// Zero builds a zero-filled Matrix of the given dimensions.
func Zero[T Numeric](rows, cols int, elemKind value.ValueKind) *Matrix[T] {
	return New[T](rows, cols, make([]T, rows*cols), elemKind)
}

func (m *Matrix[T]) At(r, c int) T      { return m.Data[r*m.Cols+c] }
func (m *Matrix[T]) Set(r, c int, v T)  { m.Data[r*m.Cols+c] = v }

// Kind implements value.Value: structural equality over (elem kind,
// shape, dims), per spec.md section 3.
func (m *Matrix[T]) Kind() value.ValueKind {
	return value.Matrix(m.elemKind, m.ShapeTag, []int{m.Rows, m.Cols})
}

func (m *Matrix[T]) Shape() []int { return []int{m.Rows, m.Cols} }
func (m *Matrix[T]) Size() int    { return m.Rows * m.Cols }

func (m *Matrix[T]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for r := 0; r < m.Rows; r++ {
		if r > 0 {
			b.WriteString("; ")
		}
		for c := 0; c < m.Cols; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%v", m.At(r, c))
		}
	}
	b.WriteByte(']')
	return b.String()
}
