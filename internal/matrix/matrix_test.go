package matrix

import (
	"testing"

	"mech/internal/value"
)

func TestShapeOfNamesFixedShapes(t *testing.T) {
	tests := []struct {
		rows, cols int
		want       value.MatrixShape
	}{
		{1, 1, value.ShapeMatrix1},
		{2, 2, value.ShapeMatrix2},
		{3, 3, value.ShapeMatrix3},
		{4, 4, value.ShapeMatrix4},
		{2, 3, value.ShapeMatrix2x3},
		{3, 2, value.ShapeMatrix3x2},
		{2, 1, value.ShapeVector2},
		{1, 2, value.ShapeRowVector2},
		{5, 1, value.ShapeDVector},
		{1, 5, value.ShapeRowDVector},
		{5, 5, value.ShapeDMatrix},
	}
	for _, tt := range tests {
		if got := ShapeOf(tt.rows, tt.cols); got != tt.want {
			t.Errorf("ShapeOf(%d,%d) = %s, want %s", tt.rows, tt.cols, got, tt.want)
		}
	}
}

func TestMatrixAtSetRowMajor(t *testing.T) {
	m := Zero[int64](2, 3, value.Primitive(value.TagI64))
	m.Set(0, 2, 7)
	m.Set(1, 0, 9)
	if m.At(0, 2) != 7 {
		t.Errorf("At(0,2) = %d, want 7", m.At(0, 2))
	}
	if m.At(1, 0) != 9 {
		t.Errorf("At(1,0) = %d, want 9", m.At(1, 0))
	}
	if m.Data[2] != 7 || m.Data[3] != 9 {
		t.Errorf("row-major backing data wrong: %v", m.Data)
	}
}

func TestMatMulRowTimesCol(t *testing.T) {
	lhs := New[int64](1, 3, []int64{1, 2, 3}, value.Primitive(value.TagI64))
	rhs := New[int64](3, 1, []int64{4, 5, 6}, value.Primitive(value.TagI64))
	out, err := MatMul(lhs, rhs, value.Primitive(value.TagI64))
	if err != nil {
		t.Fatalf("MatMul: %v", err)
	}
	if out.Rows != 1 || out.Cols != 1 {
		t.Fatalf("output shape = %dx%d, want 1x1", out.Rows, out.Cols)
	}
	want := int64(1*4 + 2*5 + 3*6)
	if out.At(0, 0) != want {
		t.Errorf("MatMul = %d, want %d", out.At(0, 0), want)
	}
}

func TestMatMulDimensionMismatch(t *testing.T) {
	lhs := Zero[int64](2, 3, value.Primitive(value.TagI64))
	rhs := Zero[int64](2, 2, value.Primitive(value.TagI64))
	_, err := MatMul(lhs, rhs, value.Primitive(value.TagI64))
	if err == nil {
		t.Fatal("expected ErrDimensionMismatch for incompatible inner dimensions")
	}
	if _, ok := err.(*ErrDimensionMismatch); !ok {
		t.Errorf("error type = %T, want *ErrDimensionMismatch", err)
	}
}

func TestMatMulOutputShapeExact(t *testing.T) {
	lhs := New[float64](2, 2, []float64{1, 2, 3, 4}, value.Primitive(value.TagF64))
	rhs := New[float64](2, 2, []float64{5, 6, 7, 8}, value.Primitive(value.TagF64))
	out, err := MatMul(lhs, rhs, value.Primitive(value.TagF64))
	if err != nil {
		t.Fatalf("MatMul: %v", err)
	}
	want := []float64{19, 22, 43, 50}
	for i, w := range want {
		if out.Data[i] != w {
			t.Errorf("Data[%d] = %v, want %v", i, out.Data[i], w)
		}
	}
	if out.ShapeTag != value.ShapeMatrix2 {
		t.Errorf("output ShapeTag = %s, want Matrix2", out.ShapeTag)
	}
}

func TestTransposeDynamicShape(t *testing.T) {
	m := New[int64](2, 3, []int64{1, 2, 3, 4, 5, 6}, value.Primitive(value.TagI64))
	m.ShapeTag = value.ShapeDMatrix
	out := Transpose(m, value.Primitive(value.TagI64))
	if out.Rows != 3 || out.Cols != 2 {
		t.Fatalf("Transpose shape = %dx%d, want 3x2", out.Rows, out.Cols)
	}
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			if out.At(c, r) != m.At(r, c) {
				t.Errorf("Transpose mismatch at (%d,%d)", r, c)
			}
		}
	}
}

func TestDotProductRowTimesColumn(t *testing.T) {
	lhs := New[int64](1, 3, []int64{1, 2, 3}, value.Primitive(value.TagI64))
	rhs := New[int64](3, 1, []int64{4, 5, 6}, value.Primitive(value.TagI64))
	got, err := Dot(lhs, rhs)
	if err != nil {
		t.Fatalf("Dot: %v", err)
	}
	if got != 32 {
		t.Errorf("Dot = %d, want 32", got)
	}
}

func TestResolveMatMulShapeClosedSet(t *testing.T) {
	if _, ok := ResolveMatMulShape(value.ShapeMatrix2, value.ShapeMatrix2); !ok {
		t.Error("Matrix2 x Matrix2 should be in the resolved shape table")
	}
	if _, ok := ResolveMatMulShape(value.ShapeMatrix2, value.ShapeMatrix4); ok {
		t.Error("Matrix2 x Matrix4 should not resolve: incompatible pair not in the closed set")
	}
}

func TestMatrixKindStructuralEquality(t *testing.T) {
	a := New[int64](2, 2, []int64{1, 2, 3, 4}, value.Primitive(value.TagI64))
	b := New[int64](2, 2, []int64{9, 8, 7, 6}, value.Primitive(value.TagI64))
	if !a.Kind().Equal(b.Kind()) {
		t.Error("matrices of the same elem kind and shape should have equal Kind() regardless of data")
	}
}
