package kernel

import (
	"testing"

	"mech/internal/matrix"
	"mech/internal/value"
)

func TestMatrixTransposeDynamicShape(t *testing.T) {
	m := matrix.New[float64](2, 3, []float64{1, 2, 3, 4, 5, 6}, value.Primitive(value.TagF64))
	c, ok := StandardRegistry().Lookup("matrix/transpose")
	if !ok {
		t.Fatal("matrix/transpose not registered")
	}
	k, err := c.Compile([]value.Value{m})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	out := solveAndGet(t, k).(*matrix.Matrix[float64])
	if out.Rows != 3 || out.Cols != 2 {
		t.Fatalf("transpose shape = %dx%d, want 3x2", out.Rows, out.Cols)
	}
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			if out.At(c, r) != m.At(r, c) {
				t.Errorf("transpose mismatch at (%d,%d)", r, c)
			}
		}
	}
}

func TestMatrixMatMulRowTimesColumn(t *testing.T) {
	lhs := matrix.New[float64](1, 3, []float64{1, 2, 3}, value.Primitive(value.TagF64))
	rhs := matrix.New[float64](3, 1, []float64{4, 5, 6}, value.Primitive(value.TagF64))

	c, ok := StandardRegistry().Lookup("matrix/matmul")
	if !ok {
		t.Fatal("matrix/matmul not registered")
	}
	k, err := c.Compile([]value.Value{lhs, rhs})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	out := solveAndGet(t, k)
	// a 1xN times Nx1 pair resolves to the dedicated dot kernel, yielding
	// a scalar rather than a 1x1 matrix.
	f, ok := out.(value.F64)
	if !ok {
		t.Fatalf("matmul(1x3, 3x1) = %T, want value.F64", out)
	}
	if f != 32 {
		t.Errorf("matmul(1x3, 3x1) = %v, want 32", f)
	}
}

func TestMatrixMatMulIntRowTimesColumn(t *testing.T) {
	lhs := matrix.New[int64](1, 3, []int64{1, 2, 3}, value.Primitive(value.TagI64))
	rhs := matrix.New[int64](3, 1, []int64{4, 5, 6}, value.Primitive(value.TagI64))

	c, ok := StandardRegistry().Lookup("matrix/matmul")
	if !ok {
		t.Fatal("matrix/matmul not registered")
	}
	k, err := c.Compile([]value.Value{lhs, rhs})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	out := solveAndGet(t, k)
	i, ok := out.(value.I64)
	if !ok {
		t.Fatalf("matmul(1x3, 3x1) int = %T, want value.I64", out)
	}
	if i != 32 {
		t.Errorf("matmul(1x3, 3x1) int = %v, want 32", i)
	}
}

func TestMatrixMatMulDimensionMismatchRejectedAtCompile(t *testing.T) {
	lhs := matrix.New[float64](2, 3, make([]float64, 6), value.Primitive(value.TagF64))
	rhs := matrix.New[float64](2, 2, make([]float64, 4), value.Primitive(value.TagF64))
	c, _ := StandardRegistry().Lookup("matrix/matmul")
	if _, err := c.Compile([]value.Value{lhs, rhs}); err == nil {
		t.Fatal("expected matrix/matmul Compile to reject an unsupported shape pair")
	}
}

func TestStatsSumRow(t *testing.T) {
	m := matrix.New[float64](2, 2, []float64{1, 2, 3, 4}, value.Primitive(value.TagF64))
	c, ok := StandardRegistry().Lookup("stats/sum/row")
	if !ok {
		t.Fatal("stats/sum/row not registered")
	}
	k, err := c.Compile([]value.Value{m})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	// sum/row collapses the row axis: one entry per column, a row
	// vector (Matrix3 -> RowVector3 in the grounding source).
	out := solveAndGet(t, k).(*matrix.Matrix[float64])
	if out.Rows != 1 || out.Cols != 2 {
		t.Fatalf("sum/row shape = %dx%d, want 1x2", out.Rows, out.Cols)
	}
	if out.At(0, 0) != 4 || out.At(0, 1) != 6 {
		t.Errorf("sum/row = [%v %v], want [4 6]", out.At(0, 0), out.At(0, 1))
	}
}

func TestStatsSumColumn(t *testing.T) {
	m := matrix.New[float64](2, 2, []float64{1, 2, 3, 4}, value.Primitive(value.TagF64))
	c, ok := StandardRegistry().Lookup("stats/sum/column")
	if !ok {
		t.Fatal("stats/sum/column not registered")
	}
	k, err := c.Compile([]value.Value{m})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	// sum/column collapses the column axis: one entry per row, a
	// column vector (Matrix3 -> Vector3 in the grounding source).
	out := solveAndGet(t, k).(*matrix.Matrix[float64])
	if out.Rows != 2 || out.Cols != 1 {
		t.Fatalf("sum/column shape = %dx%d, want 2x1", out.Rows, out.Cols)
	}
	if out.At(0, 0) != 3 || out.At(1, 0) != 7 {
		t.Errorf("sum/column = [%v %v], want [3 7]", out.At(0, 0), out.At(1, 0))
	}
}
