// Package conversions maps the controller's wire messages (package msg) to and from their
// linear-algebra form (package numeric).
//
// Every function reads its source and returns a freshly allocated destination, so the two never
// share memory. Length and shape mismatches are reported as errors wrapping ErrShapeMismatch.
package conversions

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"go.viam.com/lfcmsgs/msg"
)

const (
	rowsLabel = "rows"
	colsLabel = "cols"
)

// MatrixToMsg flattens m in row-major order. A nil or empty matrix becomes a 0x0 array.
func MatrixToMsg(m mat.Matrix) msg.Float64MultiArray {
	rows, cols := matrixDims(m)
	data := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return msg.Float64MultiArray{
		Layout: msg.MultiArrayLayout{
			Dim: []msg.MultiArrayDimension{
				{Label: rowsLabel, Size: uint32(rows), Stride: uint32(rows * cols)},
				{Label: colsLabel, Size: uint32(cols), Stride: uint32(cols)},
			},
		},
		Data: data,
	}
}

// MatrixFromMsg rebuilds a matrix from its row-major flattening. The layout must have exactly two
// dimensions and the data must hold exactly rows*cols values past the data offset. An array with
// zero rows or columns, or an entirely unset array, yields an empty matrix.
func MatrixFromMsg(m msg.Float64MultiArray) (*mat.Dense, error) {
	if len(m.Layout.Dim) == 0 && len(m.Data) == 0 {
		return &mat.Dense{}, nil
	}
	if len(m.Layout.Dim) != 2 {
		return nil, NewLayoutError("layout.dim", fmt.Sprintf("expected 2 dimensions, got %d", len(m.Layout.Dim)))
	}
	rows, cols := int(m.Layout.Dim[0].Size), int(m.Layout.Dim[1].Size)
	offset := int(m.Layout.DataOffset)
	if offset > len(m.Data) {
		return nil, NewLayoutError("layout.data_offset",
			fmt.Sprintf("offset %d is past the end of %d values", offset, len(m.Data)))
	}
	data := m.Data[offset:]
	if len(data) != rows*cols {
		return nil, NewShapeMismatchError("data", rows*cols, len(data))
	}
	if rows == 0 || cols == 0 {
		return &mat.Dense{}, nil
	}
	return mat.NewDense(rows, cols, append([]float64(nil), data...)), nil
}

// VectorToMsg encodes v as an n x 1 matrix.
func VectorToMsg(v mat.Vector) msg.Float64MultiArray {
	return MatrixToMsg(asColumn(v))
}

// VectorFromMsg decodes an n x 1 matrix into a vector. An empty array yields an empty vector.
func VectorFromMsg(m msg.Float64MultiArray) (*mat.VecDense, error) {
	dense, err := MatrixFromMsg(m)
	if err != nil {
		return nil, err
	}
	if dense.IsEmpty() {
		return &mat.VecDense{}, nil
	}
	if _, cols := dense.Dims(); cols != 1 {
		return nil, NewShapeMismatchError("layout.dim[1].size", 1, cols)
	}
	return mat.VecDenseCopyOf(dense.ColView(0)), nil
}

// matrixDims returns the dimensions of m, treating nil and empty matrices as 0x0.
func matrixDims(m mat.Matrix) (int, int) {
	switch t := m.(type) {
	case nil:
		return 0, 0
	case *mat.Dense:
		if t == nil || t.IsEmpty() {
			return 0, 0
		}
	case *mat.VecDense:
		if t == nil || t.IsEmpty() {
			return 0, 0
		}
	}
	return m.Dims()
}

// vectorLen returns the length of v, treating nil and empty vectors as zero-length.
func vectorLen(v mat.Vector) int {
	switch t := v.(type) {
	case nil:
		return 0
	case *mat.VecDense:
		if t == nil || t.IsEmpty() {
			return 0
		}
	}
	return v.Len()
}

func asColumn(v mat.Vector) mat.Matrix {
	if vectorLen(v) == 0 {
		return nil
	}
	return v
}

// vectorToSlice copies v into a new slice. Zero-length vectors give an empty, non-nil slice.
func vectorToSlice(v mat.Vector) []float64 {
	n := vectorLen(v)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = v.AtVec(i)
	}
	return out
}

// sliceToVector copies data into a new vector. An empty slice gives an empty vector.
func sliceToVector(data []float64) *mat.VecDense {
	if len(data) == 0 {
		return &mat.VecDense{}
	}
	return mat.NewVecDense(len(data), append([]float64(nil), data...))
}
