package conversions

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/lfcmsgs/msg"
	"go.viam.com/lfcmsgs/numeric"
	"go.viam.com/lfcmsgs/testutils"
)

func TestMatrixRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, shape := range [][2]int{{5, 6}, {1, 1}, {1, 7}, {7, 1}, {8, 4}, {0, 0}} {
		m := testutils.RandomMatrix(r, shape[0], shape[1])
		wire := MatrixToMsg(m)
		back, err := MatrixFromMsg(wire)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, numeric.MatricesEqual(m, back), test.ShouldBeTrue)
	}
}

func TestMatrixToMsgLayout(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	wire := MatrixToMsg(m)
	test.That(t, wire.Data, test.ShouldResemble, []float64{1, 2, 3, 4, 5, 6})
	test.That(t, wire.Layout.DataOffset, test.ShouldEqual, 0)
	test.That(t, wire.Layout.Dim, test.ShouldResemble, []msg.MultiArrayDimension{
		{Label: "rows", Size: 2, Stride: 6},
		{Label: "cols", Size: 3, Stride: 3},
	})

	empty := MatrixToMsg(nil)
	test.That(t, empty.Data, test.ShouldBeEmpty)
	test.That(t, empty.Layout.Dim[0].Size, test.ShouldEqual, 0)
	test.That(t, empty.Layout.Dim[1].Size, test.ShouldEqual, 0)
}

func TestMatrixFromMsgDoesNotAlias(t *testing.T) {
	wire := MatrixToMsg(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	m, err := MatrixFromMsg(wire)
	test.That(t, err, test.ShouldBeNil)
	wire.Data[0] = 100
	test.That(t, m.At(0, 0), test.ShouldEqual, 1)
}

func TestMatrixFromMsgDataOffset(t *testing.T) {
	wire := msg.Float64MultiArray{
		Layout: msg.MultiArrayLayout{
			Dim: []msg.MultiArrayDimension{
				{Label: "rows", Size: 2, Stride: 4},
				{Label: "cols", Size: 2, Stride: 2},
			},
			DataOffset: 1,
		},
		Data: []float64{-1, 1, 2, 3, 4},
	}
	m, err := MatrixFromMsg(wire)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.Equal(m, mat.NewDense(2, 2, []float64{1, 2, 3, 4})), test.ShouldBeTrue)
}

func TestMatrixFromMsgShapeMismatch(t *testing.T) {
	dims := func(rows, cols uint32) []msg.MultiArrayDimension {
		return []msg.MultiArrayDimension{{Label: "rows", Size: rows}, {Label: "cols", Size: cols}}
	}
	for _, tc := range []struct {
		name string
		in   msg.Float64MultiArray
		err  string
	}{
		{
			"too much data",
			msg.Float64MultiArray{Layout: msg.MultiArrayLayout{Dim: dims(2, 2)}, Data: []float64{1, 2, 3, 4, 5}},
			"data: expected length 4, got 5",
		},
		{
			"too little data",
			msg.Float64MultiArray{Layout: msg.MultiArrayLayout{Dim: dims(2, 3)}, Data: []float64{1, 2}},
			"data: expected length 6, got 2",
		},
		{
			"one dimension",
			msg.Float64MultiArray{
				Layout: msg.MultiArrayLayout{Dim: []msg.MultiArrayDimension{{Label: "rows", Size: 2}}},
				Data:   []float64{1, 2},
			},
			"expected 2 dimensions, got 1",
		},
		{
			"no layout",
			msg.Float64MultiArray{Data: []float64{1, 2}},
			"expected 2 dimensions, got 0",
		},
		{
			"offset past data",
			msg.Float64MultiArray{Layout: msg.MultiArrayLayout{Dim: dims(1, 1), DataOffset: 3}, Data: []float64{1}},
			"offset 3 is past the end of 1 values",
		},
		{
			"data for zero rows",
			msg.Float64MultiArray{Layout: msg.MultiArrayLayout{Dim: dims(0, 3)}, Data: []float64{1, 2, 3}},
			"data: expected length 0, got 3",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MatrixFromMsg(tc.in)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, errors.Is(err, ErrShapeMismatch), test.ShouldBeTrue)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.err)
		})
	}
}

func TestVectorRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	v := testutils.RandomVector(r, 8)
	wire := VectorToMsg(v)
	test.That(t, wire.Layout.Dim[0].Size, test.ShouldEqual, 8)
	test.That(t, wire.Layout.Dim[1].Size, test.ShouldEqual, 1)

	back, err := VectorFromMsg(wire)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, numeric.VectorsEqual(v, back), test.ShouldBeTrue)

	empty, err := VectorFromMsg(VectorToMsg(&mat.VecDense{}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, empty.Len(), test.ShouldEqual, 0)

	_, err = VectorFromMsg(MatrixToMsg(mat.NewDense(2, 2, nil)))
	test.That(t, errors.Is(err, ErrShapeMismatch), test.ShouldBeTrue)
}

func TestMatrixFromUnsetMsg(t *testing.T) {
	m, err := MatrixFromMsg(msg.Float64MultiArray{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.IsEmpty(), test.ShouldBeTrue)

	v, err := VectorFromMsg(msg.Float64MultiArray{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v.Len(), test.ShouldEqual, 0)
}
