// Package spatialmath defines helpers for the flat pose vectors used by the controller: a
// translation followed by the quaternion coefficients in (x, y, z, w) order.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

const (
	// PoseVectorLen is the length of a pose vector: 3 translation + 4 quaternion coefficients.
	PoseVectorLen = 7
	// TwistVectorLen is the length of a twist or wrench vector: 3 linear + 3 angular components.
	TwistVectorLen = 6
)

// If a quaternion's norm is below this, it cannot be normalized.
const quatNormEpsilon = 1e-12

// NewZeroPoseVector returns the pose vector of the identity transform.
func NewZeroPoseVector() *mat.VecDense {
	return NewPoseVector(r3.Vector{}, quat.Number{Real: 1})
}

// NewPoseVector packs a translation and a rotation into a pose vector.
func NewPoseVector(t r3.Vector, q quat.Number) *mat.VecDense {
	return mat.NewVecDense(PoseVectorLen, []float64{t.X, t.Y, t.Z, q.Imag, q.Jmag, q.Kmag, q.Real})
}

// PoseVectorTranslation returns the translation part of a pose vector.
func PoseVectorTranslation(v mat.Vector) (r3.Vector, error) {
	if err := checkPoseVector(v); err != nil {
		return r3.Vector{}, err
	}
	return r3.Vector{X: v.AtVec(0), Y: v.AtVec(1), Z: v.AtVec(2)}, nil
}

// PoseVectorQuaternion returns the rotation part of a pose vector. The coefficients are returned
// as stored, without normalization.
func PoseVectorQuaternion(v mat.Vector) (quat.Number, error) {
	if err := checkPoseVector(v); err != nil {
		return quat.Number{}, err
	}
	return quat.Number{Real: v.AtVec(6), Imag: v.AtVec(3), Jmag: v.AtVec(4), Kmag: v.AtVec(5)}, nil
}

// NormalizePoseVector scales the quaternion tail of v to unit norm in place.
func NormalizePoseVector(v *mat.VecDense) error {
	q, err := PoseVectorQuaternion(v)
	if err != nil {
		return err
	}
	n := quat.Abs(q)
	if n < quatNormEpsilon {
		return errors.New("cannot normalize a zero quaternion")
	}
	q = quat.Scale(1/n, q)
	v.SetVec(3, q.Imag)
	v.SetVec(4, q.Jmag)
	v.SetVec(5, q.Kmag)
	v.SetVec(6, q.Real)
	return nil
}

// QuaternionAlmostEqual is an equality test for all the float components of a quaternion.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	return float64AlmostEqual(a.Imag, b.Imag, tol) &&
		float64AlmostEqual(a.Jmag, b.Jmag, tol) &&
		float64AlmostEqual(a.Kmag, b.Kmag, tol) &&
		float64AlmostEqual(a.Real, b.Real, tol)
}

// PoseVectorAlmostEqual compares two pose vectors. The rotations compare equal when they
// represent the same orientation, so q and -q match.
func PoseVectorAlmostEqual(a, b mat.Vector, tol float64) bool {
	ta, err := PoseVectorTranslation(a)
	if err != nil {
		return false
	}
	tb, err := PoseVectorTranslation(b)
	if err != nil {
		return false
	}
	if !float64AlmostEqual(ta.X, tb.X, tol) || !float64AlmostEqual(ta.Y, tb.Y, tol) || !float64AlmostEqual(ta.Z, tb.Z, tol) {
		return false
	}
	qa, _ := PoseVectorQuaternion(a)
	qb, _ := PoseVectorQuaternion(b)
	return QuaternionAlmostEqual(qa, qb, tol) || QuaternionAlmostEqual(qa, quat.Scale(-1, qb), tol)
}

func checkPoseVector(v mat.Vector) error {
	if vd, ok := v.(*mat.VecDense); v == nil || (ok && vd == nil) {
		return errors.New("pose vector is nil")
	}
	if v.Len() != PoseVectorLen {
		return errors.Errorf("pose vector must have length %d, got %d", PoseVectorLen, v.Len())
	}
	return nil
}

func float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}
