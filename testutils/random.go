package testutils

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/lfcmsgs/numeric"
	"go.viam.com/lfcmsgs/spatialmath"
)

// RandomVector returns a vector of n values drawn uniformly from [-1, 1).
func RandomVector(r *rand.Rand, n int) *mat.VecDense {
	if n == 0 {
		return &mat.VecDense{}
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = 2*r.Float64() - 1
	}
	return mat.NewVecDense(n, data)
}

// RandomMatrix returns a rows x cols matrix of values drawn uniformly from [-1, 1).
func RandomMatrix(r *rand.Rand, rows, cols int) *mat.Dense {
	if rows == 0 || cols == 0 {
		return &mat.Dense{}
	}
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = 2*r.Float64() - 1
	}
	return mat.NewDense(rows, cols, data)
}

// RandomPose returns a pose vector with a random translation and a random unit quaternion.
func RandomPose(r *rand.Rand) *mat.VecDense {
	v := RandomVector(r, spatialmath.PoseVectorLen)
	q, _ := spatialmath.PoseVectorQuaternion(v)
	for quat.Abs(q) < 1e-3 {
		v = RandomVector(r, spatialmath.PoseVectorLen)
		q, _ = spatialmath.PoseVectorQuaternion(v)
	}
	if err := spatialmath.NormalizePoseVector(v); err != nil {
		panic(err)
	}
	return v
}

// RandomJointState returns a joint state with every field set to random values.
func RandomJointState(r *rand.Rand, names ...string) numeric.JointState {
	return numeric.JointState{
		Name:     append([]string(nil), names...),
		Position: RandomVector(r, len(names)),
		Velocity: RandomVector(r, len(names)),
		Effort:   RandomVector(r, len(names)),
	}
}

// RandomSensor returns a sensor for a robot with six joints and two feet, the left one in
// contact.
func RandomSensor(r *rand.Rand) numeric.Sensor {
	return numeric.Sensor{
		BasePose:   RandomPose(r),
		BaseTwist:  RandomVector(r, spatialmath.TwistVectorLen),
		JointState: RandomJointState(r, "1", "2", "3", "4", "5", "6"),
		Contacts: []numeric.Contact{
			{
				Active: true,
				Name:   "left_foot",
				Wrench: RandomVector(r, spatialmath.TwistVectorLen),
				Pose:   RandomVector(r, spatialmath.PoseVectorLen),
			},
			{
				Active: false,
				Name:   "right_foot",
				Wrench: RandomVector(r, spatialmath.TwistVectorLen),
				Pose:   RandomVector(r, spatialmath.PoseVectorLen),
			},
		},
	}
}

// RandomControl returns a control around a random sensor with an 8x4 gain.
func RandomControl(r *rand.Rand) numeric.Control {
	return numeric.Control{
		InitialState: RandomSensor(r),
		FeedbackGain: RandomMatrix(r, 8, 4),
		Feedforward:  RandomVector(r, 8),
	}
}
