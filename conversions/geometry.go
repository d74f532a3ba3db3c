package conversions

import (
	"gonum.org/v1/gonum/mat"

	"go.viam.com/lfcmsgs/msg"
	"go.viam.com/lfcmsgs/spatialmath"
)

// PoseToMsg converts a pose vector [x y z qx qy qz qw] into a pose message. The quaternion
// coefficients are copied as they are; no normalization is applied in either direction.
func PoseToMsg(v mat.Vector) (msg.Pose, error) {
	if n := vectorLen(v); n != spatialmath.PoseVectorLen {
		return msg.Pose{}, NewShapeMismatchError("pose", spatialmath.PoseVectorLen, n)
	}
	return msg.Pose{
		Position:    msg.Point{X: v.AtVec(0), Y: v.AtVec(1), Z: v.AtVec(2)},
		Orientation: msg.Quaternion{X: v.AtVec(3), Y: v.AtVec(4), Z: v.AtVec(5), W: v.AtVec(6)},
	}, nil
}

// PoseFromMsg converts a pose message into a pose vector [x y z qx qy qz qw].
func PoseFromMsg(p msg.Pose) *mat.VecDense {
	return mat.NewVecDense(spatialmath.PoseVectorLen, []float64{
		p.Position.X, p.Position.Y, p.Position.Z,
		p.Orientation.X, p.Orientation.Y, p.Orientation.Z, p.Orientation.W,
	})
}

// TwistToMsg converts a twist vector [linear(3) angular(3)] into a twist message.
func TwistToMsg(v mat.Vector) (msg.Twist, error) {
	lin, ang, err := splitSixVector("twist", v)
	if err != nil {
		return msg.Twist{}, err
	}
	return msg.Twist{Linear: lin, Angular: ang}, nil
}

// TwistFromMsg converts a twist message into a twist vector.
func TwistFromMsg(t msg.Twist) *mat.VecDense {
	return joinSixVector(t.Linear, t.Angular)
}

// WrenchToMsg converts a wrench vector [force(3) torque(3)] into a wrench message.
func WrenchToMsg(v mat.Vector) (msg.Wrench, error) {
	force, torque, err := splitSixVector("wrench", v)
	if err != nil {
		return msg.Wrench{}, err
	}
	return msg.Wrench{Force: force, Torque: torque}, nil
}

// WrenchFromMsg converts a wrench message into a wrench vector.
func WrenchFromMsg(w msg.Wrench) *mat.VecDense {
	return joinSixVector(w.Force, w.Torque)
}

func splitSixVector(field string, v mat.Vector) (msg.Vector3, msg.Vector3, error) {
	if n := vectorLen(v); n != spatialmath.TwistVectorLen {
		return msg.Vector3{}, msg.Vector3{}, NewShapeMismatchError(field, spatialmath.TwistVectorLen, n)
	}
	return msg.Vector3{X: v.AtVec(0), Y: v.AtVec(1), Z: v.AtVec(2)},
		msg.Vector3{X: v.AtVec(3), Y: v.AtVec(4), Z: v.AtVec(5)},
		nil
}

func joinSixVector(a, b msg.Vector3) *mat.VecDense {
	return mat.NewVecDense(spatialmath.TwistVectorLen, []float64{a.X, a.Y, a.Z, b.X, b.Y, b.Z})
}
