// Package numeric contains the linear-algebra form of the controller messages, as consumed by
// control algorithms.
//
// A vector of length zero means "unset". gonum cannot allocate zero-length vectors or matrices,
// so an empty value (mat.VecDense{} or mat.Dense{}) or a nil pointer stands in for them.
package numeric

import (
	"gonum.org/v1/gonum/mat"

	"go.viam.com/lfcmsgs/spatialmath"
)

// JointState holds the named joints of a robot. Position, Velocity and Effort each have length
// zero or len(Name).
type JointState struct {
	Name     []string
	Position *mat.VecDense
	Velocity *mat.VecDense
	Effort   *mat.VecDense
}

// Contact is a named contact point.
type Contact struct {
	Active bool
	Name   string
	// Wrench is [force(3) torque(3)].
	Wrench *mat.VecDense
	// Pose is [translation(3) quaternion x y z w].
	Pose *mat.VecDense
}

// Sensor is the measured robot state.
type Sensor struct {
	// BasePose is [translation(3) quaternion x y z w].
	BasePose *mat.VecDense
	// BaseTwist is [linear(3) angular(3)].
	BaseTwist  *mat.VecDense
	JointState JointState
	Contacts   []Contact
}

// Control is a linear feedback law around InitialState.
type Control struct {
	InitialState Sensor
	FeedbackGain *mat.Dense
	Feedforward  *mat.VecDense
}

// NewJointState returns a joint state for the given joints with every field unset.
func NewJointState(names ...string) JointState {
	return JointState{
		Name:     append([]string(nil), names...),
		Position: &mat.VecDense{},
		Velocity: &mat.VecDense{},
		Effort:   &mat.VecDense{},
	}
}

// NewContact returns an inactive contact at the origin with zero wrench.
func NewContact(name string) Contact {
	return Contact{
		Name:   name,
		Wrench: mat.NewVecDense(spatialmath.TwistVectorLen, nil),
		Pose:   spatialmath.NewZeroPoseVector(),
	}
}

// NewSensor returns a sensor at the identity base pose with zero base twist and no joints.
func NewSensor() Sensor {
	return Sensor{
		BasePose:   spatialmath.NewZeroPoseVector(),
		BaseTwist:  mat.NewVecDense(spatialmath.TwistVectorLen, nil),
		JointState: NewJointState(),
	}
}

// NewControl returns a control with an empty gain and feedforward.
func NewControl() Control {
	return Control{
		InitialState: NewSensor(),
		FeedbackGain: &mat.Dense{},
		Feedforward:  &mat.VecDense{},
	}
}

// Clone returns a deep copy of the joint state.
func (js JointState) Clone() JointState {
	return JointState{
		Name:     append([]string(nil), js.Name...),
		Position: CloneVector(js.Position),
		Velocity: CloneVector(js.Velocity),
		Effort:   CloneVector(js.Effort),
	}
}

// Clone returns a deep copy of the contact.
func (c Contact) Clone() Contact {
	return Contact{
		Active: c.Active,
		Name:   c.Name,
		Wrench: CloneVector(c.Wrench),
		Pose:   CloneVector(c.Pose),
	}
}

// Clone returns a deep copy of the sensor.
func (s Sensor) Clone() Sensor {
	var contacts []Contact
	if s.Contacts != nil {
		contacts = make([]Contact, 0, len(s.Contacts))
		for _, c := range s.Contacts {
			contacts = append(contacts, c.Clone())
		}
	}
	return Sensor{
		BasePose:   CloneVector(s.BasePose),
		BaseTwist:  CloneVector(s.BaseTwist),
		JointState: s.JointState.Clone(),
		Contacts:   contacts,
	}
}

// Clone returns a deep copy of the control.
func (c Control) Clone() Control {
	return Control{
		InitialState: c.InitialState.Clone(),
		FeedbackGain: CloneMatrix(c.FeedbackGain),
		Feedforward:  CloneVector(c.Feedforward),
	}
}

// VectorLen returns the length of v, treating nil as empty.
func VectorLen(v *mat.VecDense) int {
	if v == nil {
		return 0
	}
	return v.Len()
}

// CloneVector returns a copy of v. Empty and nil vectors clone to an empty vector.
func CloneVector(v *mat.VecDense) *mat.VecDense {
	if VectorLen(v) == 0 {
		return &mat.VecDense{}
	}
	var out mat.VecDense
	out.CloneFromVec(v)
	return &out
}

// CloneMatrix returns a copy of m. Empty and nil matrices clone to an empty matrix.
func CloneMatrix(m *mat.Dense) *mat.Dense {
	if m == nil || m.IsEmpty() {
		return &mat.Dense{}
	}
	return mat.DenseCopyOf(m)
}

// VectorsEqual reports whether a and b have the same length and elements. Nil and empty vectors
// are equal.
func VectorsEqual(a, b *mat.VecDense) bool {
	la, lb := VectorLen(a), VectorLen(b)
	if la != lb {
		return false
	}
	if la == 0 {
		return true
	}
	return mat.Equal(a, b)
}

// MatricesEqual reports whether a and b have the same shape and elements. Nil and empty matrices
// are equal.
func MatricesEqual(a, b *mat.Dense) bool {
	aEmpty := a == nil || a.IsEmpty()
	bEmpty := b == nil || b.IsEmpty()
	if aEmpty || bEmpty {
		return aEmpty == bEmpty
	}
	return mat.Equal(a, b)
}
