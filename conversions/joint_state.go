package conversions

import (
	"go.uber.org/multierr"

	"go.viam.com/lfcmsgs/msg"
	"go.viam.com/lfcmsgs/numeric"
)

// JointStateToMsg copies a joint state into its wire form. A zero-length position, velocity or
// effort vector is left empty; any other length must match the number of names.
func JointStateToMsg(js numeric.JointState) (msg.JointState, error) {
	n := len(js.Name)
	if err := multierr.Combine(
		checkJointField("position", n, vectorLen(js.Position)),
		checkJointField("velocity", n, vectorLen(js.Velocity)),
		checkJointField("effort", n, vectorLen(js.Effort)),
	); err != nil {
		return msg.JointState{}, err
	}
	return msg.JointState{
		Name:     append([]string{}, js.Name...),
		Position: vectorToSlice(js.Position),
		Velocity: vectorToSlice(js.Velocity),
		Effort:   vectorToSlice(js.Effort),
	}, nil
}

// JointStateFromMsg copies a wire joint state into vectors. Empty arrays become zero-length
// vectors rather than zero vectors sized to the joint count.
func JointStateFromMsg(m msg.JointState) (numeric.JointState, error) {
	n := len(m.Name)
	if err := multierr.Combine(
		checkJointField("position", n, len(m.Position)),
		checkJointField("velocity", n, len(m.Velocity)),
		checkJointField("effort", n, len(m.Effort)),
	); err != nil {
		return numeric.JointState{}, err
	}
	return numeric.JointState{
		Name:     append([]string{}, m.Name...),
		Position: sliceToVector(m.Position),
		Velocity: sliceToVector(m.Velocity),
		Effort:   sliceToVector(m.Effort),
	}, nil
}

func checkJointField(field string, names, actual int) error {
	if actual == 0 || actual == names {
		return nil
	}
	return NewShapeMismatchError(field, names, actual)
}
