package conversions

import (
	"fmt"

	"go.uber.org/multierr"

	"go.viam.com/lfcmsgs/msg"
	"go.viam.com/lfcmsgs/numeric"
)

// ContactsToMsg converts contacts one by one, keeping their order. Errors from every contact are
// reported together.
func ContactsToMsg(contacts []numeric.Contact) ([]msg.Contact, error) {
	out := make([]msg.Contact, len(contacts))
	var errs error
	for i, c := range contacts {
		wrench, wErr := WrenchToMsg(c.Wrench)
		pose, pErr := PoseToMsg(c.Pose)
		if err := multierr.Combine(wErr, pErr); err != nil {
			errs = multierr.Append(errs, withField(fmt.Sprintf("contacts[%d]", i), err))
			continue
		}
		out[i] = msg.Contact{Active: c.Active, Name: c.Name, Wrench: wrench, Pose: pose}
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// ContactsFromMsg converts wire contacts one by one, keeping their order.
func ContactsFromMsg(contacts []msg.Contact) []numeric.Contact {
	out := make([]numeric.Contact, len(contacts))
	for i, c := range contacts {
		out[i] = numeric.Contact{
			Active: c.Active,
			Name:   c.Name,
			Wrench: WrenchFromMsg(c.Wrench),
			Pose:   PoseFromMsg(c.Pose),
		}
	}
	return out
}

// SensorToMsg converts a sensor into its wire form. The header is left zero for the caller to
// fill in.
func SensorToMsg(s numeric.Sensor) (msg.Sensor, error) {
	pose, poseErr := PoseToMsg(s.BasePose)
	twist, twistErr := TwistToMsg(s.BaseTwist)
	js, jsErr := JointStateToMsg(s.JointState)
	contacts, contactsErr := ContactsToMsg(s.Contacts)
	if err := multierr.Combine(
		withField("base_pose", poseErr),
		withField("base_twist", twistErr),
		withField("joint_state", jsErr),
		contactsErr,
	); err != nil {
		return msg.Sensor{}, err
	}
	return msg.Sensor{
		BasePose:   pose,
		BaseTwist:  twist,
		JointState: js,
		Contacts:   contacts,
	}, nil
}

// SensorFromMsg converts a wire sensor into its numeric form.
func SensorFromMsg(m msg.Sensor) (numeric.Sensor, error) {
	js, err := JointStateFromMsg(m.JointState)
	if err != nil {
		return numeric.Sensor{}, withField("joint_state", err)
	}
	return numeric.Sensor{
		BasePose:   PoseFromMsg(m.BasePose),
		BaseTwist:  TwistFromMsg(m.BaseTwist),
		JointState: js,
		Contacts:   ContactsFromMsg(m.Contacts),
	}, nil
}
