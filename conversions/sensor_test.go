package conversions

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/lfcmsgs/msg"
	"go.viam.com/lfcmsgs/numeric"
	"go.viam.com/lfcmsgs/spatialmath"
	"go.viam.com/lfcmsgs/testutils"
)

func assertSensorsMatch(t *testing.T, got, want numeric.Sensor) {
	t.Helper()
	test.That(t, spatialmath.PoseVectorAlmostEqual(got.BasePose, want.BasePose, 1e-9), test.ShouldBeTrue)
	test.That(t, numeric.VectorsEqual(got.BaseTwist, want.BaseTwist), test.ShouldBeTrue)
	test.That(t, got.JointState.Name, test.ShouldResemble, want.JointState.Name)
	test.That(t, numeric.VectorsEqual(got.JointState.Position, want.JointState.Position), test.ShouldBeTrue)
	test.That(t, numeric.VectorsEqual(got.JointState.Velocity, want.JointState.Velocity), test.ShouldBeTrue)
	test.That(t, numeric.VectorsEqual(got.JointState.Effort, want.JointState.Effort), test.ShouldBeTrue)
	test.That(t, got.Contacts, test.ShouldHaveLength, len(want.Contacts))
	for i := range want.Contacts {
		test.That(t, got.Contacts[i].Active, test.ShouldEqual, want.Contacts[i].Active)
		test.That(t, got.Contacts[i].Name, test.ShouldEqual, want.Contacts[i].Name)
		test.That(t, numeric.VectorsEqual(got.Contacts[i].Pose, want.Contacts[i].Pose), test.ShouldBeTrue)
		test.That(t, numeric.VectorsEqual(got.Contacts[i].Wrench, want.Contacts[i].Wrench), test.ShouldBeTrue)
	}
}

func TestSensorRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	s := testutils.RandomSensor(r)

	wire, err := SensorToMsg(s)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, wire.JointState.Name, test.ShouldResemble, []string{"1", "2", "3", "4", "5", "6"})
	test.That(t, wire.Contacts, test.ShouldHaveLength, 2)
	test.That(t, wire.Contacts[0].Name, test.ShouldEqual, "left_foot")
	test.That(t, wire.Contacts[0].Active, test.ShouldBeTrue)
	test.That(t, wire.Contacts[1].Name, test.ShouldEqual, "right_foot")
	test.That(t, wire.Contacts[1].Active, test.ShouldBeFalse)

	back, err := SensorFromMsg(wire)
	test.That(t, err, test.ShouldBeNil)
	assertSensorsMatch(t, back, s)
	// raw coefficients are kept, so the base pose survives exactly as well
	test.That(t, numeric.VectorsEqual(back.BasePose, s.BasePose), test.ShouldBeTrue)
}

func TestSensorDefaults(t *testing.T) {
	wire, err := SensorToMsg(numeric.NewSensor())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, wire.BasePose.Orientation, test.ShouldResemble, msg.Quaternion{W: 1})
	test.That(t, wire.Contacts, test.ShouldBeEmpty)

	s, err := SensorFromMsg(msg.Sensor{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.BasePose.Len(), test.ShouldEqual, 7)
	test.That(t, s.BaseTwist.Len(), test.ShouldEqual, 6)
	test.That(t, s.JointState.Position.Len(), test.ShouldEqual, 0)
	test.That(t, s.Contacts, test.ShouldBeEmpty)
}

func TestContactsKeepOrder(t *testing.T) {
	r := rand.New(rand.NewSource(8))
	var contacts []numeric.Contact
	for _, name := range []string{"d", "a", "c", "b"} {
		c := numeric.NewContact(name)
		c.Active = name < "c"
		c.Wrench = testutils.RandomVector(r, 6)
		c.Pose = testutils.RandomPose(r)
		contacts = append(contacts, c)
	}

	wire, err := ContactsToMsg(contacts)
	test.That(t, err, test.ShouldBeNil)
	back := ContactsFromMsg(wire)
	test.That(t, back, test.ShouldHaveLength, len(contacts))
	for i, c := range contacts {
		test.That(t, back[i].Name, test.ShouldEqual, c.Name)
		test.That(t, back[i].Active, test.ShouldEqual, c.Active)
		test.That(t, numeric.VectorsEqual(back[i].Wrench, c.Wrench), test.ShouldBeTrue)
		test.That(t, numeric.VectorsEqual(back[i].Pose, c.Pose), test.ShouldBeTrue)
	}
}

func TestSensorToMsgReportsEveryField(t *testing.T) {
	s := numeric.NewSensor()
	s.BaseTwist = mat.NewVecDense(3, nil)
	s.JointState = numeric.NewJointState("a")
	s.JointState.Position = mat.NewVecDense(2, nil)
	good := numeric.NewContact("left_foot")
	bad := numeric.NewContact("right_foot")
	bad.Pose = mat.NewVecDense(3, nil)
	s.Contacts = []numeric.Contact{good, bad}

	_, err := SensorToMsg(s)
	test.That(t, errors.Is(err, ErrShapeMismatch), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "base_twist: twist: expected length 6, got 3")
	test.That(t, err.Error(), test.ShouldContainSubstring, "joint_state: position: expected length 1, got 2")
	test.That(t, err.Error(), test.ShouldContainSubstring, "contacts[1]: pose: expected length 7, got 3")
	test.That(t, err.Error(), test.ShouldNotContainSubstring, "contacts[0]")
}

func TestSensorFromMsgShapeMismatch(t *testing.T) {
	_, err := SensorFromMsg(msg.Sensor{JointState: msg.JointState{Name: []string{"a"}, Effort: []float64{1, 2}}})
	test.That(t, errors.Is(err, ErrShapeMismatch), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "joint_state: effort")
}
