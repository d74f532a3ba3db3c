package msg

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"go.viam.com/test"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTime(t *testing.T) {
	now := time.Unix(1700000000, 123456789)
	stamp := NewTime(now)
	test.That(t, stamp, test.ShouldResemble, Time{Secs: 1700000000, Nsecs: 123456789})
	test.That(t, stamp.Time().Equal(now), test.ShouldBeTrue)
}

func TestTimeOutOfRange(t *testing.T) {
	test.That(t, NewTime(time.Unix(-1, 500)), test.ShouldResemble, Time{})
	test.That(t, NewTime(time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)), test.ShouldResemble, Time{})

	last := NewTime(time.Unix(math.MaxUint32+10, 0))
	test.That(t, last, test.ShouldResemble, Time{Secs: math.MaxUint32, Nsecs: 999999999})
	test.That(t, last.Time().Unix(), test.ShouldEqual, int64(math.MaxUint32))

	test.That(t, NewTime(time.Unix(math.MaxUint32, 7)), test.ShouldResemble, Time{Secs: math.MaxUint32, Nsecs: 7})
	test.That(t, NewTime(time.Unix(0, 0)), test.ShouldResemble, Time{})
}

func TestROSFieldNames(t *testing.T) {
	data := []byte(`{"header":{"seq":3,"stamp":{"secs":5,"nsecs":6},"frame_id":"odom"},` +
		`"feedback_gain":{"layout":{"dim":[{"label":"rows","size":1,"stride":2},{"label":"cols","size":2,"stride":2}],` +
		`"data_offset":0},"data":[1,2]},` +
		`"feedforward":{"layout":{"dim":[],"data_offset":0},"data":[]},` +
		`"initial_state":{"base_pose":{"position":{"x":1,"y":0,"z":0},"orientation":{"x":0,"y":0,"z":0,"w":1}},` +
		`"base_twist":{"linear":{"x":0,"y":0,"z":0},"angular":{"x":0,"y":0,"z":0.5}},` +
		`"joint_state":{"name":["j"],"position":[0.25],"velocity":[],"effort":[]},` +
		`"contacts":[{"active":true,"name":"foot","wrench":{"force":{"x":0,"y":0,"z":9.8},"torque":{"x":0,"y":0,"z":0}},` +
		`"pose":{"position":{"x":0,"y":0,"z":0},"orientation":{"x":0,"y":0,"z":0,"w":1}}}]}}`)

	var got Control
	test.That(t, json.Unmarshal(data, &got), test.ShouldBeNil)

	want := Control{
		Header: Header{Seq: 3, Stamp: Time{Secs: 5, Nsecs: 6}, FrameID: "odom"},
		FeedbackGain: Float64MultiArray{
			Layout: MultiArrayLayout{Dim: []MultiArrayDimension{
				{Label: "rows", Size: 1, Stride: 2},
				{Label: "cols", Size: 2, Stride: 2},
			}},
			Data: []float64{1, 2},
		},
		Feedforward: Float64MultiArray{Layout: MultiArrayLayout{Dim: []MultiArrayDimension{}}, Data: []float64{}},
		InitialState: Sensor{
			BasePose:  Pose{Position: Point{X: 1}, Orientation: Quaternion{W: 1}},
			BaseTwist: Twist{Angular: Vector3{Z: 0.5}},
			JointState: JointState{
				Name:     []string{"j"},
				Position: []float64{0.25},
				Velocity: []float64{},
				Effort:   []float64{},
			},
			Contacts: []Contact{{
				Active: true,
				Name:   "foot",
				Wrench: Wrench{Force: Vector3{Z: 9.8}},
				Pose:   Pose{Orientation: Quaternion{W: 1}},
			}},
		},
	}
	test.That(t, cmp.Diff(want, got), test.ShouldBeEmpty)
}

func TestStampedRecordedAt(t *testing.T) {
	var s Stamped[Header]
	test.That(t, json.Unmarshal([]byte(`{"meta":{"secs":10,"nsecs":20},"data":{"seq":7}}`), &s), test.ShouldBeNil)
	test.That(t, s.RecordedAt().Equal(time.Unix(10, 20)), test.ShouldBeTrue)
	test.That(t, s.Data.Seq, test.ShouldEqual, 7)
}
