package protoutils

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.viam.com/test"

	"go.viam.com/lfcmsgs/conversions"
	"go.viam.com/lfcmsgs/msg"
	"go.viam.com/lfcmsgs/testutils"
)

func TestMessageToStruct(t *testing.T) {
	s, err := MessageToStruct(msg.Pose{
		Position:    msg.Point{X: 1, Y: 2, Z: 3},
		Orientation: msg.Quaternion{W: 1},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.AsMap(), test.ShouldResemble, map[string]interface{}{
		"position":    map[string]interface{}{"x": 1.0, "y": 2.0, "z": 3.0},
		"orientation": map[string]interface{}{"x": 0.0, "y": 0.0, "z": 0.0, "w": 1.0},
	})

	_, err = MessageToStruct(nil)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = MessageToStruct(3)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "not a struct")
}

func TestMessageToStructUsesROSFieldNames(t *testing.T) {
	s, err := MessageToStruct(&msg.Sensor{Header: msg.Header{Seq: 4, FrameID: "odom"}})
	test.That(t, err, test.ShouldBeNil)
	fields := s.AsMap()
	for _, key := range []string{"header", "base_pose", "base_twist", "joint_state", "contacts"} {
		test.That(t, fields, test.ShouldContainKey, key)
	}
	header := fields["header"].(map[string]interface{})
	test.That(t, header["frame_id"], test.ShouldEqual, "odom")
	test.That(t, header["seq"], test.ShouldEqual, 4)
}

func TestSensorMessageRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(21))
	want, err := conversions.SensorToMsg(testutils.RandomSensor(r))
	test.That(t, err, test.ShouldBeNil)
	want.Header = msg.Header{Seq: 12, Stamp: msg.Time{Secs: 1700000000, Nsecs: 250}, FrameID: "base_link"}

	s, err := MessageToStruct(want)
	test.That(t, err, test.ShouldBeNil)
	var got msg.Sensor
	test.That(t, StructToMessage(s, &got), test.ShouldBeNil)
	test.That(t, cmp.Diff(want, got, cmpopts.EquateEmpty()), test.ShouldBeEmpty)
}

func TestControlMessageRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(22))
	want, err := conversions.ControlToMsg(testutils.RandomControl(r))
	test.That(t, err, test.ShouldBeNil)

	s, err := MessageToStruct(&want)
	test.That(t, err, test.ShouldBeNil)
	var got msg.Control
	test.That(t, StructToMessage(s, &got), test.ShouldBeNil)
	test.That(t, cmp.Diff(want, got, cmpopts.EquateEmpty()), test.ShouldBeEmpty)
	test.That(t, got.FeedbackGain.Layout.Dim[0].Label, test.ShouldEqual, "rows")
	test.That(t, got.FeedbackGain.Data, test.ShouldHaveLength, 32)
}

func TestStructToMessageErrors(t *testing.T) {
	var got msg.Sensor
	test.That(t, StructToMessage(nil, &got), test.ShouldNotBeNil)

	s, err := MessageToStruct(map[string]interface{}{"base_pose": "nope"})
	test.That(t, err, test.ShouldBeNil)
	err = StructToMessage(s, &got)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "msg.Sensor")
}

func TestInterfaceToMap(t *testing.T) {
	type inner struct {
		Values []float64 `json:"values,omitempty"`
		Skip   string    `json:"-"`
		hidden int
	}
	m, err := InterfaceToMap(struct {
		Name  string            `json:"name"`
		Inner *inner            `json:"inner"`
		None  *inner            `json:"none"`
		Tags  map[string]string `json:"tags"`
		Plain bool
	}{
		Name:  "a",
		Inner: &inner{Values: []float64{1, 2}, Skip: "x", hidden: 3},
		Tags:  map[string]string{"k": "v"},
		Plain: true,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m, test.ShouldResemble, map[string]interface{}{
		"name":  "a",
		"inner": map[string]interface{}{"values": []interface{}{1.0, 2.0}},
		"none":  nil,
		"tags":  map[string]interface{}{"k": "v"},
		"Plain": true,
	})

	_, err = InterfaceToMap(map[int]string{1: "a"})
	test.That(t, err, test.ShouldNotBeNil)
}
