// Package msg defines the wire messages exchanged with the linear feedback controller.
//
// The structs mirror the ROS message definitions field by field and carry json tags matching the
// ROS field names, so that messages decoded from a rosbag (see package ros) or from a structpb
// transport envelope (see package protoutils) unmarshal directly into them.
package msg

import (
	"math"
	"time"
)

// Time is a ROS time stamp.
type Time struct {
	Secs  uint32 `json:"secs"`
	Nsecs uint32 `json:"nsecs"`
}

// NewTime converts a time.Time into a ROS time stamp. ROS time is unsigned 32-bit seconds, so
// times before the Unix epoch clamp to zero and times past 2106 clamp to the largest stamp.
func NewTime(t time.Time) Time {
	switch secs := t.Unix(); {
	case secs < 0:
		return Time{}
	case secs > math.MaxUint32:
		return Time{Secs: math.MaxUint32, Nsecs: uint32(time.Second - 1)}
	default:
		return Time{Secs: uint32(secs), Nsecs: uint32(t.Nanosecond())}
	}
}

// Time returns the stamp as a time.Time.
func (t Time) Time() time.Time {
	return time.Unix(int64(t.Secs), int64(t.Nsecs))
}

// Header is std_msgs/Header.
type Header struct {
	Seq     uint32 `json:"seq"`
	Stamp   Time   `json:"stamp"`
	FrameID string `json:"frame_id"`
}

// MultiArrayDimension is std_msgs/MultiArrayDimension.
type MultiArrayDimension struct {
	Label  string `json:"label"`
	Size   uint32 `json:"size"`
	Stride uint32 `json:"stride"`
}

// MultiArrayLayout is std_msgs/MultiArrayLayout.
type MultiArrayLayout struct {
	Dim        []MultiArrayDimension `json:"dim"`
	DataOffset uint32                `json:"data_offset"`
}

// Float64MultiArray is std_msgs/Float64MultiArray.
type Float64MultiArray struct {
	Layout MultiArrayLayout `json:"layout"`
	Data   []float64        `json:"data"`
}

// JointState is sensor_msgs/JointState. Position, Velocity and Effort are either empty or have
// one entry per name.
type JointState struct {
	Header   Header    `json:"header"`
	Name     []string  `json:"name"`
	Position []float64 `json:"position"`
	Velocity []float64 `json:"velocity"`
	Effort   []float64 `json:"effort"`
}

// Point is geometry_msgs/Point.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is geometry_msgs/Quaternion.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Vector3 is geometry_msgs/Vector3.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pose is geometry_msgs/Pose.
type Pose struct {
	Position    Point      `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

// Twist is geometry_msgs/Twist.
type Twist struct {
	Linear  Vector3 `json:"linear"`
	Angular Vector3 `json:"angular"`
}

// Wrench is geometry_msgs/Wrench.
type Wrench struct {
	Force  Vector3 `json:"force"`
	Torque Vector3 `json:"torque"`
}

// Contact describes one contact point of the robot with its environment.
type Contact struct {
	Active bool   `json:"active"`
	Name   string `json:"name"`
	Wrench Wrench `json:"wrench"`
	Pose   Pose   `json:"pose"`
}

// Sensor is the measured state sent to the controller.
type Sensor struct {
	Header     Header     `json:"header"`
	BasePose   Pose       `json:"base_pose"`
	BaseTwist  Twist      `json:"base_twist"`
	JointState JointState `json:"joint_state"`
	Contacts   []Contact  `json:"contacts"`
}

// Control is the linear feedback law sent back by the controller: the command is
// feedforward + feedback_gain * (initial_state - measured state).
type Control struct {
	Header       Header            `json:"header"`
	FeedbackGain Float64MultiArray `json:"feedback_gain"`
	Feedforward  Float64MultiArray `json:"feedforward"`
	InitialState Sensor            `json:"initial_state"`
}

// Stamped wraps a message with the time it was recorded, as written by the rosbag JSON export.
type Stamped[T any] struct {
	Meta struct {
		Secs  int64 `json:"secs"`
		Nsecs int64 `json:"nsecs"`
	} `json:"meta"`
	Data T `json:"data"`
}

// RecordedAt returns the recording time of the message.
func (s Stamped[T]) RecordedAt() time.Time {
	return time.Unix(s.Meta.Secs, s.Meta.Nsecs)
}
