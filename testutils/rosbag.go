package testutils

import (
	"crypto/md5" //nolint:gosec
	"encoding/binary"
	"encoding/hex"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/lfcmsgs/msg"
)

const (
	sensorType  = "linear_feedback_controller_msgs/Sensor"
	controlType = "linear_feedback_controller_msgs/Control"

	definitionSeparator = "================================================================================\n"

	headerDefinition = "MSG: std_msgs/Header\nuint32 seq\ntime stamp\nstring frame_id\n"

	multiArrayDefinition = "MSG: std_msgs/Float64MultiArray\nMultiArrayLayout layout\nfloat64[] data\n" +
		definitionSeparator +
		"MSG: std_msgs/MultiArrayLayout\nMultiArrayDimension[] dim\nuint32 data_offset\n" +
		definitionSeparator +
		"MSG: std_msgs/MultiArrayDimension\nstring label\nuint32 size\nuint32 stride\n"

	geometryDefinition = "MSG: geometry_msgs/Pose\nPoint position\nQuaternion orientation\n" +
		definitionSeparator +
		"MSG: geometry_msgs/Point\nfloat64 x\nfloat64 y\nfloat64 z\n" +
		definitionSeparator +
		"MSG: geometry_msgs/Quaternion\nfloat64 x\nfloat64 y\nfloat64 z\nfloat64 w\n" +
		definitionSeparator +
		"MSG: geometry_msgs/Twist\nVector3 linear\nVector3 angular\n" +
		definitionSeparator +
		"MSG: geometry_msgs/Vector3\nfloat64 x\nfloat64 y\nfloat64 z\n" +
		definitionSeparator +
		"MSG: geometry_msgs/Wrench\nVector3 force\nVector3 torque\n"

	jointStateDefinition = "MSG: sensor_msgs/JointState\nHeader header\nstring[] name\n" +
		"float64[] position\nfloat64[] velocity\nfloat64[] effort\n"

	contactDefinition = "MSG: linear_feedback_controller_msgs/Contact\nbool active\nstring name\n" +
		"geometry_msgs/Wrench wrench\ngeometry_msgs/Pose pose\n"

	sensorFields = "Header header\ngeometry_msgs/Pose base_pose\ngeometry_msgs/Twist base_twist\n" +
		"sensor_msgs/JointState joint_state\nContact[] contacts\n"

	sensorDefinition = sensorFields +
		definitionSeparator + headerDefinition +
		definitionSeparator + geometryDefinition +
		definitionSeparator + jointStateDefinition +
		definitionSeparator + contactDefinition

	controlDefinition = "Header header\nstd_msgs/Float64MultiArray feedback_gain\n" +
		"std_msgs/Float64MultiArray feedforward\nSensor initial_state\n" +
		definitionSeparator + headerDefinition +
		definitionSeparator + multiArrayDefinition +
		definitionSeparator + "MSG: linear_feedback_controller_msgs/Sensor\n" + sensorFields +
		definitionSeparator + geometryDefinition +
		definitionSeparator + jointStateDefinition +
		definitionSeparator + contactDefinition
)

// BagMessage is a message recorded into a test bag. Message must be a msg.Sensor or a
// msg.Control.
type BagMessage struct {
	Topic      string
	RecordedAt time.Time
	Message    interface{}
}

// WriteBag records messages into an uncompressed, single chunk ROS bag under a test-scoped
// temporary directory and returns its path.
func WriteBag(t *testing.T, messages ...BagMessage) string {
	t.Helper()

	type connection struct {
		id       uint32
		topic    string
		typ      string
		def      string
		messages []BagMessage
		offsets  []uint32
	}
	var connections []*connection
	byTopic := map[string]*connection{}

	var chunk []byte
	for _, m := range messages {
		typ, def := sensorType, sensorDefinition
		var data rosWriter
		switch x := m.Message.(type) {
		case msg.Sensor:
			data.sensor(x)
		case msg.Control:
			typ, def = controlType, controlDefinition
			data.control(x)
		default:
			t.Fatalf("cannot record %T", m.Message)
		}
		conn, ok := byTopic[m.Topic]
		if !ok {
			conn = &connection{id: uint32(len(connections)), topic: m.Topic, typ: typ, def: def}
			connections = append(connections, conn)
			byTopic[m.Topic] = conn
		}
		test.That(t, conn.typ, test.ShouldEqual, typ)

		conn.messages = append(conn.messages, m)
		conn.offsets = append(conn.offsets, uint32(len(chunk)))
		chunk = append(chunk, bagRecord([]bagField{
			{"op", []byte{0x02}},
			{"conn", le32(conn.id)},
			{"time", le64(rosTime(m.RecordedAt))},
		}, data)...)
	}

	bag := []byte("#ROSBAG V2.0\n")
	bag = append(bag, bagRecord([]bagField{
		{"op", []byte{0x03}},
		{"index_pos", le64(0)},
		{"conn_count", le32(uint32(len(connections)))},
		{"chunk_count", le32(1)},
	}, nil)...)
	bag = append(bag, bagRecord([]bagField{
		{"op", []byte{0x05}},
		{"compression", []byte("none")},
		{"size", le32(uint32(len(chunk)))},
	}, chunk)...)
	for _, conn := range connections {
		var index []byte
		for i, m := range conn.messages {
			index = append(index, le32(uint32(m.RecordedAt.Unix()))...)
			index = append(index, le32(uint32(m.RecordedAt.Nanosecond()))...)
			index = append(index, le32(conn.offsets[i])...)
		}
		bag = append(bag, bagRecord([]bagField{
			{"op", []byte{0x04}},
			{"ver", le32(1)},
			{"conn", le32(conn.id)},
			{"count", le32(uint32(len(conn.messages)))},
		}, index)...)
	}
	for _, conn := range connections {
		sum := md5.Sum([]byte(conn.def)) //nolint:gosec
		bag = append(bag, bagRecord([]bagField{
			{"op", []byte{0x07}},
			{"conn", le32(conn.id)},
			{"topic", []byte(conn.topic)},
		}, bagFields([]bagField{
			{"topic", []byte(conn.topic)},
			{"type", []byte(conn.typ)},
			{"md5sum", []byte(hex.EncodeToString(sum[:]))},
			{"message_definition", []byte(conn.def)},
		}))...)
	}

	path := filepath.Join(t.TempDir(), "recording.bag")
	test.That(t, os.WriteFile(path, bag, 0o600), test.ShouldBeNil)
	return path
}

type bagField struct {
	name  string
	value []byte
}

func bagFields(fields []bagField) []byte {
	var out []byte
	for _, f := range fields {
		out = append(out, le32(uint32(len(f.name)+1+len(f.value)))...)
		out = append(out, f.name...)
		out = append(out, '=')
		out = append(out, f.value...)
	}
	return out
}

func bagRecord(header []bagField, data []byte) []byte {
	h := bagFields(header)
	out := le32(uint32(len(h)))
	out = append(out, h...)
	out = append(out, le32(uint32(len(data)))...)
	return append(out, data...)
}

func le32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

func le64(v uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, v)
}

func rosTime(t time.Time) uint64 {
	return uint64(t.Unix())&math.MaxUint32 | uint64(t.Nanosecond())<<32
}

// rosWriter serializes messages in the ROS1 wire format.
type rosWriter []byte

func (w *rosWriter) putUint32(v uint32) {
	*w = binary.LittleEndian.AppendUint32(*w, v)
}

func (w *rosWriter) putFloat64(v float64) {
	*w = binary.LittleEndian.AppendUint64(*w, math.Float64bits(v))
}

func (w *rosWriter) putBool(v bool) {
	if v {
		*w = append(*w, 1)
	} else {
		*w = append(*w, 0)
	}
}

func (w *rosWriter) putString(s string) {
	w.putUint32(uint32(len(s)))
	*w = append(*w, s...)
}

func (w *rosWriter) putFloat64s(v []float64) {
	w.putUint32(uint32(len(v)))
	for _, f := range v {
		w.putFloat64(f)
	}
}

func (w *rosWriter) header(h msg.Header) {
	w.putUint32(h.Seq)
	w.putUint32(h.Stamp.Secs)
	w.putUint32(h.Stamp.Nsecs)
	w.putString(h.FrameID)
}

func (w *rosWriter) vector3(x, y, z float64) {
	w.putFloat64(x)
	w.putFloat64(y)
	w.putFloat64(z)
}

func (w *rosWriter) pose(p msg.Pose) {
	w.vector3(p.Position.X, p.Position.Y, p.Position.Z)
	w.vector3(p.Orientation.X, p.Orientation.Y, p.Orientation.Z)
	w.putFloat64(p.Orientation.W)
}

func (w *rosWriter) twist(t msg.Twist) {
	w.vector3(t.Linear.X, t.Linear.Y, t.Linear.Z)
	w.vector3(t.Angular.X, t.Angular.Y, t.Angular.Z)
}

func (w *rosWriter) wrench(r msg.Wrench) {
	w.vector3(r.Force.X, r.Force.Y, r.Force.Z)
	w.vector3(r.Torque.X, r.Torque.Y, r.Torque.Z)
}

func (w *rosWriter) sensor(s msg.Sensor) {
	w.header(s.Header)
	w.pose(s.BasePose)
	w.twist(s.BaseTwist)
	w.header(s.JointState.Header)
	w.putUint32(uint32(len(s.JointState.Name)))
	for _, name := range s.JointState.Name {
		w.putString(name)
	}
	w.putFloat64s(s.JointState.Position)
	w.putFloat64s(s.JointState.Velocity)
	w.putFloat64s(s.JointState.Effort)
	w.putUint32(uint32(len(s.Contacts)))
	for _, c := range s.Contacts {
		w.putBool(c.Active)
		w.putString(c.Name)
		w.wrench(c.Wrench)
		w.pose(c.Pose)
	}
}

func (w *rosWriter) multiArray(a msg.Float64MultiArray) {
	w.putUint32(uint32(len(a.Layout.Dim)))
	for _, d := range a.Layout.Dim {
		w.putString(d.Label)
		w.putUint32(d.Size)
		w.putUint32(d.Stride)
	}
	w.putUint32(a.Layout.DataOffset)
	w.putFloat64s(a.Data)
}

func (w *rosWriter) control(c msg.Control) {
	w.header(c.Header)
	w.multiArray(c.FeedbackGain)
	w.multiArray(c.Feedforward)
	w.sensor(c.InitialState)
}
