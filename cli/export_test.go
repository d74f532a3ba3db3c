package cli

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.viam.com/lfcmsgs/conversions"
	"go.viam.com/lfcmsgs/msg"
	"go.viam.com/lfcmsgs/numeric"
	"go.viam.com/lfcmsgs/protoutils"
)

func TestExportContents(t *testing.T) {
	contents := testContents(t, 71)
	dst := t.TempDir()
	test.That(t, exportContents(dst, 100, contents), test.ShouldBeNil)

	f, err := os.Open(filepath.Join(dst, sensorsFile))
	test.That(t, err, test.ShouldBeNil)
	defer f.Close()
	sensors, err := protoutils.ReadMessages[msg.Sensor](f)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sensors, test.ShouldHaveLength, 2)
	test.That(t, sensors[1].Header.Seq, test.ShouldEqual, 1)
	test.That(t, sensors[1].JointState.Header, test.ShouldResemble, contents.sensors[1].JointStateHeader)
	s, err := conversions.SensorFromMsg(sensors[1])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, numeric.VectorsEqual(s.BasePose, contents.sensors[1].Sensor.BasePose), test.ShouldBeTrue)
	test.That(t, numeric.VectorsEqual(s.Contacts[0].Wrench, contents.sensors[1].Sensor.Contacts[0].Wrench), test.ShouldBeTrue)

	g, err := os.Open(filepath.Join(dst, controlsFile))
	test.That(t, err, test.ShouldBeNil)
	defer g.Close()
	controls, err := protoutils.ReadMessages[msg.Control](g)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, controls, test.ShouldHaveLength, 1)
	test.That(t, controls[0].InitialState.Header.FrameID, test.ShouldEqual, "initial")
	test.That(t, controls[0].InitialState.JointState.Header.Seq, test.ShouldEqual, 20)
	c, err := conversions.ControlFromMsg(controls[0])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, numeric.MatricesEqual(c.FeedbackGain, contents.controls[0].Control.FeedbackGain), test.ShouldBeTrue)
	test.That(t, numeric.VectorsEqual(c.Feedforward, contents.controls[0].Control.Feedforward), test.ShouldBeTrue)
}

func TestExportContentsSkipsEmptyTopics(t *testing.T) {
	contents := testContents(t, 72)
	contents.controls = nil
	dst := t.TempDir()
	test.That(t, exportContents(dst, 100, contents), test.ShouldBeNil)

	_, err := os.Stat(filepath.Join(dst, sensorsFile))
	test.That(t, err, test.ShouldBeNil)
	_, err = os.Stat(filepath.Join(dst, controlsFile))
	test.That(t, os.IsNotExist(err), test.ShouldBeTrue)
}

func TestExportContentsReplacesEarlierExport(t *testing.T) {
	dst := t.TempDir()
	backup := filepath.Join(dst, "sensors-2024-03-01T10-00-00.000.pb")
	unrelated := filepath.Join(dst, "notes.txt")
	for _, p := range []string{backup, unrelated, filepath.Join(dst, sensorsFile)} {
		test.That(t, os.WriteFile(p, []byte("stale"), 0o600), test.ShouldBeNil)
	}

	contents := testContents(t, 73)
	test.That(t, exportContents(dst, 100, contents), test.ShouldBeNil)

	_, err := os.Stat(backup)
	test.That(t, os.IsNotExist(err), test.ShouldBeTrue)
	_, err = os.Stat(unrelated)
	test.That(t, err, test.ShouldBeNil)

	f, err := os.Open(filepath.Join(dst, sensorsFile))
	test.That(t, err, test.ShouldBeNil)
	defer f.Close()
	sensors, err := protoutils.ReadMessages[msg.Sensor](f)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sensors, test.ShouldHaveLength, len(contents.sensors))
}
