package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/lfcmsgs/logging"
	"go.viam.com/lfcmsgs/numeric"
	"go.viam.com/lfcmsgs/spatialmath"
)

// SummarizeAction is the corresponding Action for 'summarize'.
func SummarizeAction(c *cli.Context) error {
	format := c.String(flagFormat)
	if format != formatText && format != formatJSON {
		return fmt.Errorf("invalid format: %s, supported formats are 'text' and 'json'", format)
	}
	contents, err := loadBag(c, logging.Global().Sublogger("summarize"))
	if err != nil {
		return err
	}
	return writeSummary(c.App.Writer, format, contents)
}

func writeSummary(w io.Writer, format string, contents bagContents) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		for _, r := range contents.sensors {
			if err := enc.Encode(newSensorJSON(r)); err != nil {
				return errors.Wrap(err, "could not format sensor as JSON")
			}
		}
		for _, r := range contents.controls {
			if err := enc.Encode(newControlJSON(r)); err != nil {
				return errors.Wrap(err, "could not format control as JSON")
			}
		}
	case formatText:
		for _, r := range contents.sensors {
			if _, err := fmt.Fprintln(w, sensorLine(r)); err != nil {
				return err
			}
		}
		for _, r := range contents.controls {
			if _, err := fmt.Fprintln(w, controlLine(r)); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("invalid format: %s, supported formats are 'text' and 'json'", format)
	}
	return nil
}

func sensorLine(r sensorRecord) string {
	active := 0
	for _, c := range r.Sensor.Contacts {
		if c.Active {
			active++
		}
	}
	translation, err := spatialmath.PoseVectorTranslation(r.Sensor.BasePose)
	base := "invalid"
	if err == nil {
		base = fmt.Sprintf("(%.3f, %.3f, %.3f)", translation.X, translation.Y, translation.Z)
	}
	return fmt.Sprintf("sensor  %s seq=%d joints=%d contacts=%d active=%d base=%s",
		r.RecordedAt.UTC().Format(time.RFC3339Nano), r.Header.Seq,
		len(r.Sensor.JointState.Name), len(r.Sensor.Contacts), active, base)
}

func controlLine(r controlRecord) string {
	rows, cols := 0, 0
	if r.Control.FeedbackGain != nil && !r.Control.FeedbackGain.IsEmpty() {
		rows, cols = r.Control.FeedbackGain.Dims()
	}
	return fmt.Sprintf("control %s seq=%d gain=%dx%d feedforward=%d joints=%d",
		r.RecordedAt.UTC().Format(time.RFC3339Nano), r.Header.Seq,
		rows, cols, numeric.VectorLen(r.Control.Feedforward), len(r.Control.InitialState.JointState.Name))
}

type contactJSON struct {
	Name   string    `json:"name"`
	Active bool      `json:"active"`
	Wrench []float64 `json:"wrench"`
	Pose   []float64 `json:"pose"`
}

type sensorJSON struct {
	Type       string        `json:"type,omitempty"`
	RecordedAt time.Time     `json:"recorded_at"`
	Seq        uint32        `json:"seq"`
	FrameID    string        `json:"frame_id,omitempty"`
	BasePose   []float64     `json:"base_pose"`
	BaseTwist  []float64     `json:"base_twist"`
	Joints     []string      `json:"joints"`
	Position   []float64     `json:"position"`
	Velocity   []float64     `json:"velocity"`
	Effort     []float64     `json:"effort"`
	Contacts   []contactJSON `json:"contacts"`
}

type controlJSON struct {
	Type         string      `json:"type"`
	RecordedAt   time.Time   `json:"recorded_at"`
	Seq          uint32      `json:"seq"`
	FeedbackGain [][]float64 `json:"feedback_gain"`
	Feedforward  []float64   `json:"feedforward"`
	InitialState sensorJSON  `json:"initial_state"`
}

func newSensorJSON(r sensorRecord) sensorJSON {
	s := r.Sensor
	contacts := make([]contactJSON, 0, len(s.Contacts))
	for _, c := range s.Contacts {
		contacts = append(contacts, contactJSON{
			Name:   c.Name,
			Active: c.Active,
			Wrench: vectorData(c.Wrench),
			Pose:   vectorData(c.Pose),
		})
	}
	return sensorJSON{
		Type:       "sensor",
		RecordedAt: r.RecordedAt.UTC(),
		Seq:        r.Header.Seq,
		FrameID:    r.Header.FrameID,
		BasePose:   vectorData(s.BasePose),
		BaseTwist:  vectorData(s.BaseTwist),
		Joints:     append([]string{}, s.JointState.Name...),
		Position:   vectorData(s.JointState.Position),
		Velocity:   vectorData(s.JointState.Velocity),
		Effort:     vectorData(s.JointState.Effort),
		Contacts:   contacts,
	}
}

func newControlJSON(r controlRecord) controlJSON {
	initial := newSensorJSON(sensorRecord{RecordedAt: r.RecordedAt, Sensor: r.Control.InitialState})
	initial.Type = ""
	return controlJSON{
		Type:         "control",
		RecordedAt:   r.RecordedAt.UTC(),
		Seq:          r.Header.Seq,
		FeedbackGain: matrixData(r.Control.FeedbackGain),
		Feedforward:  vectorData(r.Control.Feedforward),
		InitialState: initial,
	}
}

func vectorData(v *mat.VecDense) []float64 {
	out := make([]float64, numeric.VectorLen(v))
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

func matrixData(m *mat.Dense) [][]float64 {
	if m == nil || m.IsEmpty() {
		return [][]float64{}
	}
	rows, _ := m.Dims()
	out := make([][]float64, rows)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}
