package cli

import (
	"time"

	"github.com/edaniels/gobag/rosbag"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/lfcmsgs/conversions"
	"go.viam.com/lfcmsgs/logging"
	"go.viam.com/lfcmsgs/msg"
	"go.viam.com/lfcmsgs/numeric"
	"go.viam.com/lfcmsgs/ros"
)

// sensorRecord is a converted Sensor message together with its recording metadata and the
// headers the numeric form does not carry.
type sensorRecord struct {
	RecordedAt       time.Time
	Header           msg.Header
	JointStateHeader msg.Header
	Sensor           numeric.Sensor
}

// controlRecord is a converted Control message together with its recording metadata and the
// headers the numeric form does not carry.
type controlRecord struct {
	RecordedAt              time.Time
	Header                  msg.Header
	InitialStateHeader      msg.Header
	InitialJointStateHeader msg.Header
	Control                 numeric.Control
}

// toMsg converts the record back into a Sensor message with its original headers.
func (r sensorRecord) toMsg() (msg.Sensor, error) {
	m, err := conversions.SensorToMsg(r.Sensor)
	if err != nil {
		return msg.Sensor{}, err
	}
	m.Header = r.Header
	m.JointState.Header = r.JointStateHeader
	return m, nil
}

// toMsg converts the record back into a Control message with its original headers.
func (r controlRecord) toMsg() (msg.Control, error) {
	m, err := conversions.ControlToMsg(r.Control)
	if err != nil {
		return msg.Control{}, err
	}
	m.Header = r.Header
	m.InitialState.Header = r.InitialStateHeader
	m.InitialState.JointState.Header = r.InitialJointStateHeader
	return m, nil
}

type bagContents struct {
	sensors  []sensorRecord
	controls []controlRecord
}

func parseWindow(start, end string) (ros.TimeWindow, error) {
	var window ros.TimeWindow
	timeLayout := time.RFC3339
	if start != "" {
		t, err := time.Parse(timeLayout, start)
		if err != nil {
			return ros.TimeWindow{}, errors.Wrap(err, "error parsing start flag")
		}
		window.Start = t
	}
	if end != "" {
		t, err := time.Parse(timeLayout, end)
		if err != nil {
			return ros.TimeWindow{}, errors.Wrap(err, "error parsing end flag")
		}
		window.End = t
	}
	if !window.Start.IsZero() && !window.End.IsZero() && window.End.Before(window.Start) {
		return ros.TimeWindow{}, errors.Errorf("end %s is before start %s", end, start)
	}
	return window, nil
}

// loadBag reads the bag named by the command flags and converts every message on the requested
// topics. It stops at the first message that cannot be converted.
func loadBag(c *cli.Context, logger logging.Logger) (bagContents, error) {
	window, err := parseWindow(c.String(flagStart), c.String(flagEnd))
	if err != nil {
		return bagContents{}, err
	}
	rb, err := ros.ReadBag(c.Path(flagBag))
	if err != nil {
		return bagContents{}, err
	}
	return loadTopics(rb, c.String(flagSensorTopic), c.String(flagControlTopic), window, logger)
}

func loadTopics(
	rb *rosbag.RosBag,
	sensorTopic, controlTopic string,
	window ros.TimeWindow,
	logger logging.Logger,
) (bagContents, error) {
	var contents bagContents
	if sensorTopic != "" {
		wire, err := ros.SensorsForTopic(rb, sensorTopic, window)
		if err != nil && !errors.Is(err, ros.ErrNoMessages) {
			return bagContents{}, err
		}
		if contents.sensors, err = convertSensors(wire); err != nil {
			return bagContents{}, errors.Wrapf(err, "topic %s", sensorTopic)
		}
		logger.Infow("read sensor messages", "topic", sensorTopic, "count", len(contents.sensors))
	}
	if controlTopic != "" {
		wire, err := ros.ControlsForTopic(rb, controlTopic, window)
		if err != nil && !errors.Is(err, ros.ErrNoMessages) {
			return bagContents{}, err
		}
		if contents.controls, err = convertControls(wire); err != nil {
			return bagContents{}, errors.Wrapf(err, "topic %s", controlTopic)
		}
		logger.Infow("read control messages", "topic", controlTopic, "count", len(contents.controls))
	}
	if len(contents.sensors) == 0 && len(contents.controls) == 0 {
		logger.Warnw("no messages found", "sensor_topic", sensorTopic, "control_topic", controlTopic)
	}
	return contents, nil
}

func convertSensors(wire []msg.Stamped[msg.Sensor]) ([]sensorRecord, error) {
	records := make([]sensorRecord, 0, len(wire))
	for i, m := range wire {
		s, err := conversions.SensorFromMsg(m.Data)
		if err != nil {
			return nil, errors.Wrapf(err, "message %d (seq %d)", i, m.Data.Header.Seq)
		}
		records = append(records, sensorRecord{
			RecordedAt:       m.RecordedAt(),
			Header:           m.Data.Header,
			JointStateHeader: m.Data.JointState.Header,
			Sensor:           s,
		})
	}
	return records, nil
}

func convertControls(wire []msg.Stamped[msg.Control]) ([]controlRecord, error) {
	records := make([]controlRecord, 0, len(wire))
	for i, m := range wire {
		c, err := conversions.ControlFromMsg(m.Data)
		if err != nil {
			return nil, errors.Wrapf(err, "message %d (seq %d)", i, m.Data.Header.Seq)
		}
		records = append(records, controlRecord{
			RecordedAt:              m.RecordedAt(),
			Header:                  m.Data.Header,
			InitialStateHeader:      m.Data.InitialState.Header,
			InitialJointStateHeader: m.Data.InitialState.JointState.Header,
			Control:                 c,
		})
	}
	return records, nil
}
