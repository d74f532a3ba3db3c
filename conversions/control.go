package conversions

import (
	"go.uber.org/multierr"

	"go.viam.com/lfcmsgs/msg"
	"go.viam.com/lfcmsgs/numeric"
)

// ControlToMsg converts a control into its wire form. The feedforward is encoded as an n x 1
// matrix. When both are set, the feedforward length must equal the number of gain rows.
func ControlToMsg(c numeric.Control) (msg.Control, error) {
	state, stateErr := SensorToMsg(c.InitialState)
	if err := multierr.Combine(
		withField("initial_state", stateErr),
		checkGainShape(matrixRows(c), vectorLen(c.Feedforward)),
	); err != nil {
		return msg.Control{}, err
	}
	return msg.Control{
		FeedbackGain: MatrixToMsg(c.FeedbackGain),
		Feedforward:  VectorToMsg(c.Feedforward),
		InitialState: state,
	}, nil
}

// ControlFromMsg converts a wire control into its numeric form.
func ControlFromMsg(m msg.Control) (numeric.Control, error) {
	state, stateErr := SensorFromMsg(m.InitialState)
	gain, gainErr := MatrixFromMsg(m.FeedbackGain)
	ff, ffErr := VectorFromMsg(m.Feedforward)
	if err := multierr.Combine(
		withField("initial_state", stateErr),
		withField("feedback_gain", gainErr),
		withField("feedforward", ffErr),
	); err != nil {
		return numeric.Control{}, err
	}
	rows, _ := gain.Dims()
	if err := checkGainShape(rows, ff.Len()); err != nil {
		return numeric.Control{}, err
	}
	return numeric.Control{
		InitialState: state,
		FeedbackGain: gain,
		Feedforward:  ff,
	}, nil
}

func matrixRows(c numeric.Control) int {
	rows, _ := matrixDims(c.FeedbackGain)
	return rows
}

func checkGainShape(gainRows, feedforwardLen int) error {
	if gainRows == 0 || feedforwardLen == 0 || gainRows == feedforwardLen {
		return nil
	}
	return withField("feedforward", NewShapeMismatchError("feedback_gain rows", gainRows, feedforwardLen))
}
