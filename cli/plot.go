package cli

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"go.viam.com/lfcmsgs/logging"
	"go.viam.com/lfcmsgs/numeric"
)

// PlotAction is the corresponding Action for 'plot'.
func PlotAction(c *cli.Context) error {
	logger := logging.Global().Sublogger("plot")
	contents, err := loadBag(c, logger)
	if err != nil {
		return err
	}
	p, err := plotJointPositions(contents.sensors)
	if err != nil {
		return err
	}
	dst := c.Path(flagDestination)
	if err := p.Save(10*vg.Inch, 5*vg.Inch, dst); err != nil {
		return errors.Wrapf(err, "could not save plot to %s", dst)
	}
	logger.Infow("saved joint position plot", "destination", dst, "samples", len(contents.sensors))
	return nil
}

// plotJointPositions plots one line per joint against the seconds elapsed since the first
// sensor message. Joint names are taken from the first message; messages with a different joint
// set or without positions are skipped.
func plotJointPositions(sensors []sensorRecord) (*plot.Plot, error) {
	var names []string
	for _, r := range sensors {
		if numeric.VectorLen(r.Sensor.JointState.Position) > 0 {
			names = r.Sensor.JointState.Name
			break
		}
	}
	if len(names) == 0 {
		return nil, errors.New("no sensor message carries joint positions")
	}

	lines := make([]plotter.XYs, len(names))
	start := sensors[0].RecordedAt
	for _, r := range sensors {
		js := r.Sensor.JointState
		if numeric.VectorLen(js.Position) != len(names) || !slices.Equal(js.Name, names) {
			continue
		}
		x := r.RecordedAt.Sub(start).Seconds()
		for j := range names {
			lines[j] = append(lines[j], plotter.XY{X: x, Y: js.Position.AtVec(j)})
		}
	}

	p := plot.New()
	p.Title.Text = "Joint positions"
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "position"
	p.Add(plotter.NewGrid())
	args := make([]interface{}, 0, 2*len(names))
	for j, name := range names {
		args = append(args, name, lines[j])
	}
	if err := plotutil.AddLines(p, args...); err != nil {
		return nil, errors.Wrap(err, "could not add joint lines")
	}
	return p, nil
}
