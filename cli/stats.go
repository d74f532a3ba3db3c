package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/lfcmsgs/logging"
	"go.viam.com/lfcmsgs/numeric"
)

// StatsAction is the corresponding Action for 'stats'.
func StatsAction(c *cli.Context) error {
	contents, err := loadBag(c, logging.Global().Sublogger("stats"))
	if err != nil {
		return err
	}
	return writeStats(c.App.Writer, contents)
}

type series struct {
	name   string
	values []float64
}

// summary holds the statistics of one series. Series without samples are skipped.
type summary struct {
	name                 string
	samples              int
	mean, stddev, lo, hi float64
}

func describeSeries(s series) (summary, error) {
	out := summary{name: s.name, samples: len(s.values)}
	var err error
	if out.mean, err = stats.Mean(s.values); err != nil {
		return summary{}, errors.Wrapf(err, "%s mean", s.name)
	}
	if out.stddev, err = stats.StandardDeviation(s.values); err != nil {
		return summary{}, errors.Wrapf(err, "%s standard deviation", s.name)
	}
	if out.lo, err = stats.Min(s.values); err != nil {
		return summary{}, errors.Wrapf(err, "%s min", s.name)
	}
	if out.hi, err = stats.Max(s.values); err != nil {
		return summary{}, errors.Wrapf(err, "%s max", s.name)
	}
	return out, nil
}

// jointSeries collects, per joint and field, every sample of the sensor messages. Joints are
// matched by name, so messages may list them in any order.
func jointSeries(sensors []sensorRecord) []series {
	index := map[string]int{}
	var all []series
	for _, r := range sensors {
		js := r.Sensor.JointState
		for _, field := range []struct {
			name string
			v    *mat.VecDense
		}{
			{"position", js.Position},
			{"velocity", js.Velocity},
			{"effort", js.Effort},
		} {
			if numeric.VectorLen(field.v) != len(js.Name) {
				continue
			}
			for j, joint := range js.Name {
				key := joint + " " + field.name
				i, ok := index[key]
				if !ok {
					i = len(all)
					index[key] = i
					all = append(all, series{name: key})
				}
				all[i].values = append(all[i].values, field.v.AtVec(j))
			}
		}
	}
	return all
}

// gainSeries collects the Frobenius norm of every non-empty feedback gain.
func gainSeries(controls []controlRecord) series {
	s := series{name: "feedback_gain norm"}
	for _, r := range controls {
		if r.Control.FeedbackGain == nil || r.Control.FeedbackGain.IsEmpty() {
			continue
		}
		s.values = append(s.values, mat.Norm(r.Control.FeedbackGain, 2))
	}
	return s
}

func writeStats(w io.Writer, contents bagContents) error {
	all := append(jointSeries(contents.sensors), gainSeries(contents.controls))
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%d sensor and %d control messages", len(contents.sensors), len(contents.controls)))
	t.AppendHeader(table.Row{"Series", "Samples", "Mean", "Std dev", "Min", "Max"})
	for _, s := range all {
		if len(s.values) == 0 {
			continue
		}
		sum, err := describeSeries(s)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{
			sum.name,
			sum.samples,
			fmt.Sprintf("%.4f", sum.mean),
			fmt.Sprintf("%.4f", sum.stddev),
			fmt.Sprintf("%.4f", sum.lo),
			fmt.Sprintf("%.4f", sum.hi),
		})
	}
	for _, a := range contactActivity(contents.sensors) {
		t.AppendRow(table.Row{
			a.name + " active",
			a.samples,
			fmt.Sprintf("%.4f", a.mean),
			"", "", "",
		})
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// contactActivity returns, per contact name, the fraction of sensor messages in which it is
// active.
func contactActivity(sensors []sensorRecord) []summary {
	index := map[string]int{}
	var out []summary
	for _, r := range sensors {
		for _, c := range r.Sensor.Contacts {
			i, ok := index[c.Name]
			if !ok {
				i = len(out)
				index[c.Name] = i
				out = append(out, summary{name: c.Name})
			}
			out[i].samples++
			if c.Active {
				out[i].mean++
			}
		}
	}
	for i := range out {
		out[i].mean /= float64(out[i].samples)
	}
	return out
}
