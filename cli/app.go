// Package cli contains the lfcbag command line tool, which inspects controller messages recorded
// in ROS bags.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"go.viam.com/lfcmsgs/logging"
)

const (
	// Flags.
	flagBag          = "bag"
	flagSensorTopic  = "sensor-topic"
	flagControlTopic = "control-topic"
	flagStart        = "start"
	flagEnd          = "end"
	flagFormat       = "format"
	flagDestination  = "destination"
	flagDebug        = "debug"
	flagJSONLogs     = "json-logs"
	flagMaxSize      = "max-size"

	formatText = "text"
	formatJSON = "json"

	defaultSensorTopic  = "/sensor"
	defaultControlTopic = "/control"
)

func bagFlags() []cli.Flag {
	return []cli.Flag{
		&cli.PathFlag{
			Name:     flagBag,
			Aliases:  []string{"b"},
			Usage:    "read messages from bag `FILE`",
			Required: true,
		},
		&cli.StringFlag{
			Name:  flagSensorTopic,
			Value: defaultSensorTopic,
			Usage: "topic carrying Sensor messages, empty to skip",
		},
		&cli.StringFlag{
			Name:  flagControlTopic,
			Value: defaultControlTopic,
			Usage: "topic carrying Control messages, empty to skip",
		},
		&cli.StringFlag{
			Name:  flagStart,
			Usage: "ISO-8601 timestamp in RFC3339 format indicating the start of the interval",
		},
		&cli.StringFlag{
			Name:  flagEnd,
			Usage: "ISO-8601 timestamp in RFC3339 format indicating the end of the interval",
		},
	}
}

// NewApp returns a new app with the lfcbag commands, Writer set to out, and ErrWriter set to
// errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "lfcbag",
		Usage:           "inspect linear feedback controller messages recorded in ROS bags",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  flagJSONLogs,
				Usage: "write logs to stderr as JSON objects",
			},
		},
		Before: func(c *cli.Context) error {
			var logger logging.Logger
			switch {
			case c.Bool(flagJSONLogs):
				logger = logging.NewJSONLogger("lfcbag")
			case c.Bool(flagDebug):
				logger = logging.NewDebugLogger("lfcbag")
			default:
				logger = logging.NewLogger("lfcbag")
			}
			if c.Bool(flagDebug) {
				logger.SetLevel(zapcore.DebugLevel)
			}
			logging.ReplaceGlobal(logger)
			return nil
		},
		After: func(c *cli.Context) error {
			//nolint:errcheck
			logging.Global().Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "summarize",
				Usage:     "convert every Sensor and Control message and print what they contain",
				UsageText: "lfcbag summarize --bag <file> [--format text|json] [other options]",
				Flags: append(bagFlags(), &cli.StringFlag{
					Name:  flagFormat,
					Value: formatText,
					Usage: "output format, one of text or json",
				}),
				Action: SummarizeAction,
			},
			{
				Name:      "export",
				Usage:     "convert every Sensor and Control message and write them as delimited protobuf Structs",
				UsageText: "lfcbag export --bag <file> --destination <dir> [other options]",
				Flags: append(bagFlags(),
					&cli.PathFlag{
						Name:     flagDestination,
						Usage:    "output directory for sensors.pb and controls.pb, replacing those of an earlier export and their rotated backups",
						Required: true,
					},
					&cli.IntFlag{
						Name:  flagMaxSize,
						Value: 100,
						Usage: "rotate an output file once it grows past this many megabytes",
					},
				),
				Action: ExportAction,
			},
			{
				Name:      "stats",
				Usage:     "print statistics of the joint states, contacts and feedback gains",
				UsageText: "lfcbag stats --bag <file> [other options]",
				Flags:     bagFlags(),
				Action:    StatsAction,
			},
			{
				Name:      "plot",
				Usage:     "plot the joint positions of the Sensor messages",
				UsageText: "lfcbag plot --bag <file> --destination <png> [other options]",
				Flags: append(bagFlags(), &cli.PathFlag{
					Name:     flagDestination,
					Usage:    "output image `FILE`; the extension selects the format",
					Required: true,
				}),
				Action: PlotAction,
			},
		},
	}
}
