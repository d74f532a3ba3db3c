package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"gopkg.in/natefinch/lumberjack.v2"

	"go.viam.com/lfcmsgs/logging"
	"go.viam.com/lfcmsgs/protoutils"
)

const (
	sensorsFile  = "sensors.pb"
	controlsFile = "controls.pb"
)

// ExportAction is the corresponding Action for 'export'.
func ExportAction(c *cli.Context) error {
	logger := logging.Global().Sublogger("export")
	contents, err := loadBag(c, logger)
	if err != nil {
		return err
	}
	dst := c.Path(flagDestination)
	if err := os.MkdirAll(dst, 0o700); err != nil {
		return errors.Wrapf(err, "could not create destination %s", dst)
	}
	if err := exportContents(dst, c.Int(flagMaxSize), contents); err != nil {
		return err
	}
	logger.Infow("exported messages", "destination", dst,
		"sensors", len(contents.sensors), "controls", len(contents.controls))
	return nil
}

// exportContents re-encodes the converted messages and writes them as delimited protobuf
// Structs. Files are only created for topics that had messages, and are rotated once they grow
// past maxSizeMB megabytes.
func exportContents(dst string, maxSizeMB int, contents bagContents) error {
	if len(contents.sensors) > 0 {
		if err := writeDelimited(filepath.Join(dst, sensorsFile), maxSizeMB, len(contents.sensors), func(i int) (interface{}, error) {
			return contents.sensors[i].toMsg()
		}); err != nil {
			return err
		}
	}
	if len(contents.controls) > 0 {
		if err := writeDelimited(filepath.Join(dst, controlsFile), maxSizeMB, len(contents.controls), func(i int) (interface{}, error) {
			return contents.controls[i].toMsg()
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeDelimited(path string, maxSizeMB, n int, message func(i int) (interface{}, error)) (err error) {
	if err := removeExport(path); err != nil {
		return err
	}
	w := protoutils.NewDelimitedMessageWriter(&lumberjack.Logger{
		Filename: path,
		MaxSize:  maxSizeMB,
	})
	defer func() {
		err = multierr.Combine(err, w.Close())
	}()
	for i := 0; i < n; i++ {
		m, err := message(i)
		if err != nil {
			return errors.Wrapf(err, "message %d", i)
		}
		if err := w.Append(m); err != nil {
			return errors.Wrapf(err, "could not write message %d to %s", i, path)
		}
	}
	return nil
}

// removeExport deletes path and the backups lumberjack rotated out of it (name-<timestamp>.ext)
// so that an export never mixes with the files of an earlier one. lumberjack appends to an
// existing file.
func removeExport(path string) error {
	ext := filepath.Ext(path)
	backups, err := filepath.Glob(strings.TrimSuffix(path, ext) + "-*" + ext)
	if err != nil {
		return errors.Wrapf(err, "could not list backups of %s", path)
	}
	for _, p := range append(backups, path) {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "could not replace %s", p)
		}
	}
	return nil
}
