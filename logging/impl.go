package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type impl struct {
	name  string
	level zap.AtomicLevel
	// raw writes every entry it receives; level filtering happens per logger so that a
	// sublogger can be more verbose than its parent.
	raw     *zap.Logger
	logger  *zap.Logger
	sugared *zap.SugaredLogger
}

func newImpl(name string, level zapcore.Level, raw *zap.Logger) *impl {
	imp := &impl{name: name, level: zap.NewAtomicLevelAt(level), raw: raw}
	imp.logger = raw.Named(name).WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return &leveledCore{Core: c, level: imp.level}
	}))
	imp.sugared = imp.logger.WithOptions(zap.AddCallerSkip(1)).Sugar()
	return imp
}

func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = imp.name + "." + subname
	}
	return newImpl(newName, imp.level.Level(), imp.raw)
}

func (imp *impl) SetLevel(level zapcore.Level) {
	imp.level.SetLevel(level)
}

func (imp *impl) Desugar() *zap.Logger {
	return imp.logger
}

func (imp *impl) Sync() error {
	return imp.raw.Sync()
}

func (imp *impl) Debug(args ...interface{}) { imp.sugared.Debug(args...) }

func (imp *impl) Debugf(template string, args ...interface{}) { imp.sugared.Debugf(template, args...) }

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) {
	imp.sugared.Debugw(msg, keysAndValues...)
}

func (imp *impl) Info(args ...interface{}) { imp.sugared.Info(args...) }

func (imp *impl) Infof(template string, args ...interface{}) { imp.sugared.Infof(template, args...) }

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) {
	imp.sugared.Infow(msg, keysAndValues...)
}

func (imp *impl) Warn(args ...interface{}) { imp.sugared.Warn(args...) }

func (imp *impl) Warnf(template string, args ...interface{}) { imp.sugared.Warnf(template, args...) }

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) {
	imp.sugared.Warnw(msg, keysAndValues...)
}

func (imp *impl) Error(args ...interface{}) { imp.sugared.Error(args...) }

func (imp *impl) Errorf(template string, args ...interface{}) { imp.sugared.Errorf(template, args...) }

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) {
	imp.sugared.Errorw(msg, keysAndValues...)
}

type leveledCore struct {
	zapcore.Core
	level zap.AtomicLevel
}

func (c *leveledCore) Enabled(lvl zapcore.Level) bool {
	return c.level.Enabled(lvl) && c.Core.Enabled(lvl)
}

func (c *leveledCore) With(fields []zapcore.Field) zapcore.Core {
	return &leveledCore{Core: c.Core.With(fields), level: c.level}
}

func (c *leveledCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.level.Enabled(entry.Level) {
		return checked
	}
	return c.Core.Check(entry, checked)
}
