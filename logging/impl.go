package logging

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type impl struct {
	name  string
	level AtomicLevel
	inUTC bool

	appenders []Appender
}

func newImpl(name string, level Level, inUTC bool, appenders ...Appender) *impl {
	return &impl{name: name, level: NewAtomicLevelAt(level), inUTC: inUTC, appenders: appenders}
}

func (imp *impl) AddAppender(appender Appender) {
	imp.appenders = append(imp.appenders, appender)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.Set(level)
}

func (imp *impl) GetLevel() Level {
	return imp.level.Get()
}

// Sublogger shares the appenders of its parent but has its own level, starting at the parent's.
func (imp *impl) Sublogger(subname string) Logger {
	name := subname
	if imp.name != "" {
		name = imp.name + "." + subname
	}
	return &impl{
		name:      name,
		level:     NewAtomicLevelAt(imp.level.Get()),
		inUTC:     imp.inUTC,
		appenders: imp.appenders,
	}
}

func (imp *impl) Sync() error {
	var err error
	for _, appender := range imp.appenders {
		err = multierr.Append(err, appender.Sync())
	}
	return err
}

// emit hands one entry to every appender. It must be called directly by log, logf or logw so
// the caller lookup lands on the line that called the exported method.
func (imp *impl) emit(level Level, msg string, fields []zapcore.Field) {
	entry := zapcore.Entry{
		Level:      level.AsZap(),
		Time:       time.Now(),
		LoggerName: imp.name,
		Message:    msg,
		Caller:     getCaller(),
	}
	if imp.inUTC {
		entry.Time = entry.Time.UTC()
	}
	for _, appender := range imp.appenders {
		if err := appender.Write(entry, fields); err != nil {
			fmt.Fprint(os.Stderr, err)
		}
	}
}

func (imp *impl) log(level Level, args ...interface{}) {
	if level >= imp.level.Get() {
		imp.emit(level, fmt.Sprint(args...), nil)
	}
}

func (imp *impl) logf(level Level, template string, args ...interface{}) {
	if level >= imp.level.Get() {
		imp.emit(level, fmt.Sprintf(template, args...), nil)
	}
}

func (imp *impl) logw(level Level, msg string, keysAndValues ...interface{}) {
	if level >= imp.level.Get() {
		imp.emit(level, msg, toFields(keysAndValues))
	}
}

// toFields pairs up alternating keys and values. A trailing key without a value is kept with an
// error in its place.
func toFields(keysAndValues []interface{}) []zapcore.Field {
	fields := make([]zapcore.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		var key string
		if stringer, ok := keysAndValues[i].(fmt.Stringer); ok {
			key = stringer.String()
		} else {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}
		if i+1 == len(keysAndValues) {
			fields = append(fields, zap.Any(key, errors.New("unpaired log key")))
			break
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}

func (imp *impl) Debug(args ...interface{}) { imp.log(DEBUG, args...) }

func (imp *impl) Debugf(template string, args ...interface{}) { imp.logf(DEBUG, template, args...) }

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) {
	imp.logw(DEBUG, msg, keysAndValues...)
}

func (imp *impl) Info(args ...interface{}) { imp.log(INFO, args...) }

func (imp *impl) Infof(template string, args ...interface{}) { imp.logf(INFO, template, args...) }

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) {
	imp.logw(INFO, msg, keysAndValues...)
}

func (imp *impl) Warn(args ...interface{}) { imp.log(WARN, args...) }

func (imp *impl) Warnf(template string, args ...interface{}) { imp.logf(WARN, template, args...) }

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) {
	imp.logw(WARN, msg, keysAndValues...)
}

func (imp *impl) Error(args ...interface{}) { imp.log(ERROR, args...) }

func (imp *impl) Errorf(template string, args ...interface{}) { imp.logf(ERROR, template, args...) }

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) {
	imp.logw(ERROR, msg, keysAndValues...)
}

// getCaller skips itself, emit, the log helper and the exported method.
func getCaller() zapcore.EntryCaller {
	const skip = 4
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return zapcore.EntryCaller{}
	}
	caller := zapcore.EntryCaller{Defined: true, PC: pc, File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		caller.Function = fn.Name()
	}
	return caller
}
