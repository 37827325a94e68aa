package drvbackup

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelError LogLevel = "error"
)

func (lvl LogLevel) IsValid() bool {
	switch lvl {
	case LogLevelDebug, LogLevelInfo, LogLevelError:
		return true
	default:
		return false
	}
}

func (lvl LogLevel) LogrusLevel() logrus.Level {
	switch lvl {
	case LogLevelDebug:
		return logrus.DebugLevel
	case LogLevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

type logrusFileHook struct {
	file      *os.File
	formatter *logrus.TextFormatter
}

func addLogFileHook(file string, flag int, chmod os.FileMode) (*logrusFileHook, error) {
	dir := filepath.Dir(file)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		logrus.WithError(err).Errorf("Failed to create the logs dir: '%s'", dir)
	}

	logFile, err := os.OpenFile(file, flag, chmod)
	if err != nil {
		return nil, errors.Wrap(err, "unable to write log file")
	}

	hook := &logrusFileHook{
		file:      logFile,
		formatter: &logrus.TextFormatter{FullTimestamp: true, DisableColors: true},
	}
	logrus.AddHook(hook)

	return hook, nil
}

func (hook *logrusFileHook) Fire(entry *logrus.Entry) error {
	line, err := hook.formatter.Format(entry)
	if err != nil {
		return err
	}

	_, err = hook.file.Write(line)
	return err
}

func (hook *logrusFileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook *logrusFileHook) Close() error {
	return hook.file.Close()
}

// SetLogLevel sets the config level and the corresponding logrus level
func (d *Drvbackup) SetLogLevel(lvl LogLevel) {
	d.Config.LogLevel = lvl
	logrus.SetLevel(lvl.LogrusLevel())
}

// ConfigureLogger sends log entries to the log file and syslog when configured,
// to stderr otherwise. Progress for the user is printed to Drvbackup.Stdout.
func (d *Drvbackup) ConfigureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	d.SetLogLevel(d.Config.LogLevel)
	logrus.SetOutput(os.Stderr)

	if d.Config.LogFile != "" {
		logrus.Debugf("Adding log file hook %s", d.Config.LogFile)
		hook, err := addLogFileHook(d.Config.LogFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			logrus.WithError(err).Error("Can't write logs to file")
		} else {
			d.logFileHook = hook
			logrus.SetOutput(ioutil.Discard)
		}
	}

	if d.Config.LogSyslog != "" {
		logrus.Debugf("Adding syslog hook %s", d.Config.LogSyslog)
		err := addSyslogHook(d.Config.LogSyslog)
		if err != nil {
			logrus.WithError(err).Error("Can't set up syslog")
		}
	}
}
