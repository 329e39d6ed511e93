package logger

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
	return log
}

// NewDaemonLogger logs to a rotated file instead of the terminal; the
// daemon runs detached and its output would otherwise be lost.
func NewDaemonLogger(level, dir string) *logrus.Logger {
	log := New(level)
	log.SetOutput(&lumberjack.Logger{
		Filename:   filepath.Join(dir, "daemon.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	})
	return log
}
