package logger

import (
	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init инициализирует структурированный логгер.
// В development пишем текст, иначе JSON.
func Init(level string, development bool) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if development {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// Entry возвращает запись с полем component; до Init пишет в стандартный логгер logrus.
func Entry(component string) *logrus.Entry {
	if Log == nil {
		return logrus.WithField("component", component)
	}
	return Log.WithField("component", component)
}
