package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Entry = logrus.Entry

// Fields — псевдоним logrus.Fields, чтобы пакеты не импортировали logrus напрямую.
type Fields = logrus.Fields

// Init настраивает JSON-вывод в stdout. Уровень debug включается через DEBUG=true.
func Init() {
	Setup(os.Stdout, os.Getenv("DEBUG") == "true")
}

// Setup настраивает логгер на произвольный writer; используется в тестах.
func Setup(out io.Writer, debug bool) {
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	Log.SetOutput(out)

	if debug {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}
