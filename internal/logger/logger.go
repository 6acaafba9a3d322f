package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable before Init with
// logrus defaults.
var Log = logrus.New()

// Init configures Log. It should be called once from main.
// level falls back to info when it does not parse; format "json" selects
// the JSON formatter, anything else the text formatter.
func Init(level, format string, out io.Writer) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: out != os.Stderr && out != os.Stdout,
		})
	}

	Log.SetOutput(out)
}

// InitFile is Init writing to path, appending. The returned file must be
// closed by the caller.
func InitFile(level, format, path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	Init(level, format, f)
	return f, nil
}
