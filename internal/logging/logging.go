// Package logging configures the server's structured JSON logging and the
// per-request timing collector used by the HTTP handlers.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogging returns the server's logrus logger: JSON to stdout, with the
// level field renamed to loglevel for the log pipeline.
func SetupLogging() *logrus.Logger {
	logger := logrus.Logger{
		Formatter: &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:   os.Stdout,
		Level: logrus.InfoLevel,
	}

	return &logger
}
