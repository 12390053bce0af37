package logger

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"restaurant-ordering-api/config"
)

// Setup configures the process-wide logrus logger. Output goes to a rotated
// file when a path is configured and to stdout otherwise.
func Setup(conf config.LoggingConfig) error {
	level, err := log.ParseLevel(conf.Level)
	if err != nil {
		return fmt.Errorf("unknown logging level %q: %w", conf.Level, err)
	}
	log.SetLevel(level)

	if conf.Path != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   conf.Path,
			MaxSize:    32, // megabytes
			MaxBackups: 2,
			MaxAge:     28, // days
			Compress:   true,
		})
		log.SetFormatter(&log.TextFormatter{
			PadLevelText:    true,
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: time.DateTime,
		})
		return nil
	}

	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
	return nil
}
