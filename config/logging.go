package config

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// SetupLogging configures the global logger. An empty path logs to stderr;
// otherwise the file is opened for append and its closer returned.
func SetupLogging(debug bool, path string) (io.Closer, error) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	if path == "" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return f, nil
}
