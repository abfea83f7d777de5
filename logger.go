package main

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"lg/nutrition-go-api/config"
)

// setupLogger configures the global logrus logger from cfg. Unknown levels
// fall back to info; config validation normally rejects them first.
func setupLogger(cfg config.LogConfig) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
