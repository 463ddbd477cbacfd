package cmd

import (
	"testing"

	"github.com/developeraldawla/project-n8n/config"
	"github.com/sirupsen/logrus"
)

func TestConfigureLogging(t *testing.T) {
	prevLevel := logrus.GetLevel()
	prevFormatter := logrus.StandardLogger().Formatter
	t.Cleanup(func() {
		logrus.SetLevel(prevLevel)
		logrus.SetFormatter(prevFormatter)
	})

	if err := configureLogging(&config.Config{Log: config.LogConfig{Level: "debug", Format: "text"}}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if logrus.GetLevel() != logrus.DebugLevel {
		t.Fatalf("unexpected level: %v", logrus.GetLevel())
	}
	if _, ok := logrus.StandardLogger().Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("expected text formatter, got %T", logrus.StandardLogger().Formatter)
	}

	if err := configureLogging(&config.Config{Log: config.LogConfig{}}); err != nil {
		t.Fatalf("expected defaults to be accepted, got %v", err)
	}
	if _, ok := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected json formatter, got %T", logrus.StandardLogger().Formatter)
	}
}

func TestConfigureLoggingRejectsInvalidValues(t *testing.T) {
	prevLevel := logrus.GetLevel()
	prevFormatter := logrus.StandardLogger().Formatter
	t.Cleanup(func() {
		logrus.SetLevel(prevLevel)
		logrus.SetFormatter(prevFormatter)
	})

	if err := configureLogging(&config.Config{Log: config.LogConfig{Level: "loud"}}); err == nil {
		t.Fatal("expected error for invalid level")
	}
	if err := configureLogging(&config.Config{Log: config.LogConfig{Level: "info", Format: "xml"}}); err == nil {
		t.Fatal("expected error for invalid format")
	}
}
