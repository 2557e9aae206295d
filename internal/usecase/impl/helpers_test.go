package impl

import (
	"io"
	"log/slog"
	"time"

	"indicators/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{SecretKey: "test-secret"}
	cfg.Auth = &config.AuthConfig{BcryptCost: 4}
	cfg.ApplyDefaults()

	return cfg
}

func fixedClock(v string) func() time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}

	return func() time.Time { return t }
}
