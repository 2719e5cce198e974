package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"techevents/config"
)

func TestCheckAuthConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		env     string
		secret  string
		wantErr bool
	}{
		{"production with secret", "production", "s3cret", false},
		{"production without secret", "production", "", true},
		{"development without secret", "development", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Environment: tt.env, Auth: config.AuthConfig{JWTSecret: tt.secret}}
			err := checkAuthConfig(cfg, logger)
			if tt.wantErr {
				assert.ErrorContains(t, err, "JWT_SECRET")
				return
			}
			assert.NoError(t, err)
		})
	}
}
