package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"inventory-chat/internal/config"
)

func TestStartupFailure(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantPrefix string
	}{
		{
			name:       "missing credential",
			err:        fmt.Errorf("%w: GEMINI_API_KEY is not set", config.ErrMissingCredential),
			wantPrefix: "Configuration error: ",
		},
		{
			name:       "malformed value",
			err:        errors.New("invalid SESSION_TTL"),
			wantPrefix: "Failed to load configuration: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := startupFailure(tt.err)
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("startupFailure() = %q, want prefix %q", got, tt.wantPrefix)
			}
			if !strings.Contains(got, tt.err.Error()) {
				t.Errorf("startupFailure() = %q, want it to include the cause", got)
			}
		})
	}
}
