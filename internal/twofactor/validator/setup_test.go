package validator

import (
	"strings"
	"testing"
)

func TestSetupValidator(t *testing.T) {
	v := NewSetupValidator()

	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"valid", "hunter2", ""},
		{"empty", "", "password is required"},
		{"too long", strings.Repeat("a", 1025), "password must be at most 1024 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := v.Validate(&SetupRequest{Password: tt.password})
			if tt.wantErr == "" {
				if details != nil {
					t.Errorf("unexpected details: %v", details)
				}
				return
			}
			if details["password"] != tt.wantErr {
				t.Errorf("details = %v, want %q", details, tt.wantErr)
			}
		})
	}
}
