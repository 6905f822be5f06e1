package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	service := &UserService{BlackList: map[string]bool{"Blacklisted1!": true}}

	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"valid", "Sunshine42!", ""},
		{"too short", "Ab1!", "password must be at least 8 characters long"},
		{"no uppercase", "sunshine42!", "password must contain at least one uppercase letter"},
		{"no digit", "Sunshine!!", "password must contain at least one number"},
		{"no special", "Sunshine42", "password must contain at least one special character"},
		{"blacklisted", "Blacklisted1!", "password is too common. Please choose a stronger one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidatePassword(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}
