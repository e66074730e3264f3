package domain

import (
	"errors"
	"testing"
)

func TestGuest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		guest   *Guest
		wantErr error
	}{
		{
			name:  "valid guest",
			guest: &Guest{Name: "Ana Morales", Email: "ana@example.com", Phone: "+34911234567"},
		},
		{
			name:    "name too short",
			guest:   &Guest{Name: "A", Email: "ana@example.com", Phone: "+34911234567"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "whitespace name",
			guest:   &Guest{Name: "   ", Email: "ana@example.com", Phone: "+34911234567"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "malformed email",
			guest:   &Guest{Name: "Ana Morales", Email: "ana@", Phone: "+34911234567"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "phone too short",
			guest:   &Guest{Name: "Ana Morales", Email: "ana@example.com", Phone: "12345"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "phone with letters",
			guest:   &Guest{Name: "Ana Morales", Email: "ana@example.com", Phone: "+34abc123456"},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.guest.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
