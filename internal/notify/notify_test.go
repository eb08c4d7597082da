package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "local number gets country code", input: "9876543210", want: "+919876543210"},
		{name: "international number unchanged", input: "+919876543210", want: "+919876543210"},
		{name: "too short", input: "12345", wantErr: true},
		{name: "too long", input: "98765432101234", wantErr: true},
		{name: "already prefixed but wrong length", input: "+9198765", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input, "+91")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
