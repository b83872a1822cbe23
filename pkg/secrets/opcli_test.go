package secrets

import (
	"fmt"
	"testing"

	"github.com/arthur-debert/opfill/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestOpCLIURI(t *testing.T) {
	tests := []struct {
		name     string
		op       OpCLI
		ref      string
		expected string
	}{
		{
			name:     "bare_name_uses_vault_and_default_field",
			op:       OpCLI{Vault: "Personal"},
			ref:      "API_KEY",
			expected: "op://Personal/API_KEY/password",
		},
		{
			name:     "bare_name_with_custom_field",
			op:       OpCLI{Vault: "Work", Field: "credential"},
			ref:      "GH_TOKEN",
			expected: "op://Work/GH_TOKEN/credential",
		},
		{
			name:     "full_reference_passes_through",
			op:       OpCLI{Vault: "Personal", Field: "credential"},
			ref:      "op://Other/item/username",
			expected: "op://Other/item/username",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.op.uri(tt.ref))
		})
	}
}

func TestClassifyOpError(t *testing.T) {
	tests := []struct {
		name     string
		stderr   string
		expected errors.ErrorCode
	}{
		{
			name:     "not_signed_in",
			stderr:   "[ERROR] you are not currently signed in",
			expected: errors.ErrNotSignedIn,
		},
		{
			name:     "item_not_found",
			stderr:   `"API_KEY" isn't an item in the "Personal" vault`,
			expected: errors.ErrMissingSecret,
		},
		{
			name:     "empty_stderr",
			stderr:   "",
			expected: errors.ErrMissingSecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyOpError("API_KEY", fmt.Errorf("exit status 1"), tt.stderr)
			assert.Equal(t, tt.expected, errors.GetErrorCode(err))
		})
	}
}
