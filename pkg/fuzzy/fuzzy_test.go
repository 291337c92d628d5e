package fuzzy

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOptions() []Option {
	return []Option{
		{Value: "blog", Description: "Personal blog"},
		{Value: "docs", Description: "Documentation site"},
		{Value: "demo"},
	}
}

func TestPromptPickerSelectMany(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr string
	}{
		{
			name:  "single selection",
			input: "2\n",
			want:  []string{"docs"},
		},
		{
			name:  "multiple selections",
			input: "1,3\n",
			want:  []string{"blog", "demo"},
		},
		{
			name:  "whitespace around indices",
			input: " 1 , 2 \n",
			want:  []string{"blog", "docs"},
		},
		{
			name:  "empty line selects all",
			input: "\n",
			want:  []string{"blog", "docs", "demo"},
		},
		{
			name:    "non-numeric input",
			input:   "one\n",
			wantErr: "invalid selection",
		},
		{
			name:    "out of range",
			input:   "7\n",
			wantErr: "selection out of range",
		},
		{
			name:    "only commas",
			input:   ",,\n",
			wantErr: "no selection made",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			picker := NewPromptPicker("Select repositories", strings.NewReader(tt.input), &out)

			selected, err := picker.SelectMany(sampleOptions())

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, selected)
		})
	}
}

func TestPromptPickerDisplaysOptions(t *testing.T) {
	var out bytes.Buffer
	picker := NewPromptPicker("Select repositories", strings.NewReader("1\n"), &out)

	_, err := picker.SelectMany(sampleOptions())

	require.NoError(t, err)
	display := out.String()
	assert.Contains(t, display, "Select repositories")
	assert.Contains(t, display, "1. blog - Personal blog")
	assert.Contains(t, display, "3. demo")
}

func TestPromptPickerNoOptions(t *testing.T) {
	picker := NewPromptPicker("Select repositories", strings.NewReader("\n"), &bytes.Buffer{})

	_, err := picker.SelectMany(nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no options available")
}
