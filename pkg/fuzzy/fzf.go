package fuzzy

import (
	"fmt"
	"io"
	"os"
	"strings"

	fzf "github.com/junegunn/fzf/src"
)

// FzfRunner defines the interface for running fzf
type FzfRunner interface {
	Run(opts *fzf.Options) (int, error)
}

// DefaultFzfRunner implements the FzfRunner interface using the real fzf library
type DefaultFzfRunner struct{}

// Run executes fzf with the given options
func (r *DefaultFzfRunner) Run(opts *fzf.Options) (int, error) {
	return fzf.Run(opts)
}

// FzfPicker implements multi-selection using the fzf library.
type FzfPicker struct {
	prompt string
	runner FzfRunner
}

// NewFzfPicker creates a new fzf-backed picker.
func NewFzfPicker(prompt string) *FzfPicker {
	return &FzfPicker{
		prompt: prompt,
		runner: &DefaultFzfRunner{},
	}
}

// NewFzfPickerWithRunner creates a picker with a custom runner (for testing).
func NewFzfPickerWithRunner(prompt string, runner FzfRunner) *FzfPicker {
	return &FzfPicker{
		prompt: prompt,
		runner: runner,
	}
}

// SelectMany starts fzf in multi-select mode and returns the chosen
// repository names. Falls back to the prompt picker when fzf cannot run.
func (p *FzfPicker) SelectMany(options []Option) ([]string, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("no options available")
	}

	// fzf reads candidates from stdin, so write them to a temporary file
	// and swap the standard streams around the run.
	tmpFile, err := os.CreateTemp("", "fzf-options-*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmpFile.Name())
	}()

	for _, option := range options {
		displayText := option.Value
		if option.Description != "" {
			displayText = fmt.Sprintf("%s  │  %s", option.Value, option.Description)
		}
		if _, err := fmt.Fprintln(tmpFile, displayText); err != nil {
			_ = tmpFile.Close()
			return nil, fmt.Errorf("failed to write option to file: %w", err)
		}
	}

	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temporary file: %w", err)
	}

	args := []string{
		"--prompt=" + p.prompt + " ",
		"--height=10",
		"--layout=default",
		"--multi",
		"--cycle",
		"--clear",
		"--extended",
		"--algo=v2",
		"--tiebreak=length",
		"--no-mouse",
		"--no-reverse",
		"--border=none",
	}

	opts, err := fzf.ParseOptions(true, args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fzf options: %w", err)
	}

	originalStdin := os.Stdin
	defer func() { os.Stdin = originalStdin }()

	input, err := os.Open(tmpFile.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to open temporary file for reading: %w", err)
	}
	defer func() {
		_ = input.Close()
	}()
	os.Stdin = input

	originalStdout := os.Stdout
	defer func() { os.Stdout = originalStdout }()

	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create pipe: %w", err)
	}
	defer func() {
		_ = r.Close()
	}()
	os.Stdout = w

	exitCode, runErr := p.runner.Run(opts)

	_ = w.Close()
	os.Stdout = originalStdout

	if runErr != nil {
		// Fall back to the plain picker when fzf cannot start (no TTY).
		fallback := NewPromptPicker(p.prompt, originalStdin, originalStdout)
		return fallback.SelectMany(options)
	}

	if exitCode != fzf.ExitOk {
		return nil, fmt.Errorf("fzf selection cancelled or failed")
	}

	result, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read fzf result: %w", err)
	}

	var selected []string
	for _, line := range strings.Split(strings.TrimSpace(string(result)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Lines are "value  │  description", keep only the value.
		parts := strings.Split(line, "  │  ")
		selected = append(selected, strings.TrimSpace(parts[0]))
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("no selection made")
	}

	return selected, nil
}

// Ensure both pickers implement the interface
var (
	_ Picker = (*FzfPicker)(nil)
	_ Picker = (*PromptPicker)(nil)
)
