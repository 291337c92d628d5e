// Package fuzzy provides interactive selection of manifest repositories.
package fuzzy

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Option represents a selectable repository
type Option struct {
	Value       string
	Description string
}

// Picker selects a subset of options interactively.
type Picker interface {
	SelectMany(options []Option) ([]string, error)
}

// PromptPicker is a plain line-oriented picker used when fzf is
// unavailable. Users enter comma-separated numbers.
type PromptPicker struct {
	prompt string
	in     io.Reader
	out    io.Writer
}

// NewPromptPicker creates a picker reading selections from in.
func NewPromptPicker(prompt string, in io.Reader, out io.Writer) *PromptPicker {
	return &PromptPicker{prompt: prompt, in: in, out: out}
}

// SelectMany displays the options and parses a comma-separated list of
// indices. An empty line selects everything.
func (p *PromptPicker) SelectMany(options []Option) ([]string, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("no options available")
	}

	fmt.Fprintln(p.out, p.prompt)
	fmt.Fprintln(p.out, strings.Repeat("-", len(p.prompt)))

	for i, option := range options {
		fmt.Fprintf(p.out, "%d. %s", i+1, option.Value)
		if option.Description != "" {
			fmt.Fprintf(p.out, " - %s", option.Description)
		}
		fmt.Fprintln(p.out)
	}

	fmt.Fprintf(p.out, "\nSelect options (e.g. 1,3) or press Enter for all: ")

	reader := bufio.NewReader(p.in)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	input = strings.TrimSpace(input)
	if input == "" {
		values := make([]string, len(options))
		for i, option := range options {
			values[i] = option.Value
		}
		return values, nil
	}

	var selected []string
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		index, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid selection: %s", part)
		}
		if index < 1 || index > len(options) {
			return nil, fmt.Errorf("selection out of range: %d", index)
		}
		selected = append(selected, options[index-1].Value)
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("no selection made")
	}

	return selected, nil
}
