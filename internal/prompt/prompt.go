// Package prompt asks the user for fetch parameters in interactive mode.
package prompt

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// Prompter defines interface for user interaction
type Prompter interface {
	// Input asks for free text, re-prompting until validate accepts it.
	Input(label, defaultValue string, validate func(string) error) (string, error)
	// Select asks the user to pick one of options and returns it.
	Select(label string, options []string, defaultValue string) (string, error)
}

// DefaultPrompter implements Prompter on the terminal with promptui.
type DefaultPrompter struct{}

// Ensure DefaultPrompter implements Prompter interface
var _ Prompter = (*DefaultPrompter)(nil)

// Input shows a text prompt.
func (p *DefaultPrompter) Input(label, defaultValue string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  defaultValue,
		Validate: promptui.ValidateFunc(validate),
	}

	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return strings.TrimSpace(value), nil
}

// Select shows a list prompt with the default option preselected.
func (p *DefaultPrompter) Select(label string, options []string, defaultValue string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options for %s", label)
	}

	cursor := 0
	for i, o := range options {
		if o == defaultValue {
			cursor = i
			break
		}
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     options,
		Size:      len(options),
		CursorPos: cursor,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(options[index]), strings.ToLower(input))
		},
	}

	_, selected, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%s selection failed: %w", strings.ToLower(label), err)
	}
	return selected, nil
}
