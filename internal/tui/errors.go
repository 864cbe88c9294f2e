package tui

import "fmt"

// wrapErr prefixes an error with the action that produced it.
func wrapErr(action string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", action, err)
}
