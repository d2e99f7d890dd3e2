package main

import (
	"fmt"
	"os"
	"strings"
)

// liveView resolves --ui: "on" and "off" are explicit, "auto" or empty
// turns the live view on only when stdout is a terminal.
func liveView(value string, stdout *os.File) (bool, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "on", "off":
		return v == "on", nil
	case "", "auto":
		return stdout != nil && isTerminal(stdout), nil
	}
	return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}
