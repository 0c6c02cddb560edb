package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "✓ installed", SuccessMsg("installed"))
	assert.Equal(t, "! machine init failed: Error: boom", WarnMsg("%s failed: %s", "machine init", "Error: boom"))
	assert.Equal(t, "✗ x", ErrorMsg("x"))
	assert.Equal(t, "● 2 connections", InfoMsg("%d connections", 2))
}

func TestBool(t *testing.T) {
	assert.Equal(t, "true", Bool(true))
	assert.Equal(t, "false", Bool(false))
}

func TestKeyValues(t *testing.T) {
	out := KeyValues("  ", KV("phase", "Installed"), KV("container", "abc"))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	assert.Equal(t, []string{
		"  phase:     Installed",
		"  container: abc",
	}, lines)
}
