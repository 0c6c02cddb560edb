package podman

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		diagnostic string
		want       Outcome
	}{
		{
			name:       "machine already exists",
			diagnostic: "Error: podman-machine-default: VM already exists",
			want:       OutcomeAlreadyExists,
		},
		{
			name:       "named machine already exists",
			diagnostic: `Error: machine "peerpods" already exists`,
			want:       OutcomeAlreadyExists,
		},
		{
			name:       "os apply no-op",
			diagnostic: "Error: error: Old and new refs are equal: ostree-unverified-registry:quay.io/spotlesstofu/podman-cri:latest",
			want:       OutcomeNoOpApply,
		},
		{
			name:       "unrelated failure",
			diagnostic: "Error: exhausted retries waiting for machine to start",
			want:       OutcomeOther,
		},
		{
			name:       "empty",
			diagnostic: "",
			want:       OutcomeOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.diagnostic))
		})
	}
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, OutcomeOK, OutcomeOf(nil))
	assert.Equal(t, OutcomeOther, OutcomeOf(errors.New("VM already exists")))

	cmdErr := &CommandError{Stderr: "Error: podman-machine-default: VM already exists\n"}
	assert.Equal(t, OutcomeAlreadyExists, OutcomeOf(cmdErr))
	assert.Equal(t, OutcomeAlreadyExists, OutcomeOf(fmt.Errorf("init: %w", cmdErr)))
}

func TestCommandErrorMessage(t *testing.T) {
	exec := errors.New("exit status 125")

	t.Run("trimmed stderr", func(t *testing.T) {
		err := &CommandError{Stderr: "  Error: boom\n", Err: exec}
		assert.Equal(t, "Error: boom", err.Error())
		assert.ErrorIs(t, err, exec)
	})

	t.Run("falls back to exec error", func(t *testing.T) {
		err := &CommandError{Stderr: "\n", Err: exec}
		assert.Equal(t, "exit status 125", err.Error())
	})

	t.Run("no detail at all", func(t *testing.T) {
		err := &CommandError{Args: []string{"machine", "init"}}
		assert.Equal(t, "podman machine init failed", err.Error())
	})
}
