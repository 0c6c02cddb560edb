package podman

import (
	"errors"
	"strings"
)

// CommandError is returned when a podman invocation fails.
// Its message is the diagnostic podman printed, so callers can surface it
// to users verbatim.
type CommandError struct {
	Args     []string
	Stderr   string
	ExitCode int
	Err      error
}

// Error returns the trimmed stderr, or the underlying error when podman
// printed nothing.
func (e *CommandError) Error() string {
	return e.Diagnostic()
}

// Diagnostic returns the text used to classify the failure.
func (e *CommandError) Diagnostic() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return s
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "podman " + strings.Join(e.Args, " ") + " failed"
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Outcome classifies the result of a podman machine command.
type Outcome int

const (
	OutcomeOK Outcome = iota
	// OutcomeAlreadyExists means init found the machine already present.
	OutcomeAlreadyExists
	// OutcomeNoOpApply means os apply found the image already deployed.
	OutcomeNoOpApply
	OutcomeOther
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeAlreadyExists:
		return "already-exists"
	case OutcomeNoOpApply:
		return "no-op-apply"
	default:
		return "other"
	}
}

// Diagnostic markers printed by podman.
const (
	markerAlreadyExists = "already exists"
	markerRefsEqual     = "refs are equal"
)

// Classify maps a podman diagnostic to an Outcome. Matching is by substring,
// since podman prefixes messages with the machine name and "Error:".
func Classify(diagnostic string) Outcome {
	switch {
	case strings.Contains(diagnostic, markerAlreadyExists):
		return OutcomeAlreadyExists
	case strings.Contains(diagnostic, markerRefsEqual):
		return OutcomeNoOpApply
	default:
		return OutcomeOther
	}
}

// OutcomeOf classifies an error returned by this package.
// A nil error is OutcomeOK; errors that are not a *CommandError are
// OutcomeOther.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return OutcomeOther
	}
	return Classify(cmdErr.Diagnostic())
}
