package convert

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Converter is the external conversion collaborator: given a source path it
// produces a derived output file or fails. Implementations must honor ctx
// cancellation on a best-effort basis.
type Converter interface {
	Convert(ctx context.Context, path string) (outputPath string, err error)
}

// Func adapts a plain function to the Converter interface
type Func func(ctx context.Context, path string) (string, error)

func (f Func) Convert(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// Error is a structured conversion failure with a human-readable reason
type Error struct {
	Path   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("conversion of %s failed: %s", e.Path, e.Reason)
}

// OutputPath returns the derived file written for a source path: same
// directory, same stem, markdown extension.
func OutputPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".md"
}

// CommandConverter shells out to an external conversion binary. The command
// is invoked as `command [args...] <source> -o <output>` and its stderr is
// captured to build the failure reason.
type CommandConverter struct {
	command string
	args    []string
}

// NewCommandConverter creates a converter around the given binary
func NewCommandConverter(command string, args ...string) *CommandConverter {
	return &CommandConverter{
		command: command,
		args:    args,
	}
}

// Convert runs the conversion command for path. ctx cancellation kills the
// child process; the caller decides what to do with an abandoned run.
func (c *CommandConverter) Convert(ctx context.Context, path string) (string, error) {
	output := OutputPath(path)

	args := append(append([]string{}, c.args...), path, "-o", output)
	cmd := exec.CommandContext(ctx, c.command, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &Error{
			Path:   path,
			Reason: reason(stderr.String(), err),
		}
	}
	return output, nil
}

// reason extracts the most useful failure text from a command run: the last
// non-blank stderr line when present, the exec error otherwise.
func reason(stderr string, err error) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return err.Error()
}
