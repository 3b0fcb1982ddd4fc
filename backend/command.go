package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Run keeps waiting on output pipes once the
// predictor was killed, e.g. when a forked worker still holds stdout.
const waitDelay = 500 * time.Millisecond

// Command runs a local predictor process once per request. The file path is
// appended as the last argument and the process must print one JSON value.
type Command struct {
	name    string
	args    []string
	timeout time.Duration
}

func NewCommand(name string, args []string, timeout time.Duration) *Command {
	return &Command{
		name:    name,
		args:    append([]string(nil), args...),
		timeout: timeout,
	}
}

func (c *Command) InferGenre(ctx context.Context, filePath string) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := append(append([]string(nil), c.args...), filePath)
	cmd := exec.CommandContext(ctx, c.name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	killProcessGroup(cmd)

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("predictor %s: %w", c.name, ctxErr)
		}
		msg := strings.TrimSpace(stderr.String())
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && msg != "" {
			return nil, fmt.Errorf("predictor %s exited with code %d: %s", c.name, exitErr.ExitCode(), msg)
		}
		return nil, fmt.Errorf("predictor %s: %w", c.name, err)
	}

	return decodeResult(stdout.Bytes())
}
