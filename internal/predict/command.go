package predict

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// pipeWaitDelay bounds how long stdout is drained after the predictor exits
// or is killed, in case a grandchild still holds the pipe open.
const pipeWaitDelay = time.Second

// CommandPredictor runs an external scoring program with the feature file
// path appended as its last argument and reads the label from stdout.
type CommandPredictor struct {
	name    string
	args    []string
	timeout time.Duration
	log     *logrus.Entry
}

type CommandConfig struct {
	Command []string
	// Timeout of zero waits for the process indefinitely.
	Timeout time.Duration
}

func NewCommandPredictor(cfg CommandConfig, log *logrus.Entry) (*CommandPredictor, error) {
	if len(cfg.Command) == 0 || strings.TrimSpace(cfg.Command[0]) == "" {
		return nil, fmt.Errorf("predictor command is required")
	}

	return &CommandPredictor{
		name:    cfg.Command[0],
		args:    append([]string(nil), cfg.Command[1:]...),
		timeout: cfg.Timeout,
		log:     log,
	}, nil
}

func (p *CommandPredictor) Predict(ctx context.Context, req Request) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	args := append(append([]string(nil), p.args...), req.FeaturePath)
	cmd := exec.CommandContext(ctx, p.name, args...)
	cmd.WaitDelay = pipeWaitDelay

	p.log.WithField("command", cmd.String()).Debug("invoking predictor")

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			if stderr != "" {
				p.log.WithField("stderr", stderr).Debug("predictor stderr")
			}
			return "", fmt.Errorf("predictor exited with status %d: %w", exitErr.ExitCode(), err)
		}
		return "", fmt.Errorf("failed to run predictor: %w", err)
	}

	label := firstLine(string(out))
	if label == "" {
		return "", ErrNoOutput
	}
	return label, nil
}
