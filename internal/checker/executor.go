package checker

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/August26/nullvadcheck-go/internal/model"
)

// CommandRunner abstracts subprocess execution so the validator can be
// tested against canned client output.
type CommandRunner interface {
	// Run executes name with args to completion and returns captured stdout.
	// A non-zero exit status is an error carrying the captured stderr text.
	Run(ctx context.Context, env map[string]string, name string, args ...string) (string, error)
}

// Executor runs the external client as a subprocess, one OS process per
// call, with the parent environment overlaid by the given overrides.
// No state is retained between calls.
//
// No timeout is imposed here: the client's own network timeouts bound
// the call. Callers needing a hard bound pass a context with a deadline.
type Executor struct{}

// NewExecutor returns a ready Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Run implements CommandRunner.
func (e *Executor) Run(ctx context.Context, env map[string]string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = mergedEnv(env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s %s: %v: %s",
			model.ErrExecution, name, strings.Join(args, " "), err,
			strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// mergedEnv copies the current process environment and overlays the
// overrides, replacing variables that are already present.
func mergedEnv(overrides map[string]string) []string {
	base := os.Environ()
	if len(overrides) == 0 {
		return base
	}

	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := overrides[key]; ok {
			continue
		}
		out = append(out, kv)
	}
	for k, v := range overrides {
		out = append(out, k+"="+v)
	}
	return out
}
