package agent

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Updater fetches, verifies, and applies one update image. Progress is
// reported through the callback as a 0-100 percentage; implementations
// may report coarsely or not at all.
type Updater interface {
	Apply(ctx context.Context, job Job, progress func(percent uint32)) error
}

// defaultInstallTimeout bounds an installer run when no timeout is
// configured.
const defaultInstallTimeout = 15 * time.Minute

// CommandUpdater delegates the download/verify/apply pipeline to an
// external installer command. The job's fields are appended as
// arguments in the fixed order: source, sha256, version.
//
// The installer reports progress by printing lines of the form
// "PROGRESS <n>" (n in 0-100) on stdout; all other output is ignored.
// "PROGRESS 100" marks the end of the download, after which the
// installer verifies the digest and applies the image. A nonzero exit
// status fails the update.
type CommandUpdater struct {
	// Command is the installer binary path. Required.
	Command string

	// Args are fixed arguments placed before the job arguments.
	Args []string

	// WorkDir is the installer's working directory. Empty inherits
	// the agent's.
	WorkDir string

	// Timeout bounds a single run. Zero means 15 minutes.
	Timeout time.Duration
}

// Apply implements Updater by running the installer command.
func (u *CommandUpdater) Apply(ctx context.Context, job Job, progress func(percent uint32)) error {
	if u.Command == "" {
		return fmt.Errorf("%w: no installer command configured", ErrInvalidParams)
	}

	timeout := u.Timeout
	if timeout <= 0 {
		timeout = defaultInstallTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, u.Args...), job.Source, job.SHA256, job.Version)
	cmd := exec.CommandContext(runCtx, u.Command, args...)
	cmd.Dir = u.WorkDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("installer stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting installer: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if pct, ok := parseProgressLine(scanner.Text()); ok && progress != nil {
			progress(pct)
		}
	}

	if err := cmd.Wait(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("installer timed out after %v", timeout)
		}
		return fmt.Errorf("installer failed: %w", err)
	}
	return nil
}

// parseProgressLine extracts the percentage from a "PROGRESS <n>" line.
func parseProgressLine(line string) (uint32, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "PROGRESS ")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(rest), 10, 32)
	if err != nil || n > 100 {
		return 0, false
	}
	return uint32(n), true
}
