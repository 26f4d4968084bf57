package agent

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Rebooter restarts the device so a completed update takes effect.
type Rebooter interface {
	Reboot(ctx context.Context) error
}

// RebooterFunc adapts a plain function to the Rebooter interface.
type RebooterFunc func(ctx context.Context) error

// Reboot implements Rebooter.
func (f RebooterFunc) Reboot(ctx context.Context) error {
	return f(ctx)
}

const rebootTimeout = 10 * time.Second

// SystemdRebooter reboots through systemctl. The call returns once the
// reboot is scheduled; the process is torn down by the system shortly
// after.
type SystemdRebooter struct{}

// Reboot implements Rebooter.
func (SystemdRebooter) Reboot(ctx context.Context) error {
	rebootCtx, cancel := context.WithTimeout(ctx, rebootTimeout)
	defer cancel()

	cmd := exec.CommandContext(rebootCtx, "systemctl", "reboot")
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("scheduling reboot: %w (%s)", err, output)
	}
	return nil
}
