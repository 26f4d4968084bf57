package agent

import (
	"context"
	"errors"
	"testing"
	"time"
)

func shUpdater(script string, timeout time.Duration) *CommandUpdater {
	return &CommandUpdater{
		Command: "/bin/sh",
		Args:    []string{"-c", script},
		Timeout: timeout,
	}
}

func TestCommandUpdaterForwardsProgress(t *testing.T) {
	u := shUpdater(`echo "PROGRESS 25"; echo "downloading chunk"; echo "PROGRESS 100"`, 0)

	var percents []uint32
	err := u.Apply(context.Background(), Job{Version: "1.0.0", Source: "src", SHA256: "ab"},
		func(p uint32) { percents = append(percents, p) })
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(percents) != 2 || percents[0] != 25 || percents[1] != 100 {
		t.Errorf("percents = %v, want [25 100]", percents)
	}
}

func TestCommandUpdaterFailure(t *testing.T) {
	u := shUpdater(`echo "PROGRESS 10"; exit 3`, 0)

	err := u.Apply(context.Background(), Job{}, func(uint32) {})
	if err == nil {
		t.Fatal("Apply() expected error, got nil")
	}
}

func TestCommandUpdaterTimeout(t *testing.T) {
	u := shUpdater(`sleep 10`, 50*time.Millisecond)

	start := time.Now()
	err := u.Apply(context.Background(), Job{}, nil)
	if err == nil {
		t.Fatal("Apply() expected timeout error, got nil")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Apply() took %v, timeout did not bound the run", elapsed)
	}
}

func TestCommandUpdaterNoCommand(t *testing.T) {
	u := &CommandUpdater{}
	err := u.Apply(context.Background(), Job{}, nil)
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("Apply() error = %v, want ErrInvalidParams", err)
	}
}

func TestCommandUpdaterAppendsJobArgs(t *testing.T) {
	// The shell script echoes its positional arguments back as a
	// progress line so we can observe the argument order.
	u := &CommandUpdater{
		Command: "/bin/sh",
		Args:    []string{"-c", `[ "$1" = "src-url" ] && [ "$2" = "digest" ] && [ "$3" = "9.9.9" ] && echo "PROGRESS 100" || exit 1`, "installer"},
	}

	var sawComplete bool
	err := u.Apply(context.Background(), Job{Source: "src-url", SHA256: "digest", Version: "9.9.9"},
		func(p uint32) { sawComplete = p == 100 })
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !sawComplete {
		t.Error("job arguments were not passed in source, sha256, version order")
	}
}
