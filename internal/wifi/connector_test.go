package wifi

import (
	"context"
	"errors"
	"net/netip"
	"testing"
	"time"
)

// fakeAssociator fails a set number of times before succeeding.
type fakeAssociator struct {
	failures int
	addr     netip.Addr
	err      error
	calls    int
}

func (f *fakeAssociator) Associate(_ context.Context, _ Credentials) (netip.Addr, error) {
	f.calls++
	if f.calls <= f.failures {
		return netip.Addr{}, f.err
	}
	return f.addr, nil
}

func newTestConnector(t *testing.T, maxRetries int) (*Connector, *int) {
	t.Helper()
	c := NewConnector(maxRetries, 500*time.Millisecond)
	sleeps := new(int)
	c.sleep = func(d time.Duration) {
		if d != 500*time.Millisecond {
			t.Errorf("sleep duration = %v, want 500ms", d)
		}
		*sleeps++
	}
	return c, sleeps
}

func TestConnectFirstAttemptSucceeds(t *testing.T) {
	c, sleeps := newTestConnector(t, 10)
	assoc := &fakeAssociator{addr: netip.MustParseAddr("192.168.1.40")}

	addr, err := c.Connect(context.Background(), assoc, Credentials{SSID: "TestNet"})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if addr != netip.MustParseAddr("192.168.1.40") {
		t.Errorf("addr = %v, want 192.168.1.40", addr)
	}
	if assoc.calls != 1 {
		t.Errorf("attempts = %d, want 1", assoc.calls)
	}
	if *sleeps != 0 {
		t.Errorf("sleeps = %d, want 0", *sleeps)
	}
}

// Success on the fourth attempt must cost exactly four attempts and
// three delays: the delay follows each failure, never a success.
func TestConnectSucceedsOnFourthAttempt(t *testing.T) {
	c, sleeps := newTestConnector(t, 10)
	assoc := &fakeAssociator{
		failures: 3,
		addr:     netip.MustParseAddr("10.0.0.7"),
		err:      errors.New("no carrier"),
	}

	addr, err := c.Connect(context.Background(), assoc, Credentials{SSID: "TestNet"})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if addr != netip.MustParseAddr("10.0.0.7") {
		t.Errorf("addr = %v, want 10.0.0.7", addr)
	}
	if assoc.calls != 4 {
		t.Errorf("attempts = %d, want 4", assoc.calls)
	}
	if *sleeps != 3 {
		t.Errorf("sleeps = %d, want 3", *sleeps)
	}
}

// Exhaustion makes exactly MaxRetries attempts and MaxRetries delays:
// the delay is taken after the final failure too, before returning.
func TestConnectExhaustsRetries(t *testing.T) {
	c, sleeps := newTestConnector(t, 10)
	attemptErr := errors.New("auth timeout")
	assoc := &fakeAssociator{failures: 100, err: attemptErr}

	_, err := c.Connect(context.Background(), assoc, Credentials{SSID: "TestNet"})
	if err == nil {
		t.Fatal("Connect() expected error, got nil")
	}
	if !errors.Is(err, ErrRetriesExceeded) {
		t.Errorf("error = %v, want ErrRetriesExceeded", err)
	}
	if !errors.Is(err, attemptErr) {
		t.Errorf("error = %v, want wrapped attempt error", err)
	}
	if assoc.calls != 10 {
		t.Errorf("attempts = %d, want 10", assoc.calls)
	}
	if *sleeps != 10 {
		t.Errorf("sleeps = %d, want 10", *sleeps)
	}
}

func TestConnectReturnsLastAttemptError(t *testing.T) {
	c, _ := newTestConnector(t, 3)
	errs := []error{
		errors.New("first failure"),
		errors.New("second failure"),
		errors.New("third failure"),
	}
	calls := 0
	assoc := AssociatorFunc(func(context.Context, Credentials) (netip.Addr, error) {
		err := errs[calls]
		calls++
		return netip.Addr{}, err
	})

	_, err := c.Connect(context.Background(), assoc, Credentials{SSID: "TestNet"})
	if !errors.Is(err, errs[2]) {
		t.Errorf("error = %v, want last attempt's error wrapped", err)
	}
	if errors.Is(err, errs[0]) || errors.Is(err, errs[1]) {
		t.Errorf("error = %v, must not carry earlier attempts' errors", err)
	}
}

func TestConnectCancelledContext(t *testing.T) {
	c, sleeps := newTestConnector(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assoc := &fakeAssociator{failures: 100, err: errors.New("unreachable")}
	_, err := c.Connect(ctx, assoc, Credentials{SSID: "TestNet"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if assoc.calls != 0 {
		t.Errorf("attempts = %d, want 0 after cancellation", assoc.calls)
	}
	if *sleeps != 0 {
		t.Errorf("sleeps = %d, want 0 after cancellation", *sleeps)
	}
}

func TestParseAddressOutput(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{
			name:   "cidr",
			output: "192.168.1.40/24\n",
			want:   "192.168.1.40",
		},
		{
			name:   "bare address",
			output: "10.0.0.7\n",
			want:   "10.0.0.7",
		},
		{
			name:   "multiple addresses takes first",
			output: "192.168.1.40/24\n192.168.1.41/24\n",
			want:   "192.168.1.40",
		},
		{
			name:   "leading blank lines",
			output: "\n\n172.16.0.5/16\n",
			want:   "172.16.0.5",
		},
		{
			name:    "empty",
			output:  "",
			wantErr: true,
		},
		{
			name:    "garbage",
			output:  "not an address\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := parseAddressOutput(tt.output)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAddressOutput() error = %v", err)
			}
			if addr != netip.MustParseAddr(tt.want) {
				t.Errorf("addr = %v, want %v", addr, tt.want)
			}
		})
	}
}
