package wifi

import (
	"context"
	"fmt"
	"net/netip"
	"time"
)

// Credentials describe the access point to join.
// They are configured at deployment time, never supplied per call.
type Credentials struct {
	// SSID is the access point name.
	SSID string

	// Passphrase is the pre-shared key. Empty for open networks.
	Passphrase string

	// Security is the security mode: "open", "wpa2", or "wpa3".
	Security string
}

// Associator is the external connection-manager contract: a single
// association attempt that returns the assigned address or an error.
// The retry policy lives entirely in the Connector, not here.
type Associator interface {
	Associate(ctx context.Context, creds Credentials) (netip.Addr, error)
}

// AssociatorFunc adapts a plain function to the Associator interface.
type AssociatorFunc func(ctx context.Context, creds Credentials) (netip.Addr, error)

// Associate implements Associator.
func (f AssociatorFunc) Associate(ctx context.Context, creds Credentials) (netip.Addr, error) {
	return f(ctx, creds)
}

// Logger defines the logging interface for the connector.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}

// Connector joins a configured access point with bounded retries.
//
// The delay between attempts is constant: no backoff growth, no jitter.
// The delay is also taken after the final failed attempt, before the last
// error is returned - this mirrors the reference loop exactly and is
// observable under timing-based tests, so it must not be optimized away.
type Connector struct {
	// MaxRetries is the maximum number of association attempts (>= 1).
	MaxRetries int

	// RetryDelay is the fixed wait between attempts.
	RetryDelay time.Duration

	logger Logger

	// sleep is the wait primitive, replaceable in tests.
	sleep func(time.Duration)
}

// NewConnector creates a Connector with the given retry policy.
func NewConnector(maxRetries int, retryDelay time.Duration) *Connector {
	return &Connector{
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
		logger:     noopLogger{},
		sleep:      time.Sleep,
	}
}

// SetLogger sets the logger for the connector.
func (c *Connector) SetLogger(logger Logger) {
	c.logger = logger
}

// Connect attempts to associate with the access point, retrying up to
// MaxRetries times with a fixed RetryDelay between attempts.
//
// On success it returns the assigned address immediately. On failure it
// logs the error, waits RetryDelay, and tries again; after the final
// failed attempt (and its delay) the last error is returned wrapped in
// ErrRetriesExceeded.
//
// The call blocks the caller for up to MaxRetries x RetryDelay in the
// worst case. Context cancellation aborts between attempts.
//
// Parameters:
//   - ctx: Context for cancellation
//   - assoc: External association contract (one attempt per call)
//   - creds: Pre-configured access point credentials
//
// Returns:
//   - netip.Addr: The assigned IPv4/IPv6 address on success
//   - error: The final attempt's failure after retries are exhausted
func (c *Connector) Connect(ctx context.Context, assoc Associator, creds Credentials) (netip.Addr, error) {
	var lastErr error

	for attempt := 1; attempt <= c.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return netip.Addr{}, fmt.Errorf("wifi connect cancelled: %w", ctx.Err())
		default:
		}

		addr, err := assoc.Associate(ctx, creds)
		if err == nil {
			c.logger.Info("connected to Wi-Fi network",
				"ssid", creds.SSID,
				"address", addr.String(),
				"attempt", attempt,
			)
			return addr, nil
		}

		lastErr = err
		c.logger.Warn("Wi-Fi association failed, retrying",
			"ssid", creds.SSID,
			"error", err,
			"attempt", attempt,
			"max_retries", c.MaxRetries,
			"retry_delay", c.RetryDelay,
		)

		// Delay after every failed attempt, including the last one.
		c.sleep(c.RetryDelay)
	}

	c.logger.Warn("exceeded maximum Wi-Fi connection attempts",
		"ssid", creds.SSID,
		"attempts", c.MaxRetries,
	)

	return netip.Addr{}, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExceeded, c.MaxRetries, lastErr)
}
