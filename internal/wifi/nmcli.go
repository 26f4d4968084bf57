package wifi

import (
	"context"
	"fmt"
	"net/netip"
	"os/exec"
	"strings"
	"time"
)

// defaultAssociateTimeout bounds a single nmcli invocation so a hung
// connection manager cannot stall the retry loop indefinitely.
const defaultAssociateTimeout = 30 * time.Second

// NMCLI associates with an access point through NetworkManager's nmcli
// command-line tool. Each Associate call is one `nmcli device wifi
// connect` invocation followed by an address query on the interface.
type NMCLI struct {
	// Interface is the wireless interface name (e.g. "wlan0").
	Interface string

	// Timeout bounds a single association attempt. Zero means the
	// default of 30 seconds.
	Timeout time.Duration
}

// Associate implements Associator by shelling out to nmcli.
func (n *NMCLI) Associate(ctx context.Context, creds Credentials) (netip.Addr, error) {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = defaultAssociateTimeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"device", "wifi", "connect", creds.SSID}
	if creds.Passphrase != "" {
		args = append(args, "password", creds.Passphrase)
	}
	if n.Interface != "" {
		args = append(args, "ifname", n.Interface)
	}

	cmd := exec.CommandContext(attemptCtx, "nmcli", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded {
			return netip.Addr{}, fmt.Errorf("%w: nmcli timed out after %v", ErrAssociationFailed, timeout)
		}
		if ctx.Err() != nil {
			return netip.Addr{}, fmt.Errorf("association cancelled: %w", ctx.Err())
		}
		return netip.Addr{}, fmt.Errorf("%w: %s", ErrAssociationFailed, firstLine(output))
	}

	return n.queryAddress(attemptCtx)
}

// queryAddress reads the interface's assigned IPv4 address from nmcli.
// Association without an address is treated as a failed attempt so the
// retry loop can try again.
func (n *NMCLI) queryAddress(ctx context.Context) (netip.Addr, error) {
	cmd := exec.CommandContext(ctx, "nmcli", "-g", "IP4.ADDRESS", "device", "show", n.Interface)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: querying address: %s", ErrAssociationFailed, firstLine(output))
	}

	addr, err := parseAddressOutput(string(output))
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %w", ErrAssociationFailed, err)
	}
	return addr, nil
}

// parseAddressOutput extracts the first address from nmcli -g
// IP4.ADDRESS output, which is one CIDR per line (e.g. "192.168.1.40/24").
func parseAddressOutput(output string) (netip.Addr, error) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(line)
		if err == nil {
			return prefix.Addr(), nil
		}
		// Some nmcli versions emit bare addresses without a prefix length.
		addr, err := netip.ParseAddr(line)
		if err == nil {
			return addr, nil
		}
	}
	return netip.Addr{}, fmt.Errorf("no address assigned to interface")
}

func firstLine(output []byte) string {
	s := strings.TrimSpace(string(output))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "no output"
	}
	return s
}
