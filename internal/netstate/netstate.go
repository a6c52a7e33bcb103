// Package netstate answers the one question the offline queue asks the
// host environment: is connectivity currently available.
package netstate

import (
	"net"
	"time"
)

// Status is the network-state collaborator surface.
type Status interface {
	// Online reports whether connectivity is currently available. The
	// query is synchronous and cheap enough to run on every sync
	// trigger.
	Online() bool
}

// Default probe parameters. The probe target is a well-known resolver
// reachable from most networks; only the TCP handshake matters.
const (
	DefaultProbeAddr = "1.1.1.1:443"
	DefaultTimeout   = 2 * time.Second
)

var _ Status = (*Checker)(nil)

// Checker probes reachability with a TCP dial.
type Checker struct {
	ProbeAddr string
	Timeout   time.Duration
}

// NewChecker creates a Checker with the default probe target.
func NewChecker() *Checker {
	return &Checker{ProbeAddr: DefaultProbeAddr, Timeout: DefaultTimeout}
}

// Online dials the probe address and reports whether the handshake
// completed.
func (c *Checker) Online() bool {
	addr := c.ProbeAddr
	if addr == "" {
		addr = DefaultProbeAddr
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Fixed is a Status with a constant answer, for wiring and tests.
type Fixed bool

// Online returns the fixed answer.
func (f Fixed) Online() bool { return bool(f) }
