package vnc

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"
)

// ErrNoPortAvailable is returned when every probed port is already in use.
var ErrNoPortAvailable = errors.New("no available port for VNC connection")

// RandomSource is the subset of math/rand/v2's *rand.Rand used here.
type RandomSource interface {
	IntN(n int) int
}

// Prober checks whether something accepts TCP connections on host:port.
type Prober interface {
	IsOpen(ctx context.Context, host string, port int) bool
}

// DialProber probes ports with a TCP connect bounded by Timeout.
type DialProber struct {
	Timeout time.Duration
}

// IsOpen reports whether a TCP connection to host:port succeeds.
func (p DialProber) IsOpen(ctx context.Context, host string, port int) bool {
	d := net.Dialer{Timeout: p.Timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// PortRange is an inclusive range of candidate console ports.
type PortRange struct {
	Start int
	End   int
}

// FindAvailablePort tries up to attempts random ports from r and returns the
// first one nothing is listening on. The port is not reserved; the hypervisor
// binds it later and reports a failure if it was taken in the meantime.
func FindAvailablePort(ctx context.Context, prober Prober, rnd RandomSource, host string, r PortRange, attempts int) (int, error) {
	span := r.End - r.Start + 1
	if span <= 0 {
		return 0, ErrNoPortAvailable
	}
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		port := r.Start + rnd.IntN(span)
		if !prober.IsOpen(ctx, host, port) {
			return port, nil
		}
	}
	return 0, ErrNoPortAvailable
}

const passwordChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomPassword returns a password of length characters drawn from ASCII letters and digits.
func RandomPassword(rnd RandomSource, length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = passwordChars[rnd.IntN(len(passwordChars))]
	}
	return string(b)
}
