// Package netwait blocks boot until the network is usable. The original
// device associated with an access point before starting its server; the
// equivalent here is probing a well-known address until a TCP connection
// succeeds.
package netwait

import (
	"context"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"

	"cellar_thermostat/internal/logger"
)

const probeTimeout = 2 * time.Second

// Wait dials addr at a fixed interval until it answers or ctx is
// canceled. An empty addr disables the wait. This is a boot-time blocking
// loop, not a runtime error path: it retries indefinitely.
func Wait(ctx context.Context, addr string, interval time.Duration, log *logger.Logger) error {
	if addr == "" {
		return nil
	}

	attempt := 0
	probe := func() error {
		attempt++
		d := net.Dialer{Timeout: probeTimeout}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			if log != nil {
				log.Infow("waiting for network", "addr", addr, "attempt", attempt)
			}
			return err
		}
		_ = conn.Close()
		return nil
	}

	bo := backoff.WithContext(backoff.NewConstantBackOff(interval), ctx)
	if err := backoff.Retry(probe, bo); err != nil {
		return err
	}
	if log != nil {
		log.Infow("network reachable", "addr", addr, "attempts", attempt)
	}
	return nil
}
