package netwait

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWait_EmptyAddrIsDisabled(t *testing.T) {
	assert.NoError(t, Wait(context.Background(), "", time.Second, nil))
}

func TestWait_ReturnsOnceProbeSucceeds(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	go func() {
		conn, err := ln.Accept()
		if err == nil {
			_ = conn.Close()
		}
	}()

	done := make(chan error, 1)
	go func() {
		done <- Wait(context.Background(), ln.Addr().String(), 10*time.Millisecond, nil)
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return for a reachable address")
	}
}

func TestWait_HonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		// Reserved TEST-NET-1 address; nothing answers there.
		done <- Wait(ctx, "192.0.2.1:9", 10*time.Millisecond, nil)
	}()

	cancel()
	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not stop on context cancel")
	}
}
