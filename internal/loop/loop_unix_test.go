//go:build !windows

package loop

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestUserSignalRunsHandler(t *testing.T) {
	l := New(zerolog.Nop())
	taps := make(chan struct{}, 1)
	l.OnUserSignal(func() { taps <- struct{}{} })
	go func() { _ = l.Run(context.Background()) }()
	defer l.Quit()

	ready := make(chan struct{})
	require.True(t, l.Post(func() { close(ready) }))
	<-ready

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))
	select {
	case <-taps:
	case <-time.After(time.Second):
		t.Fatal("SIGUSR1 handler never ran")
	}
}
