//go:build !windows

package loop

import (
	"os"
	"syscall"
)

var userSignals = []os.Signal{syscall.SIGUSR1}

func isUserSignal(s os.Signal) bool { return s == syscall.SIGUSR1 }
