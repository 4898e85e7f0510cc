//go:build windows

package loop

import "os"

var userSignals []os.Signal

func isUserSignal(os.Signal) bool { return false }
