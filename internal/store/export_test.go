package store

import "time"

// SetLockTimeoutForTest shortens the lock wait to ms milliseconds.
func SetLockTimeoutForTest(ms int) func() {
	prev := lockTimeout
	lockTimeout = time.Duration(ms) * time.Millisecond
	return func() { lockTimeout = prev }
}
