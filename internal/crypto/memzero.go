package crypto

import "runtime"

// Wipe zeroes key material in place, e.g. a rejected unlock candidate or a
// wrapping key after storage. Best-effort: it aims to reduce the chance of
// the compiler eliding the write.
//
//go:noinline
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	// Ensure b is considered live until after the loop.
	runtime.KeepAlive(&b)
}
