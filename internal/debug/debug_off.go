//go:build !debug

package debug

const Enabled = false

// Printf is a no-op unless compiled with the `debug` tag
func Printf(string, ...any) {}

// Dump is a no-op unless compiled with the `debug` tag
func Dump(...any) {}
