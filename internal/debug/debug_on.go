//go:build debug

package debug

import (
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
)

const Enabled = true

var logger = log.New(os.Stderr, "|DEBUG| ", 0)

// Printf prints debug messages. Only available if compiled with "debug" tag
func Printf(f string, args ...any) {
	logger.Printf(f, args...)
}

// Dump writes a go-spew rendition of v to stderr
func Dump(v ...any) {
	spew.Fdump(os.Stderr, v...)
}
