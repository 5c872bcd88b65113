package core

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Logger is the logging seam the render loop reports pass/tile progress
// through; the CLI backs it with StdLogger, tests can supply a no-op or a
// recording stub.
type Logger interface {
	Printf(format string, args ...interface{})
}

// StdLogger implements Logger by writing to stdout.
type StdLogger struct{}

func (StdLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// defaultBarWidth is used when stdout isn't a terminal (piped output,
// CI logs) and term.GetSize has nothing to report.
const defaultBarWidth = 40

// ProgressBar renders a `[####....] 42%` bar sized to the current
// terminal width, the way a CLI render loop reports tile/sample progress
// without wrapping or truncating mid-escape-sequence on a narrow window.
func ProgressBar(fraction float64) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	width := defaultBarWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		width = w - 12 // room for " 100%" and brackets
		if width > 80 {
			width = 80
		}
	}

	filled := int(fraction * float64(width))
	bar := strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
	return fmt.Sprintf("[%s] %3.0f%%", bar, fraction*100)
}
