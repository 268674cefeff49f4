package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/doeshing/gai-go/internal/ports"
)

// Renderer writes workflow output. Results go to out, progress and
// warnings to errOut so stdout stays pipeable.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	// spin is false when errOut is not a terminal.
	spin bool
}

// NewRenderer builds a renderer on stdout/stderr when nil.
func NewRenderer(out, errOut io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Renderer{out: out, errOut: errOut, spin: isTerminal(errOut)}
}

func (r *Renderer) Info(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Section prints a titled block.
func (r *Renderer) Section(title, body string) {
	fmt.Fprintf(r.out, "\n%s\n%s\n%s\n", title, strings.Repeat("-", len([]rune(title))), strings.TrimRight(body, "\n"))
}

func (r *Renderer) Success(format string, args ...any) {
	fmt.Fprintf(r.out, "✅ "+format+"\n", args...)
}

func (r *Renderer) Warn(format string, args ...any) {
	fmt.Fprintf(r.errOut, "⚠️  "+format+"\n", args...)
}

// Progress animates a spinner while a request is in flight.
func (r *Renderer) Progress(message string) func() {
	if !r.spin {
		return func() {}
	}
	s := NewSpinner(r.errOut, message)
	s.Start()
	return s.Stop
}

var _ ports.Output = (*Renderer)(nil)
