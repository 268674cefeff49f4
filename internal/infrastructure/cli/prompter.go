package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/ports"
)

// Prompter implements ports.Prompter on the terminal.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	// editor opens path in the user's editor and waits for it to exit.
	editor func(path string) error
}

// NewPrompter constructs a prompter referencing stdio. It is interactive
// only when both stdin and stdout are terminals.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: isTerminal(in) && isTerminal(out),
		editor:      runEditor,
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Interactive reports whether questions can be answered.
func (p *Prompter) Interactive() bool {
	return p.interactive
}

// Present shows artifact and reads one of accept, reject, regenerate or edit.
func (p *Prompter) Present(artifact domain.GeneratedArtifact, question string) (domain.Choice, error) {
	fmt.Fprintf(p.out, "\n%s\n\n", artifact.Text)
	for {
		fmt.Fprintf(p.out, "%s [y]es / [n]o / [r]egenerate / [e]dit: ", question)
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return domain.ChoiceAccept, nil
		case "n", "no", "":
			return domain.ChoiceReject, nil
		case "r", "regenerate":
			return domain.ChoiceRegenerate, nil
		case "e", "edit":
			return domain.ChoiceEdit, nil
		}
		fmt.Fprintln(p.out, "Please answer y, n, r or e.")
	}
}

// Edit opens text in $EDITOR (vi when unset) and returns the saved result.
func (p *Prompter) Edit(text string) (string, error) {
	f, err := os.CreateTemp("", "gai-*.txt")
	if err != nil {
		return "", err
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	if err := p.editor(path); err != nil {
		return "", fmt.Errorf("editor: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func runEditor(path string) error {
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = domain.DefaultEditor
	}
	fields := strings.Fields(editor)
	cmd := exec.Command(fields[0], append(fields[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// AskCredential asks which provider to configure and reads its key.
func (p *Prompter) AskCredential(options []domain.ProviderKind) (domain.ProviderKind, string, error) {
	fmt.Fprintln(p.out, "No API keys found. Choose a provider to configure:")
	for i, kind := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, kind)
	}
	fmt.Fprintf(p.out, "Provider [1]: ")
	line, err := p.readLine()
	if err != nil {
		return "", "", err
	}
	kind, err := pickProvider(line, options)
	if err != nil {
		return "", "", err
	}

	label := "API key"
	if kind.Keyless() {
		label = "Host (e.g. localhost:11434)"
	}
	fmt.Fprintf(p.out, "%s for %s: ", label, kind)
	key, err := p.readLine()
	if err != nil {
		return "", "", err
	}
	if key == "" {
		return "", "", errors.New("no key entered")
	}
	return kind, key, nil
}

func pickProvider(answer string, options []domain.ProviderKind) (domain.ProviderKind, error) {
	if answer == "" {
		return options[0], nil
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(options) {
			return "", fmt.Errorf("choose a number between 1 and %d", len(options))
		}
		return options[n-1], nil
	}
	if kind, ok := domain.ParseProviderKind(answer); ok {
		return kind, nil
	}
	return "", fmt.Errorf("unknown provider %q", answer)
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var _ ports.Prompter = (*Prompter)(nil)
