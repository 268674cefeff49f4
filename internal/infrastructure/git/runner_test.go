package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/doeshing/gai-go/internal/domain"
)

func shellRunner(t *testing.T) (*ExecRunner, *bytes.Buffer) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	var out bytes.Buffer
	return &ExecRunner{stdin: &bytes.Buffer{}, stdout: &out, stderr: &out}, &out
}

func TestInteractiveCommandOutlivesCanceledContext(t *testing.T) {
	runner, _ := shellRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := runner.Run(ctx, Command{Name: "sh", Args: []string{"-c", "sleep 0.2; exit 3"}, Interactive: true})
	var toolErr *domain.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected tool error, got %v", err)
	}
	if res.ExitCode != 3 || toolErr.ExitCode != 3 {
		t.Fatalf("exit code = %d, want the child's own 3", res.ExitCode)
	}
}

func TestSignalDeathMapsToShellExitCode(t *testing.T) {
	runner, _ := shellRunner(t)

	res, _ := runner.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "kill -TERM $$"}, Interactive: true})
	if res.ExitCode != 143 {
		t.Fatalf("exit code = %d, want 143", res.ExitCode)
	}
}

func TestCapturedCommandOutput(t *testing.T) {
	runner, _ := shellRunner(t)

	res, err := runner.Run(context.Background(), Command{
		Name:  "sh",
		Args:  []string{"-c", "cat; echo oops >&2; exit 2"},
		Stdin: bytes.NewBufferString("hello"),
	})
	if res.Stdout != "hello" || res.Stderr != "oops\n" || res.ExitCode != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	var toolErr *domain.ToolError
	if !errors.As(err, &toolErr) || toolErr.Stderr != "oops\n" {
		t.Fatalf("expected tool error carrying stderr, got %v", err)
	}
}
