package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/doeshing/gai-go/internal/app"
	"github.com/doeshing/gai-go/internal/application/router"
	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/infrastructure/cli"
	"github.com/doeshing/gai-go/internal/infrastructure/git"
	"github.com/doeshing/gai-go/internal/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inv := domain.Invocation(args)
	if !inv.IsHelp() && !inv.Kind().IsAugmented() {
		return passthrough(ctx, inv, stderr)
	}

	container, err := app.BuildContainer(ctx, app.Options{Verbose: isVerbose(inv)})
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer container.Close()

	root := cli.NewRootCmd(container)
	r := router.Router{
		Repo:   container.Repo,
		Logger: container.Logger,
		Execute: func(ctx context.Context, args []string) error {
			root.SetArgs(args)
			return root.ExecuteContext(ctx)
		},
	}
	return route(ctx, r, inv, stderr)
}

// passthrough forwards to git with nothing but a bare repository: gai's
// config file and usage ledger are never read, so their failures cannot
// change git's output or exit code.
func passthrough(ctx context.Context, inv domain.Invocation, stderr io.Writer) int {
	log := logger.New(stderr, isVerbose(inv))
	r := router.Router{
		Repo:   git.NewRepository("", git.NewExecRunner(), git.WithLogger(log)),
		Logger: log,
	}
	return route(ctx, r, inv, stderr)
}

func route(ctx context.Context, r router.Router, inv domain.Invocation, stderr io.Writer) int {
	code, err := r.Route(ctx, inv)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
	}
	return code
}

// isVerbose reads GAI_DEBUG, and --verbose for gai's own commands only so
// passthrough arguments are never interpreted.
func isVerbose(inv domain.Invocation) bool {
	if v := os.Getenv("GAI_DEBUG"); strings.EqualFold(v, "1") || strings.EqualFold(v, "true") {
		return true
	}
	if !inv.Kind().IsAugmented() {
		return false
	}
	for _, arg := range inv[1:] {
		if arg == "--" {
			break
		}
		if arg == "--verbose" {
			return true
		}
	}
	return false
}
