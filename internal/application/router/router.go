// Package router decides whether an invocation is handled by gai or
// forwarded to git unchanged.
package router

import (
	"context"
	"strings"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/pkg/logger"
	"github.com/doeshing/gai-go/internal/ports"
)

// Executor runs an augmented or help invocation.
type Executor func(ctx context.Context, args []string) error

// Router dispatches invocations.
type Router struct {
	Repo    ports.Repository
	Execute Executor
	Logger  ports.Logger
}

// Route runs inv and returns the process exit code. The error is non-nil
// only for gai's own failures; a passthrough git failure is reported by git
// itself and only shows up in the code.
func (r *Router) Route(ctx context.Context, inv domain.Invocation) (int, error) {
	if inv.IsHelp() || inv.Kind().IsAugmented() {
		err := r.Execute(ctx, inv)
		return domain.ExitCodeFor(err), err
	}

	args := []string(inv)
	if rewritten, create, ok := r.applyPrefix(ctx, args); ok {
		if create != "" {
			if err := r.Repo.CreateBranch(ctx, create); err != nil {
				return domain.ExitCodeFor(err), err
			}
			return 0, nil
		}
		args = rewritten
	}

	r.log().Debug("passthrough", map[string]interface{}{"args": strings.Join(args, " ")})
	code, err := r.Repo.Passthrough(ctx, args)
	if err != nil {
		return domain.ExitCodeFor(err), err
	}
	return code, nil
}

// applyPrefix rewrites branch creating invocations when a non-empty prefix
// is configured. For `branch <name>` it returns the branch to create instead.
func (r *Router) applyPrefix(ctx context.Context, args []string) (rewritten []string, create string, ok bool) {
	pos, isBranch := branchTarget(args)
	if pos < 0 && !isBranch {
		return nil, "", false
	}

	prefix, err := r.Repo.BranchPrefix(ctx)
	if err != nil {
		r.log().Debug("branch prefix unavailable", map[string]interface{}{"err": err.Error()})
		return nil, "", false
	}
	if strings.TrimSpace(prefix.Value) == "" {
		return nil, "", false
	}

	if isBranch {
		return nil, prefix.Apply(args[1]), true
	}
	out := append([]string(nil), args...)
	out[pos] = prefix.Apply(out[pos])
	return out, "", true
}

// branchTarget finds the new branch name in `checkout -b <name>`,
// `switch -c <name>` (pos is its index) or a bare `branch <name>`.
func branchTarget(args []string) (pos int, isBranch bool) {
	if len(args) < 2 {
		return -1, false
	}
	var flag string
	switch args[0] {
	case "branch":
		return -1, len(args) == 2 && !strings.HasPrefix(args[1], "-")
	case "checkout":
		flag = "-b"
	case "switch":
		flag = "-c"
	default:
		return -1, false
	}
	for i := 1; i < len(args)-1; i++ {
		if args[i] == "--" {
			break
		}
		if args[i] == flag && !strings.HasPrefix(args[i+1], "-") {
			return i + 1, false
		}
	}
	return -1, false
}

func (r *Router) log() ports.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return logger.Nop{}
}
