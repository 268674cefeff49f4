// Package confirm implements the accept/reject/regenerate/edit state machine
// shown before any generated text is acted on.
package confirm

import (
	"context"
	"fmt"
	"strings"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/ports"
)

// Regenerator produces a fresh artifact for the same prompt.
type Regenerator func(context.Context) (domain.GeneratedArtifact, error)

// Loop drives one confirmation.
type Loop struct {
	Prompter   ports.Prompter
	Regenerate Regenerator
}

// Result is the terminal state of a loop.
type Result struct {
	State    domain.LoopState
	Artifact domain.GeneratedArtifact
	// Generations counts artifacts shown, including the first.
	Generations int
	Edited      bool
	// Trace lists every state visited, in order.
	Trace []domain.LoopState
}

// Outcome maps the result to a usage outcome.
func (r Result) Outcome() domain.UsageOutcome {
	switch {
	case r.State == domain.StateConfirmed && r.Edited:
		return domain.OutcomeEdited
	case r.State == domain.StateConfirmed:
		return domain.OutcomeAccepted
	default:
		return domain.OutcomeRejected
	}
}

// Run presents artifact until the user confirms or rejects. With bypass the
// artifact is confirmed without asking. A non-interactive terminal without
// bypass rejects. Rejection returns domain.ErrRejected.
func (l Loop) Run(ctx context.Context, artifact domain.GeneratedArtifact, question string, bypass bool) (Result, error) {
	res := Result{Artifact: artifact, Generations: 1}
	if bypass {
		res.State = domain.StateConfirmed
		res.Trace = []domain.LoopState{domain.StateConfirmed}
		return res, nil
	}
	if !l.Prompter.Interactive() {
		res.State = domain.StateRejected
		res.Trace = []domain.LoopState{domain.StateRejected}
		return res, fmt.Errorf("%w: confirmation needs a terminal, pass -y to accept", domain.ErrRejected)
	}

	state := domain.StatePresented
	for {
		res.Trace = append(res.Trace, state)
		switch state {
		case domain.StatePresented:
			choice, err := l.Prompter.Present(res.Artifact, question)
			if err != nil {
				return res, err
			}
			state = next(choice)

		case domain.StateRegenerating:
			fresh, err := l.Regenerate(ctx)
			if err != nil {
				return res, err
			}
			res.Artifact = fresh
			res.Generations++
			state = domain.StatePresented

		case domain.StateEditing:
			text, err := l.Prompter.Edit(res.Artifact.Text)
			if err != nil {
				return res, err
			}
			if strings.TrimSpace(text) == "" {
				state = domain.StateRejected
				continue
			}
			res.Artifact.Text = strings.TrimSpace(text)
			res.Edited = true
			state = domain.StateConfirmed

		case domain.StateConfirmed:
			res.State = state
			return res, nil

		default:
			res.State = domain.StateRejected
			return res, domain.ErrRejected
		}
	}
}

func next(choice domain.Choice) domain.LoopState {
	switch choice {
	case domain.ChoiceAccept:
		return domain.StateConfirmed
	case domain.ChoiceRegenerate:
		return domain.StateRegenerating
	case domain.ChoiceEdit:
		return domain.StateEditing
	default:
		return domain.StateRejected
	}
}
