package domain

import "time"

// UsageOutcome records what happened to a generated artifact.
type UsageOutcome string

const (
	OutcomeShown    UsageOutcome = "shown"
	OutcomeAccepted UsageOutcome = "accepted"
	OutcomeEdited   UsageOutcome = "edited"
	OutcomeRejected UsageOutcome = "rejected"
	OutcomeFailed   UsageOutcome = "failed"
)

// UsageRecord captures metadata about one generation. It never holds the
// prompt or the generated text.
type UsageRecord struct {
	ID          string       `json:"id"`
	Timestamp   time.Time    `json:"timestamp"`
	Kind        CommandKind  `json:"kind"`
	Provider    ProviderKind `json:"provider"`
	Model       string       `json:"model"`
	Attempts    int          `json:"attempts"`
	Generations int          `json:"generations"`
	PromptBytes int          `json:"prompt_bytes"`
	DurationMS  int64        `json:"duration_ms"`
	Outcome     UsageOutcome `json:"outcome"`
}

// UsageSummary aggregates recent records for display.
type UsageSummary struct {
	Total    int
	ByKind   map[CommandKind]int
	Accepted int
	Last     *UsageRecord
}
