package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/gai-go/internal/domain"
)

// ConfigOptions are the flags of `gai config`.
type ConfigOptions struct {
	// BranchPrefix sets the prefix when non-nil; an empty value is stored as
	// an explicit "no prefix".
	BranchPrefix *string
	UnsetPrefix  bool
	Doctor       bool
	// Diff prints the loaded config against the defaults.
	Diff       bool
	ClearUsage bool
}

// usageWindow bounds the usage summary shown by `gai config`.
const usageWindow = 30 * 24 * time.Hour

// Settings changes or displays the configuration (`gai config`).
func (s *Service) Settings(ctx context.Context, opts ConfigOptions) error {
	switch {
	case opts.BranchPrefix != nil && opts.UnsetPrefix:
		return fmt.Errorf("--branch-prefix and --unset-branch-prefix are mutually exclusive")
	case opts.BranchPrefix != nil:
		prefix := strings.TrimSuffix(strings.TrimSpace(*opts.BranchPrefix), domain.BranchPrefixSeparator)
		if err := s.Repo.SetBranchPrefix(ctx, prefix); err != nil {
			return err
		}
		if prefix == "" {
			s.Output.Success("Branch prefix cleared; new branches are created without a prefix.")
		} else {
			s.Output.Success("Branch prefix set to %q.", prefix)
		}
		return nil
	case opts.UnsetPrefix:
		if err := s.Repo.UnsetBranchPrefix(ctx); err != nil {
			return err
		}
		s.Output.Success("Branch prefix unset.")
		return nil
	case opts.Doctor:
		return s.doctor(ctx)
	case opts.Diff:
		diff := cmp.Diff(s.Defaults, s.Config)
		if diff == "" {
			s.Output.Info("No differences from default configuration.")
			return nil
		}
		s.Output.Section("Changes from defaults", diff)
		return nil
	case opts.ClearUsage:
		if s.Usage == nil {
			return nil
		}
		if err := s.Usage.Clear(); err != nil {
			return err
		}
		s.Output.Success("Usage ledger cleared.")
		return nil
	}
	return s.showSettings(ctx)
}

func (s *Service) showSettings(ctx context.Context) error {
	var b strings.Builder

	creds, err := s.Credentials.Load(ctx)
	if err != nil {
		return err
	}
	if choice, err := s.Selector.Select(creds, s.Config.Preferences); err == nil {
		fmt.Fprintf(&b, "Provider:      %s\n", choice.Provider)
		fmt.Fprintf(&b, "Model:         %s\n", choice.Model)
	} else {
		fmt.Fprintf(&b, "Provider:      none (%v)\n", err)
	}
	if present := creds.Present(); len(present) > 0 {
		names := make([]string, len(present))
		for i, kind := range present {
			names[i] = string(kind)
		}
		fmt.Fprintf(&b, "Keys found:    %s\n", strings.Join(names, ", "))
	}

	prefix, err := s.Repo.BranchPrefix(ctx)
	switch {
	case err != nil:
		fmt.Fprintf(&b, "Branch prefix: unavailable (%v)\n", err)
	case !prefix.Set:
		fmt.Fprintf(&b, "Branch prefix: not set\n")
	case prefix.Value == "":
		fmt.Fprintf(&b, "Branch prefix: none\n")
	default:
		fmt.Fprintf(&b, "Branch prefix: %s\n", prefix.Value)
	}

	fmt.Fprintf(&b, "Config:        %s\n", s.ConfigPath)
	fmt.Fprintf(&b, "Credentials:   %s\n", s.Credentials.Path())
	if s.Usage != nil {
		fmt.Fprintf(&b, "Usage ledger:  %s\n", s.Usage.Path())
	}
	s.Output.Section("Settings", strings.TrimRight(b.String(), "\n"))

	if s.Usage == nil {
		return nil
	}
	summary, err := s.Usage.Since(s.now().Add(-usageWindow))
	if err != nil {
		s.log().Warn("usage summary unavailable", map[string]interface{}{"err": err.Error()})
		return nil
	}
	s.Output.Section("Usage (last 30 days)", formatUsage(summary, s.now()))
	return nil
}

func formatUsage(summary domain.UsageSummary, now time.Time) string {
	if summary.Total == 0 {
		return "No generations recorded."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s generations, %s accepted\n", humanize.Comma(int64(summary.Total)), humanize.Comma(int64(summary.Accepted)))
	for _, kind := range domain.AugmentedKinds {
		if n := summary.ByKind[kind]; n > 0 {
			fmt.Fprintf(&b, "  %-7s %d\n", kind, n)
		}
	}
	if last := summary.Last; last != nil {
		fmt.Fprintf(&b, "Last: %s with %s, %s", last.Kind, last.Provider, humanize.RelTime(last.Timestamp, now, "ago", "from now"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Service) doctor(ctx context.Context) error {
	if s.Doctor == nil {
		return fmt.Errorf("doctor is not configured")
	}
	report, err := s.Doctor.Run(ctx)
	var b strings.Builder
	for _, check := range report.Checks {
		fmt.Fprintf(&b, "%s %-13s %s\n", healthIcon(check.Status), check.Name, check.Details)
	}
	s.Output.Section("Environment", strings.TrimRight(b.String(), "\n"))
	if err != nil {
		return err
	}
	if report.Failed() {
		return fmt.Errorf("doctor found problems")
	}
	return nil
}

func healthIcon(status domain.HealthStatus) string {
	switch status {
	case domain.HealthOK:
		return "✓"
	case domain.HealthWarn:
		return "!"
	default:
		return "✗"
	}
}
