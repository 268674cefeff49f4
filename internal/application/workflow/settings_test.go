package workflow

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/gai-go/internal/application/doctor"
	"github.com/doeshing/gai-go/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestSettingsBranchPrefix(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	if err := h.svc.Settings(ctx, ConfigOptions{BranchPrefix: strPtr("team/")}); err != nil {
		t.Fatalf("set prefix: %v", err)
	}
	if diff := cmp.Diff(domain.BranchPrefix{Value: "team", Set: true}, h.repo.prefix); diff != "" {
		t.Fatalf("prefix mismatch (-want +got):\n%s", diff)
	}

	if err := h.svc.Settings(ctx, ConfigOptions{BranchPrefix: strPtr("")}); err != nil {
		t.Fatalf("clear prefix: %v", err)
	}
	if diff := cmp.Diff(domain.BranchPrefix{Value: "", Set: true}, h.repo.prefix); diff != "" {
		t.Fatalf("prefix mismatch (-want +got):\n%s", diff)
	}

	if err := h.svc.Settings(ctx, ConfigOptions{UnsetPrefix: true}); err != nil {
		t.Fatalf("unset prefix: %v", err)
	}
	if h.repo.prefix.Set {
		t.Fatalf("prefix still set: %+v", h.repo.prefix)
	}

	if err := h.svc.Settings(ctx, ConfigOptions{BranchPrefix: strPtr("x"), UnsetPrefix: true}); err == nil {
		t.Fatal("conflicting flags accepted")
	}
}

func TestSettingsShowsSelectionAndUsage(t *testing.T) {
	h := newHarness()
	h.usage.records = []domain.UsageRecord{
		{Timestamp: fixedNow.Add(-2 * time.Hour), Kind: domain.KindCommit, Provider: domain.ProviderOpenAI, Outcome: domain.OutcomeAccepted},
	}

	if err := h.svc.Settings(context.Background(), ConfigOptions{}); err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Settings", "Usage (last 30 days)"}, sectionTitles(h.out)); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	settings := h.out.sections[0].body
	for _, want := range []string{"openai", "gpt-4o-mini", "Branch prefix: not set", "/home/me/.gai/config.yaml"} {
		if !strings.Contains(settings, want) {
			t.Errorf("settings missing %q:\n%s", want, settings)
		}
	}
	usage := h.out.sections[1].body
	if !strings.Contains(usage, "1 generations, 1 accepted") || !strings.Contains(usage, "2 hours ago") {
		t.Errorf("usage = %q", usage)
	}
}

func TestSettingsDiffAgainstDefaults(t *testing.T) {
	h := newHarness()
	h.svc.Defaults = h.svc.Config

	if err := h.svc.Settings(context.Background(), ConfigOptions{Diff: true}); err != nil {
		t.Fatal(err)
	}
	if len(h.out.info) != 1 || len(h.out.sections) != 0 {
		t.Fatalf("info=%v sections=%v", h.out.info, h.out.sections)
	}

	h.svc.Config.Preferences.Model = "gpt-4o"
	if err := h.svc.Settings(context.Background(), ConfigOptions{Diff: true}); err != nil {
		t.Fatal(err)
	}
	if len(h.out.sections) != 1 || !strings.Contains(h.out.sections[0].body, "gpt-4o") {
		t.Fatalf("sections = %+v", h.out.sections)
	}
}

type staticConfig struct{ cfg domain.Config }

func (s staticConfig) Load(context.Context) (domain.Config, error) { return s.cfg, nil }

func TestSettingsDoctor(t *testing.T) {
	h := newHarness()
	h.svc.Doctor = &doctor.Service{
		ConfigProvider: staticConfig{cfg: domain.Config{ConfigFormatVersion: "1"}},
		Credentials:    h.creds,
		LookPath:       h.svc.LookPath,
	}
	if err := h.svc.Settings(context.Background(), ConfigOptions{Doctor: true}); err != nil {
		t.Fatalf("doctor: %v", err)
	}

	h.creds.creds = nil
	if err := h.svc.Settings(context.Background(), ConfigOptions{Doctor: true}); err == nil {
		t.Fatal("doctor passed without credentials")
	}
	last := h.out.sections[len(h.out.sections)-1].body
	if !strings.Contains(last, "✗ API keys") {
		t.Fatalf("report = %q", last)
	}
}

func TestSettingsClearUsage(t *testing.T) {
	h := newHarness()
	h.usage.records = []domain.UsageRecord{{Kind: domain.KindLog}}
	if err := h.svc.Settings(context.Background(), ConfigOptions{ClearUsage: true}); err != nil {
		t.Fatal(err)
	}
	if !h.usage.cleared || len(h.usage.records) != 0 {
		t.Fatalf("usage not cleared")
	}
}
