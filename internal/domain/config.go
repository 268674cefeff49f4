package domain

// Config mirrors ~/.gai/config.yaml.
type Config struct {
	ConfigFormatVersion string              `yaml:"config_format_version"`
	Preferences         Preferences         `yaml:"preferences"`
	Generation          GenerationSettings  `yaml:"generation"`
	Context             ContextSettings     `yaml:"context"`
	Hooks               HookSettings        `yaml:"hooks"`
	PullRequest         PullRequestSettings `yaml:"pull_request"`
}

// Preferences captures provider and model selection.
type Preferences struct {
	// Provider pins a backend; it is used only when its credential exists.
	Provider string `yaml:"provider"`
	// Model overrides the provider default. Environment overrides win.
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// GenerationSettings controls the retry policy around a backend call.
type GenerationSettings struct {
	MaxAttempts      int     `yaml:"max_attempts"`
	RetryWaitSeconds float64 `yaml:"retry_wait_seconds"`
	Temperature      float64 `yaml:"temperature"`
}

// ContextSettings configures repository text extraction.
type ContextSettings struct {
	LogCount int `yaml:"log_count"`
	// Exclude holds doublestar globs; matching files are dropped from diffs.
	Exclude []string `yaml:"exclude"`
}

// HookSettings configures the pre-commit hook runner.
type HookSettings struct {
	Command     string `yaml:"command"`
	AutoInstall bool   `yaml:"auto_install"`
}

// PullRequestSettings configures how `submit` opens pull requests.
type PullRequestSettings struct {
	// Backend is "gh" (default) or "api".
	Backend    string `yaml:"backend"`
	BaseBranch string `yaml:"base_branch"`
}

const (
	PRBackendGH  = "gh"
	PRBackendAPI = "api"
)

// AttemptLimit returns the configured generation attempt bound.
func (c Config) AttemptLimit() int {
	if c.Generation.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return c.Generation.MaxAttempts
}

// UsesPRAPI reports whether pull requests go through the hosting API instead of gh.
func (c Config) UsesPRAPI() bool {
	return c.PullRequest.Backend == PRBackendAPI
}

// HookCommand returns the hook runner binary.
func (c Config) HookCommand() string {
	if c.Hooks.Command == "" {
		return DefaultHookCommand
	}
	return c.Hooks.Command
}
