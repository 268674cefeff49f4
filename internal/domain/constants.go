package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the permission for the ~/.gai directory (rwx------)
	DirectoryPermissions = 0o700
	// SecureFilePermissions is the permission for config and secret files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and retry constants
const (
	// DefaultHTTPClientTimeout bounds a single provider round trip
	DefaultHTTPClientTimeout = 60 * time.Second
	// DefaultMaxAttempts is the number of generation attempts before giving up
	DefaultMaxAttempts = 3
	// DefaultRetryWait is the first backoff interval; it doubles per attempt
	DefaultRetryWait = 1 * time.Second
	// DefaultTemperature matches the low-variance setting used for every kind
	DefaultTemperature = 0.3
)

// Repository constants
const (
	// DefaultLogCount is the number of commits summarized by `gai log`
	DefaultLogCount = 10
	// DefaultBaseBranch is used when the remote HEAD cannot be resolved
	DefaultBaseBranch = "main"
	// BranchPrefixConfigKey is the git config key holding the branch prefix
	BranchPrefixConfigKey = "gai.branch-prefix"
	// BranchPrefixSeparator joins prefix and branch name
	BranchPrefixSeparator = "/"
)

// Collaborator binaries
const (
	GitBinary          = "git"
	GHBinary           = "gh"
	DefaultHookCommand = "pre-commit"
	DefaultEditor      = "vi"
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
