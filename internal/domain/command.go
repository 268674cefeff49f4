package domain

// CommandKind classifies an invocation by its leading token.
type CommandKind string

const (
	KindCommit      CommandKind = "commit"
	KindStash       CommandKind = "stash"
	KindLog         CommandKind = "log"
	KindBlame       CommandKind = "blame"
	KindReview      CommandKind = "review"
	KindSubmit      CommandKind = "submit"
	KindConfig      CommandKind = "config"
	KindTest        CommandKind = "test"
	KindPassthrough CommandKind = "passthrough"
)

// AugmentedKinds lists every kind handled by gai itself, in help order.
var AugmentedKinds = []CommandKind{
	KindCommit,
	KindStash,
	KindLog,
	KindBlame,
	KindReview,
	KindSubmit,
	KindConfig,
	KindTest,
}

// ParseCommandKind maps the first token of an invocation to a CommandKind.
// Anything that is not an augmented command is KindPassthrough.
func ParseCommandKind(token string) CommandKind {
	for _, kind := range AugmentedKinds {
		if string(kind) == token {
			return kind
		}
	}
	return KindPassthrough
}

// IsAugmented reports whether the kind is intercepted by gai.
func (k CommandKind) IsAugmented() bool {
	return k != KindPassthrough && ParseCommandKind(string(k)) == k
}

// Generates reports whether the kind produces an AI artifact.
func (k CommandKind) Generates() bool {
	switch k {
	case KindCommit, KindStash, KindLog, KindBlame, KindReview, KindSubmit:
		return true
	default:
		return false
	}
}

// Invocation is the argument list received from the shell, without the program name.
type Invocation []string

// Kind classifies the invocation.
func (inv Invocation) Kind() CommandKind {
	if len(inv) == 0 {
		return KindPassthrough
	}
	return ParseCommandKind(inv[0])
}

// IsHelp reports whether the invocation asks gai for help or version output
// instead of being forwarded to git.
func (inv Invocation) IsHelp() bool {
	if len(inv) == 0 {
		return true
	}
	switch inv[0] {
	case "-h", "--help", "--version":
		return true
	}
	return false
}
