// Package prompt turns repository context into the text sent to a model.
// Building is pure: the same kind and context always yield the same prompt.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/doeshing/gai-go/internal/domain"
)

const preamble = "You are an expert developer. "

// MaxTokens bounds the reply length per command kind.
var MaxTokens = map[domain.CommandKind]int{
	domain.KindCommit: 256,
	domain.KindStash:  128,
	domain.KindLog:    512,
	domain.KindBlame:  256,
	domain.KindReview: 2048,
	domain.KindSubmit: 1024,
}

var templates = template.Must(template.New("prompts").Funcs(template.FuncMap{
	"trim": strings.TrimSpace,
	"date": func(e domain.LogEntry) string {
		if e.Date.IsZero() {
			return ""
		}
		return e.Date.Format("2006-01-02")
	},
}).Parse(`
{{- define "commit" -}}
` + preamble + `Write a concise, clear git commit message (imperative mood, ≤ 72 chars in the subject) for the following diff. Start the subject line with a single, relevant, positive emoji.

<diff>
{{ trim .Diff }}
</diff>
{{- end -}}

{{- define "stash" -}}
` + preamble + `Write a concise, clear stash message (imperative mood, ≤ 72 chars in the subject) for the following diff. Start the subject line with a single, relevant, positive emoji.

<diff>
{{ trim .Diff }}
</diff>
{{- end -}}

{{- define "log" -}}
` + preamble + `Summarize the following git commit log into bullet points, using relevant, positive emojis. Focus on key changes and group related commits where sensible:

<log>
{{- range .Log }}
{{ .ShortHash }} {{ date . }} {{ .Author }}: {{ .Subject }}
{{- with trim .Body }}
{{ . }}
{{- end }}
{{- end }}
</log>
{{- end -}}

{{- define "blame" -}}
` + preamble + `Explain why this line was changed based on the git blame output and commit hash details. Start with a relevant, positive emoji and keep it under 120 words:

<blame>
{{ trim .Blame.Raw }}
{{- with trim .Blame.Message }}

Commit message:
{{ . }}
{{- end }}
</blame>
{{- end -}}

{{- define "review" -}}
` + preamble + `Review the following code changes and provide feedback. Focus on identifying potential bugs, performance issues, and areas for improvement. Use a positive and constructive tone, with relevant emojis:

<diff>
{{ trim .Diff }}
</diff>
{{- end -}}

{{- define "submit" -}}
` + preamble + `Based on the following diff, generate a pull request title and a short summary body in JSON format. The JSON should have two keys: "title" and "body". The title should start with a relevant, positive emoji.

<diff>
{{ trim .Diff }}
</diff>
{{- end -}}
`))

// sources lists the context kinds each command accepts.
var sources = map[domain.CommandKind][]domain.ContextSource{
	domain.KindCommit: {domain.SourceStagedDiff},
	domain.KindStash:  {domain.SourceUnstagedDiff, domain.SourceStagedDiff},
	domain.KindLog:    {domain.SourceLog},
	domain.KindBlame:  {domain.SourceBlame},
	domain.KindReview: {domain.SourceStagedDiff, domain.SourceUnstagedDiff},
	domain.KindSubmit: {domain.SourceBranchDiff},
}

// Build renders the prompt for kind. Empty context fails with
// domain.ErrEmptyContext before any text is produced.
func Build(kind domain.CommandKind, ctx domain.RepoContext) (domain.Prompt, error) {
	accepted, ok := sources[kind]
	if !ok {
		return domain.Prompt{}, fmt.Errorf("no prompt for command %q", kind)
	}
	if !accepts(accepted, ctx.Source) {
		return domain.Prompt{}, fmt.Errorf("command %q cannot use %s context", kind, ctx.Source)
	}
	if ctx.IsEmpty() {
		return domain.Prompt{}, domain.ErrEmptyContext
	}

	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, string(kind), ctx); err != nil {
		return domain.Prompt{}, fmt.Errorf("render %s prompt: %w", kind, err)
	}
	return domain.Prompt{
		Kind:      kind,
		Text:      b.String(),
		MaxTokens: MaxTokens[kind],
	}, nil
}

func accepts(list []domain.ContextSource, source domain.ContextSource) bool {
	for _, s := range list {
		if s == source {
			return true
		}
	}
	return false
}
