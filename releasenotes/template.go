package releasenotes

import (
	"text/template"
)

const fence = "```"

const bodyTemplate = `## Customer Facing Changes

## Non-Customer Facing Changes

## Stats

* {{ len .IssueCommits }} Issues Addressed
* {{ len .PullCommits }} Pull Requests Merged
* {{ len .Commits }} Commits by {{ .AuthorCount }} Authors

**[Complete GitHub History]({{ .Options.GitHub }}/compare/{{ .Options.From }}...{{ .Options.To }})**

## Issues Closed By Commits
{{ range .IssueCommits }}{{ range .Issues }}
* [#{{ . }}]({{ $.Options.GitHub }}/issues/{{ . }})
{{- end }}{{ end }}

## Pull Requests
{{ range .PullCommits }}
* [#{{ .Pull }}]({{ $.Options.GitHub }}/pull/{{ .Pull }}){{ with .Body }} — {{ . }}{{ end }}
{{- end }}

## Commit History
{{ range .Commits }}
{{ if .Pull }}### [Pull Request] {{ .Subject }}{{ else }}**[Commit] {{ .Subject }}**{{ end }}

_by [{{ .Author }}]({{ $.Options.GitHub }}/commit/{{ .SHA }})_
{{- with .Body }}

{{ . }}
{{- end }}
{{ end }}
# Configuration

` + fence + `
# Generated {{ .Generated }}
--repo   {{ .Options.Repo }}
--from   {{ .Options.From }}
--to     {{ .Options.To }}
--github {{ .Options.GitHub }}
` + fence + `
`

const fullTemplate = "# {{ .Title }}\n\n" + bodyTemplate

const legacyTemplate = bodyTemplate

// Template is a parsed document template
type Template struct {
	tmpl *template.Template
}

// NewTemplate parses text as a document template
func NewTemplate(text string) (Template, error) {
	t, err := template.New("releasenotes").Option("missingkey=error").Parse(text)
	if err != nil {
		return Template{}, err
	}
	return Template{tmpl: t}, nil
}
