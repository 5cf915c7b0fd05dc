package releasenotes

import (
	"fmt"
	"io"
	"time"
)

const (
	untitled        = "Untitled"
	generatedLayout = "2006-01-02 15:04:05 -0700"
)

// Document is the data handed to the template
type Document struct {
	Title     string
	Options   Options
	Commits   []Commit
	Generated string
}

// IssueCommits returns the commits that close at least one issue
func (d Document) IssueCommits() []Commit {
	var res []Commit
	for _, c := range d.Commits {
		if c.Issues != nil {
			res = append(res, c)
		}
	}
	return res
}

// PullCommits returns the commits that merge a pull request
func (d Document) PullCommits() []Commit {
	var res []Commit
	for _, c := range d.Commits {
		if c.Pull != nil {
			res = append(res, c)
		}
	}
	return res
}

// AuthorCount returns the number of distinct non-empty author names
func (d Document) AuthorCount() int {
	seen := map[string]bool{}
	for _, c := range d.Commits {
		if c.Author != "" {
			seen[c.Author] = true
		}
	}
	return len(seen)
}

// Assembler renders classified commits into a Markdown document
type Assembler struct {
	Template Template
	Now      func() time.Time
}

// NewAssembler returns an Assembler using the given template and the wall clock
func NewAssembler(t Template) *Assembler {
	return &Assembler{Template: t, Now: time.Now}
}

// Render writes the document for commits to w
func (a *Assembler) Render(w io.Writer, title string, opts Options, commits []Commit) error {
	if a.Template.tmpl == nil {
		return fmt.Errorf("no template configured")
	}
	if title == "" {
		title = untitled
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	doc := Document{
		Title:     title,
		Options:   opts,
		Commits:   commits,
		Generated: now().Format(generatedLayout),
	}
	return a.Template.tmpl.Execute(w, doc)
}

// Warn writes a banner listing PRs with special deploy requirements, if any
func (a *Assembler) Warn(w io.Writer, github string, commits []Commit) error {
	var pulls []int
	seen := map[int]bool{}
	flagged := false
	for _, c := range commits {
		if !c.SpecialDeployRequirements {
			continue
		}
		flagged = true
		if c.Pull != nil && !seen[*c.Pull] {
			seen[*c.Pull] = true
			pulls = append(pulls, *c.Pull)
		}
	}
	if !flagged {
		return nil
	}

	_, err := fmt.Fprint(w, "====================\n\nWARNING: There are commits with special deploy requirements!\n")
	if err != nil {
		return err
	}
	for _, p := range pulls {
		if _, err := fmt.Fprintf(w, "* %s/pull/%d\n", github, p); err != nil {
			return err
		}
	}
	return nil
}
