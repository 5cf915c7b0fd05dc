package releasenotes

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var numberRefPattern = regexp.MustCompile(`#(\d+)`)

// RawCommit is a commit as read from the repository log
type RawCommit struct {
	SHA         string
	Author      string
	Message     string
	ParentCount int
}

// IsMerge reports whether the commit has more than one parent
func (r RawCommit) IsMerge() bool {
	return r.ParentCount > 1
}

// Commit is a classified commit ready for rendering
type Commit struct {
	Author                    string
	SHA                       string
	Subject                   string
	Body                      *string
	Pull                      *int
	Issues                    []int
	SpecialDeployRequirements bool
}

// Patterns holds the regexes used to pull PR and issue numbers out of messages
type Patterns struct {
	ScanRaw bool
	Pull    *regexp.Regexp
	Issues  *regexp.Regexp
}

// DeployChecker decides whether a merge commit needs special deploy steps
type DeployChecker interface {
	SpecialDeployRequirements(ctx context.Context, sha string) (bool, error)
}

// Classifier turns raw commits into Commit records
type Classifier struct {
	GitHub   string
	Patterns Patterns
	Checker  DeployChecker
}

// Classify builds a Commit from a raw commit; a nil Checker marks no commit as special
func (c *Classifier) Classify(ctx context.Context, raw RawCommit) (Commit, error) {
	rewritten := c.linkify(raw.Message)
	subject, body := splitMessage(rewritten)

	scanned := rewritten
	if c.Patterns.ScanRaw {
		scanned = raw.Message
	}

	commit := Commit{
		Author:  raw.Author,
		SHA:     raw.SHA,
		Subject: subject,
		Body:    body,
		Pull:    firstNumber(c.Patterns.Pull, scanned),
		Issues:  allNumbers(c.Patterns.Issues, scanned),
	}

	if raw.IsMerge() && c.Checker != nil {
		special, err := c.Checker.SpecialDeployRequirements(ctx, raw.SHA)
		if err != nil {
			return Commit{}, err
		}
		commit.SpecialDeployRequirements = special
	}

	logger.DebugMsg(fmt.Sprintf(
		"classified %s: merge=%t pull=%t issues=%d special=%t",
		raw.SHA, raw.IsMerge(), commit.Pull != nil, len(commit.Issues), commit.SpecialDeployRequirements,
	))
	return commit, nil
}

func (c *Classifier) linkify(message string) string {
	return numberRefPattern.ReplaceAllString(message, "[#$1]("+c.GitHub+"/pull/$1)")
}

func splitMessage(message string) (string, *string) {
	parts := strings.SplitN(message, "\n\n", 2)
	if len(parts) < 2 {
		return parts[0], nil
	}
	return parts[0], &parts[1]
}

func firstNumber(pattern *regexp.Regexp, text string) *int {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

func allNumbers(pattern *regexp.Regexp, text string) []int {
	var numbers []int
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}
