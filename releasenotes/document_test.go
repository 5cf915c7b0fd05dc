package releasenotes

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOptions = Options{
	Repo:   ".",
	From:   "v1.0",
	To:     "v2.0",
	GitHub: testGitHub,
}

func fixedClock() time.Time {
	return time.Date(2023, 6, 1, 9, 30, 0, 0, time.UTC)
}

func testAssembler(t *testing.T, profile string) *Assembler {
	t.Helper()
	tmpl, err := Config{Profile: profile}.Template()
	require.NoError(t, err)
	a := NewAssembler(tmpl)
	a.Now = fixedClock
	return a
}

func render(t *testing.T, a *Assembler, title string, commits []Commit) string {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, a.Render(&b, title, testOptions, commits))
	return b.String()
}

func statsCommits() []Commit {
	return []Commit{
		{Author: "Jo", SHA: "a1", Subject: "One", Issues: []int{1}},
		{Author: "Sam", SHA: "a2", Subject: "Two", Pull: intPtr(10), Body: strPtr("Second")},
		{Author: "Jo", SHA: "a3", Subject: "Three", Pull: intPtr(11)},
		{Author: "Jo", SHA: "a4", Subject: "Four", Pull: intPtr(12), Issues: []int{1, 2}},
		{Author: "", SHA: "a5", Subject: "Five"},
	}
}

func TestRenderStats(t *testing.T) {
	out := render(t, testAssembler(t, ProfileFull), "Release", statsCommits())

	assert.Contains(t, out, "* 2 Issues Addressed\n")
	assert.Contains(t, out, "* 3 Pull Requests Merged\n")
	assert.Contains(t, out, "* 5 Commits by 2 Authors\n")
	assert.Contains(t, out, "**[Complete GitHub History]("+testGitHub+"/compare/v1.0...v2.0)**")
}

func TestRenderSections(t *testing.T) {
	out := render(t, testAssembler(t, ProfileFull), "Release", statsCommits())

	tests := map[string]struct {
		contains    []string
		notContains []string
	}{
		"title": {
			contains: []string{"# Release\n"},
		},
		"issues keep duplicates in commit order": {
			contains: []string{
				"## Issues Closed By Commits\n\n" +
					"* [#1](" + testGitHub + "/issues/1)\n" +
					"* [#1](" + testGitHub + "/issues/1)\n" +
					"* [#2](" + testGitHub + "/issues/2)\n\n## Pull Requests",
			},
		},
		"pull requests": {
			contains: []string{
				"* [#10](" + testGitHub + "/pull/10) — Second\n",
				"* [#11](" + testGitHub + "/pull/11)\n",
			},
			notContains: []string{"/pull/11) —", "<nil>", "%!"},
		},
		"commit history": {
			contains: []string{
				"**[Commit] One**\n\n_by [Jo](" + testGitHub + "/commit/a1)_\n\n### [Pull Request] Two",
				"### [Pull Request] Two\n\n_by [Sam](" + testGitHub + "/commit/a2)_\n\nSecond\n",
			},
		},
		"configuration": {
			contains: []string{
				"# Configuration\n\n```\n# Generated 2023-06-01 09:30:00 +0000\n" +
					"--repo   .\n--from   v1.0\n--to     v2.0\n--github " + testGitHub + "\n```\n",
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			for _, s := range tc.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tc.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestRenderLegacyHasNoTitle(t *testing.T) {
	out := render(t, testAssembler(t, ProfileLegacy), "Release", statsCommits())
	assert.True(t, strings.HasPrefix(out, "## Customer Facing Changes"))
	assert.NotContains(t, out, "# Release")
}

func TestRenderDefaultsTitle(t *testing.T) {
	out := render(t, testAssembler(t, ProfileFull), "", nil)
	assert.True(t, strings.HasPrefix(out, "# Untitled\n"))
	assert.Contains(t, out, "* 0 Commits by 0 Authors")
}

func TestRenderIsIdempotent(t *testing.T) {
	a := testAssembler(t, ProfileFull)
	assert.Equal(t, render(t, a, "Release", statsCommits()), render(t, a, "Release", statsCommits()))
}

func TestRenderCustomTemplate(t *testing.T) {
	tmpl, err := NewTemplate("{{ .Title }}: {{ len .Commits }} by {{ .AuthorCount }}")
	require.NoError(t, err)
	a := NewAssembler(tmpl)

	var b bytes.Buffer
	require.NoError(t, a.Render(&b, "v3", testOptions, statsCommits()))
	assert.Equal(t, "v3: 5 by 2", b.String())
}

func TestRenderWithoutTemplate(t *testing.T) {
	var b bytes.Buffer
	assert.Error(t, (&Assembler{}).Render(&b, "", testOptions, nil))
}

func TestWarn(t *testing.T) {
	a := testAssembler(t, ProfileFull)

	t.Run("nothing flagged", func(t *testing.T) {
		var b bytes.Buffer
		require.NoError(t, a.Warn(&b, testGitHub, statsCommits()))
		assert.Empty(t, b.String())
	})

	t.Run("distinct pulls", func(t *testing.T) {
		commits := []Commit{
			{SHA: "m1", Pull: intPtr(5), SpecialDeployRequirements: true},
			{SHA: "m2", Pull: intPtr(8)},
			{SHA: "m3", Pull: intPtr(5), SpecialDeployRequirements: true},
			{SHA: "m4", Pull: intPtr(3), SpecialDeployRequirements: true},
		}
		var b bytes.Buffer
		require.NoError(t, a.Warn(&b, testGitHub, commits))
		assert.Equal(t, "====================\n\n"+
			"WARNING: There are commits with special deploy requirements!\n"+
			"* "+testGitHub+"/pull/5\n"+
			"* "+testGitHub+"/pull/3\n", b.String())
	})
}
