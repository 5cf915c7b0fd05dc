package releasenotes

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/akerl/timber/log"
	"github.com/ghodss/yaml"
)

var logger = log.NewLogger("releasenotes")

const (
	// ProfileFull renders a title line and checks merge commits for deploy labels
	ProfileFull = "full"
	// ProfileLegacy omits the title and skips the deploy label check
	ProfileLegacy = "legacy"

	// ScanRewritten matches PR and issue patterns against the link-rewritten message
	ScanRewritten = "rewritten"
	// ScanRaw matches PR and issue patterns against the original message
	ScanRaw = "raw"

	defaultDeployLabel = "special deploy requirements"
)

var githubKeywords = []string{
	"close", "closes", "closed",
	"fix", "fixes", "fixed",
	"resolve", "resolves", "resolved",
}

var legacyKeywords = []string{"closes", "fixes"}

// Config describes options for changing the behavior of releasenotes
type Config struct {
	Profile                    string   `json:"profile"`
	Scan                       string   `json:"scan"`
	IssueKeywords              []string `json:"issue_keywords"`
	IssueKeywordsCaseSensitive bool     `json:"issue_keywords_case_sensitive"`
	DeployCheck                *bool    `json:"deploy_check"`
	DeployLabel                string   `json:"deploy_label"`
	TemplateFile               string   `json:"template_file"`
	APIURL                     string   `json:"api_url"`
	IntegrationID              int64    `json:"integration_id"`
	InstallID                  int64    `json:"install_id"`
	PrivateKeyFile             string   `json:"private_key_file"`
}

// LoadConfig reads a YAML config file; an empty path yields the defaults
func LoadConfig(file string) (Config, error) {
	var c Config
	if file == "" {
		return c, nil
	}
	logger.DebugMsg(fmt.Sprintf("loading config from %s", file))

	contents, err := os.ReadFile(file)
	if err != nil {
		return c, err
	}

	err = yaml.Unmarshal(contents, &c)
	return c, err
}

func (c Config) profile() (string, error) {
	switch c.Profile {
	case "":
		return ProfileFull, nil
	case ProfileFull, ProfileLegacy:
		return c.Profile, nil
	}
	return "", fmt.Errorf("unknown profile: %s", c.Profile)
}

func (c Config) scanMode() (string, error) {
	switch c.Scan {
	case "":
		return ScanRewritten, nil
	case ScanRewritten, ScanRaw:
		return c.Scan, nil
	}
	return "", fmt.Errorf("unknown scan mode: %s", c.Scan)
}

func (c Config) deployCheckEnabled() (bool, error) {
	if c.DeployCheck != nil {
		return *c.DeployCheck, nil
	}
	p, err := c.profile()
	if err != nil {
		return false, err
	}
	return p == ProfileFull, nil
}

func (c Config) deployLabel() string {
	if c.DeployLabel == "" {
		return defaultDeployLabel
	}
	return c.DeployLabel
}

func (c Config) keywords() ([]string, error) {
	if len(c.IssueKeywords) > 0 {
		return c.IssueKeywords, nil
	}
	p, err := c.profile()
	if err != nil {
		return nil, err
	}
	if p == ProfileLegacy {
		return legacyKeywords, nil
	}
	return githubKeywords, nil
}

// Patterns compiles the PR and issue extraction regexes for this config
func (c Config) Patterns() (Patterns, error) {
	mode, err := c.scanMode()
	if err != nil {
		return Patterns{}, err
	}
	words, err := c.keywords()
	if err != nil {
		return Patterns{}, err
	}

	number := `#(\d+)`
	if mode == ScanRewritten {
		number = `\[#(\d+)\]`
	}

	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	flags := "(?i)"
	if c.IssueKeywordsCaseSensitive {
		flags = ""
	}

	return Patterns{
		ScanRaw: mode == ScanRaw,
		Pull:    regexp.MustCompile(`Merge pull request ` + number),
		Issues: regexp.MustCompile(
			flags + `\b(?:` + strings.Join(quoted, "|") + `) ` + number,
		),
	}, nil
}

// Template returns the document template for this config
func (c Config) Template() (Template, error) {
	if c.TemplateFile != "" {
		logger.DebugMsg(fmt.Sprintf("loading template from %s", c.TemplateFile))
		contents, err := os.ReadFile(c.TemplateFile)
		if err != nil {
			return Template{}, err
		}
		return NewTemplate(string(contents))
	}
	p, err := c.profile()
	if err != nil {
		return Template{}, err
	}
	if p == ProfileLegacy {
		return NewTemplate(legacyTemplate)
	}
	return NewTemplate(fullTemplate)
}
