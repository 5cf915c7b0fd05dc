package releasenotes

import (
	"context"
	"fmt"
	"io"
)

// Options are the resolved run settings echoed into the document
type Options struct {
	Repo   string
	From   string
	To     string
	GitHub string
	Token  string
	APIURL string
}

// Generator defines a releasenotes run
type Generator struct {
	Config  Config
	Options Options
	// Checker overrides the GitHub-backed deploy checker when set
	Checker DeployChecker
	// Warnings receives non-fatal notices raised while classifying commits
	Warnings io.Writer
}

// NewFromFile creates a new Generator from a config file and CLI options
func NewFromFile(configFile string, opts Options) (Generator, error) {
	c, err := LoadConfig(configFile)
	if err != nil {
		return Generator{}, err
	}
	return Generator{Config: c, Options: opts}, nil
}

// Execute writes release notes for the configured range to w
func (g *Generator) Execute(ctx context.Context, w io.Writer) error {
	tmpl, err := g.Config.Template()
	if err != nil {
		return err
	}
	patterns, err := g.Config.Patterns()
	if err != nil {
		return err
	}

	repo, err := OpenRepository(g.Options.Repo)
	if err != nil {
		return err
	}

	opts, err := g.resolveOptions(repo)
	if err != nil {
		return err
	}

	checker, err := g.deployChecker(ctx, opts)
	if err != nil {
		return err
	}

	title, err := g.title(repo, opts.To)
	if err != nil {
		return err
	}

	raw, err := repo.Between(opts.From, opts.To)
	if err != nil {
		return err
	}

	classifier := Classifier{GitHub: opts.GitHub, Patterns: patterns, Checker: checker}
	commits := make([]Commit, 0, len(raw))
	for _, r := range raw {
		c, err := classifier.Classify(ctx, r)
		if err != nil {
			return err
		}
		commits = append(commits, c)
	}

	a := NewAssembler(tmpl)
	if err := a.Render(w, title, opts, commits); err != nil {
		return err
	}
	return a.Warn(w, opts.GitHub, commits)
}

func (g *Generator) resolveOptions(repo *Repository) (Options, error) {
	opts := g.Options
	var err error

	if opts.GitHub == "" {
		opts.GitHub, err = g.defaultGitHub(repo)
		if err != nil {
			return opts, err
		}
	}
	opts.GitHub, err = ParseGitHubURL(opts.GitHub)
	if err != nil {
		return opts, err
	}

	if opts.APIURL == "" {
		opts.APIURL = g.Config.APIURL
	}

	if opts.From == "" {
		opts.From, err = repo.LatestTag()
		if err != nil {
			return opts, err
		}
		if opts.From == "" {
			opts.From, err = repo.EarliestCommit()
			if err != nil {
				return opts, err
			}
		}
	}
	if opts.To == "" {
		opts.To, err = repo.Head()
		if err != nil {
			return opts, err
		}
	}

	logger.DebugMsg(fmt.Sprintf("resolved range %s...%s", opts.From, opts.To))
	return opts, nil
}

func (g *Generator) defaultGitHub(repo *Repository) (string, error) {
	origin, err := repo.OriginURL()
	if err != nil {
		return "", fmt.Errorf("no github url given and origin remote unavailable: %w", err)
	}
	logger.DebugMsg(fmt.Sprintf("deriving github url from origin %s", origin))
	return WebURLFromRemote(origin)
}

func (g *Generator) deployChecker(ctx context.Context, opts Options) (DeployChecker, error) {
	enabled, err := g.Config.deployCheckEnabled()
	if err != nil || !enabled {
		return nil, err
	}
	if g.Checker != nil {
		return g.Checker, nil
	}

	name, err := RepositoryName(opts.GitHub)
	if err != nil {
		return nil, err
	}
	client, err := NewGitHubClient(ctx, Credentials{
		Token:          opts.Token,
		APIURL:         opts.APIURL,
		IntegrationID:  g.Config.IntegrationID,
		InstallID:      g.Config.InstallID,
		PrivateKeyFile: g.Config.PrivateKeyFile,
	})
	if err != nil {
		return nil, err
	}
	return &LabelChecker{
		Search:     client.Search,
		Repository: name,
		Label:      g.Config.deployLabel(),
		Warnings:   g.Warnings,
	}, nil
}

func (g *Generator) title(repo *Repository, to string) (string, error) {
	msg, ok, err := repo.TagMessage(to)
	if err != nil || !ok {
		return untitled, err
	}
	return msg, nil
}
