package releasenotes

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation"
	"github.com/google/go-github/v52/github"
	"golang.org/x/oauth2"
)

// Credentials selects how the GitHub API client authenticates
type Credentials struct {
	Token          string
	APIURL         string
	IntegrationID  int64
	InstallID      int64
	PrivateKeyFile string
}

func (c Credentials) useApp() bool {
	return c.IntegrationID != 0 && c.InstallID != 0 && c.PrivateKeyFile != ""
}

func (c Credentials) httpClient(ctx context.Context) (*http.Client, error) {
	if c.useApp() {
		logger.DebugMsg(fmt.Sprintf("creating install client for %d", c.InstallID))
		itr, err := ghinstallation.NewKeyFromFile(
			http.DefaultTransport,
			c.IntegrationID,
			c.InstallID,
			c.PrivateKeyFile,
		)
		if err != nil {
			return nil, err
		}
		if c.APIURL != "" {
			itr.BaseURL = strings.TrimSuffix(c.APIURL, "/")
			if !strings.HasSuffix(itr.BaseURL, "/api/v3") {
				itr.BaseURL += "/api/v3"
			}
		}
		return &http.Client{Transport: itr}, nil
	}

	if c.Token != "" {
		logger.DebugMsg("creating token client")
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.Token})
		return oauth2.NewClient(ctx, ts), nil
	}

	logger.DebugMsg("creating unauthenticated client")
	return nil, nil
}

// NewGitHubClient builds a go-github client for github.com or an Enterprise API URL
func NewGitHubClient(ctx context.Context, c Credentials) (*github.Client, error) {
	hc, err := c.httpClient(ctx)
	if err != nil {
		return nil, err
	}
	if c.APIURL == "" {
		return github.NewClient(hc), nil
	}
	return github.NewEnterpriseClient(c.APIURL, c.APIURL, hc)
}

// ParseGitHubURL validates the web base URL and trims any trailing slash
func ParseGitHubURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("github url must be absolute: %s", raw)
	}
	return strings.TrimSuffix(raw, "/"), nil
}

// RepositoryName returns the owner/name path of a GitHub web URL
func RepositoryName(githubURL string) (string, error) {
	u, err := url.Parse(githubURL)
	if err != nil {
		return "", err
	}
	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", fmt.Errorf("github url has no owner/name path: %s", githubURL)
	}
	return strings.Join(parts, "/"), nil
}

// WebURLFromRemote converts a clone URL into the repository's web URL
func WebURLFromRemote(remote string) (string, error) {
	remote = strings.TrimSuffix(strings.TrimSpace(remote), ".git")

	if !strings.Contains(remote, "://") {
		// scp-like syntax: git@github.com:owner/name
		at := strings.LastIndex(remote, "@")
		colon := strings.Index(remote, ":")
		if colon == -1 || colon < at {
			return "", fmt.Errorf("unsupported remote url: %s", remote)
		}
		return "https://" + remote[at+1:colon] + "/" + strings.TrimPrefix(remote[colon+1:], "/"), nil
	}

	u, err := url.Parse(remote)
	if err != nil {
		return "", err
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("unsupported remote url: %s", remote)
	}
	return "https://" + u.Hostname() + "/" + strings.TrimPrefix(u.Path, "/"), nil
}
