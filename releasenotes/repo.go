package releasenotes

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repository reads commit history and tags from a local git repo
type Repository struct {
	Path string
	repo *git.Repository
}

// OpenRepository opens the git repo containing path
func OpenRepository(path string) (*Repository, error) {
	if path == "" {
		path = "."
	}
	logger.DebugMsg(fmt.Sprintf("opening repository at %s", path))
	r, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	return &Repository{Path: path, repo: r}, nil
}

// Head returns the hash of the most recent commit
func (r *Repository) Head() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", err
	}
	return ref.Hash().String(), nil
}

// LatestTag returns the tag whose commit is newest, or "" when there are no tags.
// This is by tagged commit time, not the last name in `git tag` order.
// Tags that do not point at a commit are skipped.
func (r *Repository) LatestTag() (string, error) {
	tags, err := r.repo.Tags()
	if err != nil {
		return "", err
	}

	var name string
	var when time.Time
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		c, err := r.tagCommit(ref)
		if err != nil {
			return err
		}
		if c == nil {
			logger.DebugMsg(fmt.Sprintf("skipping tag %s: not a commit", ref.Name().Short()))
			return nil
		}
		t := c.Committer.When
		if name == "" || t.After(when) || (t.Equal(when) && ref.Name().Short() > name) {
			name = ref.Name().Short()
			when = t
		}
		return nil
	})
	return name, err
}

// EarliestCommit returns the hash of the oldest commit reachable from HEAD
func (r *Repository) EarliestCommit() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", err
	}
	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return "", err
	}
	defer iter.Close()

	var last string
	err = iter.ForEach(func(c *object.Commit) error {
		last = c.Hash.String()
		return nil
	})
	return last, err
}

// TagMessage returns the annotation of the named tag; ok is false for non-tags and lightweight tags
func (r *Repository) TagMessage(name string) (string, bool, error) {
	ref, err := r.repo.Tag(name)
	if errors.Is(err, git.ErrTagNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	tag, err := r.repo.TagObject(ref.Hash())
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.TrimSpace(tag.Message), true, nil
}

// OriginURL returns the first URL of the origin remote
func (r *Repository) OriginURL() (string, error) {
	remote, err := r.repo.Remote("origin")
	if err != nil {
		return "", err
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("origin remote has no url")
	}
	return urls[0], nil
}

// Between lists commits reachable from to but not from from, newest first
func (r *Repository) Between(from, to string) ([]RawCommit, error) {
	fromHash, err := r.resolve(from)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", from, err)
	}
	toHash, err := r.resolve(to)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", to, err)
	}

	excluded, err := r.ancestors(fromHash)
	if err != nil {
		return nil, err
	}

	iter, err := r.repo.Log(&git.LogOptions{From: toHash, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var commits []RawCommit
	err = iter.ForEach(func(c *object.Commit) error {
		if excluded[c.Hash] {
			return nil
		}
		commits = append(commits, RawCommit{
			SHA:         c.Hash.String(),
			Author:      c.Author.Name,
			Message:     strings.TrimRight(c.Message, "\n"),
			ParentCount: c.NumParents(),
		})
		return nil
	})
	logger.DebugMsg(fmt.Sprintf("found %d commits between %s and %s", len(commits), from, to))
	return commits, err
}

func (r *Repository) resolve(rev string) (plumbing.Hash, error) {
	h, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return *h, nil
}

func (r *Repository) ancestors(from plumbing.Hash) (map[plumbing.Hash]bool, error) {
	seen := map[plumbing.Hash]bool{}
	iter, err := r.repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		seen[c.Hash] = true
		return nil
	})
	return seen, err
}

// tagCommit returns the commit a tag points at, or nil for tags of trees and blobs
func (r *Repository) tagCommit(ref *plumbing.Reference) (*object.Commit, error) {
	tag, err := r.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		if tag.TargetType != plumbing.CommitObject {
			return nil, nil
		}
		return tag.Commit()
	case !errors.Is(err, plumbing.ErrObjectNotFound):
		return nil, err
	}

	c, err := r.repo.CommitObject(ref.Hash())
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return nil, nil
	}
	return c, err
}
