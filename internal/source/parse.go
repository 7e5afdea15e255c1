package source

import (
	"fmt"
	"strings"

	dockerrors "github.com/haimv/skilldock/internal/errors"
)

// DefaultBranch is assumed when the input names no branch
const DefaultBranch = "main"

// ParseRepoURL parses a short-form or full repository URL into a Source.
// Accepted forms:
//
//	owner/repo
//	owner/repo@branch
//	owner/repo@branch:subpath
//	github.com/owner/repo
//	https://github.com/owner/repo[.git]
//	https://github.com/owner/repo/tree/branch[/subpath]
//	git@github.com:owner/repo.git
func ParseRepoURL(input string) (*Source, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return nil, fmt.Errorf("empty source URL: %w", dockerrors.ErrNotFound)
	}

	host := "github.com"
	branch := ""
	subpath := WholeRepo
	rest := raw

	// SSH form
	if strings.HasPrefix(rest, "git@") {
		rest = strings.TrimPrefix(rest, "git@")
		if idx := strings.Index(rest, ":"); idx > 0 {
			host = rest[:idx]
			rest = rest[idx+1:]
		}
	} else {
		rest = strings.TrimPrefix(rest, "https://")
		rest = strings.TrimPrefix(rest, "http://")
		for _, h := range []string{"github.com/", "gitlab.com/", "bitbucket.org/"} {
			if strings.HasPrefix(rest, h) {
				host = strings.TrimSuffix(h, "/")
				rest = strings.TrimPrefix(rest, h)
				break
			}
		}
	}

	// Short-form branch and subpath markers
	if idx := strings.Index(rest, "@"); idx > 0 {
		spec := rest[idx+1:]
		rest = rest[:idx]
		if cidx := strings.Index(spec, ":"); cidx >= 0 {
			branch = spec[:cidx]
			subpath = cleanSubpath(spec[cidx+1:])
		} else {
			branch = spec
		}
	}

	rest = strings.TrimSuffix(rest, "/")
	parts := strings.Split(rest, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("cannot parse repository from %q: %w", input, dockerrors.ErrNotFound)
	}

	owner := parts[0]
	repo := strings.TrimSuffix(parts[1], ".git")

	// Web tree URL carries branch and subpath
	if len(parts) >= 4 && parts[2] == "tree" {
		branch = parts[3]
		if len(parts) > 4 {
			subpath = cleanSubpath(strings.Join(parts[4:], "/"))
		}
	}

	if branch == "" {
		branch = DefaultBranch
	}

	return &Source{
		ID:      fmt.Sprintf("%s-%s", owner, repo),
		Owner:   owner,
		Repo:    repo,
		RepoURL: fmt.Sprintf("https://%s/%s/%s.git", host, owner, repo),
		Branch:  branch,
		Subpath: subpath,
		Enabled: true,
		Status:  StatusPending,
	}, nil
}

func cleanSubpath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return WholeRepo
	}
	return p
}
