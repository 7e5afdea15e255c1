package source

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	dockerrors "github.com/haimv/skilldock/internal/errors"
)

// VcsClient is the narrow boundary to the version-control tool. All
// subprocess invocation and output parsing stays behind it; tests supply
// an in-memory implementation.
type VcsClient interface {
	// Clone performs a shallow full clone of branch into dest
	Clone(ctx context.Context, url, branch, dest string) error

	// Pull updates an existing checkout to the remote branch head
	Pull(ctx context.Context, dir, branch string) error

	// SparseInit prepares dir as an empty repository with cone-mode
	// sparse checkout and origin set to url
	SparseInit(ctx context.Context, dir, url string) error

	// SparseSet replaces the sparse-checkout path set
	SparseSet(ctx context.Context, dir string, paths []string) error

	// SparseCheckout fetches a shallow history of branch and checks out
	// its head, honoring the current sparse path set
	SparseCheckout(ctx context.Context, dir, branch string) error

	// RevParse returns the checkout's current head revision
	RevParse(dir string) (string, error)

	// LsRemoteHead returns the remote head revision of branch without
	// touching any checkout
	LsRemoteHead(ctx context.Context, url, branch string) (string, error)
}

// GitClient shells out to the git binary
type GitClient struct{}

// NewGitClient creates a GitClient
func NewGitClient() *GitClient {
	return &GitClient{}
}

func (g *GitClient) Clone(ctx context.Context, url, branch, dest string) error {
	_, err := runGit(ctx, "", "clone", "--depth", "1", "--branch", branch, url, dest)
	return err
}

func (g *GitClient) Pull(ctx context.Context, dir, branch string) error {
	_, err := runGit(ctx, dir, "pull", "--ff-only", "origin", branch)
	return err
}

func (g *GitClient) SparseInit(ctx context.Context, dir, url string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	steps := [][]string{
		{"init"},
		{"remote", "add", "origin", url},
		{"sparse-checkout", "init", "--cone"},
	}
	for _, args := range steps {
		if _, err := runGit(ctx, dir, args...); err != nil {
			return err
		}
	}
	return nil
}

func (g *GitClient) SparseSet(ctx context.Context, dir string, paths []string) error {
	args := append([]string{"sparse-checkout", "set"}, paths...)
	_, err := runGit(ctx, dir, args...)
	return err
}

func (g *GitClient) SparseCheckout(ctx context.Context, dir, branch string) error {
	if _, err := runGit(ctx, dir, "fetch", "--depth", "1", "origin", branch); err != nil {
		return err
	}
	_, err := runGit(ctx, dir, "checkout", "FETCH_HEAD")
	return err
}

func (g *GitClient) RevParse(dir string) (string, error) {
	out, err := runGit(context.Background(), dir, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return out, nil
}

func (g *GitClient) LsRemoteHead(ctx context.Context, url, branch string) (string, error) {
	out, err := runGit(ctx, "", "ls-remote", url, branch)
	if err != nil {
		return "", err
	}
	// First token of the first line is the revision
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return "", dockerrors.NewSourceError(url, "ls-remote",
			fmt.Errorf("branch %s not found on remote: %w", branch, dockerrors.ErrNotFound))
	}
	return fields[0], nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", args[0], msg)
	}
	return strings.TrimSpace(string(out)), nil
}
