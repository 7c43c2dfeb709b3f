package gitsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	git "github.com/go-git/go-git/v5"
)

// Sync makes localPath an up-to-date checkout of the content repository
// at url: a fresh clone when the path does not exist yet, a fast-forward
// pull otherwise. The context bounds the network operations.
func Sync(ctx context.Context, url, localPath string) error {
	_, statErr := os.Stat(localPath)
	switch {
	case os.IsNotExist(statErr):
		return clone(ctx, url, localPath)
	case statErr != nil:
		return fmt.Errorf("checking content checkout %s: %w", localPath, statErr)
	default:
		return pull(ctx, url, localPath)
	}
}

func clone(ctx context.Context, url, localPath string) error {
	slog.Info("cloning content repository", "url", url, "path", localPath)
	_, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{
		URL: url,
	})
	if err != nil {
		return fmt.Errorf("cloning %s: %w", url, err)
	}
	return nil
}

func pull(ctx context.Context, url, localPath string) error {
	slog.Info("pulling content repository", "url", url, "path", localPath)
	repo, err := git.PlainOpen(localPath)
	if err != nil {
		return fmt.Errorf("opening checkout at %s: %w", localPath, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree for %s: %w", localPath, err)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		slog.Info("content repository already up to date", "path", localPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("pulling %s: %w", localPath, err)
	}
	return nil
}
