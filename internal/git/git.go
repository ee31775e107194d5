// Package git reads commit information from the local repository.
package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// LatestCommitMessage returns the full message of the commit HEAD points at
// in the repository at or above path. It returns an error when the path is
// not inside a repository or the repository has no commits yet.
func LatestCommitMessage(path string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open git repository at %s: %w", path, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("failed to read commit %s: %w", head.Hash(), err)
	}

	return commit.Message, nil
}
