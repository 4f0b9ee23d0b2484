package scanner

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog/log"
)

// GitFiles lists the Python files tracked at HEAD of the repository at
// repoPath, filtered by opts. Paths are returned relative to the repository
// root, joined onto repoPath so they are openable by the caller. Untracked
// and ignored files never appear.
func GitFiles(repoPath string, opts Options) ([]string, error) {
	m, err := newMatcher(opts)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", repoPath, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to load HEAD commit: %w", err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load HEAD tree: %w", err)
	}

	var files []string
	err = tree.Files().ForEach(func(f *object.File) error {
		if IsPythonFile(f.Name) && m.matches(f.Name) {
			files = append(files, filepath.Join(repoPath, filepath.FromSlash(f.Name)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate HEAD tree: %w", err)
	}

	log.Debug().
		Str("repo", repoPath).
		Str("commit", head.Hash().String()).
		Int("files", len(files)).
		Msg("listed tracked python files")

	return files, nil
}
