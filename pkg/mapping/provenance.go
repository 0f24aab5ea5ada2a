package mapping

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
)

// WriteProvenance records export metadata in a sidecar file next to the
// mapping tree. When dstDir lives inside a git work tree the HEAD commit is
// stamped in, so exported mappings can be tied back to the revision they
// were produced against. Absence of a repository is not an error.
func WriteProvenance(dstDir, version string, now time.Time) error {
	line := fmt.Sprintf("classmatch %s\nexported %s\n", version, now.UTC().Format(time.RFC3339))

	repo, err := git.PlainOpenWithOptions(dstDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err == nil {
		if head, err := repo.Head(); err == nil {
			line += fmt.Sprintf("commit %s\n", head.Hash())
		}
	}

	return os.WriteFile(filepath.Join(dstDir, ".classmatch-export"), []byte(line), 0o644)
}
