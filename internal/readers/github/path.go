package github

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/ragkit/internal/core/domain"
)

// Location is a parsed load path.
type Location struct {
	Owner  string
	Repo   string
	Folder string // empty for the repository root
}

// String returns the location in {owner}/{repo}/{folder} form.
func (l Location) String() string {
	if l.Folder == "" {
		return l.Owner + "/" + l.Repo
	}
	return l.Owner + "/" + l.Repo + "/" + l.Folder
}

// ParsePath splits "{owner}/{repo}/{optional/sub/folder}" into its parts.
// Leading and trailing slashes are ignored.
func ParsePath(path string) (Location, error) {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	parts := strings.SplitN(trimmed, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Location{}, fmt.Errorf("%w: %q is not owner/repo[/folder]", domain.ErrInvalidPath, path)
	}

	loc := Location{Owner: parts[0], Repo: parts[1]}
	if len(parts) == 3 {
		loc.Folder = strings.Trim(parts[2], "/")
	}
	return loc, nil
}

// Contains reports whether a repository path lies under the folder.
// Matching is by directory, so folder "docs" does not contain "docs-old/a.md".
func (l Location) Contains(path string) bool {
	if l.Folder == "" {
		return true
	}
	return path == l.Folder || strings.HasPrefix(path, l.Folder+"/")
}
