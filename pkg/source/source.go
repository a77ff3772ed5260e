// Package source defines where a repository snapshot comes from.
//
// A [Source] produces a [Snapshot]: the flat tree listing, the text of every
// manifest file found in it, and descriptive metadata. Implementations live
// in subpackages: [github.com/matzehuels/gitmaster/pkg/source/local] reads a
// directory on disk and [github.com/matzehuels/gitmaster/pkg/source/github]
// reads a GitHub repository.
package source

import (
	"context"
	"time"

	"github.com/matzehuels/gitmaster/pkg/repo"
)

// Source fetches one repository snapshot.
type Source interface {
	// Name identifies the repository in logs and cache keys, for example
	// "octo/hello" or an absolute directory path.
	Name() string

	// Fetch retrieves the snapshot. Manifests that cannot be read are
	// omitted rather than reported.
	Fetch(ctx context.Context) (*Snapshot, error)
}

// Metadata describes the repository a snapshot was taken from. Fields a
// source cannot know are left at their zero value.
type Metadata struct {
	Owner         string    `json:"owner,omitempty"`
	Name          string    `json:"name"`
	FullName      string    `json:"fullName"`
	Description   string    `json:"description"`
	URL           string    `json:"url"`
	DefaultBranch string    `json:"defaultBranch,omitempty"`
	Language      string    `json:"language,omitempty"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	OpenIssues    int       `json:"openIssues"`
	Topics        []string  `json:"topics"`
	License       string    `json:"license,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitzero"`
	UpdatedAt     time.Time `json:"updatedAt,omitzero"`

	// Revision pins the content of the snapshot, such as a git tree SHA.
	// Empty when the source has no stable revision.
	Revision string `json:"revision,omitempty"`
}

// Snapshot is everything the analysis needs from a repository.
type Snapshot struct {
	Repository Metadata          `json:"repository"`
	Tree       repo.Tree         `json:"tree"`
	Manifests  map[string]string `json:"manifests"`
}
