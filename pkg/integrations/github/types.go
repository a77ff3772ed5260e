package github

import (
	"time"

	"github.com/matzehuels/gitmaster/pkg/repo"
)

// Repository is the metadata of a GitHub repository.
type Repository struct {
	Owner         string    `json:"owner"`
	Name          string    `json:"name"`
	FullName      string    `json:"fullName"`
	Description   string    `json:"description"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	OpenIssues    int       `json:"openIssues"`
	Language      string    `json:"language"`
	Topics        []string  `json:"topics"`
	URL           string    `json:"url"`
	Homepage      string    `json:"homepage,omitempty"`
	DefaultBranch string    `json:"defaultBranch"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	SizeKB        int       `json:"size"`
	License       string    `json:"license,omitempty"`
}

// Tree is a recursive listing of one commit.
type Tree struct {
	SHA       string
	Items     repo.Tree
	Truncated bool
}

// RateLimit is the state of the core REST quota.
type RateLimit struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
}

type apiRepoResponse struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Owner    struct {
		Login string `json:"login"`
	} `json:"owner"`
	Description   *string   `json:"description"`
	Stars         int       `json:"stargazers_count"`
	Forks         int       `json:"forks_count"`
	OpenIssues    int       `json:"open_issues_count"`
	Language      *string   `json:"language"`
	Topics        []string  `json:"topics"`
	HTMLURL       string    `json:"html_url"`
	Homepage      *string   `json:"homepage"`
	DefaultBranch string    `json:"default_branch"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Size          int       `json:"size"`
	License       *struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
}

type apiTreeResponse struct {
	SHA       string `json:"sha"`
	Truncated bool   `json:"truncated"`
	Tree      []struct {
		Path string `json:"path"`
		Type string `json:"type"`
		Size int64  `json:"size"`
	} `json:"tree"`
}

type apiRateLimitResponse struct {
	Resources struct {
		Core struct {
			Limit     int   `json:"limit"`
			Remaining int   `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"core"`
	} `json:"resources"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLBlob struct {
	Text *string `json:"text"`
}

type graphQLResponse struct {
	Data *struct {
		Repository map[string]*graphQLBlob `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
