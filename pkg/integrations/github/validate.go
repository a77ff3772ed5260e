package github

import (
	"regexp"
	"strings"

	"github.com/matzehuels/gitmaster/pkg/errors"
)

var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)

	schemePrefix = regexp.MustCompile(`^(https?://)?(www\.)?`)
)

// ValidateOwner validates a GitHub username or organization name.
func ValidateOwner(owner string) error {
	if !validOwner.MatchString(owner) {
		return errors.New(errors.ErrCodeInvalidURL, "invalid owner %q", owner)
	}
	return nil
}

// ValidateRepo validates a GitHub repository name.
func ValidateRepo(repo string) error {
	if !validRepo.MatchString(repo) || repo == "." || repo == ".." {
		return errors.New(errors.ErrCodeInvalidURL, "invalid repository name %q", repo)
	}
	return nil
}

// ParseRepoURL extracts owner and repository from the accepted URL forms.
// Anything after the repository segment, such as /tree/main, is ignored.
func ParseRepoURL(raw string) (owner, repo string, err error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", "", errors.New(errors.ErrCodeMissingURL, "repository URL is required")
	}
	s = strings.Replace(s, "git@github.com:", "github.com/", 1)
	s = schemePrefix.ReplaceAllString(s, "")
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")
	s = strings.TrimPrefix(s, "github.com/")

	var parts []string
	for _, p := range strings.Split(s, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", "", errors.New(errors.ErrCodeInvalidURL,
			"invalid GitHub URL format, expected https://github.com/owner/repo")
	}
	owner, repo = parts[0], strings.TrimSuffix(parts[1], ".git")
	if err := ValidateOwner(owner); err != nil {
		return "", "", err
	}
	if err := ValidateRepo(repo); err != nil {
		return "", "", err
	}
	return owner, repo, nil
}
