package entities

import (
	"fmt"
	"net/url"
	"strings"

	gitforgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
)

const (
	providerGitHub = "github"
	githubHost     = "github.com"
	sshPrefix      = "git@github.com:"
	tokenUser      = "x-access-token"
)

// Role distinguishes the ordinary library repositories from the single
// main application repository, which carries a different set of version files.
type Role string

const (
	RoleLibrary     Role = "library"
	RoleApplication Role = "application"
)

// Repository describes one working copy taking part in a release. It is
// read once per invocation from the settings and never persisted.
type Repository struct {
	Name     string
	Path     string
	Role     Role
	Priority bool
}

// IsApplication reports whether the repository is the main application.
func (r Repository) IsApplication() bool { return r.Role == RoleApplication }

// RemoteRepository is re-exported from gitforge.
type RemoteRepository = gitforgeEntities.Repository

// ParseRepoID splits an "owner/repo" identifier into remote coordinates.
func ParseRepoID(repoID string) (RemoteRepository, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(repoID), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return RemoteRepository{}, fmt.Errorf("%w: %q", ErrInvalidRepoID, repoID)
	}
	return RemoteRepository{
		ID:           owner + "/" + name,
		Name:         name,
		Organization: owner,
		RemoteURL:    fmt.Sprintf("https://%s/%s/%s.git", githubHost, owner, name),
		ProviderName: providerGitHub,
	}, nil
}

// ParseRemoteURL extracts the owner and repository name from a GitHub
// remote URL in HTTPS (optionally carrying credentials) or SSH form.
func ParseRemoteURL(rawURL string) (RemoteRepository, error) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(rawURL), ".git")

	var pathPart string
	switch {
	case strings.HasPrefix(cleaned, sshPrefix):
		pathPart = strings.TrimPrefix(cleaned, sshPrefix)
	default:
		parsed, err := url.Parse(cleaned)
		if err != nil || parsed.Host != githubHost {
			return RemoteRepository{}, fmt.Errorf("%w: %s", ErrUnsupportedRemote, MaskURLCredentials(rawURL))
		}
		pathPart = strings.TrimPrefix(parsed.Path, "/")
	}

	repo, err := ParseRepoID(pathPart)
	if err != nil {
		return RemoteRepository{}, fmt.Errorf("%w: %s", ErrUnsupportedRemote, MaskURLCredentials(rawURL))
	}
	return repo, nil
}

// AuthenticatedRemoteURL rewrites a GitHub remote URL so that it embeds the
// given token. HTTPS URLs (with or without existing credentials) keep their
// path; SSH URLs are converted to HTTPS.
func AuthenticatedRemoteURL(remoteURL, token string) (string, error) {
	remoteURL = strings.TrimSpace(remoteURL)

	if strings.HasPrefix(remoteURL, sshPrefix) {
		repoPart := strings.TrimSuffix(strings.TrimPrefix(remoteURL, sshPrefix), ".git")
		return fmt.Sprintf("https://%s:%s@%s/%s.git", tokenUser, token, githubHost, repoPart), nil
	}

	parsed, err := url.Parse(remoteURL)
	if err != nil || parsed.Scheme != "https" || parsed.Host != githubHost {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedRemote, MaskURLCredentials(remoteURL))
	}

	parsed.User = url.UserPassword(tokenUser, token)
	return parsed.String(), nil
}

// MaskURLCredentials hides any password embedded in a URL so it can be logged.
func MaskURLCredentials(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.User == nil {
		return rawURL
	}
	if _, hasPassword := parsed.User.Password(); hasPassword {
		parsed.User = url.UserPassword(parsed.User.Username(), maskedValue)
	}
	return parsed.String()
}
