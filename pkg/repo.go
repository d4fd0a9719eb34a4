package rollover

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
)

// ErrRepoInfo wraps every failure to determine the branch or remote.
var ErrRepoInfo = errors.New("cannot determine repository info")

// RepoInfo describes the checked-out branch and the hosted origin.
type RepoInfo struct {
	Branch    string
	RemoteURL string
	Host      string
	Owner     string
	Name      string
}

// RepoInspector reads RepoInfo for a working tree.
type RepoInspector interface {
	Inspect(dir, remote string) (RepoInfo, error)
}

var scpLikeURL = regexp.MustCompile(`^(?:[\w.-]+@)?([\w.-]+):(.+)$`)

// NewRepoInfo normalizes remoteURL (ssh, scp-like or http form) into
// host/owner/repo.
func NewRepoInfo(branch, remoteURL string) (RepoInfo, error) {
	info := RepoInfo{Branch: branch, RemoteURL: remoteURL}

	host, path, err := splitRemoteURL(strings.TrimSpace(remoteURL))
	if err != nil {
		return info, err
	}
	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return info, fmt.Errorf("%w: remote %q has no owner/repo path", ErrRepoInfo, remoteURL)
	}

	info.Host = host
	info.Owner = strings.Join(parts[:len(parts)-1], "/")
	info.Name = parts[len(parts)-1]
	return info, nil
}

func splitRemoteURL(raw string) (string, string, error) {
	if raw == "" {
		return "", "", fmt.Errorf("%w: empty remote URL", ErrRepoInfo)
	}
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrRepoInfo, err)
		}
		if u.Scheme == "file" || u.Hostname() == "" {
			return "", "", fmt.Errorf("%w: remote %q is not a hosted repository", ErrRepoInfo, raw)
		}
		return u.Hostname(), u.Path, nil
	}
	m := scpLikeURL.FindStringSubmatch(raw)
	if m == nil {
		return "", "", fmt.Errorf("%w: remote %q is not a hosted repository", ErrRepoInfo, raw)
	}
	return m[1], m[2], nil
}

// WebURL is the browsable https address of the repository.
func (r RepoInfo) WebURL() string {
	return fmt.Sprintf("https://%s/%s/%s", r.Host, r.Owner, r.Name)
}

// CompareURL links the diff between base and the current branch.
func (r RepoInfo) CompareURL(base string) string {
	return fmt.Sprintf("%s/compare/%s...%s", r.WebURL(), base, r.Branch)
}

// GitInspector reads repository state from disk with go-git.
type GitInspector struct{}

// Inspect opens the repository containing dir and reads the current branch
// and the configured URL of remote.
func (GitInspector) Inspect(dir, remote string) (RepoInfo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return RepoInfo{}, fmt.Errorf("%w: opening %s: %v", ErrRepoInfo, dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		return RepoInfo{}, fmt.Errorf("%w: reading HEAD: %v", ErrRepoInfo, err)
	}
	if !head.Name().IsBranch() {
		return RepoInfo{}, fmt.Errorf("%w: HEAD is detached", ErrRepoInfo)
	}

	cfg, err := repo.Config()
	if err != nil {
		return RepoInfo{}, fmt.Errorf("%w: reading config: %v", ErrRepoInfo, err)
	}
	// Raw value, so url.<base>.insteadOf rewrites do not leak into the web URL.
	remoteURL := cfg.Raw.Section("remote").Subsection(remote).Option("url")
	if remoteURL == "" {
		return RepoInfo{}, fmt.Errorf("%w: remote %q has no url", ErrRepoInfo, remote)
	}

	return NewRepoInfo(head.Name().Short(), remoteURL)
}

// CheckGit verifies that git is available on the system.
func CheckGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return errors.New("git is not available on the system")
	}
	return nil
}
