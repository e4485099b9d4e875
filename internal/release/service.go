package release

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nimbus/internal/common"
	"github.com/ternarybob/nimbus/internal/models"
	"golang.org/x/oauth2"
)

// Service checks GitHub releases for a newer build of the application
type Service struct {
	logger arbor.ILogger

	// baseURL overrides the GitHub API endpoint in tests
	baseURL *url.URL
}

// NewService creates an update-check service
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// CurrentVersion returns the build's embedded version string
func (s *Service) CurrentVersion() string {
	return common.GetVersion()
}

// CheckForUpdates fetches the latest release for owner/repo and compares
// its tag against the running version. A repository with no releases
// (404) is not an error: it yields update_available=false with no
// latest version.
func (s *Service) CheckForUpdates(ctx context.Context, owner, repo, token string) (*models.VersionInfo, error) {
	current := common.GetVersion()

	gh := s.githubClient(ctx, token)

	rel, resp, err := gh.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			s.logger.Debug().Str("owner", owner).Str("repo", repo).Msg("No releases found")
			return &models.VersionInfo{
				CurrentVersion:  current,
				UpdateAvailable: false,
			}, nil
		}
		if errResp, ok := err.(*github.ErrorResponse); ok && errResp.Response != nil {
			return nil, fmt.Errorf("GitHub API returned status %d: %s", errResp.Response.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("failed to fetch releases: %w", err)
	}

	// Tags conventionally carry a leading v ("v1.2.3")
	latest := strings.TrimPrefix(rel.GetTagName(), "v")

	info := &models.VersionInfo{
		CurrentVersion:  current,
		LatestVersion:   &latest,
		UpdateAvailable: IsNewerVersion(current, latest),
	}
	if htmlURL := rel.GetHTMLURL(); htmlURL != "" {
		info.ReleaseURL = &htmlURL
	}
	if notes := rel.GetBody(); notes != "" {
		info.ReleaseNotes = &notes
	}

	s.logger.Info().
		Str("current", current).
		Str("latest", latest).
		Bool("update_available", info.UpdateAvailable).
		Msg("Update check complete")

	return info, nil
}

// githubClient builds a per-call GitHub client, bearer-authenticated
// when a token is supplied (required for private repositories).
func (s *Service) githubClient(ctx context.Context, token string) *github.Client {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	gh := github.NewClient(httpClient)
	if s.baseURL != nil {
		gh.BaseURL = s.baseURL
	}
	return gh
}

// IsNewerVersion reports whether candidate is newer than current using a
// best-effort three-component (major.minor.patch) numeric comparison.
// Non-numeric or missing components count as 0; pre-release suffixes and
// components beyond the third are ignored.
func IsNewerVersion(current, candidate string) bool {
	for i := 0; i < 3; i++ {
		c := versionComponent(current, i)
		l := versionComponent(candidate, i)
		if l > c {
			return true
		}
		if l < c {
			return false
		}
	}
	return false
}

func versionComponent(version string, index int) int {
	parts := strings.Split(version, ".")
	if index >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(parts[index])
	if err != nil {
		return 0
	}
	return n
}
