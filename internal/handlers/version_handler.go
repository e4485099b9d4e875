package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nimbus/internal/common"
	"github.com/ternarybob/nimbus/internal/release"
)

// VersionHandler exposes the build version and the update check
type VersionHandler struct {
	release *release.Service
	logger  arbor.ILogger
}

// NewVersionHandler creates a version handler on the release service
func NewVersionHandler(releaseService *release.Service, logger arbor.ILogger) *VersionHandler {
	return &VersionHandler{
		release: releaseService,
		logger:  logger,
	}
}

// VersionHandler returns version information for the running build
func (h *VersionHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

// checkRequest identifies the repository to check for releases
type checkRequest struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Token string `json:"token,omitempty"`
}

// CheckUpdatesHandler runs an on-demand update check
func (h *VersionHandler) CheckUpdatesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Owner == "" || req.Repo == "" {
		WriteError(w, http.StatusBadRequest, "owner and repo are required")
		return
	}

	info, err := h.release.CheckForUpdates(r.Context(), req.Owner, req.Repo, req.Token)
	if err != nil {
		h.logger.Error().Err(err).Str("owner", req.Owner).Str("repo", req.Repo).Msg("Update check failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, info)
}
