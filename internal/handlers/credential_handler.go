package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nimbus/internal/models"
	"github.com/ternarybob/nimbus/internal/vault"
)

// CredentialHandler exposes the credential vault over the command API.
// Routes have the shape /api/credentials/{kind}/{profile} with kind one
// of profile, login, apptoken.
type CredentialHandler struct {
	vault  *vault.Service
	logger arbor.ILogger
}

// NewCredentialHandler creates a credential handler backed by the vault
func NewCredentialHandler(vaultService *vault.Service, logger arbor.ILogger) *CredentialHandler {
	return &CredentialHandler{
		vault:  vaultService,
		logger: logger,
	}
}

// HandleCredentials dispatches save/load/delete by method and path
func (h *CredentialHandler) HandleCredentials(w http.ResponseWriter, r *http.Request) {
	kind, profile, ok := parseCredentialPath(r.URL.Path)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Expected /api/credentials/{kind}/{profile} with kind profile, login or apptoken")
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.save(w, r, kind, profile)
	case http.MethodGet:
		h.load(w, r, kind, profile)
	case http.MethodDelete:
		h.delete(w, r, kind, profile)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func parseCredentialPath(path string) (vault.Kind, string, bool) {
	rest := strings.TrimPrefix(path, "/api/credentials/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", false
	}

	switch vault.Kind(parts[0]) {
	case vault.KindProfile, vault.KindLogin, vault.KindAppToken:
		return vault.Kind(parts[0]), parts[1], true
	}
	return "", "", false
}

func (h *CredentialHandler) save(w http.ResponseWriter, r *http.Request, kind vault.Kind, profile string) {
	var err error

	switch kind {
	case vault.KindProfile:
		var creds models.Credentials
		if decodeErr := json.NewDecoder(r.Body).Decode(&creds); decodeErr != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request body: "+decodeErr.Error())
			return
		}
		err = h.vault.SaveCredentials(profile, &creds)
	case vault.KindLogin:
		var creds models.LoginCredentials
		if decodeErr := json.NewDecoder(r.Body).Decode(&creds); decodeErr != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request body: "+decodeErr.Error())
			return
		}
		err = h.vault.SaveLogin(profile, &creds)
	case vault.KindAppToken:
		var creds models.AppTokenCredentials
		if decodeErr := json.NewDecoder(r.Body).Decode(&creds); decodeErr != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request body: "+decodeErr.Error())
			return
		}
		err = h.vault.SaveAppToken(profile, &creds)
	}

	if err != nil {
		h.logger.Error().Err(err).Str("kind", string(kind)).Str("profile", profile).Msg("Failed to save credentials")
		WriteError(w, credentialErrorStatus(err), err.Error())
		return
	}

	WriteSuccess(w, "Credentials saved")
}

func (h *CredentialHandler) load(w http.ResponseWriter, r *http.Request, kind vault.Kind, profile string) {
	var (
		result interface{}
		err    error
	)

	switch kind {
	case vault.KindProfile:
		result, err = h.vault.LoadCredentials(profile)
	case vault.KindLogin:
		result, err = h.vault.LoadLogin(profile)
	case vault.KindAppToken:
		result, err = h.vault.LoadAppToken(profile)
	}

	if err != nil {
		h.logger.Warn().Err(err).Str("kind", string(kind)).Str("profile", profile).Msg("Failed to load credentials")
		WriteError(w, credentialErrorStatus(err), err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (h *CredentialHandler) delete(w http.ResponseWriter, r *http.Request, kind vault.Kind, profile string) {
	var err error

	switch kind {
	case vault.KindProfile:
		err = h.vault.DeleteCredentials(profile)
	case vault.KindLogin:
		err = h.vault.DeleteLogin(profile)
	case vault.KindAppToken:
		err = h.vault.DeleteAppToken(profile)
	}

	if err != nil {
		h.logger.Warn().Err(err).Str("kind", string(kind)).Str("profile", profile).Msg("Failed to delete credentials")
		WriteError(w, credentialErrorStatus(err), err.Error())
		return
	}

	WriteSuccess(w, "Credentials deleted")
}

// credentialErrorStatus maps vault errors to HTTP status codes. Errors
// still surface as descriptive strings; the status is a transport hint.
func credentialErrorStatus(err error) int {
	switch {
	case errors.Is(err, vault.ErrNotFound):
		return http.StatusNotFound
	case strings.HasPrefix(err.Error(), "invalid"), strings.Contains(err.Error(), "auth_mode"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
