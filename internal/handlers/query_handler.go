package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nimbus/internal/client"
	"github.com/ternarybob/nimbus/internal/odata"
)

// QueryHandler exposes the REST and OData client operations
type QueryHandler struct {
	client *client.Client
	odata  *odata.Service
	logger arbor.ILogger
}

// NewQueryHandler creates a query handler on the shared client services
func NewQueryHandler(httpClient *client.Client, odataService *odata.Service, logger arbor.ILogger) *QueryHandler {
	return &QueryHandler{
		client: httpClient,
		odata:  odataService,
		logger: logger,
	}
}

// ODataHandler executes an OData query and returns the parsed JSON
func (h *QueryHandler) ODataHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var query odata.Query
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.odata.Execute(r.Context(), &query)
	if err != nil {
		h.logger.Error().Err(err).Str("entity", query.Entity).Msg("OData query failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// GetHandler executes a REST GET. The upstream status code is returned
// as data inside the response, never mapped onto this endpoint's status.
func (h *QueryHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var opts client.RequestOptions
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.client.Get(r.Context(), opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("REST GET failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

// postRequest is the REST POST payload: request options plus a JSON body
type postRequest struct {
	client.RequestOptions
	Body interface{} `json:"body"`
}

// PostHandler executes a REST POST with a JSON body
func (h *QueryHandler) PostHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.client.Post(r.Context(), req.RequestOptions, req.Body)
	if err != nil {
		h.logger.Error().Err(err).Msg("REST POST failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}
