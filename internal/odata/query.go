package odata

import (
	"fmt"
	"strings"
)

// canonicalPath is the preferred OData root. The legacy /ODataApi root
// omits adhoc fields from $select results, so it is rewritten.
const (
	canonicalPath = "/CoreApi/OData"
	legacyPath    = "/ODataApi"
	aliasPath     = "/odata"
)

// Query describes one OData GET against a Nimbus reporting endpoint.
// Parameters are emitted only when present and non-empty, in the fixed
// order $top, $skip, $filter, $select, $expand, $orderby, $count.
type Query struct {
	BaseURL        string `json:"base_url"`
	Entity         string `json:"entity"`
	Top            *int   `json:"top,omitempty"`
	Skip           *int   `json:"skip,omitempty"`
	Filter         string `json:"filter,omitempty"`
	Select         string `json:"select,omitempty"`
	Expand         string `json:"expand,omitempty"`
	OrderBy        string `json:"orderby,omitempty"`
	Count          bool   `json:"count,omitempty"`
	UserID         *int   `json:"user_id,omitempty"`
	AuthToken      string `json:"auth_token,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// NormalizeBaseURL rewrites the three historical Nimbus endpoint
// conventions to one canonical query root:
//   - already canonical (/CoreApi/OData) — kept, trailing slash stripped
//   - legacy (/ODataApi) — rewritten to /CoreApi/OData
//   - lowercase alias (/odata) — kept as-is
//   - anything else — canonical path appended
func NormalizeBaseURL(baseURL string) string {
	switch {
	case strings.HasSuffix(baseURL, canonicalPath), strings.HasSuffix(baseURL, canonicalPath+"/"):
		return strings.TrimRight(baseURL, "/")
	case strings.HasSuffix(baseURL, legacyPath), strings.HasSuffix(baseURL, legacyPath+"/"):
		return strings.TrimRight(strings.Replace(baseURL, legacyPath, canonicalPath, 1), "/")
	case strings.HasSuffix(baseURL, aliasPath), strings.HasSuffix(baseURL, aliasPath+"/"):
		return strings.TrimRight(baseURL, "/")
	default:
		return strings.TrimRight(baseURL, "/") + canonicalPath
	}
}

// URL assembles the full request URL for the query
func (q *Query) URL() (string, error) {
	if q.BaseURL == "" {
		return "", fmt.Errorf("no base URL provided for OData query")
	}
	if q.Entity == "" {
		return "", fmt.Errorf("no entity provided for OData query")
	}

	url := NormalizeBaseURL(q.BaseURL) + "/" + q.Entity

	var params []string

	if q.Top != nil {
		params = append(params, fmt.Sprintf("$top=%d", *q.Top))
	}
	if q.Skip != nil {
		params = append(params, fmt.Sprintf("$skip=%d", *q.Skip))
	}
	if q.Filter != "" {
		// Passed verbatim, not percent-encoded: Nimbus parses the
		// filter expression itself.
		params = append(params, "$filter="+q.Filter)
	}
	if q.Select != "" {
		params = append(params, "$select="+q.Select)
	}
	if q.Expand != "" {
		params = append(params, "$expand="+q.Expand)
	}
	if q.OrderBy != "" {
		params = append(params, "$orderby="+q.OrderBy)
	}
	if q.Count {
		params = append(params, "$count=true")
	}

	if len(params) > 0 {
		url += "?" + strings.Join(params, "&")
	}

	return url, nil
}
