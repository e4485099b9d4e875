package odata

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nimbus/internal/client"
)

// Service executes OData queries and returns parsed JSON. Unlike the
// plain REST operations, a non-2xx status here is an error: this path
// hands back ready-to-use structured data.
type Service struct {
	client *client.Client
	logger arbor.ILogger
}

// NewService creates an OData query service on the given HTTP client
func NewService(httpClient *client.Client, logger arbor.ILogger) *Service {
	return &Service{
		client: httpClient,
		logger: logger,
	}
}

// Execute runs the query and returns the decoded JSON document. Nimbus
// returns either a bare array or an object with a "value" array; both
// pass through undecoded beyond generic JSON.
func (s *Service) Execute(ctx context.Context, q *Query) (interface{}, error) {
	url, err := q.URL()
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("url", url).Msg("OData query")

	resp, err := s.client.Get(ctx, client.RequestOptions{
		URL:            url,
		UserID:         q.UserID,
		AuthToken:      q.AuthToken,
		TimeoutSeconds: q.TimeoutSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("OData request failed: %w", err)
	}

	if resp.Status < 200 || resp.Status >= 300 {
		return nil, fmt.Errorf("OData query failed with status %d: %s", resp.Status, resp.Body)
	}

	var result interface{}
	if err := json.Unmarshal([]byte(resp.Body), &result); err != nil {
		return nil, fmt.Errorf("failed to parse OData response as JSON: %w", err)
	}

	return result, nil
}
