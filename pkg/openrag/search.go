package openrag

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const searchPath = "/api/v1/search"

// SearchService provides semantic search over ingested documents.
type SearchService struct {
	client *Client
}

// Query runs a semantic search and returns results in relevance order.
func (s *SearchService) Query(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, errors.New("openrag: query is required")
	}

	var out SearchResponse
	if err := s.client.doJSON(ctx, http.MethodPost, searchPath, req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
