package openrag

import (
	"context"
	"net/http"
)

const settingsPath = "/api/v1/settings"

// SettingsService provides access to server configuration.
type SettingsService struct {
	client *Client
}

// Get returns the server's current agent and knowledge base settings.
func (s *SettingsService) Get(ctx context.Context) (*SettingsResponse, error) {
	var out SettingsResponse
	if err := s.client.doJSON(ctx, http.MethodGet, settingsPath, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// SettingsUpdate is a partial settings change. Nil sections are left untouched.
type SettingsUpdate struct {
	Agent     *AgentSettings     `json:"agent,omitempty"`
	Knowledge *KnowledgeSettings `json:"knowledge,omitempty"`
}

// Update applies a partial settings change and returns the resulting settings.
func (s *SettingsService) Update(ctx context.Context, update SettingsUpdate) (*SettingsResponse, error) {
	var out SettingsResponse
	if err := s.client.doJSON(ctx, http.MethodPost, settingsPath, update, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
