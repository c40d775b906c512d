package openrag

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

const chatPath = "/api/v1/chat"

// ChatService provides chat operations: non-streaming and streaming message
// exchange, plus conversation history.
type ChatService struct {
	client *Client
}

// Create sends a chat message and waits for the complete response.
func (s *ChatService) Create(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, errors.New("openrag: message is required")
	}

	req.Stream = false

	var out ChatResponse
	if err := s.client.doJSON(ctx, http.MethodPost, chatPath, req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Stream sends a chat message and returns the response as a ChatStream.
// The caller owns the stream and should defer Close.
func (s *ChatService) Stream(ctx context.Context, req ChatRequest) (*ChatStream, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, errors.New("openrag: message is required")
	}

	req.Stream = true

	payload, err := marshalJSON(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.doRequest(ctx, http.MethodPost, chatPath, payload, "application/json")
	if err != nil {
		return nil, err
	}

	return newChatStream(resp.Body), nil
}

// List returns summaries of all conversations for the authenticated user.
func (s *ChatService) List(ctx context.Context) (*ConversationListResponse, error) {
	var out ConversationListResponse
	if err := s.client.doJSON(ctx, http.MethodGet, chatPath, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Get returns one conversation with its full message history.
func (s *ChatService) Get(ctx context.Context, chatID string) (*ConversationDetail, error) {
	if chatID == "" {
		return nil, errors.New("openrag: chat id is required")
	}

	var out ConversationDetail
	if err := s.client.doJSON(ctx, http.MethodGet, chatPath+"/"+url.PathEscape(chatID), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Delete removes a conversation.
func (s *ChatService) Delete(ctx context.Context, chatID string) error {
	if chatID == "" {
		return errors.New("openrag: chat id is required")
	}

	return s.client.doJSON(ctx, http.MethodDelete, chatPath+"/"+url.PathEscape(chatID), nil, nil)
}
