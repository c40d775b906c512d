package openrag

// Source is a retrieved document chunk cited by a chat or search response.
type Source struct {
	Filename string  `json:"filename"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	Page     *int    `json:"page,omitempty"`
	Mimetype string  `json:"mimetype,omitempty"`
}

// ChatRequest is the payload for both streaming and non-streaming chat.
// Message is the only required field.
type ChatRequest struct {
	Message string `json:"message"`

	// ChatID continues an existing conversation. Empty starts a new one.
	ChatID string `json:"chat_id,omitempty"`

	// Filters narrows retrieval to matching documents.
	Filters map[string]any `json:"filters,omitempty"`

	// Limit caps the number of retrieved chunks. Zero uses the server default.
	Limit int `json:"limit,omitempty"`

	// ScoreThreshold drops retrieved chunks scoring below it.
	ScoreThreshold float64 `json:"score_threshold,omitempty"`

	// FilterID applies a saved knowledge filter.
	FilterID string `json:"filter_id,omitempty"`

	// Stream is set by the chat service; callers pick a mode by calling
	// Create or Stream.
	Stream bool `json:"stream"`
}

// ChatResponse is the complete result of one chat exchange: the full response
// text, the conversation id assigned or reused by the server, and the sources
// consulted. Non-streaming chat returns it directly; streaming chat builds it
// incrementally (see ChatStream).
type ChatResponse struct {
	Response string   `json:"response"`
	ChatID   string   `json:"chat_id"`
	Sources  []Source `json:"sources"`
}

// SearchRequest is the payload for semantic search.
type SearchRequest struct {
	Query          string         `json:"query"`
	Filters        map[string]any `json:"filters,omitempty"`
	Limit          int            `json:"limit,omitempty"`
	ScoreThreshold float64        `json:"score_threshold,omitempty"`
}

// SearchResult is a single semantic search hit.
type SearchResult struct {
	Filename string  `json:"filename"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	Page     *int    `json:"page,omitempty"`
	Mimetype string  `json:"mimetype,omitempty"`
}

// SearchResponse holds semantic search results in relevance order.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// IngestResponse is the result of a document ingestion.
type IngestResponse struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Chunks     int    `json:"chunks"`
}

// DeleteDocumentResponse is the result of a document deletion.
type DeleteDocumentResponse struct {
	Success       bool `json:"success"`
	DeletedChunks int  `json:"deleted_chunks"`
}

// Message is one message in a conversation.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Conversation is a conversation summary as returned by the list endpoint.
type Conversation struct {
	ChatID       string `json:"chat_id"`
	Title        string `json:"title"`
	CreatedAt    string `json:"created_at,omitempty"`
	LastActivity string `json:"last_activity,omitempty"`
	MessageCount int    `json:"message_count"`
}

// ConversationDetail is a conversation with its full message history.
type ConversationDetail struct {
	ChatID       string    `json:"chat_id"`
	Title        string    `json:"title"`
	CreatedAt    string    `json:"created_at,omitempty"`
	LastActivity string    `json:"last_activity,omitempty"`
	Messages     []Message `json:"messages"`
}

// ConversationListResponse holds all conversations for the authenticated user.
type ConversationListResponse struct {
	Conversations []Conversation `json:"conversations"`
}

// AgentSettings holds the server's agent configuration.
type AgentSettings struct {
	LLMProvider  string `json:"llm_provider,omitempty"`
	LLMModel     string `json:"llm_model,omitempty"`
	SystemPrompt string `json:"system_prompt,omitempty"`
}

// KnowledgeSettings holds the server's knowledge base configuration.
type KnowledgeSettings struct {
	EmbeddingProvider string `json:"embedding_provider,omitempty"`
	EmbeddingModel    string `json:"embedding_model,omitempty"`
	ChunkSize         int    `json:"chunk_size,omitempty"`
	ChunkOverlap      int    `json:"chunk_overlap,omitempty"`
}

// SettingsResponse is the server configuration visible through the API.
type SettingsResponse struct {
	Agent     AgentSettings     `json:"agent"`
	Knowledge KnowledgeSettings `json:"knowledge"`
}
