// Package openragtest provides an in-process fake OpenRAG server for
// exercising clients without a real deployment. The server speaks the
// public v1 API: streaming and non-streaming chat, conversation history,
// semantic search, document ingestion, and settings.
//
// Streaming chat responses can be scripted block-by-block with ScriptStream,
// which makes the fake useful for exercising client behavior on malformed,
// truncated, or unknown event payloads.
package openragtest

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/openragproject/openrag-go/pkg/openrag"
)

// DefaultAPIKey is the API key the server accepts unless overridden.
const DefaultAPIKey = "test-key"

// Server is a fake OpenRAG server listening on a local ephemeral port.
type Server struct {
	app *fiber.App
	ln  net.Listener

	apiKey string

	mu            sync.Mutex
	answer        string
	sources       []openrag.Source
	searchResults []openrag.SearchResult
	settings      openrag.SettingsResponse
	conversations map[string]*openrag.ConversationDetail
	documents     map[string]int
	scripted      []string
	failNext      *scriptedFailure
}

type scriptedFailure struct {
	status  int
	message string
}

// Option configures a Server created with New.
type Option func(*Server)

// WithAPIKey overrides the API key the server accepts.
func WithAPIKey(key string) Option {
	return func(s *Server) {
		s.apiKey = key
	}
}

// New starts a fake server on a local ephemeral port. Callers should defer
// Close.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		apiKey:        DefaultAPIKey,
		answer:        "This is a canned answer.",
		conversations: make(map[string]*openrag.ConversationDetail),
		documents:     make(map[string]int),
		settings: openrag.SettingsResponse{
			Agent: openrag.AgentSettings{
				LLMProvider: "openai",
				LLMModel:    "gpt-4o-mini",
			},
			Knowledge: openrag.KnowledgeSettings{
				EmbeddingProvider: "openai",
				EmbeddingModel:    "text-embedding-3-small",
				ChunkSize:         1000,
				ChunkOverlap:      200,
			},
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := app.Group("/api/v1", s.requireAuth)
	api.Post("/chat", s.handleChat)
	api.Get("/chat", s.handleListConversations)
	api.Get("/chat/:id", s.handleGetConversation)
	api.Delete("/chat/:id", s.handleDeleteConversation)
	api.Post("/search", s.handleSearch)
	api.Post("/documents/ingest", s.handleIngest)
	api.Delete("/documents", s.handleDeleteDocument)
	api.Get("/settings", s.handleGetSettings)
	api.Post("/settings", s.handleUpdateSettings)

	s.app = app

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("openragtest: listening: %w", err)
	}
	s.ln = ln

	go func() {
		_ = app.Listener(ln)
	}()

	if err := s.waitReady(); err != nil {
		_ = app.Shutdown()
		return nil, err
	}

	return s, nil
}

// URL returns the server's base URL.
func (s *Server) URL() string {
	return "http://" + s.ln.Addr().String()
}

// APIKey returns the API key the server accepts.
func (s *Server) APIKey() string {
	return s.apiKey
}

// Close shuts the server down.
func (s *Server) Close() error {
	return s.app.Shutdown()
}

// waitReady polls the health endpoint until the listener serves requests.
func (s *Server) waitReady() error {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(s.URL() + "/healthz")
		if err == nil {
			resp.Body.Close()
			return nil
		}
		time.Sleep(5 * time.Millisecond)
	}
	return fmt.Errorf("openragtest: server did not become ready")
}

// SetAnswer sets the response text the default chat handler streams back,
// split into deltas.
func (s *Server) SetAnswer(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answer = text
}

// SetSources sets the sources the default chat handler attaches to responses.
func (s *Server) SetSources(sources ...openrag.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = sources
}

// SetSearchResults sets the results the search endpoint returns.
func (s *Server) SetSearchResults(results ...openrag.SearchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchResults = results
}

// ScriptStream queues a raw SSE body for the next streaming chat request,
// bypassing the default answer pipeline. Blocks are used verbatim, so tests
// control framing down to the byte: truncated tails, unknown event types,
// malformed JSON.
func (s *Server) ScriptStream(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripted = append(s.scripted, body)
}

// FailNext makes the next authenticated request fail with the given status
// and error message.
func (s *Server) FailNext(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = &scriptedFailure{status: status, message: message}
}

// requireAuth enforces bearer authentication and applies scripted failures.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	auth := c.Get("Authorization")
	if auth != "Bearer "+s.apiKey {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid API key"})
	}

	s.mu.Lock()
	fail := s.failNext
	s.failNext = nil
	s.mu.Unlock()

	if fail != nil {
		return c.Status(fail.status).JSON(fiber.Map{"error": fail.message})
	}

	return c.Next()
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req openrag.ChatRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON in request body"})
	}

	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message is required"})
	}

	s.mu.Lock()
	answer := s.answer
	sources := append([]openrag.Source(nil), s.sources...)

	var script string
	if len(s.scripted) > 0 {
		script = s.scripted[0]
		s.scripted = s.scripted[1:]
	}
	s.mu.Unlock()

	if req.Stream {
		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")

		if script != "" {
			return c.SendString(script)
		}

		chatID := s.recordExchange(req.ChatID, req.Message, answer)
		return c.SendString(streamBody(answer, sources, chatID))
	}

	chatID := s.recordExchange(req.ChatID, req.Message, answer)
	return c.JSON(openrag.ChatResponse{
		Response: answer,
		ChatID:   chatID,
		Sources:  sources,
	})
}

// streamBody renders the default SSE body: the answer split into deltas,
// one sources block, and a done block.
func streamBody(answer string, sources []openrag.Source, chatID string) string {
	var b strings.Builder

	for _, delta := range splitDeltas(answer) {
		payload, _ := json.Marshal(map[string]any{"type": "content", "delta": delta})
		fmt.Fprintf(&b, "data: %s\n\n", payload)
	}

	if len(sources) > 0 {
		payload, _ := json.Marshal(map[string]any{"type": "sources", "sources": sources})
		fmt.Fprintf(&b, "data: %s\n\n", payload)
	}

	payload, _ := json.Marshal(map[string]any{"type": "done", "chat_id": chatID})
	fmt.Fprintf(&b, "data: %s\n\n", payload)

	return b.String()
}

// splitDeltas chops text into small chunks so streams carry several content
// events rather than one.
func splitDeltas(text string) []string {
	const chunk = 8

	var out []string
	for len(text) > chunk {
		out = append(out, text[:chunk])
		text = text[chunk:]
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}

// recordExchange appends the user/assistant turn to the conversation,
// creating it when chatID is empty, and returns the conversation id.
func (s *Server) recordExchange(chatID, message, answer string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)

	conv, ok := s.conversations[chatID]
	if !ok {
		chatID = uuid.NewString()
		conv = &openrag.ConversationDetail{
			ChatID:    chatID,
			Title:     firstWords(message, 6),
			CreatedAt: now,
		}
		s.conversations[chatID] = conv
	}

	conv.LastActivity = now
	conv.Messages = append(conv.Messages,
		openrag.Message{Role: "user", Content: message, Timestamp: now},
		openrag.Message{Role: "assistant", Content: answer, Timestamp: now},
	)

	return chatID
}

func firstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func (s *Server) handleListConversations(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := openrag.ConversationListResponse{
		Conversations: make([]openrag.Conversation, 0, len(s.conversations)),
	}
	for _, conv := range s.conversations {
		out.Conversations = append(out.Conversations, openrag.Conversation{
			ChatID:       conv.ChatID,
			Title:        conv.Title,
			CreatedAt:    conv.CreatedAt,
			LastActivity: conv.LastActivity,
			MessageCount: len(conv.Messages),
		})
	}

	return c.JSON(out)
}

func (s *Server) handleGetConversation(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[c.Params("id")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	}

	return c.JSON(conv)
}

func (s *Server) handleDeleteConversation(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Params("id")
	if _, ok := s.conversations[id]; !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	}
	delete(s.conversations, id)

	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	var req openrag.SearchRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON in request body"})
	}

	if strings.TrimSpace(req.Query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Query is required"})
	}

	s.mu.Lock()
	results := append([]openrag.SearchResult(nil), s.searchResults...)
	s.mu.Unlock()

	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}

	return c.JSON(openrag.SearchResponse{Results: results})
}

func (s *Server) handleIngest(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File is required"})
	}

	// One chunk per KiB, minimum one, mimicking a chunking pipeline.
	chunks := int(fh.Size/1024) + 1

	s.mu.Lock()
	s.documents[fh.Filename] = chunks
	s.mu.Unlock()

	return c.Status(fiber.StatusCreated).JSON(openrag.IngestResponse{
		Success:    true,
		DocumentID: uuid.NewString(),
		Filename:   fh.Filename,
		Chunks:     chunks,
	})
}

func (s *Server) handleDeleteDocument(c *fiber.Ctx) error {
	var req struct {
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON in request body"})
	}

	if strings.TrimSpace(req.Filename) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Filename is required"})
	}

	s.mu.Lock()
	chunks, ok := s.documents[req.Filename]
	delete(s.documents, req.Filename)
	s.mu.Unlock()

	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	}

	return c.JSON(openrag.DeleteDocumentResponse{
		Success:       true,
		DeletedChunks: chunks,
	})
}

func (s *Server) handleGetSettings(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(s.settings)
}

func (s *Server) handleUpdateSettings(c *fiber.Ctx) error {
	var update struct {
		Agent     *openrag.AgentSettings     `json:"agent"`
		Knowledge *openrag.KnowledgeSettings `json:"knowledge"`
	}
	if err := json.Unmarshal(c.Body(), &update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON in request body"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if update.Agent != nil {
		s.settings.Agent = *update.Agent
	}
	if update.Knowledge != nil {
		s.settings.Knowledge = *update.Knowledge
	}

	return c.JSON(s.settings)
}
