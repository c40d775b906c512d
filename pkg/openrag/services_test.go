package openrag_test

import (
	"context"
	"errors"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openragproject/openrag-go/pkg/openrag"
	"github.com/openragproject/openrag-go/pkg/openragtest"
)

var _ = Describe("Services", func() {
	var (
		server *openragtest.Server
		client *openrag.Client
		ctx    context.Context
	)

	BeforeEach(func() {
		var err error
		server, err = openragtest.New()
		Expect(err).NotTo(HaveOccurred())

		client, err = openrag.New(openrag.Config{
			BaseURL: server.URL(),
			APIKey:  server.APIKey(),
		})
		Expect(err).NotTo(HaveOccurred())

		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(server.Close()).To(Succeed())
	})

	Describe("Chat", func() {
		Describe("Create", func() {
			It("returns the complete response with sources", func() {
				server.SetAnswer("Retrieval augments generation.")
				server.SetSources(openrag.Source{Filename: "rag.pdf", Text: "chunk", Score: 0.88})

				resp, err := client.Chat.Create(ctx, openrag.ChatRequest{Message: "What is RAG?"})
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Response).To(Equal("Retrieval augments generation."))
				Expect(resp.ChatID).NotTo(BeEmpty())
				Expect(resp.Sources).To(HaveLen(1))
			})

			It("reuses the conversation when a chat id is supplied", func() {
				first, err := client.Chat.Create(ctx, openrag.ChatRequest{Message: "first"})
				Expect(err).NotTo(HaveOccurred())

				second, err := client.Chat.Create(ctx, openrag.ChatRequest{
					Message: "second",
					ChatID:  first.ChatID,
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(second.ChatID).To(Equal(first.ChatID))
			})

			It("rejects an empty message locally", func() {
				_, err := client.Chat.Create(ctx, openrag.ChatRequest{Message: "   "})
				Expect(err).To(MatchError(ContainSubstring("message is required")))
			})
		})

		Describe("Stream", func() {
			It("streams deltas and aggregates the final response", func() {
				server.SetAnswer("Retrieval augments generation.")
				server.SetSources(openrag.Source{Filename: "rag.pdf", Text: "chunk", Score: 0.88})

				stream, err := client.Chat.Stream(ctx, openrag.ChatRequest{Message: "What is RAG?"})
				Expect(err).NotTo(HaveOccurred())
				defer stream.Close()

				var text strings.Builder
				for delta, err := range stream.Text() {
					Expect(err).NotTo(HaveOccurred())
					text.WriteString(delta)
				}
				Expect(text.String()).To(Equal("Retrieval augments generation."))

				resp, err := stream.Final()
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Response).To(Equal("Retrieval augments generation."))
				Expect(resp.ChatID).NotTo(BeEmpty())
				Expect(resp.Sources).To(HaveLen(1))
			})

			It("surfaces a scripted error event as a RemoteError", func() {
				server.ScriptStream("data: {\"type\":\"content\",\"delta\":\"par\"}\n\n" +
					"data: {\"type\":\"error\",\"code\":\"rate_limited\",\"message\":\"slow down\"}\n\n")

				stream, err := client.Chat.Stream(ctx, openrag.ChatRequest{Message: "hello"})
				Expect(err).NotTo(HaveOccurred())
				defer stream.Close()

				_, err = stream.Final()

				var remote *openrag.RemoteError
				Expect(errors.As(err, &remote)).To(BeTrue())
				Expect(remote.Code).To(Equal("rate_limited"))
			})

			It("keeps what arrived when the scripted tail is truncated", func() {
				server.ScriptStream("data: {\"type\":\"content\",\"delta\":\"partial\"}\n\n" +
					"data: {\"type\":\"content\",\"del")

				stream, err := client.Chat.Stream(ctx, openrag.ChatRequest{Message: "hello"})
				Expect(err).NotTo(HaveOccurred())
				defer stream.Close()

				resp, err := stream.Final()
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Response).To(Equal("partial"))
				Expect(resp.ChatID).To(BeEmpty())
			})

			It("surfaces an HTTP failure before any stream exists", func() {
				server.FailNext(500, "backend down")

				_, err := client.Chat.Stream(ctx, openrag.ChatRequest{Message: "hello"})

				var apiErr *openrag.Error
				Expect(errors.As(err, &apiErr)).To(BeTrue())
				Expect(apiErr.Kind).To(Equal(openrag.KindServer))
			})
		})

		Describe("conversation history", func() {
			It("lists, fetches, and deletes conversations", func() {
				created, err := client.Chat.Create(ctx, openrag.ChatRequest{Message: "What is RAG anyway?"})
				Expect(err).NotTo(HaveOccurred())

				list, err := client.Chat.List(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(list.Conversations).To(HaveLen(1))
				Expect(list.Conversations[0].ChatID).To(Equal(created.ChatID))
				Expect(list.Conversations[0].MessageCount).To(Equal(2))

				detail, err := client.Chat.Get(ctx, created.ChatID)
				Expect(err).NotTo(HaveOccurred())
				Expect(detail.Messages).To(HaveLen(2))
				Expect(detail.Messages[0].Role).To(Equal("user"))
				Expect(detail.Messages[1].Role).To(Equal("assistant"))

				Expect(client.Chat.Delete(ctx, created.ChatID)).To(Succeed())

				_, err = client.Chat.Get(ctx, created.ChatID)
				var apiErr *openrag.Error
				Expect(errors.As(err, &apiErr)).To(BeTrue())
				Expect(apiErr.Kind).To(Equal(openrag.KindNotFound))
			})

			It("rejects an empty chat id locally", func() {
				_, err := client.Chat.Get(ctx, "")
				Expect(err).To(MatchError(ContainSubstring("chat id is required")))

				Expect(client.Chat.Delete(ctx, "")).To(
					MatchError(ContainSubstring("chat id is required")))
			})
		})
	})

	Describe("Documents", func() {
		It("ingests a document and deletes it by filename", func() {
			content := strings.NewReader("A document about retrieval.")

			ingested, err := client.Documents.Ingest(ctx, "notes.txt", content)
			Expect(err).NotTo(HaveOccurred())
			Expect(ingested.Success).To(BeTrue())
			Expect(ingested.Filename).To(Equal("notes.txt"))
			Expect(ingested.DocumentID).NotTo(BeEmpty())
			Expect(ingested.Chunks).To(BeNumerically(">", 0))

			deleted, err := client.Documents.Delete(ctx, "notes.txt")
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted.Success).To(BeTrue())
			Expect(deleted.DeletedChunks).To(Equal(ingested.Chunks))
		})

		It("reports not_found for an unknown document", func() {
			_, err := client.Documents.Delete(ctx, "missing.txt")

			var apiErr *openrag.Error
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.Kind).To(Equal(openrag.KindNotFound))
		})

		It("requires a filename and a file", func() {
			_, err := client.Documents.Ingest(ctx, "", strings.NewReader("x"))
			Expect(err).To(MatchError(ContainSubstring("filename is required")))

			_, err = client.Documents.Ingest(ctx, "x.txt", nil)
			Expect(err).To(MatchError(ContainSubstring("file is required")))
		})
	})

	Describe("Search", func() {
		It("returns results in server order", func() {
			server.SetSearchResults(
				openrag.SearchResult{Filename: "a.pdf", Text: "first", Score: 0.9},
				openrag.SearchResult{Filename: "b.pdf", Text: "second", Score: 0.7},
			)

			resp, err := client.Search.Query(ctx, openrag.SearchRequest{Query: "retrieval"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Results).To(HaveLen(2))
			Expect(resp.Results[0].Filename).To(Equal("a.pdf"))
		})

		It("honors the result limit", func() {
			server.SetSearchResults(
				openrag.SearchResult{Filename: "a.pdf", Score: 0.9},
				openrag.SearchResult{Filename: "b.pdf", Score: 0.7},
			)

			resp, err := client.Search.Query(ctx, openrag.SearchRequest{Query: "retrieval", Limit: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Results).To(HaveLen(1))
		})

		It("rejects an empty query locally", func() {
			_, err := client.Search.Query(ctx, openrag.SearchRequest{Query: ""})
			Expect(err).To(MatchError(ContainSubstring("query is required")))
		})
	})

	Describe("Settings", func() {
		It("reads the current settings", func() {
			resp, err := client.Settings.Get(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Agent.LLMProvider).To(Equal("openai"))
			Expect(resp.Knowledge.ChunkSize).To(Equal(1000))
		})

		It("applies a partial update", func() {
			resp, err := client.Settings.Update(ctx, openrag.SettingsUpdate{
				Agent: &openrag.AgentSettings{
					LLMProvider: "anthropic",
					LLMModel:    "claude-sonnet-4-5",
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Agent.LLMProvider).To(Equal("anthropic"))
			Expect(resp.Knowledge.ChunkSize).To(Equal(1000))
		})

		It("posts updates; the server does not accept PATCH", func() {
			req, err := http.NewRequestWithContext(ctx, http.MethodPatch, server.URL()+"/api/v1/settings", strings.NewReader("{}"))
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Authorization", "Bearer "+server.APIKey())
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusMethodNotAllowed))
		})
	})
})
