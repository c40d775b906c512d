package openrag_test

import (
	"context"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openragproject/openrag-go/pkg/openrag"
	"github.com/openragproject/openrag-go/pkg/openragtest"
)

var _ = Describe("Client", func() {
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

	Describe("New", func() {
		It("requires a base URL", func() {
			_, err := openrag.New(openrag.Config{APIKey: "key"})
			Expect(err).To(MatchError(ContainSubstring("base URL is required")))
		})

		It("requires an API key", func() {
			_, err := openrag.New(openrag.Config{BaseURL: "http://localhost:8000"})
			Expect(err).To(MatchError(ContainSubstring("API key is required")))
		})

		It("falls back to environment variables", func() {
			GinkgoT().Setenv(openrag.EnvURL, server.URL())
			GinkgoT().Setenv(openrag.EnvAPIKey, server.APIKey())

			c, err := openrag.New(openrag.Config{})
			Expect(err).NotTo(HaveOccurred())

			_, err = c.Settings.Get(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("tolerates a trailing slash in the base URL", func() {
			c, err := openrag.New(openrag.Config{
				BaseURL: server.URL() + "/",
				APIKey:  server.APIKey(),
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = c.Settings.Get(ctx)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("authentication", func() {
		It("rejects a wrong API key with an authentication error", func() {
			c, err := openrag.New(openrag.Config{
				BaseURL: server.URL(),
				APIKey:  "wrong-key",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = c.Settings.Get(ctx)

			var apiErr *openrag.Error
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.Kind).To(Equal(openrag.KindAuthentication))
			Expect(apiErr.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(apiErr.Message).To(Equal("invalid API key"))
		})
	})

	Describe("error classification", func() {
		DescribeTable("maps status codes to kinds",
			func(status int, kind openrag.Kind) {
				server.FailNext(status, "scripted failure")

				_, err := client.Settings.Get(ctx)

				var apiErr *openrag.Error
				Expect(errors.As(err, &apiErr)).To(BeTrue())
				Expect(apiErr.Kind).To(Equal(kind))
				Expect(apiErr.StatusCode).To(Equal(status))
				Expect(apiErr.Message).To(Equal("scripted failure"))
			},
			Entry("401 is authentication", http.StatusUnauthorized, openrag.KindAuthentication),
			Entry("404 is not_found", http.StatusNotFound, openrag.KindNotFound),
			Entry("400 is validation", http.StatusBadRequest, openrag.KindValidation),
			Entry("422 is validation", http.StatusUnprocessableEntity, openrag.KindValidation),
			Entry("429 is rate_limit", http.StatusTooManyRequests, openrag.KindRateLimit),
			Entry("500 is server", http.StatusInternalServerError, openrag.KindServer),
			Entry("503 is server", http.StatusServiceUnavailable, openrag.KindServer),
			Entry("418 is unknown", http.StatusTeapot, openrag.KindUnknown),
		)
	})
})
