package openrag

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("decodeStreamEvent", func() {
	It("decodes a content event", func() {
		event, err := decodeStreamEvent([]byte(`{"type":"content","delta":"Hello"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(event).To(Equal(ContentEvent{Delta: "Hello"}))
	})

	It("decodes a content event with an empty delta", func() {
		event, err := decodeStreamEvent([]byte(`{"type":"content","delta":""}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(event).To(Equal(ContentEvent{}))
	})

	It("decodes a sources event", func() {
		event, err := decodeStreamEvent([]byte(`{"type":"sources","sources":[{"filename":"a.pdf","text":"chunk","score":0.92}]}`))
		Expect(err).NotTo(HaveOccurred())

		sources, ok := event.(SourcesEvent)
		Expect(ok).To(BeTrue())
		Expect(sources.Sources).To(HaveLen(1))
		Expect(sources.Sources[0].Filename).To(Equal("a.pdf"))
		Expect(sources.Sources[0].Score).To(Equal(0.92))
	})

	It("decodes a done event", func() {
		event, err := decodeStreamEvent([]byte(`{"type":"done","chat_id":"c1"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(event).To(Equal(DoneEvent{ChatID: "c1"}))
	})

	It("turns an error event into a RemoteError", func() {
		event, err := decodeStreamEvent([]byte(`{"type":"error","code":"rate_limited","message":"slow down"}`))
		Expect(event).To(BeNil())

		var remote *RemoteError
		Expect(err).To(BeAssignableToTypeOf(remote))
		remote = err.(*RemoteError)
		Expect(remote.Code).To(Equal("rate_limited"))
		Expect(remote.Message).To(Equal("slow down"))
	})

	It("skips unrecognized event types", func() {
		event, err := decodeStreamEvent([]byte(`{"type":"heartbeat"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(event).To(BeNil())
	})

	It("returns a DecodeError for malformed JSON", func() {
		event, err := decodeStreamEvent([]byte(`{"type":"content",`))
		Expect(event).To(BeNil())

		var decodeErr *DecodeError
		Expect(err).To(BeAssignableToTypeOf(decodeErr))
		decodeErr = err.(*DecodeError)
		Expect(decodeErr.Data).To(Equal(`{"type":"content",`))
		Expect(decodeErr.Unwrap()).To(HaveOccurred())
	})
})
