package translate_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/health-assistant/internal/translate"
)

var _ = Describe("Translate", func() {
	var (
		log    *slog.Logger
		server *httptest.Server
		query  url.Values
		body   string
		status int
		calls  atomic.Int32
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
		status = http.StatusOK
		body = `[[["Hello ","ሰላም ",null,null,1],["world","ዓለም",null,null,1]],null,"ti"]`
		calls.Store(0)

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			query = r.URL.Query()
			w.WriteHeader(status)
			io.WriteString(w, body)
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Google", func() {
		var g *translate.Google

		BeforeEach(func() {
			g = translate.NewGoogle(server.URL, time.Second, log)
		})

		It("should join translated segments", func() {
			Expect(g.Translate(context.Background(), "ሰላም ዓለም", "ti", "en")).To(Equal("Hello world"))
		})

		It("should send source, target and text", func() {
			g.Translate(context.Background(), "ሰላም", "ti", "en")
			Expect(query.Get("sl")).To(Equal("ti"))
			Expect(query.Get("tl")).To(Equal("en"))
			Expect(query.Get("q")).To(Equal("ሰላም"))
			Expect(query.Get("client")).To(Equal("gtx"))
		})

		It("should auto-detect an empty source", func() {
			g.Translate(context.Background(), "hola", "", "en")
			Expect(query.Get("sl")).To(Equal("auto"))
		})

		It("should return the input on server errors", func() {
			status = http.StatusTooManyRequests
			Expect(g.Translate(context.Background(), "ሰላም", "ti", "en")).To(Equal("ሰላም"))
		})

		It("should return the input on malformed responses", func() {
			body = `{"nope": true}`
			Expect(g.Translate(context.Background(), "ሰላም", "ti", "en")).To(Equal("ሰላም"))
		})

		It("should skip the call for identical languages", func() {
			Expect(g.Translate(context.Background(), "hello", "en", "en")).To(Equal("hello"))
			Expect(calls.Load()).To(BeZero())
		})

		It("should skip the call for blank text", func() {
			Expect(g.Translate(context.Background(), "  ", "ti", "en")).To(Equal("  "))
			Expect(calls.Load()).To(BeZero())
		})
	})

	Describe("Noop", func() {
		It("should return the input", func() {
			Expect(translate.Noop().Translate(context.Background(), "ሰላም", "ti", "en")).To(Equal("ሰላም"))
		})
	})
})
