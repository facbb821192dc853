package main

import (
	"bytes"
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/health-assistant/internal/api"
	"github.com/angeloszaimis/health-assistant/internal/client"
)

type fakeChat struct {
	requests []api.ChatRequest
	nexts    []string
	replies  []*api.ChatResponse
	err      error
}

func (f *fakeChat) reply() (*api.ChatResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.replies) == 0 {
		return &api.ChatResponse{SessionID: "s-1", Text: "ok"}, nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

func (f *fakeChat) Chat(_ context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
	f.requests = append(f.requests, req)
	return f.reply()
}

func (f *fakeChat) Next(_ context.Context, sessionID, _ string) (*api.ChatResponse, error) {
	f.nexts = append(f.nexts, sessionID)
	return f.reply()
}

var _ = Describe("runChat", func() {
	var (
		ctx  context.Context
		fake *fakeChat
		out  bytes.Buffer
	)

	BeforeEach(func() {
		ctx = context.Background()
		fake = &fakeChat{}
		out.Reset()
	})

	It("should send the session id after the first reply", func() {
		in := strings.NewReader("I burned my hand\nit hurts\n")
		Expect(runChat(ctx, fake, in, &out, "en")).To(Succeed())

		Expect(fake.requests).To(HaveLen(2))
		Expect(fake.requests[0].SessionID).To(BeNil())
		Expect(fake.requests[0].Lang).To(Equal("en"))
		Expect(fake.requests[1].Session()).To(Equal("s-1"))
	})

	It("should advance with next once a session exists", func() {
		fake.replies = []*api.ChatResponse{
			{SessionID: "s-9", Text: "Cool the burn.", HasNext: true},
			{SessionID: "s-9", Text: "Cover it loosely."},
		}
		in := strings.NewReader("burn\nnext\n")
		Expect(runChat(ctx, fake, in, &out, "en")).To(Succeed())

		Expect(fake.nexts).To(Equal([]string{"s-9"}))
		Expect(out.String()).To(ContainSubstring("Cool the burn."))
		Expect(out.String()).To(ContainSubstring(`(type "next" to continue)`))
		Expect(out.String()).To(ContainSubstring("Cover it loosely."))
	})

	It("should send next as a message before any session exists", func() {
		Expect(runChat(ctx, fake, strings.NewReader("next\n"), &out, "en")).To(Succeed())
		Expect(fake.nexts).To(BeEmpty())
		Expect(fake.requests).To(HaveLen(1))
		Expect(fake.requests[0].Message).To(Equal("next"))
	})

	It("should show follow-up questions", func() {
		fake.replies = []*api.ChatResponse{{
			SessionID:        "s-2",
			Text:             "Press on the wound.",
			FollowupQuestion: "Is the bleeding heavy or spurting?",
			Awaiting:         true,
		}}
		Expect(runChat(ctx, fake, strings.NewReader("bleeding\n"), &out, "en")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("? Is the bleeding heavy or spurting? (yes/no)"))
	})

	It("should stop at quit and skip blank lines", func() {
		in := strings.NewReader("\n   \nquit\nnever sent\n")
		Expect(runChat(ctx, fake, in, &out, "en")).To(Succeed())
		Expect(fake.requests).To(BeEmpty())
	})

	It("should keep going after an open circuit", func() {
		fake.err = client.ErrCircuitOpen
		Expect(runChat(ctx, fake, strings.NewReader("hello\nagain\n"), &out, "en")).To(Succeed())
		Expect(fake.requests).To(HaveLen(2))
		Expect(out.String()).To(ContainSubstring("backend unavailable"))
	})

	It("should print backend rejections", func() {
		fake.err = &client.StatusError{StatusCode: 400, Message: "invalid JSON body"}
		Expect(runChat(ctx, fake, strings.NewReader("hello\n"), &out, "en")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("backend rejected the message: invalid JSON body"))
	})

	It("should stop when the context is cancelled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		fake.err = errors.New("context canceled")
		err := runChat(cctx, fake, strings.NewReader("hello\n"), &out, "en")
		Expect(err).To(MatchError(context.Canceled))
	})
})
