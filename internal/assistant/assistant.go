package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/angeloszaimis/health-assistant/internal/ai"
	"github.com/angeloszaimis/health-assistant/internal/api"
	"github.com/angeloszaimis/health-assistant/internal/intent"
	"github.com/angeloszaimis/health-assistant/internal/knowledgebase"
	"github.com/angeloszaimis/health-assistant/internal/metrics"
	"github.com/angeloszaimis/health-assistant/internal/session"
	"github.com/angeloszaimis/health-assistant/internal/translate"
)

const pivotLang = "en"

type KnowledgeSource interface {
	Load(lang string) (*knowledgebase.KnowledgeBase, error)
}

type Engine struct {
	logger     *slog.Logger
	kb         KnowledgeSource
	matcher    *intent.Matcher
	sessions   *session.Store
	asker      ai.Asker
	translator translate.Translator
	collector  *metrics.Collector
}

func NewEngine(
	logger *slog.Logger,
	kb KnowledgeSource,
	matcher *intent.Matcher,
	sessions *session.Store,
	asker ai.Asker,
	translator translate.Translator,
	collector *metrics.Collector,
) *Engine {
	if translator == nil {
		translator = translate.Noop()
	}
	return &Engine{
		logger:     logger,
		kb:         kb,
		matcher:    matcher,
		sessions:   sessions,
		asker:      asker,
		translator: translator,
		collector:  collector,
	}
}

// HandleMessage advances the conversation identified by sessionID. An empty
// or unknown id starts a new conversation; the response always carries the
// id to use next time.
func (e *Engine) HandleMessage(ctx context.Context, sessionID, input, lang, action string) (api.ChatResponse, error) {
	if lang == "" {
		lang = api.DefaultLang
	}

	s := e.sessions.GetOrCreate(sessionID)
	s.Lock()
	defer s.Unlock()

	s.Lang = lang

	kb, err := e.kb.Load(lang)
	if err != nil {
		return api.ChatResponse{}, fmt.Errorf("load knowledge base: %w", err)
	}

	var resp api.ChatResponse

	switch {
	case action == api.ActionNext:
		resp = e.advanceStep(s, kb)

	case s.AwaitingFollowup:
		resp = e.answerFollowup(s, kb, input)

	default:
		if name, ok := e.matcher.Match(input, kb); ok {
			e.collector.Emit(metrics.MetricEvent{Type: metrics.EventIntentMatched, Intent: name})
			resp = e.startIntent(s, kb, name)
		} else {
			resp = e.askAI(ctx, input, lang)
		}
	}

	resp.SessionID = s.ID
	return resp, nil
}

func (e *Engine) answerFollowup(s *session.Session, kb *knowledgebase.KnowledgeBase, input string) api.ChatResponse {
	meta := s.Followup
	if meta == nil {
		return e.advanceStep(s, kb)
	}

	positive := IsPositive(input, s.Lang)

	switch {
	case positive && meta.YesIntent != "":
		return e.startIntent(s, kb, meta.YesIntent)
	case !positive && meta.NoIntent != "":
		return e.startIntent(s, kb, meta.NoIntent)
	default:
		s.ClearFollowup()
		return e.advanceStep(s, kb)
	}
}

func (e *Engine) startIntent(s *session.Session, kb *knowledgebase.KnowledgeBase, name string) api.ChatResponse {
	entry, ok := kb.Get(name)
	if !ok {
		e.logger.Warn("Knowledge base references unknown intent", slog.String("intent", name))
		return api.ChatResponse{Text: messagesFor(s.Lang).Unknown}
	}

	s.Intent = name
	s.Steps = entry.Steps
	s.CurrentStep = 0
	s.ClearFollowup()

	resp := api.ChatResponse{
		Text:    firstStep(entry.Steps),
		HasNext: len(entry.Steps) > 1,
	}

	if len(entry.Followups) > 0 {
		followup := entry.Followups[0]
		s.AwaitingFollowup = true
		s.Followup = &followup

		resp.FollowupQuestion = followup.Question
		resp.Awaiting = true
	}

	return resp
}

func (e *Engine) advanceStep(s *session.Session, kb *knowledgebase.KnowledgeBase) api.ChatResponse {
	if s.HasNext() {
		s.CurrentStep++
		return api.ChatResponse{
			Text:    s.Steps[s.CurrentStep],
			HasNext: s.HasNext(),
		}
	}

	text := messagesFor(s.Lang).Done
	if entry, ok := kb.Get(s.Intent); ok && entry.Escalation != "" {
		text = entry.Escalation
	}

	return api.ChatResponse{Text: text, Done: true}
}

func (e *Engine) askAI(ctx context.Context, input, lang string) api.ChatResponse {
	e.collector.Emit(metrics.MetricEvent{Type: metrics.EventAIFallback, Lang: lang})

	prompt := input
	if lang != pivotLang {
		prompt = e.translator.Translate(ctx, input, lang, pivotLang)
	}

	reply := e.asker.Ask(ctx, prompt, pivotLang)

	if lang != pivotLang {
		reply = e.translator.Translate(ctx, reply, pivotLang, lang)
	}

	e.logger.Debug("Answered by AI fallback", slog.String("lang", lang))

	return api.ChatResponse{Text: reply}
}

func firstStep(steps []string) string {
	if len(steps) == 0 {
		return ""
	}
	return steps[0]
}
