package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"academy/internal/autosave"
	"academy/internal/domain"
	"academy/internal/editor"
	"academy/internal/log"
	"academy/internal/markdown"
	"academy/internal/render"
	"academy/internal/slash"
)

// ─────────────────────────────────────────────────────────────
// Topic Service — editing sessions, rendering and import
// ─────────────────────────────────────────────────────────────

type Options struct {
	Debounce     time.Duration
	SavedDisplay time.Duration
	// Clock drives autosave timers; nil means wall time.
	Clock autosave.Clock
}

// TopicService opens editing sessions on topics and renders stored topics.
type TopicService struct {
	store    domain.BlockStore
	recents  domain.RecencyStore
	renderer *render.Renderer
	emitter  EventEmitter
	opts     Options
	logger   *zap.Logger
	guard    topicGuard
}

// NewTopicService creates a TopicService. recents may be nil, in which case
// the slash menu's recency list lives only as long as a session.
func NewTopicService(store domain.BlockStore, recents domain.RecencyStore, renderer *render.Renderer, emitter EventEmitter, opts Options) *TopicService {
	if renderer == nil {
		renderer = render.New()
	}
	if emitter == nil {
		emitter = LogEmitter{}
	}
	return &TopicService{
		store:    store,
		recents:  recents,
		renderer: renderer,
		emitter:  emitter,
		opts:     opts,
		logger:   log.Get().Named("topics"),
	}
}

// Renderer returns the renderer shared by every session.
func (s *TopicService) Renderer() *render.Renderer { return s.renderer }

// ListBlocks returns a topic's blocks in document order.
func (s *TopicService) ListBlocks(ctx context.Context, topicID string) ([]domain.Block, error) {
	if err := validTopic(topicID); err != nil {
		return nil, err
	}
	stored, err := s.store.ListBlocks(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	blocks, _ := autosave.Hydrate(stored)
	return blocks, nil
}

// RenderTopic renders a stored topic as a read-only document.
func (s *TopicService) RenderTopic(ctx context.Context, topicID string, lang render.Lang) (string, error) {
	blocks, err := s.ListBlocks(ctx, topicID)
	if err != nil {
		return "", err
	}
	return s.renderer.Document(blocks, render.Context{Mode: render.ReadOnly, Lang: lang}), nil
}

// Open starts an editing session on a topic. Only one session per topic may
// be open at a time; a second Open returns domain.ErrTopicBusy.
func (s *TopicService) Open(ctx context.Context, topicID string) (*Session, error) {
	if err := validTopic(topicID); err != nil {
		return nil, err
	}
	if !s.guard.TryLock(topicID) {
		return nil, fmt.Errorf("open topic %s: %w", topicID, domain.ErrTopicBusy)
	}

	stored, err := s.store.ListBlocks(ctx, topicID)
	if err != nil {
		s.guard.Unlock(topicID)
		return nil, fmt.Errorf("load topic %s: %w", topicID, err)
	}
	blocks, remote := autosave.Hydrate(stored)

	sess := &Session{topicID: topicID, svc: s}
	sess.bridge = autosave.New(s.store, topicID, remote, autosave.Options{
		Debounce:     s.opts.Debounce,
		SavedDisplay: s.opts.SavedDisplay,
		Clock:        s.opts.Clock,
		OnStatus: func(st autosave.Status) {
			s.emitter.Emit(context.Background(), EventAutosaveStatus, StatusEvent{TopicID: topicID, Status: st})
		},
	})
	sess.editor = editor.New(blocks,
		editor.WithSaver(sess.bridge),
		editor.WithMenu(slash.NewMenu(s.recents)),
	)
	s.logger.Debug("session opened", zap.String("topic", topicID), zap.Int("blocks", len(blocks)))
	return sess, nil
}

// Import parses markdown into a topic through a short-lived session. With
// replace the topic's blocks are swapped out; otherwise they are appended.
// It returns the number of blocks the topic holds afterwards.
func (s *TopicService) Import(ctx context.Context, topicID, text string, replace bool) (int, error) {
	records := markdown.Parse(text)
	if len(records) == 0 && !replace {
		return 0, fmt.Errorf("import: no blocks in input: %w", domain.ErrInvalidInput)
	}
	sess, err := s.Open(ctx, topicID)
	if err != nil {
		return 0, err
	}
	if replace {
		sess.Editor().ReplaceAll(records)
	} else {
		sess.Editor().Append(records)
	}
	n := sess.Editor().Len()
	if err := sess.Close(ctx); err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	return n, nil
}

// Shutdown waits for open sessions to close or ctx to end.
func (s *TopicService) Shutdown(ctx context.Context) {
	s.guard.WaitAll(ctx)
}

func validTopic(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("topic id is required: %w", domain.ErrInvalidInput)
	}
	return nil
}

// StatusEvent is the payload of EventAutosaveStatus.
type StatusEvent struct {
	TopicID string          `json:"topicId"`
	Status  autosave.Status `json:"status"`
}

// ─────────────────────────────────────────────────────────────
// Session
// ─────────────────────────────────────────────────────────────

// Session is one open topic: an editor controller wired to an autosave
// bridge. Like the controller, it expects its caller to serialize events.
type Session struct {
	topicID string
	svc     *TopicService
	editor  *editor.Controller
	bridge  *autosave.Bridge
	closed  bool
}

func (s *Session) TopicID() string { return s.topicID }

func (s *Session) Editor() *editor.Controller { return s.editor }

func (s *Session) Status() autosave.Status { return s.bridge.Status() }

// View renders the editable document.
func (s *Session) View(lang render.Lang) string {
	return s.editor.View(s.svc.renderer, lang)
}

// Close writes any pending changes, waits for in-flight writes and releases
// the topic. The topic is released even when the final write fails.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	defer s.svc.guard.Unlock(s.topicID)

	err := s.bridge.Flush(ctx)
	s.bridge.Wait()
	if err != nil {
		s.svc.logger.Warn("final save failed", zap.String("topic", s.topicID), zap.Error(err))
		return fmt.Errorf("close topic %s: %w", s.topicID, err)
	}
	s.svc.logger.Debug("session closed", zap.String("topic", s.topicID))
	return nil
}
