// Package render turns blocks into HTML for the editor (editable mode) and
// for learner pages (read-only mode). The same per-type strategies serve both.
package render

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"academy/internal/domain"
)

type Mode int

const (
	ReadOnly Mode = iota
	Editable
)

func (m Mode) String() string {
	if m == Editable {
		return "editable"
	}
	return "readonly"
}

// Context carries everything a strategy may depend on besides the block.
type Context struct {
	Mode Mode
	Lang Lang
	// Quizzes holds learner quiz state by block id. Blocks without an entry
	// render a fresh, unanswered quiz.
	Quizzes map[string]*QuizSession

	// number is the position of a numbered block within its running list.
	number int
}

func (c Context) quiz(b domain.Block) *QuizSession {
	if s, ok := c.Quizzes[b.ID]; ok && s != nil {
		return s
	}
	return NewQuizSession(quizPayload(b))
}

// BlockFunc renders the inner HTML of one block type.
type BlockFunc func(b domain.Block, ctx Context) string

// ─────────────────────────────────────────────────────────────
// Renderer — block strategies keyed by type
// ─────────────────────────────────────────────────────────────

type Renderer struct {
	mu         sync.RWMutex
	strategies map[domain.BlockType]BlockFunc
}

// New returns a renderer with a strategy for every built-in block type.
func New() *Renderer {
	r := &Renderer{strategies: make(map[domain.BlockType]BlockFunc)}
	for t, fn := range builtins() {
		r.Register(t, fn)
	}
	return r
}

// Register adds a strategy. Panics on duplicate registration.
func (r *Renderer) Register(t domain.BlockType, fn BlockFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.strategies[t]; exists {
		panic(fmt.Sprintf("render: duplicate strategy for block type %q", t))
	}
	r.strategies[t] = fn
}

// Block renders one block inside its row wrapper. Unknown types and
// strategies that panic produce a visible placeholder instead.
func (r *Renderer) Block(b domain.Block, ctx Context) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="block block-%s %s" data-id="%s" dir="%s">`,
		html.EscapeString(className(b)), ctx.Mode, html.EscapeString(b.ID), blockDirection(b))
	sb.WriteString(r.inner(b, ctx))
	sb.WriteString("</div>")
	return sb.String()
}

func (r *Renderer) inner(b domain.Block, ctx Context) (out string) {
	r.mu.RLock()
	fn, ok := r.strategies[b.Type]
	r.mu.RUnlock()
	if !ok {
		return unsupported(b, ctx)
	}
	defer func() {
		if rec := recover(); rec != nil {
			out = unsupported(b, ctx)
		}
	}()
	return fn(b, ctx)
}

// Document renders a whole topic. Consecutive numbered blocks share one
// running counter.
func (r *Renderer) Document(blocks []domain.Block, ctx Context) string {
	var sb strings.Builder
	lang := ctx.Lang
	if lang == "" {
		lang = English
	}
	fmt.Fprintf(&sb, `<article class="topic %s" lang="%s">`, ctx.Mode, lang)
	n := 0
	for _, b := range blocks {
		if b.Type == domain.BlockTypeNumbered {
			n++
		} else {
			n = 0
		}
		bctx := ctx
		bctx.number = n
		sb.WriteString("\n")
		sb.WriteString(r.Block(b, bctx))
	}
	sb.WriteString("\n</article>")
	return sb.String()
}

// Control renders the input control used while b is the active block.
func (r *Renderer) Control(b domain.Block, ctx Context) string {
	id := html.EscapeString(b.ID)
	dir := DirectionOf(b.Content)
	content := html.EscapeString(b.Content)
	switch {
	case b.Type == domain.BlockTypeDivider:
		return r.Block(b, ctx)
	case b.Type == domain.BlockTypeImage || b.Type == domain.BlockTypeYouTube:
		return fmt.Sprintf(`<input type="url" class="block-input" data-id="%s" value="%s" dir="ltr">`, id, content)
	case b.Type == domain.BlockTypeCode:
		lang := domain.DefaultCodeLanguage
		if p, ok := b.Payload.(domain.CodePayload); ok && p.Language != "" {
			lang = p.Language
		}
		return fmt.Sprintf(`<input type="text" class="code-language" data-id="%s" value="%s">`+
			`<textarea class="block-input code" data-id="%s" rows="%d" dir="ltr" spellcheck="false">%s</textarea>`,
			id, html.EscapeString(lang), id, rows(b.Content), content)
	case b.Type.Multiline():
		return fmt.Sprintf(`<textarea class="block-input" data-id="%s" rows="%d" dir="%s">%s</textarea>`,
			id, rows(b.Content), dir, content)
	}
	return fmt.Sprintf(`<input type="text" class="block-input" data-id="%s" value="%s" dir="%s">`, id, content, dir)
}

func rows(s string) int {
	return strings.Count(s, "\n") + 1
}

// className folds the generic heading onto the fixed h1..h6 names so both
// variants render identically.
func className(b domain.Block) string {
	if b.Type == domain.BlockTypeHeading {
		return fmt.Sprintf("h%d", headingLevel(b))
	}
	return string(b.Type)
}

func blockDirection(b domain.Block) Direction {
	if b.Type == domain.BlockTypeQuiz {
		if q := quizPayload(b); q.Question != "" {
			return DirectionOf(q.Question)
		}
	}
	return DirectionOf(b.Content)
}

func unsupported(b domain.Block, ctx Context) string {
	msg := fmt.Sprintf(ctx.Lang.messages().Unsupported, b.Type)
	return `<div class="unsupported">` + html.EscapeString(msg) + "</div>"
}
