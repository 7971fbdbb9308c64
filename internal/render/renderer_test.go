package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy/internal/domain"
)

func TestRenderer_UnknownTypeRendersPlaceholder(t *testing.T) {
	r := New()
	out := r.Block(domain.Block{ID: "b1", Type: "timeline", Content: "x"}, Context{})
	assert.Contains(t, out, `class="unsupported"`)
	assert.Contains(t, out, "Unsupported block type: timeline")

	ar := r.Block(domain.Block{ID: "b1", Type: "timeline"}, Context{Lang: Arabic})
	assert.Contains(t, ar, "نوع كتلة غير مدعوم")
}

func TestRenderer_PanickingStrategyDoesNotBreakDocument(t *testing.T) {
	r := New()
	r.Register("explode", func(domain.Block, Context) string { panic("boom") })

	out := r.Document([]domain.Block{
		{ID: "a", Type: "explode"},
		domain.NewBlock("b", domain.BlockTypeText, "still here"),
	}, Context{})
	assert.Contains(t, out, "Unsupported block type: explode")
	assert.Contains(t, out, "still here")
}

func TestRenderer_RegisterDuplicatePanics(t *testing.T) {
	r := New()
	assert.Panics(t, func() {
		r.Register(domain.BlockTypeText, renderText)
	})
}

func TestRenderer_HeadingVariantsRenderIdentically(t *testing.T) {
	r := New()
	fixed := r.Block(domain.NewBlock("h", domain.BlockTypeH2, "Recon"), Context{})
	generic := r.Block(domain.Block{
		ID: "h", Type: domain.BlockTypeHeading, Content: "Recon",
		Payload: domain.HeadingPayload{Level: 2},
	}, Context{})
	assert.Equal(t, fixed, generic)
	assert.Contains(t, fixed, "<h2>Recon</h2>")
}

func TestRenderer_DirectionPerBlockAndListItem(t *testing.T) {
	r := New()
	assert.Contains(t, r.Block(domain.NewBlock("a", domain.BlockTypeText, "مرحبا"), Context{}), `dir="rtl"`)
	assert.Contains(t, r.Block(domain.NewBlock("a", domain.BlockTypeText, "42"), Context{}), `dir="ltr"`)

	list := r.Block(domain.NewBlock("l", domain.BlockTypeList, "one\nاثنان"), Context{})
	assert.Contains(t, list, `<li dir="ltr">one</li>`)
	assert.Contains(t, list, `<li dir="rtl">اثنان</li>`)
}

func TestRenderer_Todo(t *testing.T) {
	r := New()
	b := domain.Block{ID: "t", Type: domain.BlockTypeTodo, Content: "patch", Payload: domain.TodoPayload{Checked: true}}

	editable := r.Block(b, Context{Mode: Editable})
	assert.Contains(t, editable, `data-action="toggle-todo"`)
	assert.Contains(t, editable, " checked")
	assert.NotContains(t, editable, "disabled")

	assert.Contains(t, r.Block(b, Context{Mode: ReadOnly}), "disabled")
}

func TestRenderer_ToggleHidesDetailsWhenClosed(t *testing.T) {
	r := New()
	closed := domain.Block{ID: "g", Type: domain.BlockTypeToggle, Content: "Answer", Payload: domain.TogglePayload{Details: "42"}}
	assert.NotContains(t, r.Block(closed, Context{}), "toggle-details")

	open := closed
	open.Payload = domain.TogglePayload{Open: true, Details: "42"}
	assert.Contains(t, r.Block(open, Context{}), `<div class="toggle-details">42</div>`)
}

func TestRenderer_YouTube(t *testing.T) {
	r := New()
	ok := r.Block(domain.NewBlock("y", domain.BlockTypeYouTube, "https://youtu.be/dQw4w9WgXcQ"), Context{})
	assert.Contains(t, ok, "https://www.youtube.com/embed/dQw4w9WgXcQ")

	bad := r.Block(domain.NewBlock("y", domain.BlockTypeYouTube, "not a video"), Context{Lang: Arabic})
	assert.Contains(t, bad, "رابط فيديو غير صالح")
	assert.NotContains(t, bad, "iframe")
}

func TestRenderer_CodeEscapes(t *testing.T) {
	r := New()
	out := r.Block(domain.Block{ID: "c", Type: domain.BlockTypeCode, Content: "<script>**x**</script>", Payload: domain.CodePayload{Language: "html"}}, Context{})
	assert.Contains(t, out, `<code class="language-html">&lt;script&gt;**x**&lt;/script&gt;</code>`)
}

func TestRenderer_Table(t *testing.T) {
	r := New()
	out := r.Block(domain.NewBlock("t", domain.BlockTypeTable, "| a | b |\n|:--|--:|\n| 1 | 2 |"), Context{})
	assert.Contains(t, out, `<th dir="ltr" style="text-align:left">a</th>`)
	assert.Contains(t, out, `<td dir="ltr" style="text-align:right">2</td>`)
}

func TestRenderer_QuizUsesSessionState(t *testing.T) {
	r := New()
	b := domain.Block{ID: "q", Type: domain.BlockTypeQuiz, Payload: domain.QuizPayload{
		Variant:       domain.QuizMultipleChoice,
		Question:      "Which port does SSH use?",
		Options:       []string{"21", "22"},
		CorrectAnswer: 1,
		Hint:          "Think secure shell",
		Explanation:   "SSH listens on 22.",
	}}

	fresh := r.Block(b, Context{})
	assert.Contains(t, fresh, `data-action="quiz-submit" data-id="q" disabled`)
	assert.NotContains(t, fresh, "quiz-result")

	s := NewQuizSession(b.Payload.(domain.QuizPayload))
	s.Select(0)
	s.Submit()
	ctx := Context{Quizzes: map[string]*QuizSession{"q": s}}
	wrong := r.Block(b, ctx)
	assert.Contains(t, wrong, "quiz-result incorrect")
	assert.Contains(t, wrong, "quiz-retry")
	assert.Contains(t, wrong, "SSH listens on 22.")

	require.True(t, s.Retry())
	s.Select(1)
	s.Submit()
	right := r.Block(b, ctx)
	assert.Contains(t, right, "quiz-result correct")
	assert.NotContains(t, right, "quiz-retry")
}

func TestRenderer_FlagQuizShowsPattern(t *testing.T) {
	r := New()
	b := domain.Block{ID: "f", Type: domain.BlockTypeQuiz, Content: "FLAG{...}", Payload: domain.QuizPayload{
		Variant:     domain.QuizFlag,
		CorrectFlag: "FLAG{abc}",
	}}
	assert.Contains(t, r.Block(b, Context{}), `placeholder="FLAG{...}"`)
}

func TestRenderer_DocumentNumbering(t *testing.T) {
	r := New()
	out := r.Document([]domain.Block{
		domain.NewBlock("1", domain.BlockTypeNumbered, "one"),
		domain.NewBlock("2", domain.BlockTypeNumbered, "two"),
		domain.NewBlock("3", domain.BlockTypeText, "break"),
		domain.NewBlock("4", domain.BlockTypeNumbered, "again"),
	}, Context{Lang: Arabic})

	assert.True(t, strings.HasPrefix(out, `<article class="topic readonly" lang="ar">`))
	assert.Equal(t, 2, strings.Count(out, `<ol start="1">`))
	assert.Equal(t, 1, strings.Count(out, `<ol start="2">`))
}

func TestRenderer_Control(t *testing.T) {
	r := New()
	ctx := Context{Mode: Editable}
	assert.Contains(t, r.Control(domain.NewBlock("c", domain.BlockTypeCode, "ls\npwd"), ctx), `rows="2"`)
	assert.Contains(t, r.Control(domain.NewBlock("q", domain.BlockTypeQuote, "مرحبا"), ctx), `<textarea class="block-input" data-id="q" rows="1" dir="rtl">`)
	assert.Contains(t, r.Control(domain.NewBlock("i", domain.BlockTypeImage, ""), ctx), `type="url"`)
	assert.Contains(t, r.Control(domain.NewBlock("t", domain.BlockTypeText, `"hi"`), ctx), `value="&#34;hi&#34;"`)
	assert.Equal(t, r.Block(domain.NewBlock("d", domain.BlockTypeDivider, ""), ctx), r.Control(domain.NewBlock("d", domain.BlockTypeDivider, ""), ctx))
}
