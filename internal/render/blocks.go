package render

import (
	"fmt"
	"html"
	"strings"

	"academy/internal/domain"
	"academy/internal/markdown"
)

func builtins() map[domain.BlockType]BlockFunc {
	return map[domain.BlockType]BlockFunc{
		domain.BlockTypeText:     renderText,
		domain.BlockTypePaste:    renderText,
		domain.BlockTypeH1:       renderHeading,
		domain.BlockTypeH2:       renderHeading,
		domain.BlockTypeH3:       renderHeading,
		domain.BlockTypeHeading:  renderHeading,
		domain.BlockTypeBullet:   renderBullet,
		domain.BlockTypeList:     renderList,
		domain.BlockTypeNumbered: renderNumbered,
		domain.BlockTypeTodo:     renderTodo,
		domain.BlockTypeToggle:   renderToggle,
		domain.BlockTypeQuote:    renderQuote,
		domain.BlockTypeCode:     renderCode,
		domain.BlockTypeYouTube:  renderYouTube,
		domain.BlockTypeImage:    renderImage,
		domain.BlockTypeTable:    renderTable,
		domain.BlockTypeQuiz:     renderQuiz,
		domain.BlockTypeTip:      renderCallout,
		domain.BlockTypeInfo:     renderCallout,
		domain.BlockTypeWarning:  renderCallout,
		domain.BlockTypeDivider:  renderDivider,
	}
}

// inlineLines renders inline spans line by line and joins them with <br>.
func inlineLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = markdown.Inline(l)
	}
	return strings.Join(lines, "<br>")
}

func renderText(b domain.Block, ctx Context) string {
	if b.Content == "" && ctx.Mode == Editable {
		return `<p class="empty"></p>`
	}
	return "<p>" + inlineLines(b.Content) + "</p>"
}

func headingLevel(b domain.Block) int {
	switch b.Type {
	case domain.BlockTypeH1:
		return 1
	case domain.BlockTypeH2:
		return 2
	case domain.BlockTypeH3:
		return 3
	}
	if p, ok := b.Payload.(domain.HeadingPayload); ok && p.Level >= 1 && p.Level <= 6 {
		return p.Level
	}
	return 1
}

func renderHeading(b domain.Block, _ Context) string {
	level := headingLevel(b)
	return fmt.Sprintf("<h%d>%s</h%d>", level, markdown.Inline(b.Content), level)
}

func listItem(content string) string {
	return fmt.Sprintf(`<li dir="%s">%s</li>`, DirectionOf(content), inlineLines(content))
}

func renderBullet(b domain.Block, _ Context) string {
	return "<ul>" + listItem(b.Content) + "</ul>"
}

// renderList treats each non-empty line as its own item with its own direction.
func renderList(b domain.Block, _ Context) string {
	var sb strings.Builder
	sb.WriteString("<ul>")
	for _, line := range strings.Split(b.Content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sb.WriteString(listItem(line))
	}
	sb.WriteString("</ul>")
	return sb.String()
}

func renderNumbered(b domain.Block, ctx Context) string {
	n := ctx.number
	if n < 1 {
		n = 1
	}
	return fmt.Sprintf(`<ol start="%d">%s</ol>`, n, listItem(b.Content))
}

func renderTodo(b domain.Block, ctx Context) string {
	p, _ := b.Payload.(domain.TodoPayload)
	attrs := ""
	if p.Checked {
		attrs += " checked"
	}
	if ctx.Mode == ReadOnly {
		attrs += " disabled"
	}
	class := "todo"
	if p.Checked {
		class += " done"
	}
	return fmt.Sprintf(`<label class="%s"><input type="checkbox" data-action="toggle-todo" data-id="%s"%s><span>%s</span></label>`,
		class, html.EscapeString(b.ID), attrs, markdown.Inline(b.Content))
}

func renderToggle(b domain.Block, _ Context) string {
	p, _ := b.Payload.(domain.TogglePayload)
	var sb strings.Builder
	open := ""
	if p.Open {
		open = " open"
	}
	fmt.Fprintf(&sb, `<div class="toggle%s"><button data-action="toggle-open" data-id="%s">%s</button>`,
		open, html.EscapeString(b.ID), inlineLines(b.Content))
	if p.Open && p.Details != "" {
		sb.WriteString(`<div class="toggle-details">` + inlineLines(p.Details) + "</div>")
	}
	sb.WriteString("</div>")
	return sb.String()
}

func renderQuote(b domain.Block, _ Context) string {
	return "<blockquote>" + inlineLines(b.Content) + "</blockquote>"
}

func renderCode(b domain.Block, _ Context) string {
	lang := domain.DefaultCodeLanguage
	if p, ok := b.Payload.(domain.CodePayload); ok && p.Language != "" {
		lang = p.Language
	}
	return fmt.Sprintf(`<pre dir="ltr"><code class="language-%s">%s</code></pre>`,
		html.EscapeString(lang), html.EscapeString(b.Content))
}

func renderYouTube(b domain.Block, ctx Context) string {
	id, ok := YouTubeID(strings.TrimSpace(b.Content))
	if !ok {
		return `<div class="invalid-video">` + html.EscapeString(ctx.Lang.messages().InvalidVideo) + "</div>"
	}
	return fmt.Sprintf(`<iframe class="youtube" src="https://www.youtube.com/embed/%s" allowfullscreen></iframe>`, id)
}

func renderImage(b domain.Block, ctx Context) string {
	src := strings.TrimSpace(b.Content)
	if !markdown.SafeURL(src) {
		return `<div class="invalid-image">` + html.EscapeString(ctx.Lang.messages().InvalidImage) + "</div>"
	}
	return fmt.Sprintf(`<img src="%s" alt="" loading="lazy">`, html.EscapeString(src))
}

func renderTable(b domain.Block, _ Context) string {
	t := ParseTable(b.Content)
	var sb strings.Builder
	sb.WriteString("<table>")
	if len(t.Headers) > 0 {
		sb.WriteString("<thead><tr>")
		for i, h := range t.Headers {
			sb.WriteString(cell("th", h, t.AlignAt(i)))
		}
		sb.WriteString("</tr></thead>")
	}
	sb.WriteString("<tbody>")
	for _, row := range t.Rows {
		sb.WriteString("<tr>")
		for i, c := range row {
			sb.WriteString(cell("td", c, t.AlignAt(i)))
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table>")
	return sb.String()
}

func cell(tag, content string, align Align) string {
	style := ""
	if align != AlignDefault {
		style = fmt.Sprintf(` style="text-align:%s"`, align)
	}
	return fmt.Sprintf(`<%s dir="%s"%s>%s</%s>`, tag, DirectionOf(content), style, markdown.Inline(content), tag)
}

func renderCallout(b domain.Block, ctx Context) string {
	m := ctx.Lang.messages()
	label := map[domain.BlockType]string{
		domain.BlockTypeTip:     m.Tip,
		domain.BlockTypeInfo:    m.Info,
		domain.BlockTypeWarning: m.Warning,
	}[b.Type]
	return fmt.Sprintf(`<aside class="callout callout-%s"><strong class="callout-label">%s</strong><p>%s</p></aside>`,
		b.Type, html.EscapeString(label), inlineLines(b.Content))
}

func renderDivider(domain.Block, Context) string {
	return "<hr>"
}

func quizPayload(b domain.Block) domain.QuizPayload {
	if p, ok := b.Payload.(domain.QuizPayload); ok {
		return p
	}
	return domain.PayloadFromMetadata(domain.BlockTypeQuiz, nil).(domain.QuizPayload)
}

func disabled(cond bool) string {
	if cond {
		return " disabled"
	}
	return ""
}

func renderQuiz(b domain.Block, ctx Context) string {
	q := quizPayload(b)
	s := ctx.quiz(b)
	m := ctx.Lang.messages()
	id := html.EscapeString(b.ID)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="quiz quiz-%s">`, q.Variant)
	question := q.Question
	if question == "" && q.Variant == domain.QuizMultipleChoice {
		question = b.Content
	}
	if question != "" {
		fmt.Fprintf(&sb, `<p class="quiz-question" dir="%s">%s</p>`, DirectionOf(question), inlineLines(question))
	}

	if q.Variant == domain.QuizFlag {
		pattern := q.FlagPattern
		if pattern == "" {
			pattern = b.Content
		}
		if pattern == "" {
			pattern = m.FlagPlaceholder
		}
		fmt.Fprintf(&sb, `<input type="text" class="quiz-flag" data-action="quiz-flag" data-id="%s" value="%s" placeholder="%s" dir="ltr"%s>`,
			id, html.EscapeString(s.Flag()), html.EscapeString(pattern), disabled(s.ShowResult()))
	} else {
		sb.WriteString(`<ol class="quiz-options">`)
		for i, opt := range q.Options {
			class := "quiz-option"
			if i == s.Selected() {
				class += " selected"
			}
			fmt.Fprintf(&sb, `<li><button class="%s" data-action="quiz-select" data-id="%s" data-index="%d" dir="%s"%s>%s</button></li>`,
				class, id, i, DirectionOf(opt), disabled(s.ShowResult()), markdown.Inline(opt))
		}
		sb.WriteString("</ol>")
	}

	fmt.Fprintf(&sb, `<button class="quiz-submit" data-action="quiz-submit" data-id="%s"%s>%s</button>`,
		id, disabled(!s.CanSubmit()), html.EscapeString(m.Submit))

	if q.Hint != "" {
		label := m.ShowHint
		if s.ShowHint() {
			label = m.HideHint
		}
		fmt.Fprintf(&sb, `<button class="quiz-hint-toggle" data-action="quiz-hint" data-id="%s">%s</button>`, id, html.EscapeString(label))
		if s.ShowHint() {
			sb.WriteString(`<p class="quiz-hint">` + inlineLines(q.Hint) + "</p>")
		}
	}

	if s.ShowResult() {
		if s.Correct() {
			sb.WriteString(`<p class="quiz-result correct">` + html.EscapeString(m.Correct) + "</p>")
		} else {
			sb.WriteString(`<p class="quiz-result incorrect">` + html.EscapeString(m.Incorrect) + "</p>")
		}
		if q.Explanation != "" {
			fmt.Fprintf(&sb, `<div class="quiz-explanation"><strong>%s</strong> %s</div>`,
				html.EscapeString(m.Explanation), inlineLines(q.Explanation))
		}
		if !s.Correct() {
			fmt.Fprintf(&sb, `<button class="quiz-retry" data-action="quiz-retry" data-id="%s">%s</button>`, id, html.EscapeString(m.Retry))
		}
	}
	sb.WriteString("</div>")
	return sb.String()
}
