package editor

import (
	"fmt"
	"html"
	"strings"

	"academy/internal/render"
)

// View renders the editing surface: the active block as its input control,
// every other block through the editable renderer, plus the slash menu.
func (c *Controller) View(r *render.Renderer, lang render.Lang) string {
	ctx := render.Context{Mode: render.Editable, Lang: lang}
	var sb strings.Builder
	sb.WriteString(`<div class="editor">`)
	for i, b := range c.blocks {
		class := "row"
		if b.ID == c.active {
			class += " active"
		}
		if c.selected[b.ID] {
			class += " selected"
		}
		if c.drag.active && c.drag.over == i {
			class += " drag-over"
		}
		fmt.Fprintf(&sb, `<div class="%s" data-index="%d" draggable="true">`, class, i)
		if b.ID == c.active {
			sb.WriteString(r.Control(b, ctx))
		} else {
			sb.WriteString(r.Block(b, ctx))
		}
		if c.menu.IsOpen() && c.menu.BlockID() == b.ID {
			sb.WriteString(c.menuView())
		}
		sb.WriteString("</div>")
	}
	sb.WriteString("</div>")
	return sb.String()
}

func (c *Controller) menuView() string {
	var sb strings.Builder
	sb.WriteString(`<ul class="slash-menu">`)
	for i, it := range c.menu.Items() {
		if it.IsHeader() {
			fmt.Fprintf(&sb, `<li class="slash-header">%s</li>`, html.EscapeString(it.Header))
			continue
		}
		class := "slash-item"
		if i == c.menu.Index() {
			class += " highlighted"
		}
		fmt.Fprintf(&sb, `<li class="%s" data-index="%d"><strong>%s</strong> <span>%s</span></li>`,
			class, i, html.EscapeString(it.Command.Label), html.EscapeString(it.Command.Description))
	}
	sb.WriteString("</ul>")
	return sb.String()
}
