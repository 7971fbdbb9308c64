package editor

// Modifiers are the keys held during a pointer event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Meta  bool
}

// Click handles a click on a block row in viewing mode.
func (c *Controller) Click(id string, mods Modifiers) {
	if c.index(id) < 0 {
		return
	}
	switch {
	case mods.Ctrl || mods.Meta:
		if c.selected[id] {
			delete(c.selected, id)
		} else {
			c.selected[id] = true
		}
		c.anchor, c.head = id, id
		c.normalize()
	case mods.Shift:
		anchor := c.active
		if anchor == "" {
			anchor = c.anchor
		}
		if c.index(anchor) < 0 {
			c.Focus(id)
			return
		}
		c.selectRange(anchor, id)
	default:
		c.Focus(id)
	}
}

// ─────────────────────────────────────────────────────────────
// Drag and drop
// ─────────────────────────────────────────────────────────────

func (c *Controller) DragStart(index int) {
	if index < 0 || index >= len(c.blocks) {
		return
	}
	c.drag = dragSession{active: true, from: index, over: index}
}

func (c *Controller) DragOver(index int) {
	if c.drag.active && index >= 0 && index < len(c.blocks) {
		c.drag.over = index
	}
}

// DragOverIndex reports the current hover target, or -1 outside a drag.
func (c *Controller) DragOverIndex() int {
	if !c.drag.active {
		return -1
	}
	return c.drag.over
}

// Drop reorders the dragged block to index and ends the drag.
func (c *Controller) Drop(index int) bool {
	if !c.drag.active {
		return false
	}
	from := c.drag.from
	c.drag = dragSession{}
	return c.Move(from, index)
}

func (c *Controller) DragEnd() {
	c.drag = dragSession{}
}
