package editor

import "academy/internal/domain"

const (
	KeyEnter     = "Enter"
	KeyBackspace = "Backspace"
	KeyDelete    = "Delete"
	KeyArrowUp   = "ArrowUp"
	KeyArrowDown = "ArrowDown"
	KeyEscape    = "Escape"
	KeySpace     = " "
)

// Key is a keyboard event delivered to the editor.
type Key struct {
	Name  string
	Shift bool
	Ctrl  bool
	Meta  bool
}

func (k Key) command() bool { return k.Ctrl || k.Meta }

// shortcuts map the content typed before a Space to the block type it becomes.
var shortcuts = map[string]domain.BlockType{
	"#":   domain.BlockTypeH1,
	"##":  domain.BlockTypeH2,
	"###": domain.BlockTypeH3,
	"-":   domain.BlockTypeBullet,
	"*":   domain.BlockTypeBullet,
	"1.":  domain.BlockTypeNumbered,
	"```": domain.BlockTypeCode,
	">":   domain.BlockTypeQuote,
	"[]":  domain.BlockTypeTodo,
	"---": domain.BlockTypeDivider,
}

// shortcutEligible excludes blocks whose content is code, a URL, a table
// or free-form multiline text.
func shortcutEligible(t domain.BlockType) bool {
	if t.Multiline() {
		return false
	}
	switch t {
	case domain.BlockTypeImage, domain.BlockTypeYouTube, domain.BlockTypeTable,
		domain.BlockTypeDivider, domain.BlockTypePaste:
		return false
	}
	return true
}

// KeyDown handles a key event. It returns true when the editor consumed
// the key and the input control must not apply its default behavior.
func (c *Controller) KeyDown(k Key) bool {
	if c.menu.IsOpen() && c.menu.BlockID() == c.active && c.active != "" {
		if handled := c.menuKey(k); handled {
			return true
		}
	}

	switch k.Name {
	case KeyBackspace, KeyDelete:
		if len(c.selected) > 1 {
			return c.DeleteSelected()
		}
		if k.Name == KeyBackspace {
			return c.backspace()
		}
	case KeyArrowUp, KeyArrowDown:
		step := 1
		if k.Name == KeyArrowUp {
			step = -1
		}
		if k.Shift {
			return c.extend(step)
		}
		return c.step(step)
	case KeyEnter:
		return c.enter(k)
	case KeySpace:
		return c.space()
	case KeyEscape:
		if len(c.selected) > 0 {
			c.clearSelection()
			return true
		}
		if c.active != "" {
			c.Blur()
			return true
		}
	}
	return false
}

func (c *Controller) menuKey(k Key) bool {
	switch k.Name {
	case KeyArrowUp:
		c.menu.Move(-1)
	case KeyArrowDown:
		c.menu.Move(1)
	case KeyEnter:
		cmd, ok := c.menu.Commit()
		if !ok {
			// Nothing matches; Enter keeps its usual meaning.
			c.menu.Close()
			return false
		}
		c.Convert(c.active, cmd.ID)
	case KeyEscape:
		c.menu.Close()
	default:
		return false
	}
	return true
}

// ChooseCommand commits the slash menu row at i, as a pointer click does.
func (c *Controller) ChooseCommand(i int) bool {
	id := c.menu.BlockID()
	cmd, ok := c.menu.CommitAt(i)
	if !ok {
		return false
	}
	c.Convert(id, cmd.ID)
	return true
}

func (c *Controller) enter(k Key) bool {
	i := c.index(c.active)
	if i < 0 {
		return false
	}
	cur := c.blocks[i]
	if !k.command() && (k.Shift || cur.Type.Multiline()) {
		return false
	}

	next := domain.NewBlock(c.newID(), domain.BlockTypeText, "")
	if cur.Type.ListLike() {
		next = domain.NewBlock(next.ID, cur.Type, "")
	}
	c.insert(i, next)
	c.Focus(next.ID)
	c.structureChanged()
	return true
}

func (c *Controller) backspace() bool {
	i := c.index(c.active)
	if i < 0 || c.blocks[i].Content != "" {
		return false
	}
	c.deleteBlock(i)
	return true
}

func (c *Controller) space() bool {
	i := c.index(c.active)
	if i < 0 || !shortcutEligible(c.blocks[i].Type) {
		return false
	}
	t, ok := shortcuts[c.blocks[i].Content]
	if !ok {
		return false
	}
	c.convertAndClear(i, t)
	return true
}

// step moves edit focus to the adjacent block.
func (c *Controller) step(dir int) bool {
	from := c.index(c.active)
	if from < 0 {
		from = c.index(c.head)
	}
	if from < 0 {
		return false
	}
	to := from + dir
	if to < 0 || to >= len(c.blocks) {
		return false
	}
	c.Focus(c.blocks[to].ID)
	return true
}

// extend grows or shrinks a range selection from the anchor.
func (c *Controller) extend(dir int) bool {
	if c.index(c.anchor) < 0 {
		if c.active == "" {
			return false
		}
		c.anchor, c.head = c.active, c.active
	}
	h := c.index(c.head)
	if h < 0 {
		h = c.index(c.anchor)
	}
	to := h + dir
	if to < 0 || to >= len(c.blocks) {
		return false
	}
	c.selectRange(c.anchor, c.blocks[to].ID)
	return true
}
