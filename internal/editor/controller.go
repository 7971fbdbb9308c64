// Package editor owns one open topic's block list and drives it from
// content changes, keyboard events, pointer events and pastes.
package editor

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"academy/internal/domain"
	"academy/internal/markdown"
	"academy/internal/slash"
)

// Saver receives a snapshot of the document after every mutation. Content
// edits are debounced by the implementation; structural edits are written
// immediately.
type Saver interface {
	ContentChanged(blocks []domain.Block)
	StructureChanged(blocks []domain.Block)
}

type Option func(*Controller)

func WithSaver(s Saver) Option { return func(c *Controller) { c.saver = s } }

// WithIDs replaces the block id generator.
func WithIDs(next func() string) Option { return func(c *Controller) { c.newID = next } }

func WithMenu(m *slash.Menu) Option { return func(c *Controller) { c.menu = m } }

// Controller is not safe for concurrent use; callers serialize events the
// way a UI event loop does.
type Controller struct {
	blocks   []domain.Block
	active   string
	selected map[string]bool
	// anchor and head are the fixed and moving ends of a range selection.
	anchor string
	head   string
	drag   dragSession

	menu  *slash.Menu
	saver Saver
	newID func() string
}

type dragSession struct {
	active bool
	from   int
	over   int
}

// New takes ownership of a copy of blocks. An empty document is seeded
// with one empty text block.
func New(blocks []domain.Block, opts ...Option) *Controller {
	c := &Controller{
		selected: make(map[string]bool),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.menu == nil {
		c.menu = slash.NewMenu(nil)
	}
	c.blocks = append([]domain.Block(nil), blocks...)
	if len(c.blocks) == 0 {
		c.blocks = []domain.Block{c.emptyBlock()}
	}
	return c
}

func (c *Controller) emptyBlock() domain.Block {
	return domain.NewBlock(c.newID(), domain.BlockTypeText, "")
}

// ─────────────────────────────────────────────────────────────
// Queries
// ─────────────────────────────────────────────────────────────

func (c *Controller) Blocks() []domain.Block {
	return append([]domain.Block(nil), c.blocks...)
}

func (c *Controller) Len() int { return len(c.blocks) }

func (c *Controller) Block(id string) (domain.Block, bool) {
	if i := c.index(id); i >= 0 {
		return c.blocks[i], true
	}
	return domain.Block{}, false
}

func (c *Controller) ActiveID() string { return c.active }

// Selected returns the selected ids in document order.
func (c *Controller) Selected() []string {
	var ids []string
	for _, b := range c.blocks {
		if c.selected[b.ID] {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

func (c *Controller) IsSelected(id string) bool { return c.selected[id] }

func (c *Controller) Menu() *slash.Menu { return c.menu }

func (c *Controller) index(id string) int {
	if id == "" {
		return -1
	}
	for i, b := range c.blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// ─────────────────────────────────────────────────────────────
// Focus and selection
// ─────────────────────────────────────────────────────────────

// Focus puts a block into editing and clears any selection.
func (c *Controller) Focus(id string) {
	if c.index(id) < 0 {
		return
	}
	if c.menu.IsOpen() && c.menu.BlockID() != id {
		c.menu.Close()
	}
	c.active = id
	c.anchor, c.head = id, id
	c.clearSelection()
}

// Blur returns the active block to viewing.
func (c *Controller) Blur() {
	c.active = ""
	c.menu.Close()
}

func (c *Controller) clearSelection() {
	c.selected = make(map[string]bool)
}

// normalize keeps the active block out of any multi-selection.
func (c *Controller) normalize() {
	if len(c.selected) > 1 {
		c.active = ""
		c.menu.Close()
	}
}

// selectRange replaces the selection with the blocks between anchor and head.
func (c *Controller) selectRange(anchor, head string) {
	a, h := c.index(anchor), c.index(head)
	if a < 0 || h < 0 {
		return
	}
	if a > h {
		a, h = h, a
	}
	c.clearSelection()
	for _, b := range c.blocks[a : h+1] {
		c.selected[b.ID] = true
	}
	c.anchor, c.head = anchor, head
	c.normalize()
}

// SelectAll selects every block.
func (c *Controller) SelectAll() {
	c.selectRange(c.blocks[0].ID, c.blocks[len(c.blocks)-1].ID)
}

// ─────────────────────────────────────────────────────────────
// Content changes
// ─────────────────────────────────────────────────────────────

var dividerRe = regexp.MustCompile(`^-{3,}$`)

// SetContent applies a content-change event from a block's input control.
func (c *Controller) SetContent(id, content string) {
	i := c.index(id)
	if i < 0 {
		return
	}
	if c.blocks[i].Type == domain.BlockTypePaste {
		c.expandPaste(i, content)
		return
	}
	if c.blocks[i].Type == domain.BlockTypeText && dividerRe.MatchString(strings.TrimSpace(content)) {
		c.convertAndClear(i, domain.BlockTypeDivider)
		return
	}

	c.update(i, func(b *domain.Block) { b.Content = content })
	c.syncMenu(id, content)
	c.contentChanged()
}

// syncMenu opens the slash menu while content starts with "/" and closes it
// otherwise. Blocks that ignore markdown shortcuts never open it.
func (c *Controller) syncMenu(id, content string) {
	i := c.index(id)
	if i >= 0 && shortcutEligible(c.blocks[i].Type) && strings.HasPrefix(content, "/") {
		if c.menu.IsOpen() && c.menu.BlockID() == id {
			c.menu.SetQuery(content[1:])
		} else {
			c.menu.Open(id, content[1:])
		}
		return
	}
	if c.menu.IsOpen() && c.menu.BlockID() == id {
		c.menu.Close()
	}
}

// Convert changes a block's type and clears its content, as the slash
// menu and the markdown shortcuts do.
func (c *Controller) Convert(id string, t domain.BlockType) {
	if i := c.index(id); i >= 0 {
		c.convertAndClear(i, t)
	}
}

func (c *Controller) convertAndClear(i int, t domain.BlockType) {
	id := c.blocks[i].ID
	c.update(i, func(b *domain.Block) {
		if b.Type != t {
			b.Type = t
			b.Payload = domain.DefaultPayload(t)
		}
		b.Content = ""
	})
	if c.menu.IsOpen() && c.menu.BlockID() == id {
		c.menu.Close()
	}
	c.contentChanged()
}

// SetPayload replaces the typed fields of a block, e.g. a quiz's options
// or a code block's language.
func (c *Controller) SetPayload(id string, p domain.Payload) {
	i := c.index(id)
	if i < 0 {
		return
	}
	c.update(i, func(b *domain.Block) { b.Payload = p })
	c.contentChanged()
}

// ToggleTodo flips a todo block's checked state.
func (c *Controller) ToggleTodo(id string) {
	i := c.index(id)
	if i < 0 || c.blocks[i].Type != domain.BlockTypeTodo {
		return
	}
	c.update(i, func(b *domain.Block) {
		p, _ := b.Payload.(domain.TodoPayload)
		p.Checked = !p.Checked
		b.Payload = p
	})
	c.contentChanged()
}

// ToggleOpen flips a toggle block's open state.
func (c *Controller) ToggleOpen(id string) {
	i := c.index(id)
	if i < 0 || c.blocks[i].Type != domain.BlockTypeToggle {
		return
	}
	c.update(i, func(b *domain.Block) {
		p, _ := b.Payload.(domain.TogglePayload)
		p.Open = !p.Open
		b.Payload = p
	})
	c.contentChanged()
}

// update replaces the whole list with one block modified.
func (c *Controller) update(i int, fn func(b *domain.Block)) {
	next := append([]domain.Block(nil), c.blocks...)
	fn(&next[i])
	c.blocks = next
}

// ─────────────────────────────────────────────────────────────
// Structural changes
// ─────────────────────────────────────────────────────────────

// insert places blocks after position at (-1 inserts at the front).
func (c *Controller) insert(at int, blocks ...domain.Block) {
	next := make([]domain.Block, 0, len(c.blocks)+len(blocks))
	next = append(next, c.blocks[:at+1]...)
	next = append(next, blocks...)
	next = append(next, c.blocks[at+1:]...)
	c.blocks = next
}

// remove deletes the given ids, never leaving the document empty. It
// returns the index of the first removed block.
func (c *Controller) remove(ids map[string]bool) int {
	first := -1
	next := make([]domain.Block, 0, len(c.blocks))
	for i, b := range c.blocks {
		if ids[b.ID] {
			if first < 0 {
				first = i
			}
			continue
		}
		next = append(next, b)
	}
	if len(next) == 0 {
		next = []domain.Block{c.emptyBlock()}
	}
	c.blocks = next
	return first
}

// DeleteSelected removes every selected block in one batch.
func (c *Controller) DeleteSelected() bool {
	if len(c.selected) == 0 {
		return false
	}
	first := c.remove(c.selected)
	c.clearSelection()
	c.menu.Close()
	focus := first - 1
	if focus < 0 {
		focus = 0
	}
	c.Focus(c.blocks[focus].ID)
	c.structureChanged()
	return true
}

// deleteBlock removes the block at i and focuses its predecessor. The
// last remaining block is reset to empty text instead, keeping its id.
func (c *Controller) deleteBlock(i int) {
	if len(c.blocks) == 1 {
		c.update(0, func(b *domain.Block) {
			b.Type = domain.BlockTypeText
			b.Content = ""
			b.Payload = nil
		})
		c.Focus(c.blocks[0].ID)
		c.structureChanged()
		return
	}
	c.remove(map[string]bool{c.blocks[i].ID: true})
	focus := i - 1
	if focus < 0 {
		focus = 0
	}
	c.Focus(c.blocks[focus].ID)
	c.structureChanged()
}

// Move reorders by removing the block at from and reinserting it at to.
func (c *Controller) Move(from, to int) bool {
	if from == to || from < 0 || to < 0 || from >= len(c.blocks) || to >= len(c.blocks) {
		return false
	}
	moved := c.blocks[from]
	next := make([]domain.Block, 0, len(c.blocks))
	next = append(next, c.blocks[:from]...)
	next = append(next, c.blocks[from+1:]...)
	next = append(next[:to], append([]domain.Block{moved}, next[to:]...)...)
	c.blocks = next
	c.structureChanged()
	return true
}

// fromRecords assigns fresh ids to parsed records.
func (c *Controller) fromRecords(records []domain.Record) []domain.Block {
	out := make([]domain.Block, len(records))
	for i, r := range records {
		out[i] = domain.Block{ID: c.newID(), Type: r.Type, Content: r.Content, Payload: r.Payload}
	}
	return out
}

// ReplaceAll swaps the whole document for parsed records with fresh ids.
func (c *Controller) ReplaceAll(records []domain.Record) {
	c.SelectAll()
	c.remove(c.selected)
	c.clearSelection()
	c.menu.Close()
	if len(records) > 0 {
		c.blocks = c.fromRecords(records)
	}
	c.Focus(c.blocks[0].ID)
	c.structureChanged()
}

// Append adds parsed records after the last block. A document holding a
// single empty text block has that block replaced in place.
func (c *Controller) Append(records []domain.Record) {
	if len(records) == 0 {
		return
	}
	last := len(c.blocks) - 1
	c.insertRecords(last, records, isBlank(c.blocks[last]) && len(c.blocks) == 1)
}

// insertRecords places records after position at. When replace is set the
// first record takes over the block at position at, keeping its id.
func (c *Controller) insertRecords(at int, records []domain.Record, replace bool) {
	if replace {
		first := records[0]
		c.update(at, func(b *domain.Block) {
			b.Type, b.Content, b.Payload = first.Type, first.Content, first.Payload
		})
		records = records[1:]
	}
	c.insert(at, c.fromRecords(records)...)
	c.Focus(c.blocks[at+len(records)].ID)
	c.structureChanged()
}

func isBlank(b domain.Block) bool {
	return b.Type == domain.BlockTypeText && strings.TrimSpace(b.Content) == ""
}

// Paste turns clipboard text into blocks at the active block. It reports
// false when the text is plain prose, leaving insertion to the input control.
func (c *Controller) Paste(text string) bool {
	i := c.index(c.active)
	if i < 0 || !pasteParses(c.blocks[i].Type) {
		return false
	}
	records := markdown.Parse(text)
	if len(records) == 0 || (len(records) == 1 && records[0].Type == domain.BlockTypeText) {
		return false
	}
	c.insertRecords(i, records, strings.TrimSpace(c.blocks[i].Content) == "")
	return true
}

// pasteParses reports whether clipboard text pasted into a block of type t
// is read as markdown. Code, tables and URLs take the text verbatim.
func pasteParses(t domain.BlockType) bool {
	switch t {
	case domain.BlockTypeCode, domain.BlockTypeTable, domain.BlockTypeImage, domain.BlockTypeYouTube:
		return false
	}
	return true
}

// expandPaste replaces a paste-marker block with the parsed content.
func (c *Controller) expandPaste(i int, content string) {
	records := markdown.Parse(content)
	if len(records) == 0 {
		records = []domain.Record{{Type: domain.BlockTypeText}}
	}
	c.insertRecords(i, records, true)
}

func (c *Controller) contentChanged() {
	if c.saver != nil {
		c.saver.ContentChanged(c.Blocks())
	}
}

func (c *Controller) structureChanged() {
	if c.saver != nil {
		c.saver.StructureChanged(c.Blocks())
	}
}
