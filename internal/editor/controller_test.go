package editor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy/internal/domain"
	"academy/internal/render"
)

type recordingSaver struct {
	content   int
	structure int
	last      []domain.Block
}

func (s *recordingSaver) ContentChanged(blocks []domain.Block) {
	s.content++
	s.last = blocks
}

func (s *recordingSaver) StructureChanged(blocks []domain.Block) {
	s.structure++
	s.last = blocks
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}
}

func doc(ids ...string) []domain.Block {
	blocks := make([]domain.Block, len(ids))
	for i, id := range ids {
		blocks[i] = domain.NewBlock(id, domain.BlockTypeText, "content "+id)
	}
	return blocks
}

func ids(blocks []domain.Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.ID
	}
	return out
}

func newController(t *testing.T, blocks []domain.Block) (*Controller, *recordingSaver) {
	t.Helper()
	saver := &recordingSaver{}
	return New(blocks, WithSaver(saver), WithIDs(sequentialIDs())), saver
}

func TestNew_SeedsEmptyDocument(t *testing.T) {
	c, _ := newController(t, nil)
	require.Equal(t, 1, c.Len())
	b := c.Blocks()[0]
	assert.Equal(t, "n1", b.ID)
	assert.Equal(t, domain.BlockTypeText, b.Type)
	assert.Empty(t, b.Content)
}

func TestNew_CopiesInput(t *testing.T) {
	blocks := doc("a", "b")
	c, _ := newController(t, blocks)
	blocks[0].Content = "mutated"
	got, _ := c.Block("a")
	assert.Equal(t, "content a", got.Content)
}

func TestDelete_NeverEmptiesDocument(t *testing.T) {
	tests := []struct {
		name   string
		blocks []domain.Block
		run    func(c *Controller)
	}{
		{"backspace on sole empty block", doc("a"), func(c *Controller) {
			c.SetContent("a", "")
			c.Focus("a")
			c.KeyDown(Key{Name: KeyBackspace})
		}},
		{"bulk delete of everything", doc("a", "b", "c"), func(c *Controller) {
			c.SelectAll()
			c.KeyDown(Key{Name: KeyDelete})
		}},
		{"replace with nothing", doc("a", "b"), func(c *Controller) {
			c.ReplaceAll(nil)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newController(t, tt.blocks)
			tt.run(c)
			require.Equal(t, 1, c.Len())
			b := c.Blocks()[0]
			assert.Equal(t, domain.BlockTypeText, b.Type)
			assert.Empty(t, b.Content)
			assert.Equal(t, b.ID, c.ActiveID())
		})
	}
}

func TestBackspace_SoleBlockKeepsIdentity(t *testing.T) {
	c, saver := newController(t, []domain.Block{domain.NewBlock("a", domain.BlockTypeCode, "")})
	c.Focus("a")
	assert.True(t, c.KeyDown(Key{Name: KeyBackspace}))

	b := c.Blocks()[0]
	assert.Equal(t, "a", b.ID)
	assert.Equal(t, domain.BlockTypeText, b.Type)
	assert.Nil(t, b.Payload)
	assert.Equal(t, 1, saver.structure)
}

func TestBackspace_EmptyBlockFocusesPrevious(t *testing.T) {
	c, saver := newController(t, doc("a", "b", "c"))
	c.SetContent("b", "")
	c.Focus("b")
	require.True(t, c.KeyDown(Key{Name: KeyBackspace}))

	assert.Equal(t, []string{"a", "c"}, ids(c.Blocks()))
	assert.Equal(t, "a", c.ActiveID())
	assert.Equal(t, 1, saver.structure)

	c.SetContent("a", "")
	c.Focus("a")
	c.KeyDown(Key{Name: KeyBackspace})
	assert.Equal(t, "c", c.ActiveID(), "first block falls back to the remaining block")
}

func TestBackspace_NonEmptyIsDefault(t *testing.T) {
	c, saver := newController(t, doc("a", "b"))
	c.Focus("b")
	assert.False(t, c.KeyDown(Key{Name: KeyBackspace}))
	assert.Equal(t, 2, c.Len())
	assert.Zero(t, saver.structure)
}

func TestBulkDelete_KeepsUnselectedIdentity(t *testing.T) {
	c, saver := newController(t, doc("a", "b", "c", "d"))
	c.Click("b", Modifiers{Ctrl: true})
	c.Click("d", Modifiers{Meta: true})
	require.Equal(t, []string{"b", "d"}, c.Selected())

	require.True(t, c.KeyDown(Key{Name: KeyBackspace}))
	assert.Equal(t, []string{"a", "c"}, ids(c.Blocks()))
	assert.Empty(t, c.Selected())
	assert.Equal(t, "a", c.ActiveID())
	assert.Equal(t, 1, saver.structure)

	a, _ := c.Block("a")
	assert.Equal(t, "content a", a.Content)
}

func TestEnter_InsertsAndInheritsListTypes(t *testing.T) {
	tests := []struct {
		from domain.BlockType
		want domain.BlockType
	}{
		{domain.BlockTypeText, domain.BlockTypeText},
		{domain.BlockTypeH1, domain.BlockTypeText},
		{domain.BlockTypeBullet, domain.BlockTypeBullet},
		{domain.BlockTypeNumbered, domain.BlockTypeNumbered},
		{domain.BlockTypeTodo, domain.BlockTypeTodo},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			blocks := []domain.Block{domain.NewBlock("a", tt.from, "x"), domain.NewBlock("b", domain.BlockTypeText, "y")}
			if tt.from == domain.BlockTypeTodo {
				blocks[0].Payload = domain.TodoPayload{Checked: true}
			}
			c, saver := newController(t, blocks)
			c.Focus("a")
			require.True(t, c.KeyDown(Key{Name: KeyEnter}))

			got := c.Blocks()
			require.Equal(t, []string{"a", "n1", "b"}, ids(got))
			assert.Equal(t, tt.want, got[1].Type)
			assert.Empty(t, got[1].Content)
			assert.Equal(t, "n1", c.ActiveID())
			assert.Equal(t, 1, saver.structure)
			if tt.want == domain.BlockTypeTodo {
				assert.Equal(t, domain.TodoPayload{Checked: false}, got[1].Payload)
			}
		})
	}
}

func TestEnter_MultilineKeepsDefault(t *testing.T) {
	for _, typ := range []domain.BlockType{
		domain.BlockTypeCode, domain.BlockTypeQuote, domain.BlockTypeTip,
		domain.BlockTypeWarning, domain.BlockTypeQuiz, domain.BlockTypeToggle,
	} {
		c, _ := newController(t, []domain.Block{domain.NewBlock("a", typ, "line")})
		c.Focus("a")
		assert.False(t, c.KeyDown(Key{Name: KeyEnter}), typ)
		assert.Equal(t, 1, c.Len(), typ)

		assert.True(t, c.KeyDown(Key{Name: KeyEnter, Ctrl: true}), typ)
		assert.Equal(t, 2, c.Len(), typ)
	}
}

func TestEnter_MetaForcesNewBlock(t *testing.T) {
	c, _ := newController(t, []domain.Block{domain.NewBlock("a", domain.BlockTypeCode, "ls")})
	c.Focus("a")
	require.True(t, c.KeyDown(Key{Name: KeyEnter, Meta: true}))
	assert.Equal(t, domain.BlockTypeText, c.Blocks()[1].Type)
}

func TestShortcuts_ConvertAndClear(t *testing.T) {
	tests := map[string]domain.BlockType{
		"#": domain.BlockTypeH1, "##": domain.BlockTypeH2, "###": domain.BlockTypeH3,
		"-": domain.BlockTypeBullet, "*": domain.BlockTypeBullet, "1.": domain.BlockTypeNumbered,
		"```": domain.BlockTypeCode, ">": domain.BlockTypeQuote, "[]": domain.BlockTypeTodo,
	}
	for typed, want := range tests {
		t.Run(typed, func(t *testing.T) {
			c, _ := newController(t, doc("a", "b"))
			c.Focus("a")
			c.SetContent("a", typed)
			require.True(t, c.KeyDown(Key{Name: KeySpace}))

			got, _ := c.Block("a")
			assert.Equal(t, want, got.Type)
			assert.Empty(t, got.Content)
			assert.Equal(t, domain.DefaultPayload(want), got.Payload)

			other, _ := c.Block("b")
			assert.Equal(t, "content b", other.Content)
		})
	}
}

func TestShortcuts_RepeatIsNoOpOnType(t *testing.T) {
	c, _ := newController(t, doc("a"))
	c.Focus("a")
	c.SetContent("a", "#")
	c.KeyDown(Key{Name: KeySpace})
	first, _ := c.Block("a")

	c.SetContent("a", "#")
	require.True(t, c.KeyDown(Key{Name: KeySpace}))
	second, _ := c.Block("a")

	assert.Equal(t, domain.BlockTypeH1, first.Type)
	assert.Equal(t, first.Type, second.Type)
	assert.Empty(t, second.Content)
	assert.Equal(t, first.ID, second.ID)
}

func TestShortcuts_IgnoredInCodeAndForOtherContent(t *testing.T) {
	c, _ := newController(t, []domain.Block{
		domain.NewBlock("code", domain.BlockTypeCode, "-"),
		domain.NewBlock("text", domain.BlockTypeText, "- not alone"),
	})
	c.Focus("code")
	assert.False(t, c.KeyDown(Key{Name: KeySpace}))
	c.Focus("text")
	assert.False(t, c.KeyDown(Key{Name: KeySpace}))
}

func TestDividerConversion_BothTriggers(t *testing.T) {
	c, _ := newController(t, doc("a", "b"))
	c.Focus("a")
	c.SetContent("a", "-----")
	a, _ := c.Block("a")
	assert.Equal(t, domain.BlockTypeDivider, a.Type)
	assert.Empty(t, a.Content)

	c.Focus("b")
	c.update(c.index("b"), func(b *domain.Block) { b.Content = "---" })
	require.True(t, c.KeyDown(Key{Name: KeySpace}))
	b, _ := c.Block("b")
	assert.Equal(t, domain.BlockTypeDivider, b.Type)

	c2, _ := newController(t, []domain.Block{domain.NewBlock("q", domain.BlockTypeQuote, "")})
	c2.SetContent("q", "---")
	q, _ := c2.Block("q")
	assert.Equal(t, domain.BlockTypeQuote, q.Type, "only text blocks auto-convert")
}

func TestArrows_MoveFocusAndClearSelection(t *testing.T) {
	c, _ := newController(t, doc("a", "b", "c"))
	c.Focus("b")
	c.Click("c", Modifiers{Ctrl: true})

	require.True(t, c.KeyDown(Key{Name: KeyArrowUp}))
	assert.Equal(t, "a", c.ActiveID())
	assert.Empty(t, c.Selected())

	assert.False(t, c.KeyDown(Key{Name: KeyArrowUp}), "no block above the first")
	require.True(t, c.KeyDown(Key{Name: KeyArrowDown}))
	assert.Equal(t, "b", c.ActiveID())
}

func TestShiftArrows_RangeFromAnchor(t *testing.T) {
	c, _ := newController(t, doc("a", "b", "c", "d"))
	c.Focus("b")

	require.True(t, c.KeyDown(Key{Name: KeyArrowDown, Shift: true}))
	assert.Equal(t, []string{"b", "c"}, c.Selected())
	assert.Empty(t, c.ActiveID(), "multi-selection clears the active block")

	c.KeyDown(Key{Name: KeyArrowDown, Shift: true})
	assert.Equal(t, []string{"b", "c", "d"}, c.Selected())

	c.KeyDown(Key{Name: KeyArrowUp, Shift: true})
	c.KeyDown(Key{Name: KeyArrowUp, Shift: true})
	c.KeyDown(Key{Name: KeyArrowUp, Shift: true})
	assert.Equal(t, []string{"a", "b"}, c.Selected(), "range pivots on the anchor")
}

func TestClick(t *testing.T) {
	c, _ := newController(t, doc("a", "b", "c", "d"))

	c.Click("b", Modifiers{})
	assert.Equal(t, "b", c.ActiveID())

	c.Click("d", Modifiers{Shift: true})
	assert.Equal(t, []string{"b", "c", "d"}, c.Selected())
	assert.Empty(t, c.ActiveID())

	c.Click("c", Modifiers{Ctrl: true})
	assert.Equal(t, []string{"b", "d"}, c.Selected())

	c.Click("a", Modifiers{})
	assert.Equal(t, "a", c.ActiveID())
	assert.Empty(t, c.Selected())
}

func TestSelectionInvariant(t *testing.T) {
	c, _ := newController(t, doc("a", "b", "c"))
	c.Focus("a")
	c.Click("b", Modifiers{Ctrl: true})
	assert.Equal(t, "a", c.ActiveID(), "a single selected block may coexist with focus")

	c.Click("c", Modifiers{Ctrl: true})
	assert.Empty(t, c.ActiveID())
	for _, id := range c.Selected() {
		assert.NotEqual(t, c.ActiveID(), id)
	}
}

func TestDrag_Reorder(t *testing.T) {
	c, saver := newController(t, doc("old0", "old1", "old2", "old3"))
	c.DragStart(2)
	c.DragOver(1)
	assert.Equal(t, 1, c.DragOverIndex())
	c.DragOver(0)
	require.True(t, c.Drop(0))

	assert.Equal(t, []string{"old2", "old0", "old1", "old3"}, ids(c.Blocks()))
	assert.Equal(t, -1, c.DragOverIndex())
	assert.Equal(t, 1, saver.structure)
	assert.Equal(t, []string{"old2", "old0", "old1", "old3"}, ids(saver.last))
}

func TestDrag_NoOps(t *testing.T) {
	c, saver := newController(t, doc("a", "b", "c"))
	c.DragStart(1)
	assert.False(t, c.Drop(1))
	assert.False(t, c.Drop(0), "drop after the session ended")

	c.DragStart(0)
	c.DragEnd()
	assert.False(t, c.Drop(2))
	assert.False(t, c.Move(0, 9))

	assert.Equal(t, []string{"a", "b", "c"}, ids(c.Blocks()))
	assert.Zero(t, saver.structure)

	require.True(t, c.Move(0, 2))
	assert.Equal(t, []string{"b", "c", "a"}, ids(c.Blocks()))
}

func TestContentEdits_AreNotStructural(t *testing.T) {
	c, saver := newController(t, doc("a"))
	c.SetContent("a", "x")
	c.SetContent("a", "xy")
	assert.Equal(t, 2, saver.content)
	assert.Zero(t, saver.structure)
	assert.Equal(t, "xy", saver.last[0].Content)
}

func TestToggles(t *testing.T) {
	c, saver := newController(t, []domain.Block{
		domain.NewBlock("t", domain.BlockTypeTodo, "patch"),
		domain.NewBlock("g", domain.BlockTypeToggle, "answer"),
		domain.NewBlock("x", domain.BlockTypeText, ""),
	})
	c.ToggleTodo("t")
	c.ToggleOpen("g")
	c.ToggleTodo("x")

	todo, _ := c.Block("t")
	assert.Equal(t, domain.TodoPayload{Checked: true}, todo.Payload)
	toggle, _ := c.Block("g")
	assert.Equal(t, domain.TogglePayload{Open: true}, toggle.Payload)
	assert.Equal(t, 2, saver.content)
}

func TestSetPayload(t *testing.T) {
	c, _ := newController(t, []domain.Block{domain.NewBlock("c", domain.BlockTypeCode, "ls")})
	c.SetPayload("c", domain.CodePayload{Language: "python"})
	b, _ := c.Block("c")
	assert.Equal(t, domain.CodePayload{Language: "python"}, b.Payload)
}

func TestView_RendersActiveAsControl(t *testing.T) {
	c, _ := newController(t, doc("a", "b"))
	c.Focus("b")
	c.SetContent("b", "/co")
	out := c.View(render.New(), render.English)
	assert.Contains(t, out, `<div class="row active" data-index="1" draggable="true"><input type="text" class="block-input" data-id="b"`)
	assert.Contains(t, out, `class="slash-menu"`)
	assert.Contains(t, out, "Code")
}
