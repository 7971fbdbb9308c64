package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy/internal/domain"
	"academy/internal/slash"
)

func TestPaste_PlainProseIsLeftToInput(t *testing.T) {
	c, saver := newController(t, doc("a"))
	c.Focus("a")
	assert.False(t, c.Paste("just a sentence\nthat wraps"))
	assert.False(t, c.Paste(""))
	assert.Equal(t, 1, c.Len())
	assert.Zero(t, saver.structure)
}

func TestPaste_IntoEmptyBlockReplacesIt(t *testing.T) {
	c, saver := newController(t, []domain.Block{
		domain.NewBlock("a", domain.BlockTypeText, ""),
		domain.NewBlock("z", domain.BlockTypeText, "tail"),
	})
	c.Focus("a")
	require.True(t, c.Paste("# Title\n```python\nprint(1)\n```\n- item"))

	got := c.Blocks()
	assert.Equal(t, []string{"a", "n1", "n2", "z"}, ids(got))
	assert.Equal(t, domain.BlockTypeH1, got[0].Type)
	assert.Equal(t, "Title", got[0].Content)
	assert.Equal(t, domain.CodePayload{Language: "python"}, got[1].Payload)
	assert.Equal(t, domain.BlockTypeBullet, got[2].Type)
	assert.Equal(t, "n2", c.ActiveID(), "focus lands on the last inserted block")
	assert.Equal(t, 1, saver.structure)
}

func TestPaste_AfterNonEmptyBlock(t *testing.T) {
	c, _ := newController(t, doc("a", "z"))
	c.Focus("a")
	require.True(t, c.Paste("- one\n- two"))
	assert.Equal(t, []string{"a", "n1", "n2", "z"}, ids(c.Blocks()))
	a, _ := c.Block("a")
	assert.Equal(t, "content a", a.Content)
}

func TestPaste_RequiresActiveBlock(t *testing.T) {
	c, _ := newController(t, doc("a"))
	assert.False(t, c.Paste("- one\n- two"))
}

func TestPasteBlock_ExpandsOnNextChange(t *testing.T) {
	c, saver := newController(t, doc("a", "z"))
	c.Focus("a")
	c.Convert("a", domain.BlockTypePaste)
	a, _ := c.Block("a")
	require.Equal(t, domain.BlockTypePaste, a.Type)

	c.SetContent("a", "## Setup\n| a | b |\n|---|---|\n| 1 | 2 |")
	got := c.Blocks()
	assert.Equal(t, []string{"a", "n1", "z"}, ids(got))
	assert.Equal(t, domain.BlockTypeH2, got[0].Type)
	assert.Equal(t, domain.BlockTypeTable, got[1].Type)
	assert.Equal(t, 1, saver.structure)
}

func TestPasteBlock_EmptyContentBecomesText(t *testing.T) {
	c, _ := newController(t, doc("a"))
	c.Convert("a", domain.BlockTypePaste)
	c.SetContent("a", "  ")
	a, _ := c.Block("a")
	assert.Equal(t, domain.BlockTypeText, a.Type)
	assert.Empty(t, a.Content)
}

func TestAppend_ReplacesSingleEmptyBlock(t *testing.T) {
	c, _ := newController(t, nil)
	c.Append([]domain.Record{{Type: domain.BlockTypeH1, Content: "Intro"}, {Type: domain.BlockTypeText, Content: "body"}})
	got := c.Blocks()
	assert.Equal(t, []string{"n1", "n2"}, ids(got))
	assert.Equal(t, "Intro", got[0].Content)

	c.Append([]domain.Record{{Type: domain.BlockTypeDivider}})
	assert.Equal(t, 3, c.Len())
}

func TestReplaceAll_AssignsFreshIDs(t *testing.T) {
	c, saver := newController(t, doc("a", "b"))
	c.ReplaceAll([]domain.Record{{Type: domain.BlockTypeQuote, Content: "q"}})
	got := c.Blocks()
	require.Len(t, got, 1)
	assert.NotContains(t, []string{"a", "b"}, got[0].ID)
	assert.Equal(t, domain.BlockTypeQuote, got[0].Type)
	assert.Equal(t, 1, saver.structure)
}

func TestSlashMenu_TypingOpensAndEnterConverts(t *testing.T) {
	c, _ := newController(t, doc("a", "b"))
	c.Focus("b")
	c.SetContent("b", "/quiz")

	require.True(t, c.Menu().IsOpen())
	assert.Equal(t, "b", c.Menu().BlockID())
	assert.Equal(t, "quiz", c.Menu().Query())

	require.True(t, c.KeyDown(Key{Name: KeyEnter}))
	b, _ := c.Block("b")
	assert.Equal(t, domain.BlockTypeQuiz, b.Type)
	assert.Empty(t, b.Content)
	assert.Equal(t, domain.QuizPayload{Variant: domain.QuizMultipleChoice}, b.Payload)
	assert.False(t, c.Menu().IsOpen())
	assert.Equal(t, 2, c.Len(), "Enter is consumed by the menu")
	assert.Equal(t, []domain.BlockType{domain.BlockTypeQuiz}, c.Menu().Recents())
}

func TestSlashMenu_ClosesWhenSlashRemoved(t *testing.T) {
	c, _ := newController(t, doc("a"))
	c.Focus("a")
	c.SetContent("a", "/co")
	require.True(t, c.Menu().IsOpen())
	c.SetContent("a", "co")
	assert.False(t, c.Menu().IsOpen())
}

func TestSlashMenu_ArrowsAndEscape(t *testing.T) {
	menu := slash.NewMenu(nil)
	c := New(doc("a", "b"), WithMenu(menu), WithIDs(sequentialIDs()))
	c.Focus("a")
	c.SetContent("a", "/")

	require.True(t, c.KeyDown(Key{Name: KeyArrowDown}))
	assert.Equal(t, "a", c.ActiveID(), "arrows drive the menu, not focus")
	cmd, ok := menu.Highlighted()
	require.True(t, ok)
	assert.Equal(t, slash.Catalog[1].ID, cmd.ID)

	require.True(t, c.KeyDown(Key{Name: KeyEscape}))
	assert.False(t, menu.IsOpen())
	a, _ := c.Block("a")
	assert.Equal(t, "/", a.Content, "escape keeps the typed text")
}

func TestSlashMenu_PointerChoice(t *testing.T) {
	c, _ := newController(t, doc("a"))
	c.Focus("a")
	c.SetContent("a", "/div")
	require.True(t, c.ChooseCommand(0))
	a, _ := c.Block("a")
	assert.Equal(t, domain.BlockTypeDivider, a.Type)
}

func TestSlashMenu_StaysClosedInCodeLikeBlocks(t *testing.T) {
	for _, typ := range []domain.BlockType{
		domain.BlockTypeCode, domain.BlockTypeQuote, domain.BlockTypeTable, domain.BlockTypeImage,
	} {
		c, _ := newController(t, []domain.Block{domain.NewBlock("a", typ, "")})
		c.Focus("a")
		c.SetContent("a", "/t")
		assert.False(t, c.Menu().IsOpen(), typ)
	}
}

func TestSlashMenu_EnterInCodeBlockIsANewline(t *testing.T) {
	c, _ := newController(t, []domain.Block{domain.NewBlock("a", domain.BlockTypeCode, "")})
	c.Focus("a")

	c.SetContent("a", "/usr/bin/env python")
	assert.False(t, c.KeyDown(Key{Name: KeyEnter}))

	c.SetContent("a", "/t")
	assert.False(t, c.KeyDown(Key{Name: KeyEnter}))
	a, _ := c.Block("a")
	assert.Equal(t, domain.BlockTypeCode, a.Type)
	assert.Equal(t, "/t", a.Content)
	assert.Equal(t, 1, c.Len())
}

func TestSlashMenu_EnterWithoutMatchCreatesBlock(t *testing.T) {
	c, _ := newController(t, doc("a"))
	c.Focus("a")
	c.SetContent("a", "/etc/hosts is the file")
	require.True(t, c.Menu().IsOpen())
	_, ok := c.Menu().Highlighted()
	require.False(t, ok)

	require.True(t, c.KeyDown(Key{Name: KeyEnter}))
	assert.False(t, c.Menu().IsOpen())
	require.Equal(t, 2, c.Len())
	a, _ := c.Block("a")
	assert.Equal(t, "/etc/hosts is the file", a.Content)
	assert.Equal(t, c.Blocks()[1].ID, c.ActiveID())
}

func TestPaste_VerbatimInCodeAndURLBlocks(t *testing.T) {
	for _, typ := range []domain.BlockType{
		domain.BlockTypeCode, domain.BlockTypeTable, domain.BlockTypeImage, domain.BlockTypeYouTube,
	} {
		c, saver := newController(t, []domain.Block{domain.NewBlock("a", typ, "")})
		c.Focus("a")
		assert.False(t, c.Paste("# install deps\npip install -r requirements.txt\n- not a bullet"), typ)

		got := c.Blocks()
		require.Len(t, got, 1, typ)
		assert.Equal(t, typ, got[0].Type)
		assert.Zero(t, saver.structure, typ)
	}
}
