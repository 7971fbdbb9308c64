package slash

import (
	"strings"

	"go.uber.org/zap"

	"academy/internal/domain"
	"academy/internal/log"
)

const maxRecents = 3

const (
	HeaderSuggested = "Suggested"
	HeaderBasic     = "Basic Blocks"
)

// Item is one row of the menu: either a group header or a command.
type Item struct {
	Header  string   `json:"header,omitempty"`
	Command *Command `json:"command,omitempty"`
}

func (i Item) IsHeader() bool { return i.Command == nil }

// Filter builds the menu rows for a query. An empty query with recents
// shows a Suggested group then the rest of the catalog; any other case is
// a flat list with no headers.
func Filter(catalog []Command, recents []domain.BlockType, query string) []Item {
	query = strings.ToLower(strings.TrimSpace(query))
	if query != "" {
		var items []Item
		for i := range catalog {
			c := &catalog[i]
			if strings.Contains(strings.ToLower(c.Label), query) ||
				strings.Contains(strings.ToLower(c.LabelAr), query) ||
				strings.Contains(strings.ToLower(c.Description), query) {
				items = append(items, Item{Command: c})
			}
		}
		return items
	}

	byID := make(map[domain.BlockType]*Command, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}
	var suggested []Item
	seen := make(map[domain.BlockType]bool)
	for _, id := range recents {
		c, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		suggested = append(suggested, Item{Command: c})
		if len(suggested) == maxRecents {
			break
		}
	}

	if len(suggested) == 0 {
		items := make([]Item, len(catalog))
		for i := range catalog {
			items[i] = Item{Command: &catalog[i]}
		}
		return items
	}

	items := append([]Item{{Header: HeaderSuggested}}, suggested...)
	items = append(items, Item{Header: HeaderBasic})
	for i := range catalog {
		if !seen[catalog[i].ID] {
			items = append(items, Item{Command: &catalog[i]})
		}
	}
	return items
}

// ─────────────────────────────────────────────────────────────
// Menu — one editor session's slash picker
// ─────────────────────────────────────────────────────────────

// Menu holds the transient picker state plus the recency list loaded from
// its store. Recency persistence is best effort: load and save failures
// are logged and otherwise ignored.
type Menu struct {
	store   domain.RecencyStore
	logger  *zap.Logger
	catalog []Command
	recents []domain.BlockType

	open    bool
	blockID string
	query   string
	items   []Item
	index   int
}

// NewMenu loads recents from store. A nil store keeps recents in memory only.
func NewMenu(store domain.RecencyStore) *Menu {
	m := &Menu{store: store, logger: log.Get().Named("slash"), catalog: Catalog, index: -1}
	if store == nil {
		return m
	}
	ids, err := store.LoadRecents()
	if err != nil {
		m.logger.Warn("load recents failed", zap.Error(err))
		return m
	}
	for _, id := range ids {
		t := domain.BlockType(id)
		if _, ok := Lookup(t); ok && len(m.recents) < maxRecents {
			m.recents = append(m.recents, t)
		}
	}
	return m
}

// Open attaches the menu to a block and filters by query.
func (m *Menu) Open(blockID, query string) {
	m.open = true
	m.blockID = blockID
	m.SetQuery(query)
}

// SetQuery refilters and highlights the first command row.
func (m *Menu) SetQuery(query string) {
	m.query = query
	m.items = Filter(m.catalog, m.recents, query)
	m.index = m.next(-1, 1)
}

// Close discards the transient state. Recents are untouched.
func (m *Menu) Close() {
	m.open = false
	m.blockID = ""
	m.query = ""
	m.items = nil
	m.index = -1
}

func (m *Menu) IsOpen() bool    { return m.open }
func (m *Menu) BlockID() string { return m.blockID }
func (m *Menu) Query() string   { return m.query }
func (m *Menu) Items() []Item   { return m.items }
func (m *Menu) Index() int      { return m.index }

func (m *Menu) Recents() []domain.BlockType {
	return append([]domain.BlockType(nil), m.recents...)
}

// Highlighted returns the command under the cursor.
func (m *Menu) Highlighted() (Command, bool) {
	if m.index < 0 || m.index >= len(m.items) || m.items[m.index].IsHeader() {
		return Command{}, false
	}
	return *m.items[m.index].Command, true
}

// Move shifts the highlight by delta command rows, skipping headers and
// stopping at either end.
func (m *Menu) Move(delta int) {
	if delta == 0 {
		return
	}
	step := 1
	if delta < 0 {
		step, delta = -1, -delta
	}
	for ; delta > 0; delta-- {
		n := m.next(m.index, step)
		if n < 0 {
			return
		}
		m.index = n
	}
}

// next returns the first command row after from in direction step, or -1.
func (m *Menu) next(from, step int) int {
	for i := from + step; i >= 0 && i < len(m.items); i += step {
		if !m.items[i].IsHeader() {
			return i
		}
	}
	return -1
}

// Commit selects the highlighted command, records it as most recent and
// closes the menu.
func (m *Menu) Commit() (Command, bool) {
	return m.CommitAt(m.index)
}

// CommitAt selects the row at i, as a pointer click does. Headers cannot be committed.
func (m *Menu) CommitAt(i int) (Command, bool) {
	if !m.open || i < 0 || i >= len(m.items) || m.items[i].IsHeader() {
		return Command{}, false
	}
	c := *m.items[i].Command
	m.touch(c.ID)
	m.Close()
	return c, true
}

func (m *Menu) touch(id domain.BlockType) {
	recents := []domain.BlockType{id}
	for _, r := range m.recents {
		if r != id && len(recents) < maxRecents {
			recents = append(recents, r)
		}
	}
	m.recents = recents

	if m.store == nil {
		return
	}
	ids := make([]string, len(recents))
	for i, r := range recents {
		ids[i] = string(r)
	}
	if err := m.store.SaveRecents(ids); err != nil {
		m.logger.Warn("save recents failed", zap.Error(err))
	}
}
