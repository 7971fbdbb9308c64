package render

import (
	"regexp"
	"strings"
)

type Align string

const (
	AlignDefault Align = ""
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
)

// Table is the parsed form of a pipe-table block. Rows may have any
// number of cells; nothing is padded or truncated.
type Table struct {
	Headers []string
	Aligns  []Align
	Rows    [][]string
}

var alignCellRe = regexp.MustCompile(`^:?-+:?$`)

// ParseTable reads markdown pipe-table source. The first non-empty line is
// the header. The second line is read as alignment markers when every cell
// looks like one, otherwise it is the first data row.
func ParseTable(content string) Table {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	var t Table
	if len(lines) == 0 {
		return t
	}
	t.Headers = splitRow(lines[0])
	rest := lines[1:]
	if len(rest) > 0 {
		if aligns, ok := parseAligns(rest[0]); ok {
			t.Aligns = aligns
			rest = rest[1:]
		}
	}
	for _, line := range rest {
		t.Rows = append(t.Rows, splitRow(line))
	}
	return t
}

// splitRow splits on | and drops the empty fields produced by a leading
// or trailing pipe. Rows without the outer pipes are accepted as-is.
func splitRow(line string) []string {
	fields := strings.Split(strings.TrimSpace(line), "|")
	if len(fields) > 0 && strings.TrimSpace(fields[0]) == "" {
		fields = fields[1:]
	}
	if len(fields) > 0 && strings.TrimSpace(fields[len(fields)-1]) == "" {
		fields = fields[:len(fields)-1]
	}
	cells := make([]string, len(fields))
	for i, f := range fields {
		cells[i] = strings.TrimSpace(f)
	}
	return cells
}

func parseAligns(line string) ([]Align, bool) {
	cells := splitRow(line)
	if len(cells) == 0 {
		return nil, false
	}
	aligns := make([]Align, len(cells))
	for i, c := range cells {
		if !alignCellRe.MatchString(c) {
			return nil, false
		}
		left, right := strings.HasPrefix(c, ":"), strings.HasSuffix(c, ":")
		switch {
		case left && right:
			aligns[i] = AlignCenter
		case right:
			aligns[i] = AlignRight
		case left:
			aligns[i] = AlignLeft
		}
	}
	return aligns, true
}

// AlignAt returns the alignment for column i, tolerating short alignment rows.
func (t Table) AlignAt(i int) Align {
	if i < len(t.Aligns) {
		return t.Aligns[i]
	}
	return AlignDefault
}
