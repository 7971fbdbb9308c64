// Package markdown converts the small markdown subset editors paste into
// block records, and renders inline spans of block content to HTML.
package markdown

import (
	"regexp"
	"strings"

	"academy/internal/domain"
)

const fence = "```"

var (
	headingRe  = regexp.MustCompile(`^(#{1,6})(?:\s+(.*))?$`)
	dividerRe  = regexp.MustCompile(`^(?:-{3,}|\*{3,}|_{3,})$`)
	bulletRe   = regexp.MustCompile(`^[-*]\s+(.*)$`)
	numberedRe = regexp.MustCompile(`^\d+[.)]\s+(.*)$`)
	quoteRe    = regexp.MustCompile(`^>\s+(.*)$`)
)

// parser is the single forward pass over pasted lines.
type parser struct {
	out []domain.Record

	inCode    bool
	codeLang  string
	codeLines []string

	tableLines []string

	// paragraph is true while prose lines keep appending to the last text record.
	paragraph bool
}

// Parse turns pasted plain text into block records. It never fails:
// anything it does not recognise becomes prose.
func Parse(text string) []domain.Record {
	p := &parser{}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		p.line(line)
	}
	p.flushCode()
	p.flushTable()
	return p.out
}

func (p *parser) line(line string) {
	trimmed := strings.TrimSpace(line)

	if p.inCode {
		if strings.HasPrefix(trimmed, fence) {
			p.flushCode()
			return
		}
		p.codeLines = append(p.codeLines, line)
		return
	}

	if strings.HasPrefix(trimmed, fence) {
		p.flushTable()
		p.inCode = true
		p.codeLang = strings.TrimSpace(strings.TrimPrefix(trimmed, fence))
		if p.codeLang == "" {
			p.codeLang = domain.DefaultCodeLanguage
		}
		return
	}

	if strings.HasPrefix(trimmed, "|") {
		p.tableLines = append(p.tableLines, trimmed)
		return
	}
	if trimmed == "" {
		// Blank lines end a paragraph but leave an open table alone.
		p.paragraph = false
		return
	}
	p.flushTable()

	lead := strings.TrimLeft(line, " \t")
	switch {
	case headingRe.MatchString(lead):
		m := headingRe.FindStringSubmatch(lead)
		p.emit(headingType(len(m[1])), stripEmphasis(strings.TrimSpace(m[2])))
	case dividerRe.MatchString(trimmed):
		p.emit(domain.BlockTypeDivider, "")
	case bulletRe.MatchString(lead):
		p.emit(domain.BlockTypeBullet, bulletRe.FindStringSubmatch(lead)[1])
	case numberedRe.MatchString(lead):
		p.emit(domain.BlockTypeNumbered, numberedRe.FindStringSubmatch(lead)[1])
	case quoteRe.MatchString(lead):
		p.emit(domain.BlockTypeQuote, quoteRe.FindStringSubmatch(lead)[1])
	default:
		p.prose(trimmed)
	}
}

func (p *parser) prose(line string) {
	if p.paragraph && len(p.out) > 0 && p.out[len(p.out)-1].Type == domain.BlockTypeText {
		last := &p.out[len(p.out)-1]
		last.Content += "\n" + line
		return
	}
	p.emit(domain.BlockTypeText, line)
	p.paragraph = true
}

func (p *parser) emit(t domain.BlockType, content string) {
	p.out = append(p.out, domain.Record{Type: t, Content: content, Payload: domain.DefaultPayload(t)})
	p.paragraph = false
}

func (p *parser) flushCode() {
	if !p.inCode {
		return
	}
	p.out = append(p.out, domain.Record{
		Type:    domain.BlockTypeCode,
		Content: strings.Join(p.codeLines, "\n"),
		Payload: domain.CodePayload{Language: p.codeLang},
	})
	p.inCode, p.codeLang, p.codeLines = false, "", nil
	p.paragraph = false
}

func (p *parser) flushTable() {
	if len(p.tableLines) == 0 {
		return
	}
	p.emit(domain.BlockTypeTable, strings.Join(p.tableLines, "\n"))
	p.tableLines = nil
}

// headingType clamps the number of leading hashes to the three fixed heading types.
func headingType(hashes int) domain.BlockType {
	switch hashes {
	case 1:
		return domain.BlockTypeH1
	case 2:
		return domain.BlockTypeH2
	}
	return domain.BlockTypeH3
}

// stripEmphasis removes bold or italic markup that wraps the whole string.
func stripEmphasis(s string) string {
	for {
		stripped := s
		for _, mark := range []string{"**", "__", "*", "_"} {
			if len(stripped) > 2*len(mark) && strings.HasPrefix(stripped, mark) && strings.HasSuffix(stripped, mark) {
				stripped = stripped[len(mark) : len(stripped)-len(mark)]
				break
			}
		}
		if stripped == s {
			return s
		}
		s = stripped
	}
}
