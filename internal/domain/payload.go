package domain

// Payload carries the per-type fields of a block. The set of variants is
// closed; blocks of unknown types keep their metadata in a RawPayload.
type Payload interface {
	Metadata() map[string]any
	isPayload()
}

type QuizVariant string

const (
	QuizMultipleChoice QuizVariant = "multiple_choice"
	QuizFlag           QuizVariant = "flag"
)

const DefaultCodeLanguage = "bash"

type CodePayload struct {
	Language string
}

type TodoPayload struct {
	Checked bool
}

type TogglePayload struct {
	Open    bool
	Details string
}

type HeadingPayload struct {
	Level int
}

type QuizPayload struct {
	Variant       QuizVariant
	Question      string
	Options       []string
	CorrectAnswer int
	CorrectFlag   string
	FlagPattern   string
	Hint          string
	Explanation   string
}

// RawPayload round-trips metadata the model does not understand.
type RawPayload map[string]any

func (CodePayload) isPayload()    {}
func (TodoPayload) isPayload()    {}
func (TogglePayload) isPayload()  {}
func (HeadingPayload) isPayload() {}
func (QuizPayload) isPayload()    {}
func (RawPayload) isPayload()     {}

func (p CodePayload) Metadata() map[string]any {
	return map[string]any{"language": p.Language}
}

func (p TodoPayload) Metadata() map[string]any {
	return map[string]any{"checked": p.Checked}
}

func (p TogglePayload) Metadata() map[string]any {
	return map[string]any{"isOpen": p.Open, "details": p.Details}
}

func (p HeadingPayload) Metadata() map[string]any {
	return map[string]any{"level": p.Level}
}

func (p QuizPayload) Metadata() map[string]any {
	options := make([]any, len(p.Options))
	for i, o := range p.Options {
		options[i] = o
	}
	return map[string]any{
		"quizType":      string(p.Variant),
		"question":      p.Question,
		"options":       options,
		"correctAnswer": p.CorrectAnswer,
		"correctFlag":   p.CorrectFlag,
		"flagPattern":   p.FlagPattern,
		"hint":          p.Hint,
		"explanation":   p.Explanation,
	}
}

func (p RawPayload) Metadata() map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// DefaultPayload returns the payload a freshly created or converted block starts with.
func DefaultPayload(t BlockType) Payload {
	switch t {
	case BlockTypeCode:
		return CodePayload{Language: DefaultCodeLanguage}
	case BlockTypeTodo:
		return TodoPayload{}
	case BlockTypeToggle:
		return TogglePayload{}
	case BlockTypeHeading:
		return HeadingPayload{Level: 1}
	case BlockTypeQuiz:
		return QuizPayload{Variant: QuizMultipleChoice}
	}
	return nil
}

// PayloadFromMetadata decodes the open metadata map of a stored block.
// Values of the wrong shape fall back to the zero value of the field.
func PayloadFromMetadata(t BlockType, m map[string]any) Payload {
	switch t {
	case BlockTypeCode:
		lang := metaString(m, "language")
		if lang == "" {
			lang = DefaultCodeLanguage
		}
		return CodePayload{Language: lang}
	case BlockTypeTodo:
		return TodoPayload{Checked: metaBool(m, "checked")}
	case BlockTypeToggle:
		return TogglePayload{Open: metaBool(m, "isOpen"), Details: metaString(m, "details")}
	case BlockTypeHeading:
		level := metaInt(m, "level")
		if level < 1 || level > 6 {
			level = 1
		}
		return HeadingPayload{Level: level}
	case BlockTypeQuiz:
		variant := QuizVariant(metaString(m, "quizType"))
		if variant != QuizFlag {
			variant = QuizMultipleChoice
		}
		return QuizPayload{
			Variant:       variant,
			Question:      metaString(m, "question"),
			Options:       metaStrings(m, "options"),
			CorrectAnswer: metaInt(m, "correctAnswer"),
			CorrectFlag:   metaString(m, "correctFlag"),
			FlagPattern:   metaString(m, "flagPattern"),
			Hint:          metaString(m, "hint"),
			Explanation:   metaString(m, "explanation"),
		}
	}
	if !t.Known() && len(m) > 0 {
		return RawPayload(RawPayload(m).Metadata())
	}
	return nil
}

func metaString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func metaBool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// metaInt accepts the numeric types produced by encoding/json, database
// drivers and BSON.
func metaInt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func metaStrings(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
