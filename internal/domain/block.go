package domain

import "time"

type BlockType string

const (
	BlockTypeText     BlockType = "text"
	BlockTypeH1       BlockType = "h1"
	BlockTypeH2       BlockType = "h2"
	BlockTypeH3       BlockType = "h3"
	BlockTypeHeading  BlockType = "heading"
	BlockTypeBullet   BlockType = "bullet"
	BlockTypeList     BlockType = "list"
	BlockTypeNumbered BlockType = "numbered"
	BlockTypeTodo     BlockType = "todo"
	BlockTypeToggle   BlockType = "toggle"
	BlockTypeQuote    BlockType = "quote"
	BlockTypeCode     BlockType = "code"
	BlockTypeYouTube  BlockType = "youtube"
	BlockTypeImage    BlockType = "image"
	BlockTypeTable    BlockType = "table"
	BlockTypeQuiz     BlockType = "quiz"
	BlockTypeTip      BlockType = "tip"
	BlockTypeInfo     BlockType = "info"
	BlockTypeWarning  BlockType = "warning"
	BlockTypeDivider  BlockType = "divider"
	// BlockTypePaste marks a block whose next content change is parsed
	// into structured blocks. It is never persisted.
	BlockTypePaste BlockType = "paste"
)

var knownTypes = map[BlockType]struct{}{
	BlockTypeText: {}, BlockTypeH1: {}, BlockTypeH2: {}, BlockTypeH3: {},
	BlockTypeHeading: {}, BlockTypeBullet: {}, BlockTypeList: {}, BlockTypeNumbered: {},
	BlockTypeTodo: {}, BlockTypeToggle: {}, BlockTypeQuote: {}, BlockTypeCode: {},
	BlockTypeYouTube: {}, BlockTypeImage: {}, BlockTypeTable: {}, BlockTypeQuiz: {},
	BlockTypeTip: {}, BlockTypeInfo: {}, BlockTypeWarning: {}, BlockTypeDivider: {},
	BlockTypePaste: {},
}

// Known reports whether t belongs to the fixed tag set.
func (t BlockType) Known() bool {
	_, ok := knownTypes[t]
	return ok
}

// Multiline reports whether Enter inserts a literal newline inside the block
// instead of starting a new block.
func (t BlockType) Multiline() bool {
	switch t {
	case BlockTypeCode, BlockTypeQuote, BlockTypeTip, BlockTypeWarning, BlockTypeQuiz, BlockTypeToggle:
		return true
	}
	return false
}

// ListLike reports whether a new block created by Enter carries the type forward.
func (t BlockType) ListLike() bool {
	return t == BlockTypeBullet || t == BlockTypeNumbered || t == BlockTypeTodo
}

// Block is one typed unit of a topic's content. Order is implicit in the
// position of the block within its document.
type Block struct {
	ID      string    `json:"id"`
	Type    BlockType `json:"type"`
	Content string    `json:"content"`
	Payload Payload   `json:"-"`
}

// NewBlock returns a block of the given type with its default payload.
func NewBlock(id string, t BlockType, content string) Block {
	return Block{ID: id, Type: t, Content: content, Payload: DefaultPayload(t)}
}

// Metadata flattens the payload into the open map used at the persistence boundary.
func (b Block) Metadata() map[string]any {
	if b.Payload == nil {
		return map[string]any{}
	}
	return b.Payload.Metadata()
}

// Record is a parsed block without identity; the caller assigns ids.
type Record struct {
	Type    BlockType
	Content string
	Payload Payload
}

// StoredBlock is the persisted shape of a block, keyed by a remote id
// assigned by the store.
type StoredBlock struct {
	ID        string         `json:"id" bson:"_id"`
	TopicID   string         `json:"topicId" bson:"topicId"`
	Type      BlockType      `json:"type" bson:"type"`
	Content   string         `json:"content" bson:"content"`
	Metadata  map[string]any `json:"metadata" bson:"metadata"`
	Order     int            `json:"order" bson:"order"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
}

// Block converts a stored record into an in-memory block using localID as identity.
func (s StoredBlock) Block(localID string) Block {
	return Block{
		ID:      localID,
		Type:    s.Type,
		Content: s.Content,
		Payload: PayloadFromMetadata(s.Type, s.Metadata),
	}
}
