package domain

import "context"

// Batch is one reconciliation of a topic: every write in it commits or none does.
type Batch struct {
	TopicID string
	Creates []BlockCreate
	Updates []StoredBlock
	Deletes []string // remote ids
}

// BlockCreate asks the store to create a record for a block known locally as LocalID.
type BlockCreate struct {
	LocalID string
	Block   StoredBlock
}

// BatchResult maps the LocalID of every created block to its new remote id.
type BatchResult struct {
	Created map[string]string
}

// Empty reports whether the batch carries no writes.
func (b Batch) Empty() bool {
	return len(b.Creates) == 0 && len(b.Updates) == 0 && len(b.Deletes) == 0
}

// BlockStore is the external persistence collaborator for topic blocks.
type BlockStore interface {
	// ListBlocks returns all blocks of a topic, ideally ordered by Order.
	ListBlocks(ctx context.Context, topicID string) ([]StoredBlock, error)
	// Apply commits a batch atomically.
	Apply(ctx context.Context, batch Batch) (BatchResult, error)
}

// RecencyStore persists the slash-menu recency list across sessions.
type RecencyStore interface {
	LoadRecents() ([]string, error)
	SaveRecents(ids []string) error
}
