package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"academy/internal/domain"
)

// TopicBlockStore implements domain.BlockStore on any SQL dialect.
type TopicBlockStore struct {
	conn    *sql.DB
	dialect Dialect
}

func NewTopicBlockStore(conn *sql.DB, d Dialect) *TopicBlockStore {
	return &TopicBlockStore{conn: conn, dialect: d}
}

// ListBlocks returns a topic's blocks ordered by position.
func (s *TopicBlockStore) ListBlocks(ctx context.Context, topicID string) ([]domain.StoredBlock, error) {
	rows, err := s.conn.QueryContext(ctx, s.dialect.bind(
		`SELECT id, topic_id, type, content, metadata_json, sort_order, created_at FROM topic_blocks
		 WHERE topic_id = ? ORDER BY sort_order ASC, created_at ASC`), topicID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	var blocks []domain.StoredBlock
	for rows.Next() {
		var (
			b    domain.StoredBlock
			meta string
		)
		if err := rows.Scan(&b.ID, &b.TopicID, &b.Type, &b.Content, &meta, &b.Order, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		b.Metadata = decodeMetadata(meta)
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// decodeMetadata tolerates corrupt rows by returning an empty map.
func decodeMetadata(raw string) map[string]any {
	m := map[string]any{}
	if raw == "" {
		return m
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return map[string]any{}
	}
	return m
}

// Apply commits a reconciliation batch in one transaction. An update whose
// row has disappeared is written back as an insert with the same id.
func (s *TopicBlockStore) Apply(ctx context.Context, batch domain.Batch) (domain.BatchResult, error) {
	res := domain.BatchResult{Created: make(map[string]string, len(batch.Creates))}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, c := range batch.Creates {
		b := c.Block
		b.ID = uuid.NewString()
		b.TopicID = batch.TopicID
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if err := s.insert(ctx, tx, b, now); err != nil {
			return domain.BatchResult{}, err
		}
		res.Created[c.LocalID] = b.ID
	}

	for _, b := range batch.Updates {
		meta, err := encodeMetadata(b.Metadata)
		if err != nil {
			return domain.BatchResult{}, err
		}
		r, err := tx.ExecContext(ctx, s.dialect.bind(
			`UPDATE topic_blocks SET type = ?, content = ?, metadata_json = ?, sort_order = ?, updated_at = ?
			 WHERE id = ? AND topic_id = ?`),
			string(b.Type), b.Content, meta, b.Order, now, b.ID, batch.TopicID)
		if err != nil {
			return domain.BatchResult{}, fmt.Errorf("update block %s: %w", b.ID, err)
		}
		if n, err := r.RowsAffected(); err == nil && n == 0 {
			b.TopicID = batch.TopicID
			if b.CreatedAt.IsZero() {
				b.CreatedAt = now
			}
			if err := s.insert(ctx, tx, b, now); err != nil {
				return domain.BatchResult{}, err
			}
		}
	}

	for _, id := range batch.Deletes {
		if _, err := tx.ExecContext(ctx, s.dialect.bind(
			`DELETE FROM topic_blocks WHERE id = ? AND topic_id = ?`), id, batch.TopicID); err != nil {
			return domain.BatchResult{}, fmt.Errorf("delete block %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.BatchResult{}, fmt.Errorf("commit: %w", err)
	}
	return res, nil
}

func (s *TopicBlockStore) insert(ctx context.Context, tx *sql.Tx, b domain.StoredBlock, now time.Time) error {
	meta, err := encodeMetadata(b.Metadata)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, s.dialect.bind(
		`INSERT INTO topic_blocks (id, topic_id, type, content, metadata_json, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		b.ID, b.TopicID, string(b.Type), b.Content, meta, b.Order, b.CreatedAt, now)
	if err != nil {
		return fmt.Errorf("insert block %s: %w", b.ID, err)
	}
	return nil
}

func encodeMetadata(m map[string]any) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(raw), nil
}
