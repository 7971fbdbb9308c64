package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy/internal/domain"
	"academy/internal/storage"
)

func openDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "academy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTopicBlockStore_ApplyAndList(t *testing.T) {
	ctx := context.Background()
	store := openDB(t).Blocks()

	res, err := store.Apply(ctx, domain.Batch{
		TopicID: "sqli",
		Creates: []domain.BlockCreate{
			{LocalID: "l1", Block: domain.StoredBlock{Type: domain.BlockTypeH1, Content: "SQL Injection", Order: 0}},
			{LocalID: "l2", Block: domain.StoredBlock{
				Type: domain.BlockTypeQuiz, Order: 1,
				Metadata: domain.QuizPayload{Variant: domain.QuizFlag, CorrectFlag: "FLAG{x}", Options: []string{}}.Metadata(),
			}},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Created, 2)
	assert.NotEqual(t, res.Created["l1"], res.Created["l2"])

	blocks, err := store.ListBlocks(ctx, "sqli")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, res.Created["l1"], blocks[0].ID)
	assert.Equal(t, "sqli", blocks[0].TopicID)
	assert.Equal(t, "SQL Injection", blocks[0].Content)
	assert.False(t, blocks[0].CreatedAt.IsZero())

	quiz := blocks[1].Block(blocks[1].ID).Payload.(domain.QuizPayload)
	assert.Equal(t, domain.QuizFlag, quiz.Variant)
	assert.Equal(t, "FLAG{x}", quiz.CorrectFlag)

	other, err := store.ListBlocks(ctx, "xss")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestTopicBlockStore_UpdatesReorderAndDeletes(t *testing.T) {
	ctx := context.Background()
	store := openDB(t).Blocks()

	res, err := store.Apply(ctx, domain.Batch{
		TopicID: "t",
		Creates: []domain.BlockCreate{
			{LocalID: "a", Block: domain.StoredBlock{Type: domain.BlockTypeText, Content: "a", Order: 0}},
			{LocalID: "b", Block: domain.StoredBlock{Type: domain.BlockTypeText, Content: "b", Order: 1}},
			{LocalID: "c", Block: domain.StoredBlock{Type: domain.BlockTypeText, Content: "c", Order: 2}},
		},
	})
	require.NoError(t, err)

	_, err = store.Apply(ctx, domain.Batch{
		TopicID: "t",
		Updates: []domain.StoredBlock{
			{ID: res.Created["c"], Type: domain.BlockTypeCode, Content: "ls", Order: 0, Metadata: map[string]any{"language": "bash"}},
			{ID: res.Created["a"], Type: domain.BlockTypeText, Content: "a2", Order: 1},
		},
		Deletes: []string{res.Created["b"]},
	})
	require.NoError(t, err)

	blocks, err := store.ListBlocks(ctx, "t")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, res.Created["c"], blocks[0].ID)
	assert.Equal(t, domain.BlockTypeCode, blocks[0].Type)
	assert.Equal(t, map[string]any{"language": "bash"}, blocks[0].Metadata)
	assert.Equal(t, "a2", blocks[1].Content)
}

func TestTopicBlockStore_UpdateOfMissingRowReinserts(t *testing.T) {
	ctx := context.Background()
	store := openDB(t).Blocks()

	_, err := store.Apply(ctx, domain.Batch{
		TopicID: "t",
		Updates: []domain.StoredBlock{{ID: "vanished", Type: domain.BlockTypeText, Content: "back", CreatedAt: time.Now()}},
	})
	require.NoError(t, err)

	blocks, err := store.ListBlocks(ctx, "t")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "vanished", blocks[0].ID)
}

func TestTopicBlockStore_FailedBatchRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	store := db.Blocks()

	_, err := db.Conn().Exec(`DROP TABLE topic_blocks`)
	require.NoError(t, err)
	_, err = store.Apply(ctx, domain.Batch{
		TopicID: "t",
		Creates: []domain.BlockCreate{{LocalID: "a", Block: domain.StoredBlock{Type: domain.BlockTypeText}}},
	})
	assert.Error(t, err)

	require.NoError(t, storage.Migrate(db.Conn(), storage.SQLite))
	res, err := store.Apply(ctx, domain.Batch{
		TopicID: "t",
		Creates: []domain.BlockCreate{{LocalID: "a", Block: domain.StoredBlock{Type: domain.BlockTypeText}}},
		Updates: []domain.StoredBlock{{ID: "x", Type: domain.BlockTypeText, Metadata: map[string]any{"bad": func() {}}}},
	})
	assert.Error(t, err, "unencodable metadata aborts the batch")
	assert.Empty(t, res.Created)

	blocks, err := store.ListBlocks(ctx, "t")
	require.NoError(t, err)
	assert.Empty(t, blocks, "the create was rolled back")
}

func TestSettingsStore_Recents(t *testing.T) {
	db := openDB(t)
	s := storage.NewSettingsStore(db)

	ids, err := s.LoadRecents()
	require.NoError(t, err)
	assert.Nil(t, ids)

	require.NoError(t, s.SaveRecents([]string{"code", "quiz"}))
	require.NoError(t, s.SaveRecents([]string{"todo", "code", "quiz"}))
	ids, err = s.LoadRecents()
	require.NoError(t, err)
	assert.Equal(t, []string{"todo", "code", "quiz"}, ids)

	require.NoError(t, s.Set("slash_recents", "{not json"))
	_, err = s.LoadRecents()
	assert.Error(t, err)
}
