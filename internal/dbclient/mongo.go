package dbclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"academy/internal/config"
	"academy/internal/domain"
	"academy/internal/log"
)

const blocksCollection = "topic_blocks"

// mongoConnector keeps topic blocks as documents in one collection.
// Batches run in a multi-document transaction, so the server must be a
// replica set member or mongos.
type mongoConnector struct {
	client *mongo.Client
	dbName string
}

func openMongo(ctx context.Context, cfg config.Storage) (*mongoConnector, error) {
	uri, dbName := buildMongoURI(cfg)

	// Mask password in URI for logging
	logURI := uri
	if cfg.Password != "" {
		logURI = strings.ReplaceAll(logURI, cfg.Password, "***")
	}
	log.Get().Debug("connecting to mongo", zap.String("uri", logURI), zap.String("database", dbName))

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	m := &mongoConnector{client: client, dbName: dbName}

	idxCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	_, err = m.collection().Indexes().CreateOne(idxCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "topicId", Value: 1}, {Key: "order", Value: 1}},
	})
	if err != nil {
		m.Close()
		return nil, fmt.Errorf("create mongo index: %w", err)
	}
	return m, nil
}

// buildMongoURI returns the connection URI and database name. A DSN or a host
// that is already a mongodb:// or mongodb+srv:// URI is used as given.
func buildMongoURI(cfg config.Storage) (uri, dbName string) {
	raw := cfg.DSN
	if raw == "" && (strings.HasPrefix(cfg.Host, "mongodb+srv://") || strings.HasPrefix(cfg.Host, "mongodb://")) {
		raw = cfg.Host
	}

	if raw != "" {
		uri = raw
		// Replace <password> placeholder commonly found in Atlas connection strings
		if cfg.Password != "" {
			uri = strings.ReplaceAll(uri, "<password>", cfg.Password)
			uri = strings.ReplaceAll(uri, "<db_password>", cfg.Password)
		}
	} else {
		port := cfg.Port
		if port == 0 {
			port = 27017
		}
		host := cfg.Host
		if host == "" {
			host = "localhost"
		}
		if cfg.User != "" {
			uri = fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.User, cfg.Password, host, port)
		} else {
			uri = fmt.Sprintf("mongodb://%s:%d", host, port)
		}
	}

	dbName = cfg.Database
	if dbName == "" {
		dbName = databaseFromURI(uri)
	}
	if dbName == "" {
		dbName = "academy"
	}
	return uri, dbName
}

// databaseFromURI extracts the path part of user:pass@host/DB_NAME?params.
func databaseFromURI(uri string) string {
	rest := uri
	for _, prefix := range []string{"mongodb+srv://", "mongodb://"} {
		if strings.HasPrefix(rest, prefix) {
			rest = rest[len(prefix):]
			break
		}
	}
	if at := strings.LastIndex(rest, "@"); at != -1 {
		rest = rest[at+1:]
	}
	slash := strings.Index(rest, "/")
	if slash == -1 {
		return ""
	}
	path := rest[slash+1:]
	if q := strings.Index(path, "?"); q != -1 {
		path = path[:q]
	}
	return path
}

func (m *mongoConnector) collection() *mongo.Collection {
	return m.client.Database(m.dbName).Collection(blocksCollection)
}

func (m *mongoConnector) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return m.client.Ping(ctx, nil)
}

func (m *mongoConnector) ListBlocks(ctx context.Context, topicID string) ([]domain.StoredBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := m.collection().Find(ctx, bson.M{"topicId": topicID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	var blocks []domain.StoredBlock
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}
	for i := range blocks {
		blocks[i].Metadata = normalizeDoc(blocks[i].Metadata)
	}
	return blocks, nil
}

func (m *mongoConnector) Apply(ctx context.Context, batch domain.Batch) (domain.BatchResult, error) {
	sess, err := m.client.StartSession()
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(context.Background())

	var res domain.BatchResult
	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		// The callback may be retried, so the result is rebuilt each attempt.
		res = domain.BatchResult{Created: make(map[string]string, len(batch.Creates))}
		return nil, m.applyInTx(ctx, batch, res)
	})
	if err != nil {
		return domain.BatchResult{}, err
	}
	return res, nil
}

func (m *mongoConnector) applyInTx(ctx context.Context, batch domain.Batch, res domain.BatchResult) error {
	coll := m.collection()
	now := time.Now().UTC()

	for _, c := range batch.Creates {
		b := c.Block
		b.ID = uuid.NewString()
		b.TopicID = batch.TopicID
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.Metadata == nil {
			b.Metadata = map[string]any{}
		}
		if _, err := coll.InsertOne(ctx, b); err != nil {
			return fmt.Errorf("insert block: %w", err)
		}
		res.Created[c.LocalID] = b.ID
	}

	for _, b := range batch.Updates {
		createdAt := b.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		meta := b.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		// A document deleted elsewhere is written back under the same id.
		update := bson.M{
			"$set": bson.M{
				"type":      b.Type,
				"content":   b.Content,
				"metadata":  meta,
				"order":     b.Order,
				"updatedAt": now,
			},
			"$setOnInsert": bson.M{"topicId": batch.TopicID, "createdAt": createdAt},
		}
		filter := bson.M{"_id": b.ID, "topicId": batch.TopicID}
		if _, err := coll.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true)); err != nil {
			return fmt.Errorf("update block %s: %w", b.ID, err)
		}
	}

	if len(batch.Deletes) > 0 {
		filter := bson.M{"_id": bson.M{"$in": batch.Deletes}, "topicId": batch.TopicID}
		if _, err := coll.DeleteMany(ctx, filter); err != nil {
			return fmt.Errorf("delete blocks: %w", err)
		}
	}
	return nil
}

func (m *mongoConnector) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// normalizeDoc turns decoded BSON containers into the plain maps and slices
// the payload readers expect.
func normalizeDoc(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case bson.M:
		return normalizeDoc(t)
	case map[string]any:
		return normalizeDoc(t)
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	}
	return v
}
