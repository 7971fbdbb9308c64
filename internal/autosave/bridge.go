// Package autosave keeps a topic's persisted blocks in line with the
// in-memory document: debounced writes for content edits, immediate
// writes for structural edits, each one a full-state reconciliation.
package autosave

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"academy/internal/domain"
	"academy/internal/log"
)

type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
)

const (
	DefaultDebounce     = 800 * time.Millisecond
	DefaultSavedDisplay = 2 * time.Second
)

type Options struct {
	Debounce     time.Duration
	SavedDisplay time.Duration
	Clock        Clock
	Logger       *zap.Logger
	// OnStatus is called after every status transition.
	OnStatus func(Status)
}

// Bridge implements editor.Saver on top of a domain.BlockStore.
type Bridge struct {
	store   domain.BlockStore
	topicID string
	opts    Options
	logger  *zap.Logger

	mu         sync.Mutex
	snapshot   []domain.Block
	remote     map[string]string // local id -> remote id
	pending    Timer
	pendingGen int
	savedTimer Timer
	status     Status
	issued     int

	// flushMu serializes reconciliations; applied is the sequence number
	// of the newest snapshot written, guarded by flushMu.
	flushMu sync.Mutex
	applied int

	wg sync.WaitGroup
}

// New returns a bridge for one topic. remote maps the local ids of
// hydrated blocks to their stored ids.
func New(store domain.BlockStore, topicID string, remote map[string]string, opts Options) *Bridge {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.SavedDisplay <= 0 {
		opts.SavedDisplay = DefaultSavedDisplay
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Get()
	}
	m := make(map[string]string, len(remote))
	for k, v := range remote {
		m[k] = v
	}
	return &Bridge{
		store:   store,
		topicID: topicID,
		opts:    opts,
		logger:  logger.Named("autosave").With(zap.String("topic", topicID)),
		remote:  m,
		status:  StatusIdle,
	}
}

// ─────────────────────────────────────────────────────────────
// editor.Saver
// ─────────────────────────────────────────────────────────────

// ContentChanged restarts the debounce window with the latest snapshot.
func (b *Bridge) ContentChanged(blocks []domain.Block) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshot = blocks
	b.cancelPendingLocked()
	gen := b.pendingGen
	b.wg.Add(1)
	b.pending = b.opts.Clock.AfterFunc(b.opts.Debounce, func() { b.fire(gen) })
}

// StructureChanged cancels any pending debounced write and reconciles
// the given snapshot right away, without blocking the caller.
func (b *Bridge) StructureChanged(blocks []domain.Block) {
	b.mu.Lock()
	b.snapshot = blocks
	b.cancelPendingLocked()
	b.issued++
	seq := b.issued
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		_ = b.reconcile(context.Background(), blocks, seq)
	}()
}

// Flush cancels any pending write and reconciles the latest snapshot
// synchronously.
func (b *Bridge) Flush(ctx context.Context) error {
	b.mu.Lock()
	b.cancelPendingLocked()
	snapshot := b.snapshot
	b.issued++
	seq := b.issued
	b.mu.Unlock()
	if snapshot == nil {
		return nil
	}
	return b.reconcile(ctx, snapshot, seq)
}

// Wait blocks until no write is pending or in flight.
func (b *Bridge) Wait() {
	b.wg.Wait()
}

func (b *Bridge) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// RemoteID returns the stored id for a local block id.
func (b *Bridge) RemoteID(localID string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.remote[localID]
	return id, ok
}

// cancelPendingLocked stops the debounce timer and invalidates a callback
// that already fired but has not yet taken the lock.
func (b *Bridge) cancelPendingLocked() {
	b.pendingGen++
	if b.pending == nil {
		return
	}
	if b.pending.Stop() {
		b.wg.Done()
	}
	b.pending = nil
}

func (b *Bridge) fire(gen int) {
	defer b.wg.Done()
	b.mu.Lock()
	if gen != b.pendingGen {
		// superseded by a newer edit that restarted the window
		b.mu.Unlock()
		return
	}
	b.pending = nil
	snapshot := b.snapshot
	b.issued++
	seq := b.issued
	b.mu.Unlock()

	_ = b.reconcile(context.Background(), snapshot, seq)
}

// ─────────────────────────────────────────────────────────────
// Reconciliation
// ─────────────────────────────────────────────────────────────

// Plan computes the batch that brings the store in line with blocks:
// updates for mapped blocks, creates for new ones and deletes for mapped
// ids no longer present. Transient paste blocks are neither written nor
// deleted.
func Plan(topicID string, blocks []domain.Block, remote map[string]string, now time.Time) domain.Batch {
	batch := domain.Batch{TopicID: topicID}
	present := make(map[string]bool, len(blocks))
	order := 0
	for _, blk := range blocks {
		present[blk.ID] = true
		if blk.Type == domain.BlockTypePaste {
			continue
		}
		stored := domain.StoredBlock{
			TopicID:  topicID,
			Type:     blk.Type,
			Content:  blk.Content,
			Metadata: blk.Metadata(),
			Order:    order,
		}
		order++
		if rid, ok := remote[blk.ID]; ok {
			stored.ID = rid
			batch.Updates = append(batch.Updates, stored)
			continue
		}
		stored.CreatedAt = now
		batch.Creates = append(batch.Creates, domain.BlockCreate{LocalID: blk.ID, Block: stored})
	}
	for local, rid := range remote {
		if !present[local] {
			batch.Deletes = append(batch.Deletes, rid)
		}
	}
	sort.Strings(batch.Deletes)
	return batch
}

func (b *Bridge) reconcile(ctx context.Context, blocks []domain.Block, seq int) error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()
	if seq < b.applied {
		// a newer full snapshot has already been written
		return nil
	}
	b.applied = seq

	b.mu.Lock()
	batch := Plan(b.topicID, blocks, b.remote, time.Now().UTC())
	b.mu.Unlock()
	if batch.Empty() {
		return nil
	}

	b.setStatus(StatusSaving)
	res, err := b.store.Apply(ctx, batch)
	if err != nil {
		b.logger.Warn("reconcile failed", zap.Error(err))
		b.setStatus(StatusIdle)
		return fmt.Errorf("reconcile topic %s: %w", b.topicID, err)
	}

	b.mu.Lock()
	deleted := make(map[string]bool, len(batch.Deletes))
	for _, rid := range batch.Deletes {
		deleted[rid] = true
	}
	for local, rid := range b.remote {
		if deleted[rid] {
			delete(b.remote, local)
		}
	}
	for local, rid := range res.Created {
		b.remote[local] = rid
	}
	b.mu.Unlock()

	b.logger.Debug("reconciled",
		zap.Int("creates", len(batch.Creates)),
		zap.Int("updates", len(batch.Updates)),
		zap.Int("deletes", len(batch.Deletes)))
	b.setStatus(StatusSaved)
	return nil
}

func (b *Bridge) setStatus(s Status) {
	b.mu.Lock()
	b.status = s
	if b.savedTimer != nil {
		b.savedTimer.Stop()
		b.savedTimer = nil
	}
	if s == StatusSaved {
		b.savedTimer = b.opts.Clock.AfterFunc(b.opts.SavedDisplay, b.expireSaved)
	}
	b.mu.Unlock()
	if b.opts.OnStatus != nil {
		b.opts.OnStatus(s)
	}
}

func (b *Bridge) expireSaved() {
	b.mu.Lock()
	if b.status != StatusSaved {
		b.mu.Unlock()
		return
	}
	b.status = StatusIdle
	b.savedTimer = nil
	b.mu.Unlock()
	if b.opts.OnStatus != nil {
		b.opts.OnStatus(StatusIdle)
	}
}

// Hydrate turns stored records into a document, ordering by Order and
// then creation time. Local ids are the stored ids.
func Hydrate(stored []domain.StoredBlock) ([]domain.Block, map[string]string) {
	sorted := append([]domain.StoredBlock(nil), stored...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	blocks := make([]domain.Block, len(sorted))
	remote := make(map[string]string, len(sorted))
	for i, s := range sorted {
		blocks[i] = s.Block(s.ID)
		remote[s.ID] = s.ID
	}
	return blocks, remote
}
