package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	wsrepo "studynotes/internal/domain/repositories/workspace"
)

// Collection names carried in change notifications.
const (
	collectionFolders = "folders"
	collectionNotes   = "notes"
	collectionPlans   = "plans"
)

const reconnectDelay = 2 * time.Second

// change is the payload published by the notify_workspace_change trigger.
type change struct {
	Collection string `json:"collection"`
	UserID     string `json:"user_id"`
}

type hubKey struct {
	collection string
	userID     string
}

// Hub holds one LISTEN connection and marks the matching subscriptions
// dirty for every change notification. Without Run, subscriptions only
// receive their initial snapshot.
type Hub struct {
	pool    *pgxpool.Pool
	channel string
	logger  *slog.Logger

	mu   sync.Mutex
	next uint64
	subs map[hubKey]map[uint64]chan struct{}
}

// NewHub creates a hub for the channel named in tables.
func NewHub(pool *pgxpool.Pool, tables *TableNames, logger *slog.Logger) *Hub {
	return &Hub{
		pool:    pool,
		channel: tables.Channel,
		logger:  logger,
		subs:    make(map[hubKey]map[uint64]chan struct{}),
	}
}

// Run listens until ctx is done, reconnecting after connection loss. Every
// subscription is refreshed after each (re)connect since notifications sent
// while disconnected are lost.
func (h *Hub) Run(ctx context.Context) error {
	for {
		err := h.listen(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		h.logger.Warn("change listener disconnected, retrying",
			"channel", h.channel,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (h *Hub) listen(ctx context.Context) error {
	pooled, err := h.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen connection: %w", err)
	}
	// The connection keeps LISTEN state, so it never goes back to the pool.
	conn := pooled.Hijack()
	defer conn.Close(context.WithoutCancel(ctx))

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{h.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", h.channel, err)
	}
	h.logger.Info("listening for workspace changes", "channel", h.channel)
	h.markAll()

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		var c change
		if err := json.Unmarshal([]byte(n.Payload), &c); err != nil {
			h.logger.Warn("ignoring malformed change notification", "payload", n.Payload, "error", err)
			continue
		}
		h.mark(hubKey{collection: c.Collection, userID: c.UserID})
	}
}

func (h *Hub) register(key hubKey) (chan struct{}, func()) {
	dirty := make(chan struct{}, 1)

	h.mu.Lock()
	id := h.next
	h.next++
	if h.subs[key] == nil {
		h.subs[key] = make(map[uint64]chan struct{})
	}
	h.subs[key][id] = dirty
	h.mu.Unlock()

	return dirty, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[key], id)
		if len(h.subs[key]) == 0 {
			delete(h.subs, key)
		}
	}
}

func (h *Hub) mark(key hubKey) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, dirty := range h.subs[key] {
		signal(dirty)
	}
}

func (h *Hub) markAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.subs {
		for _, dirty := range set {
			signal(dirty)
		}
	}
}

// signal coalesces: a pending reload already covers this change.
func signal(dirty chan struct{}) {
	select {
	case dirty <- struct{}{}:
	default:
	}
}

// watch delivers load's result to fn once before returning and again,
// from a dedicated goroutine, after each change to the collection. Reloads
// are serialized, so fn never sees an older snapshot after a newer one.
func watch[T any](ctx context.Context, h *Hub, collection, userID string, load func(context.Context) ([]T, error), fn func([]T)) (wsrepo.Unsubscribe, error) {
	var dirty chan struct{}
	remove := func() {}
	if h != nil {
		dirty, remove = h.register(hubKey{collection: collection, userID: userID})
	}

	initial, err := load(ctx)
	if err != nil {
		remove()
		return nil, err
	}
	fn(initial)

	if h == nil {
		return func() {}, nil
	}

	loadCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-dirty:
			}
			docs, err := load(loadCtx)
			if err != nil {
				if loadCtx.Err() == nil {
					h.logger.Warn("snapshot reload failed",
						"collection", collection,
						"user_id", userID,
						"error", err,
					)
				}
				continue
			}
			select {
			case <-done:
				return
			default:
				fn(docs)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			remove()
			cancel()
			close(done)
		})
	}, nil
}
