package services

import (
	"container/heap"
	"context"

	"crm-backend/internal/cache"
	"crm-backend/internal/metrics"
	"crm-backend/internal/models"
)

const maxFeedPageSize = 100

// FeedPage is one page of the global activity feed.
type FeedPage struct {
	Items    []*models.Activity `json:"items"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Total    int64              `json:"total"`
	HasMore  bool               `json:"has_more"`
}

// FeedService merges the per-entity activity streams into one globally
// time-ordered feed. Each source is read newest-first in batches and the
// merge consumes them through a heap, so a page is exact regardless of how
// skewed the per-kind activity rates are.
type FeedService struct {
	Store ActivityStore
}

func NewFeedService(store ActivityStore) *FeedService {
	return &FeedService{Store: store}
}

// GetFeed returns the requested page. With a kind filter the single
// source's own pagination is authoritative and no merge happens.
func (s *FeedService) GetFeed(ctx context.Context, page, pageSize int, kind *models.EntityKind) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > maxFeedPageSize {
		pageSize = maxFeedPageSize
	}
	if kind != nil && !models.ValidEntityKind(*kind) {
		return nil, models.ErrValidationFailed
	}
	metrics.FeedRequestsTotal.Inc()

	offset := (page - 1) * pageSize

	var items []*models.Activity
	var total int64
	var err error
	if kind != nil {
		items, err = s.Store.ListRecentActivities(ctx, *kind, pageSize, offset)
		if err != nil {
			return nil, err
		}
		total, err = s.countKind(ctx, *kind)
		if err != nil {
			return nil, err
		}
	} else {
		items, err = s.merge(ctx, offset, pageSize)
		if err != nil {
			return nil, err
		}
		for _, k := range models.EntityKinds {
			n, err := s.countKind(ctx, k)
			if err != nil {
				return nil, err
			}
			total += n
		}
	}

	return &FeedPage{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		HasMore:  int64(page)*int64(pageSize) < total,
	}, nil
}

// countKind serves per-kind totals through the short-TTL Redis cache when
// one is connected; a stale count only skews has_more for a few seconds.
func (s *FeedService) countKind(ctx context.Context, kind models.EntityKind) (int64, error) {
	if n, ok := cache.GetActivityCount(ctx, string(kind)); ok {
		return n, nil
	}
	n, err := s.Store.CountActivities(ctx, kind)
	if err != nil {
		return 0, err
	}
	cache.SetActivityCount(ctx, string(kind), n)
	return n, nil
}

// feedCursor walks one kind's stream newest-first, fetching in batches.
type feedCursor struct {
	kind      models.EntityKind
	store     ActivityStore
	batchSize int
	buf       []*models.Activity
	pos       int
	srcOffset int
	drained   bool
}

func (c *feedCursor) peek(ctx context.Context) (*models.Activity, error) {
	if c.pos >= len(c.buf) {
		if c.drained {
			return nil, nil
		}
		batch, err := c.store.ListRecentActivities(ctx, c.kind, c.batchSize, c.srcOffset)
		if err != nil {
			return nil, err
		}
		if len(batch) < c.batchSize {
			c.drained = true
		}
		c.srcOffset += len(batch)
		c.buf = batch
		c.pos = 0
		if len(batch) == 0 {
			return nil, nil
		}
	}
	return c.buf[c.pos], nil
}

func (c *feedCursor) advance() { c.pos++ }

// cursorHeap orders cursors by the timestamp of their next activity,
// newest first; ties break on (kind, id) so the order is deterministic for
// activities created in the same millisecond.
type cursorHeap struct {
	cursors []*feedCursor
	heads   []*models.Activity
}

func (h *cursorHeap) Len() int { return len(h.cursors) }
func (h *cursorHeap) Less(i, j int) bool {
	a, b := h.heads[i], h.heads[j]
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	if a.EntityKind != b.EntityKind {
		return a.EntityKind < b.EntityKind
	}
	return a.ID > b.ID
}
func (h *cursorHeap) Swap(i, j int) {
	h.cursors[i], h.cursors[j] = h.cursors[j], h.cursors[i]
	h.heads[i], h.heads[j] = h.heads[j], h.heads[i]
}
func (h *cursorHeap) Push(x any) {
	pair := x.([2]any)
	h.cursors = append(h.cursors, pair[0].(*feedCursor))
	h.heads = append(h.heads, pair[1].(*models.Activity))
}
func (h *cursorHeap) Pop() any {
	n := len(h.cursors)
	c := h.cursors[n-1]
	h.cursors = h.cursors[:n-1]
	h.heads = h.heads[:n-1]
	return c
}

// merge performs the k-way merge across all kinds, producing the slice
// [offset, offset+pageSize) of the combined newest-first stream.
func (s *FeedService) merge(ctx context.Context, offset, pageSize int) ([]*models.Activity, error) {
	h := &cursorHeap{}
	for _, kind := range models.EntityKinds {
		c := &feedCursor{kind: kind, store: s.Store, batchSize: pageSize}
		head, err := c.peek(ctx)
		if err != nil {
			return nil, err
		}
		if head != nil {
			heap.Push(h, [2]any{c, head})
		}
	}

	items := make([]*models.Activity, 0, pageSize)
	produced := 0
	for h.Len() > 0 && len(items) < pageSize {
		c := h.cursors[0]
		head := h.heads[0]
		if produced >= offset {
			items = append(items, head)
		}
		produced++

		c.advance()
		next, err := c.peek(ctx)
		if err != nil {
			return nil, err
		}
		if next != nil {
			h.heads[0] = next
			heap.Fix(h, 0)
		} else {
			heap.Pop(h)
		}
	}
	return items, nil
}
