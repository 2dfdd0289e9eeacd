package services

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"crm-backend/internal/metrics"
	"crm-backend/internal/models"

	"github.com/shopspring/decimal"
)

// ActivityStore is the append-only activity log. Rows are never updated or
// deleted once written.
type ActivityStore interface {
	AppendActivity(ctx context.Context, a *models.Activity) error
	ListActivities(ctx context.Context, kind models.EntityKind, entityID, limit, offset int) ([]*models.Activity, error)
	ListRecentActivities(ctx context.Context, kind models.EntityKind, limit, offset int) ([]*models.Activity, error)
	CountActivities(ctx context.Context, kind models.EntityKind) (int64, error)
	CountEntityActivities(ctx context.Context, kind models.EntityKind, entityID int) (int64, error)
}

// Recorder appends immutable activity records for every entity kind.
type Recorder struct {
	Store ActivityStore
}

func NewRecorder(store ActivityStore) *Recorder {
	return &Recorder{Store: store}
}

// Record appends one activity. payload is one of the typed payload structs
// from the models package.
func (r *Recorder) Record(ctx context.Context, kind models.EntityKind, entityID int, activityType string, payload any) (*models.Activity, error) {
	a := models.NewActivity(kind, entityID, activityType, payload)
	if err := r.Store.AppendActivity(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to record %s activity: %w", activityType, err)
	}
	metrics.ActivitiesRecordedTotal.WithLabelValues(string(kind), activityType).Inc()
	return a, nil
}

// ListByEntity returns an entity's activities, newest first.
func (r *Recorder) ListByEntity(ctx context.Context, kind models.EntityKind, entityID, limit, offset int) ([]*models.Activity, int64, error) {
	acts, err := r.Store.ListActivities(ctx, kind, entityID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.Store.CountEntityActivities(ctx, kind, entityID)
	if err != nil {
		return nil, 0, err
	}
	return acts, total, nil
}

// Diff compares an old and a new field snapshot. Only fields present in the
// new snapshot are considered; an empty result means nothing changed and no
// activity should be emitted.
func Diff(oldVals, newVals map[string]any) map[string]models.Change {
	changes := make(map[string]models.Change)
	for field, newVal := range newVals {
		oldVal := oldVals[field]
		if !equalValue(oldVal, newVal) {
			changes[field] = models.Change{From: oldVal, To: newVal}
		}
	}
	return changes
}

// equalValue is value equality with two special cases: times compare by
// instant and decimals by numeric value, so 10 and 10.00 are not a change.
func equalValue(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	if da, ok := a.(decimal.Decimal); ok {
		db, ok := b.(decimal.Decimal)
		return ok && da.Equal(db)
	}
	return reflect.DeepEqual(a, b)
}
