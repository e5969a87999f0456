package service

import (
	"context"
	"errors"
	"strings"
	"time"

	sb "smart_budget"
	"smart_budget/internal/repository"
)

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// ActivityService lists the per-user activity log with normalized filters.
type ActivityService struct {
	activity repository.ActivityRepo
}

func NewActivityService(activity repository.ActivityRepo) *ActivityService {
	return &ActivityService{activity: activity}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func (s *ActivityService) List(ctx context.Context, username string, f ActivityFilter) ([]sb.ActivityEvent, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}
	typ := strings.ToUpper(strings.TrimSpace(f.Type))
	return s.activity.List(ctx, username, from, to, typ)
}
