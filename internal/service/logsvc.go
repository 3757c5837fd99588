package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/redis"
	"go.uber.org/zap"
)

// LogService appends and queries the append-only action log.
type LogService struct {
	log  *zap.Logger
	repo *redis.LogRepository
	now  func() time.Time
}

// NewLogService wires the log repository.
func NewLogService(log *zap.Logger, repo *redis.LogRepository) *LogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogService{
		log:  log.Named("logsvc"),
		repo: repo,
		now:  time.Now,
	}
}

// Record appends a row, stamping the current time when the caller supplied
// none. Log failures are reported but never fail the surrounding request.
func (s *LogService) Record(ctx context.Context, actionType, userID string, itemID int64, details map[string]any, ts *time.Time) {
	stamp := s.now().UTC()
	if ts != nil {
		stamp = ts.UTC()
	}
	entry := stowage.LogEntry{
		Timestamp:  stamp,
		UserID:     userID,
		ActionType: actionType,
		ItemID:     itemID,
		Details:    detailsJSON(details),
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		s.log.Error("log append failed",
			zap.String("action", actionType),
			zap.Error(err))
	}
}

// Append adds a fully specified row (the POST /api/logs surface).
func (s *LogService) Append(ctx context.Context, e stowage.LogEntry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now().UTC()
	}
	if e.Details == "" {
		e.Details = "{}"
	}
	return s.repo.Append(ctx, e)
}

// LogFilter narrows a log query; zero values mean "any".
type LogFilter struct {
	Start      *time.Time
	End        *time.Time
	ItemID     *int64
	UserID     string
	ActionType string
}

// Query returns log rows matching the filter, in append order.
func (s *LogService) Query(ctx context.Context, f LogFilter) ([]stowage.LogEntry, error) {
	entries, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]stowage.LogEntry, 0, len(entries))
	for _, e := range entries {
		if f.Start != nil && e.Timestamp.Before(*f.Start) {
			continue
		}
		if f.End != nil && e.Timestamp.After(*f.End) {
			continue
		}
		if f.ItemID != nil && e.ItemID != *f.ItemID {
			continue
		}
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		if f.ActionType != "" && e.ActionType != f.ActionType {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

var dmyDate = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})T`)

// timestampLayouts are tried in order after normalization.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts the timestamp spellings seen in the field: RFC
// 3339 with Z or offset, bare date-times (assumed UTC), bare dates, the
// stray "T:" separator, and day-first dates.
func ParseTimestamp(raw string) (time.Time, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	v = strings.Replace(v, "T:", "T", 1)
	if m := dmyDate.FindStringSubmatch(v); m != nil {
		v = m[3] + "-" + m[2] + "-" + m[1] + v[10:]
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp format: %q", raw)
}
