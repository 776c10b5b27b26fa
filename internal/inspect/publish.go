package inspect

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/service"
)

// Publish inserts the session's accepted proposals into the tag store.
// Publishing is idempotent: entries already present are counted as
// skipped, never treated as conflicts. A session with nothing accepted
// publishes nothing and succeeds.
func Publish(ctx context.Context, store service.TagStore, session *Session) (model.PublishResult, error) {
	var result model.PublishResult

	for _, p := range session.Accepted() {
		entry := model.TagEntry{Table: p.Table, Column: p.Column, Tag: p.Tag}
		inserted, err := store.Put(ctx, entry)
		if err != nil {
			return result, fmt.Errorf("failed to publish %s: %w", entry.Key(), err)
		}
		if inserted {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}

	slog.Info("Published accepted proposals",
		"inserted", result.Inserted,
		"skipped", result.Skipped)

	return result, nil
}
