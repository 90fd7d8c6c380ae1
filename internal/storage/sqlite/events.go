package sqlite

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mmynk/familysafe/internal/models"
)

// ListEvents retrieves events after afterSeq in journal order.
func (s *SQLiteStore) ListEvents(ctx context.Context, afterSeq int64, limit int) ([]*models.Event, error) {
	query := `SELECT seq, id, kind, address, amount, time
		FROM events WHERE seq > ? ORDER BY seq`
	args := []interface{}{afterSeq}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		ev := &models.Event{}
		var kind, address, amount string
		if err := rows.Scan(&ev.Seq, &ev.ID, &kind, &address, &amount, &ev.Time); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		ev.Kind = models.EventKind(kind)
		if !ev.Kind.Valid() {
			return nil, fmt.Errorf("event %d: unknown kind %q", ev.Seq, kind)
		}
		ev.Address = models.Address(address)
		ev.Amount, err = parseAmount(amount)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", ev.Seq, err)
		}

		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

func formatAmount(amount uint64) string {
	return strconv.FormatUint(amount, 10)
}

func parseAmount(s string) (uint64, error) {
	amount, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}
