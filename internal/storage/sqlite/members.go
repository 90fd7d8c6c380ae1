package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/familysafe/internal/models"
)

// ListMembers retrieves the full registry ordered by address.
func (s *SQLiteStore) ListMembers(ctx context.Context) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT address, added_at FROM members ORDER BY address")
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		var address string
		if err := rows.Scan(&address, &m.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Address = models.Address(address)
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}
