package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/wealthwise/internal/models"
	"github.com/mmynk/wealthwise/internal/storage"
)

// CreateInvite persists a new invite link, generating its token if unset.
func (s *SQLiteStore) CreateInvite(ctx context.Context, invite *models.InviteLink) error {
	if invite.Token == "" {
		invite.Token = uuid.New().String()
	}
	if invite.CreatedAt == 0 {
		invite.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invite_links (token, group_id, is_used, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		invite.Token, invite.GroupID, boolToInt(invite.Used), invite.CreatedBy, invite.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invite: %w", err)
	}
	return nil
}

// GetInvite retrieves an invite by token.
func (s *SQLiteStore) GetInvite(ctx context.Context, token string) (*models.InviteLink, error) {
	invite := &models.InviteLink{}
	var used int
	err := s.db.QueryRowContext(ctx,
		`SELECT token, group_id, is_used, created_by, created_at FROM invite_links WHERE token = ?`,
		token,
	).Scan(&invite.Token, &invite.GroupID, &used, &invite.CreatedBy, &invite.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invite: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	invite.Used = used != 0
	return invite, nil
}

// ListActiveInvites retrieves the unused invites of a group, newest first.
func (s *SQLiteStore) ListActiveInvites(ctx context.Context, groupID string) ([]*models.InviteLink, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT token, group_id, is_used, created_by, created_at FROM invite_links
		 WHERE group_id = ? AND is_used = 0 ORDER BY created_at DESC, token`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	defer rows.Close()

	var invites []*models.InviteLink
	for rows.Next() {
		invite := &models.InviteLink{}
		var used int
		if err := rows.Scan(&invite.Token, &invite.GroupID, &used, &invite.CreatedBy, &invite.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		invite.Used = used != 0
		invites = append(invites, invite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invites: %w", err)
	}
	return invites, nil
}

// PurgeUsedInvites deletes used invites created before the given Unix time.
func (s *SQLiteStore) PurgeUsedInvites(ctx context.Context, before int64) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM invite_links WHERE is_used = 1 AND created_at < ?", before,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge invites: %w", err)
	}
	return result.RowsAffected()
}

// RegisterWithInvite creates the user in the invite's group and consumes the invite.
func (s *SQLiteStore) RegisterWithInvite(ctx context.Context, user *models.User, token string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var groupID string
		err := tx.QueryRowContext(ctx,
			"SELECT group_id FROM invite_links WHERE token = ? AND is_used = 0", token,
		).Scan(&groupID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("invite: %w", storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get invite: %w", err)
		}

		// Claim the invite before creating the user so two concurrent
		// registrations cannot both use it.
		result, err := tx.ExecContext(ctx,
			"UPDATE invite_links SET is_used = 1 WHERE token = ? AND is_used = 0", token,
		)
		if err != nil {
			return fmt.Errorf("failed to mark invite used: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return fmt.Errorf("invite: %w", storage.ErrNotFound)
		}

		user.GroupID = groupID
		return insertUser(ctx, tx, user)
	})
}

// RegisterWithNewGroup creates the group and the user inside it.
func (s *SQLiteStore) RegisterWithNewGroup(ctx context.Context, user *models.User, group *models.Group) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertGroup(ctx, tx, group); err != nil {
			return err
		}
		user.GroupID = group.ID
		return insertUser(ctx, tx, user)
	})
}
