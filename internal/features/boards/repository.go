package boards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository хранит доски в таблице ranking_boards.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Save(ctx context.Context, b *Board) error {
	query := `
		INSERT INTO ranking_boards (community_id, chat_id, message_id, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (community_id) DO UPDATE
		SET chat_id = EXCLUDED.chat_id,
		    message_id = EXCLUDED.message_id,
		    updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.Exec(ctx, query, b.CommunityID, b.ChatID, b.MessageID, time.Now().UTC()); err != nil {
		return fmt.Errorf("ошибка сохранения доски (community=%d): %w", b.CommunityID, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, communityID int64) (*Board, error) {
	query := `
		SELECT community_id, chat_id, message_id, updated_at
		FROM ranking_boards
		WHERE community_id = $1
	`
	var b Board
	err := r.db.QueryRow(ctx, query, communityID).Scan(&b.CommunityID, &b.ChatID, &b.MessageID, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения доски (community=%d): %w", communityID, err)
	}
	return &b, nil
}

func (r *Repository) Delete(ctx context.Context, communityID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM ranking_boards WHERE community_id = $1`, communityID); err != nil {
		return fmt.Errorf("ошибка удаления доски (community=%d): %w", communityID, err)
	}
	return nil
}
