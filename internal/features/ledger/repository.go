// Package ledger, repository.go хранит журнал в PostgreSQL.
// Проверка дедупликации и вставка выполняются в одной транзакции БД
// под advisory-локом на ключ награды.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/points-bot/internal/db/postgres"
)

// Repository: реализация Store поверх pgxpool.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий журнала.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// querier: общее для *pgxpool.Pool и pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const selectTransactionColumns = `
	id, community_id, recipient_id, actor_id, amount, source_kind, emoji_key,
	channel_id, message_id, reverses_id, effective_time, recorded_time
`

// Insert записывает транзакцию.
//
// Для транзакций из реакций:
//  1. Берём pg_advisory_xact_lock по ключу награды: параллельные вставки
//     с тем же ключом выстраиваются в очередь.
//  2. Ищем активное начисление.
//  3. reaction_add при наличии активного → ErrDuplicateTransaction;
//     reaction_remove без него (или не на то начисление) → ErrDuplicateTransaction.
//  4. Вставляем. UNIQUE(reverses_id) не даёт отменить начисление дважды.
func (r *Repository) Insert(ctx context.Context, t *Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, unavailable("begin", err)
	}
	defer tx.Rollback(ctx)

	if key, ok := t.AwardKey(); ok {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key.String()); err != nil {
			return 0, unavailable("advisory lock", err)
		}

		active, err := findActiveAward(ctx, tx, key)
		if err != nil {
			return 0, err
		}
		if err := checkAgainstActive(t, active); err != nil {
			return 0, err
		}
	}

	var channelID, messageID *int64
	if t.MessageRef != nil {
		channelID, messageID = &t.MessageRef.ChannelID, &t.MessageRef.MessageID
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO ledger_transactions
			(community_id, recipient_id, actor_id, amount, source_kind, emoji_key,
			 channel_id, message_id, reverses_id, effective_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, recorded_time
	`,
		t.CommunityID, t.RecipientID, t.ActorID, t.Amount, string(t.SourceKind), t.EmojiKey,
		channelID, messageID, t.ReversesID, t.EffectiveTime,
	).Scan(&t.ID, &t.RecordedTime)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return 0, ErrDuplicateTransaction
		}
		return 0, unavailable("insert", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, unavailable("commit", err)
	}
	return t.ID, nil
}

// checkAgainstActive: общая для обоих хранилищ проверка инварианта.
func checkAgainstActive(t *Transaction, active *Transaction) error {
	switch t.SourceKind {
	case SourceReactionAdd:
		if active != nil {
			return ErrDuplicateTransaction
		}
	case SourceReactionRemove:
		if active == nil || active.ID != *t.ReversesID {
			return ErrDuplicateTransaction
		}
		if t.Amount != -active.Amount {
			return fmt.Errorf("%w: сторно %d не равно -%d", ErrInvalidTransaction, t.Amount, active.Amount)
		}
	}
	return nil
}

// Query возвращает (получатель, сумма) по сообществу. Один SELECT :
// один снимок, частично записанных строк в нём нет.
func (r *Repository) Query(ctx context.Context, communityID int64, f Filter) ([]Entry, error) {
	var (
		conds = []string{"community_id = $1"}
		args  = []any{communityID}
	)
	if f.UserID != nil {
		args = append(args, *f.UserID)
		conds = append(conds, fmt.Sprintf("recipient_id = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("effective_time >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("effective_time < $%d", len(args)))
	}

	query := `SELECT recipient_id, amount FROM ledger_transactions WHERE ` + strings.Join(conds, " AND ")
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, unavailable("query", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.RecipientID, &e.Amount); err != nil {
			return nil, unavailable("scan", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("rows", err)
	}
	return out, nil
}

// DeleteCommunity удаляет все транзакции сообщества. Другие сообщества не затрагиваются.
func (r *Repository) DeleteCommunity(ctx context.Context, communityID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM ledger_transactions WHERE community_id = $1`, communityID)
	if err != nil {
		return 0, unavailable("delete community", err)
	}
	return tag.RowsAffected(), nil
}

// FindActiveAward ищет последнее начисление по ключу, у которого нет сторно.
func (r *Repository) FindActiveAward(ctx context.Context, key AwardKey) (*Transaction, error) {
	return findActiveAward(ctx, r.db, key)
}

func findActiveAward(ctx context.Context, q querier, key AwardKey) (*Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM ledger_transactions a
		WHERE a.community_id = $1 AND a.channel_id = $2 AND a.message_id = $3
		  AND a.actor_id = $4 AND a.emoji_key = $5 AND a.source_kind = 'reaction_add'
		  AND NOT EXISTS (SELECT 1 FROM ledger_transactions r WHERE r.reverses_id = a.id)
		ORDER BY a.id DESC
		LIMIT 1
	`
	t, err := scanTransaction(q.QueryRow(ctx, query,
		key.CommunityID, key.Ref.ChannelID, key.Ref.MessageID, key.ActorID, key.EmojiKey,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("find active award", err)
	}
	return t, nil
}

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var (
		t                    Transaction
		kind                 string
		channelID, messageID *int64
		effective, recorded  time.Time
	)
	if err := row.Scan(
		&t.ID, &t.CommunityID, &t.RecipientID, &t.ActorID, &t.Amount, &kind, &t.EmojiKey,
		&channelID, &messageID, &t.ReversesID, &effective, &recorded,
	); err != nil {
		return nil, err
	}
	t.SourceKind = SourceKind(kind)
	if channelID != nil && messageID != nil {
		t.MessageRef = &MessageRef{ChannelID: *channelID, MessageID: *messageID}
	}
	t.EffectiveTime = effective
	t.RecordedTime = recorded
	return &t, nil
}
