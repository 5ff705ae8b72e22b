package ranking_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	boltdb "serotonyl.ru/points-bot/internal/db/bolt"
	"serotonyl.ru/points-bot/internal/features/ledger"
	"serotonyl.ru/points-bot/internal/features/ranking"
)

const (
	communityX int64 = -100
	communityY int64 = -200
)

func newLedger(t *testing.T) *ledger.BoltStore {
	t.Helper()
	db, err := boltdb.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return ledger.NewBoltStore(db)
}

type award struct {
	community, msg, actor, recipient, amount int64
	emoji                                    string
	at                                       time.Time
}

func insertAward(t *testing.T, s ledger.Store, a award) *ledger.Transaction {
	t.Helper()
	emoji := a.emoji
	if emoji == "" {
		emoji = "⭐"
	}
	tx := &ledger.Transaction{
		CommunityID:   a.community,
		RecipientID:   a.recipient,
		ActorID:       a.actor,
		Amount:        a.amount,
		SourceKind:    ledger.SourceReactionAdd,
		EmojiKey:      &emoji,
		MessageRef:    &ledger.MessageRef{ChannelID: a.community, MessageID: a.msg},
		EffectiveTime: a.at,
	}
	_, err := s.Insert(context.Background(), tx)
	require.NoError(t, err)
	return tx
}

func reverse(t *testing.T, s ledger.Store, of *ledger.Transaction) {
	t.Helper()
	id := of.ID
	_, err := s.Insert(context.Background(), &ledger.Transaction{
		CommunityID:   of.CommunityID,
		RecipientID:   of.RecipientID,
		ActorID:       of.ActorID,
		Amount:        -of.Amount,
		SourceKind:    ledger.SourceReactionRemove,
		EmojiKey:      of.EmojiKey,
		MessageRef:    of.MessageRef,
		ReversesID:    &id,
		EffectiveTime: of.EffectiveTime,
	})
	require.NoError(t, err)
}

func TestAggregator_ReversalNetsToZero(t *testing.T) {
	store := newLedger(t)
	agg := ranking.NewAggregator(store)
	ctx := context.Background()
	at := time.Date(2024, 5, 10, 12, 0, 0, 0, jst)

	a := insertAward(t, store, award{community: communityX, msg: 1, actor: 2, recipient: 1, amount: 2, at: at})
	insertAward(t, store, award{community: communityX, msg: 1, actor: 3, recipient: 1, amount: 2, at: at})
	reverse(t, store, a)

	res, err := agg.Compute(ctx, communityX, ranking.AllTime())
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 2}, res.Totals)

	total, err := agg.UserTotal(ctx, communityX, 1, ranking.Month(2024, time.May, jst))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestAggregator_KeepsZeroAndNegativeTotals(t *testing.T) {
	store := newLedger(t)
	agg := ranking.NewAggregator(store)
	ctx := context.Background()
	at := time.Date(2024, 5, 10, 12, 0, 0, 0, jst)

	a := insertAward(t, store, award{community: communityX, msg: 1, actor: 2, recipient: 1, amount: 2, at: at})
	reverse(t, store, a)
	_, err := store.Insert(ctx, &ledger.Transaction{
		CommunityID:   communityX,
		RecipientID:   5,
		ActorID:       99,
		Amount:        -3,
		SourceKind:    ledger.SourceManualAdjustment,
		EffectiveTime: at,
	})
	require.NoError(t, err)

	res, err := agg.Compute(ctx, communityX, ranking.AllTime())
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 0, 5: -3}, res.Totals)
	assert.Empty(t, res.Leaders(10))
}

func TestAggregator_CommunityIsolation(t *testing.T) {
	store := newLedger(t)
	agg := ranking.NewAggregator(store)
	ctx := context.Background()
	at := time.Date(2024, 5, 10, 12, 0, 0, 0, jst)

	insertAward(t, store, award{community: communityX, msg: 1, actor: 2, recipient: 1, amount: 2, at: at})
	insertAward(t, store, award{community: communityY, msg: 1, actor: 2, recipient: 1, amount: 5, at: at})

	x, err := agg.Compute(ctx, communityX, ranking.AllTime())
	require.NoError(t, err)
	y, err := agg.Compute(ctx, communityY, ranking.AllTime())
	require.NoError(t, err)

	assert.Equal(t, map[int64]int64{1: 2}, x.Totals)
	assert.Equal(t, map[int64]int64{1: 5}, y.Totals)

	merged := ranking.Merge(ranking.AllTime(), x, y)
	assert.Equal(t, map[int64]int64{1: 7}, merged.Totals)
	assert.Zero(t, merged.CommunityID)
}

func TestAggregator_PeriodAttribution(t *testing.T) {
	store := newLedger(t)
	agg := ranking.NewAggregator(store)
	ctx := context.Background()

	// Сообщение 31 мая 23:59, реакция 2 июня: очки относятся к маю
	posted := time.Date(2024, 5, 31, 23, 59, 0, 0, jst)
	insertAward(t, store, award{community: communityX, msg: 1, actor: 2, recipient: 1, amount: 2, at: posted})

	may, err := agg.Compute(ctx, communityX, ranking.Month(2024, time.May, jst))
	require.NoError(t, err)
	june, err := agg.Compute(ctx, communityX, ranking.Month(2024, time.June, jst))
	require.NoError(t, err)

	assert.Equal(t, map[int64]int64{1: 2}, may.Totals)
	assert.Empty(t, june.Totals)
}

func TestResult_StandingsOrder(t *testing.T) {
	res := &ranking.Result{Totals: map[int64]int64{
		30: 5,
		10: 5,
		20: 9,
		40: 0,
		50: -1,
	}}

	assert.Equal(t, []ranking.Standing{
		{UserID: 20, Points: 9},
		{UserID: 10, Points: 5},
		{UserID: 30, Points: 5},
		{UserID: 40, Points: 0},
		{UserID: 50, Points: -1},
	}, res.Standings())

	assert.Equal(t, []ranking.Standing{
		{UserID: 20, Points: 9},
		{UserID: 10, Points: 5},
	}, res.Leaders(2))
}
