// Package ranking, aggregator.go суммирует журнал по получателям.
// Начисления и сторно складываются вместе: сторно уже отрицательные.
package ranking

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"serotonyl.ru/points-bot/internal/features/ledger"
)

// Querier: часть ledger.Store, нужная агрегатору.
type Querier interface {
	Query(ctx context.Context, communityID int64, f ledger.Filter) ([]ledger.Entry, error)
}

// Result: итоги по пользователям. Нулевые и отрицательные итоги сохраняются.
type Result struct {
	CommunityID int64
	Window      Window
	Totals      map[int64]int64
}

// Standing: строка рейтинга.
type Standing struct {
	UserID int64
	Points int64
}

// Standings сортирует итоги: очки по убыванию, при равенстве user ID по возрастанию.
func (r *Result) Standings() []Standing {
	out := make([]Standing, 0, len(r.Totals))
	for id, pts := range r.Totals {
		out = append(out, Standing{UserID: id, Points: pts})
	}
	slices.SortFunc(out, func(a, b Standing) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	return out
}

// Leaders: первые topN участников с положительным итогом.
func (r *Result) Leaders(topN int) []Standing {
	var out []Standing
	for _, s := range r.Standings() {
		if len(out) >= topN {
			break
		}
		if s.Points <= 0 {
			break
		}
		out = append(out, s)
	}
	return out
}

// Merge складывает итоги нескольких сообществ в общий результат (CommunityID = 0).
func Merge(w Window, results ...*Result) *Result {
	merged := &Result{Window: w, Totals: map[int64]int64{}}
	for _, r := range results {
		for id, pts := range r.Totals {
			merged.Totals[id] += pts
		}
	}
	return merged
}

type Aggregator struct {
	store Querier
}

func NewAggregator(store Querier) *Aggregator {
	return &Aggregator{store: store}
}

// Compute считает итоги сообщества за период.
func (a *Aggregator) Compute(ctx context.Context, communityID int64, w Window) (*Result, error) {
	entries, err := a.store.Query(ctx, communityID, w.Filter())
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта рейтинга (community=%d): %w", communityID, err)
	}
	res := &Result{CommunityID: communityID, Window: w, Totals: make(map[int64]int64)}
	for _, e := range entries {
		res.Totals[e.RecipientID] += e.Amount
	}
	return res, nil
}

// UserTotal: итог одного пользователя за период.
func (a *Aggregator) UserTotal(ctx context.Context, communityID, userID int64, w Window) (int64, error) {
	f := w.Filter()
	f.UserID = &userID
	entries, err := a.store.Query(ctx, communityID, f)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта очков (community=%d, user=%d): %w", communityID, userID, err)
	}
	var total int64
	for _, e := range entries {
		total += e.Amount
	}
	return total, nil
}
