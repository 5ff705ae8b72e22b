package ops

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"serotonyl.ru/points-bot/internal/metrics"
)

func TestHealthz(t *testing.T) {
	tests := []struct {
		name string
		ping Pinger
		code int
	}{
		{name: "no pinger", ping: nil, code: http.StatusOK},
		{name: "healthy", ping: func(context.Context) error { return nil }, code: http.StatusOK},
		{name: "storage down", ping: func(context.Context) error { return errors.New("closed") }, code: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewRouter(tt.ping).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.RankingQueries.WithLabelValues("all").Inc()

	rec := httptest.NewRecorder()
	NewRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "points_ranking_queries_total")
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewServer("127.0.0.1:0", nil)

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	assert.NoError(t, <-done)
}
