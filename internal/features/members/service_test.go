package members_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	boltdb "serotonyl.ru/points-bot/internal/db/bolt"
	"serotonyl.ru/points-bot/internal/features/members"
)

func newBoltService(t *testing.T) *members.Service {
	t.Helper()
	db, err := boltdb.Open(filepath.Join(t.TempDir(), "members.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return members.NewService(members.NewBoltRepository(db))
}

func TestMember_DisplayName(t *testing.T) {
	tests := []struct {
		name   string
		member members.Member
		want   string
	}{
		{name: "username wins", member: members.Member{Username: "alice", FirstName: "Алиса"}, want: "@alice"},
		{name: "first and last", member: members.Member{FirstName: "Иван", LastName: "Петров"}, want: "Иван Петров"},
		{name: "first only", member: members.Member{FirstName: "Иван"}, want: "Иван"},
		{name: "empty", member: members.Member{}, want: members.UnknownName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.member.DisplayName())
		})
	}
}

func TestService_DisplayNames(t *testing.T) {
	svc := newBoltService(t)
	ctx := context.Background()

	require.NoError(t, svc.Remember(ctx, 1, "alice", "Алиса", ""))
	require.NoError(t, svc.Remember(ctx, 2, "", "Борис", "Бритва"))
	// Сменил username
	require.NoError(t, svc.Remember(ctx, 1, "alice_new", "Алиса", ""))

	names := svc.DisplayNames(ctx, []int64{1, 2, 3})
	assert.Equal(t, map[int64]string{
		1: "@alice_new",
		2: "Борис Бритва",
		3: members.UnknownName,
	}, names)
}

func TestHandler_SkipsBots(t *testing.T) {
	svc := newBoltService(t)
	h := members.NewHandler(svc)
	ctx := context.Background()

	h.HandleNewChatMembers(ctx, []telego.User{
		{ID: 1, FirstName: "Человек"},
		{ID: 2, FirstName: "Робот", IsBot: true},
	})
	h.HandleUser(ctx, nil)

	names := svc.DisplayNames(ctx, []int64{1, 2})
	assert.Equal(t, "Человек", names[1])
	assert.Equal(t, members.UnknownName, names[2])
}
