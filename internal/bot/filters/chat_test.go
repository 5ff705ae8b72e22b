package filters

import (
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"

	"serotonyl.ru/points-bot/internal/common"
	"serotonyl.ru/points-bot/internal/config"
)

func TestChatFilter(t *testing.T) {
	f := NewChatFilter(config.Communities{-100: {Name: "Клуб"}}, []int64{7})

	tests := []struct {
		name string
		msg  *telego.Message
		want bool
	}{
		{name: "nil", msg: nil, want: false},
		{name: "no author", msg: &telego.Message{Chat: telego.Chat{ID: -100}}, want: false},
		{name: "bot author", msg: &telego.Message{Chat: telego.Chat{ID: -100}, From: &telego.User{ID: 1, IsBot: true}}, want: false},
		{name: "other chat", msg: &telego.Message{Chat: telego.Chat{ID: -200}, From: &telego.User{ID: 1}}, want: false},
		{name: "private", msg: &telego.Message{Chat: telego.Chat{ID: 1, Type: "private"}, From: &telego.User{ID: 1}}, want: false},
		{name: "monitored", msg: &telego.Message{Chat: telego.Chat{ID: -100}, From: &telego.User{ID: 1}}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.CheckAccess(tt.msg))
		})
	}

	assert.True(t, f.IsAdmin(7))
	assert.NoError(t, f.RequireAdmin(7))
	assert.ErrorIs(t, f.RequireAdmin(8), common.ErrNotAdmin)
}
