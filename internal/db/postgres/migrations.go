// Package postgres, migrations.go: схема БД бота.
package postgres

// Migrations: SQL-миграции, встроенные в код для упрощения деплоя.
// Их же применяют интеграционные тесты хранилищ.
var Migrations = []Migration{
	{Version: 1, SQL: migration001Ledger},
	{Version: 2, SQL: migration002MessageIndex},
	{Version: 3, SQL: migration003Members},
	{Version: 4, SQL: migration004Boards},
}

// Снятие ссылается на награду; UNIQUE(reverses_id) не даёт снять одну награду дважды.
var migration001Ledger = `
CREATE TABLE IF NOT EXISTS ledger_transactions (
    id BIGSERIAL PRIMARY KEY,
    community_id BIGINT NOT NULL,
    recipient_id BIGINT NOT NULL,
    actor_id BIGINT NOT NULL,
    amount BIGINT NOT NULL CHECK (amount <> 0),
    source_kind VARCHAR(32) NOT NULL,
    emoji_key VARCHAR(128),
    channel_id BIGINT,
    message_id BIGINT,
    reverses_id BIGINT UNIQUE REFERENCES ledger_transactions(id) ON DELETE CASCADE,
    effective_time TIMESTAMPTZ NOT NULL,
    recorded_time TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_ledger_community_time ON ledger_transactions(community_id, effective_time);
CREATE INDEX IF NOT EXISTS idx_ledger_award_key
    ON ledger_transactions(community_id, channel_id, message_id, actor_id, emoji_key)
    WHERE source_kind = 'reaction_add';
`

var migration002MessageIndex = `
CREATE TABLE IF NOT EXISTS message_index (
    channel_id BIGINT NOT NULL,
    message_id BIGINT NOT NULL,
    community_id BIGINT NOT NULL,
    author_id BIGINT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (channel_id, message_id)
);
`

var migration003Members = `
CREATE TABLE IF NOT EXISTS members (
    user_id BIGINT PRIMARY KEY,
    username VARCHAR(255),
    first_name VARCHAR(255) NOT NULL DEFAULT '',
    last_name VARCHAR(255),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_members_username ON members(username);
`

var migration004Boards = `
CREATE TABLE IF NOT EXISTS ranking_boards (
    community_id BIGINT PRIMARY KEY,
    chat_id BIGINT NOT NULL,
    message_id BIGINT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
