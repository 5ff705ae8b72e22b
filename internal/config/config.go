// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
)

// Community: настройки одного сообщества (группового чата) со своей экономикой очков.
type Community struct {
	Name  string           `json:"name"`
	Emoji map[string]int64 `json:"emoji"` // ключ эмодзи -> стоимость в очках
}

// Points возвращает стоимость эмодзи и признак того, что эмодзи приносит очки.
func (c Community) Points(emojiKey string) (int64, bool) {
	v, ok := c.Emoji[emojiKey]
	return v, ok
}

// Communities: все отслеживаемые сообщества по ID чата.
// Задаётся JSON-ом в COMMUNITIES:
//
//	{"-1001234": {"name": "Клуб", "emoji": {"⭐": 2, "custom:5368324170671202286": 1}}}
type Communities map[int64]Community

// Decode реализует envconfig.Decoder.
func (c *Communities) Decode(value string) error {
	raw := map[string]Community{}
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return fmt.Errorf("COMMUNITIES: некорректный JSON: %w", err)
	}
	out := make(Communities, len(raw))
	for key, community := range raw {
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			return fmt.Errorf("COMMUNITIES: bad chat id %q: %w", key, err)
		}
		out[id] = community
	}
	*c = out
	return nil
}

// IDs возвращает ID сообществ в возрастающем порядке.
func (c Communities) IDs() []int64 {
	ids := make([]int64, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// Статический allow-list администраторов (CSV из user ID)
	AdminIDsRaw string  `envconfig:"ADMIN_IDS" required:"true"`
	AdminIDs    []int64 `ignored:"true"` // заполним вручную

	// --- Сообщества ---
	Communities Communities `envconfig:"COMMUNITIES" required:"true"`

	// --- Storage ---
	// postgres основной вариант, bolt встраиваемый файл без внешней БД.
	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"postgres"`
	BoltPath      string `envconfig:"BOLT_PATH" default:"points.db"`

	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"points_bot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	// Часовой пояс, в котором считаются границы месяцев и лет
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Asia/Tokyo"`

	// --- Bot runtime ---
	BotMaxInflight          int           `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	BotUpdateTimeoutSeconds int           `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`
	FetchTimeout            time.Duration `envconfig:"FETCH_TIMEOUT" default:"3s"`

	// --- Points ---
	AllowSelfReactions bool `envconfig:"ALLOW_SELF_REACTIONS" default:"false"`
	// Граница «старого» рейтинга (RFC3339). Пусто: команда legacy недоступна.
	LegacyCutoffRaw string     `envconfig:"LEGACY_CUTOFF"`
	LegacyCutoff    *time.Time `ignored:"true"`

	// --- Ranking ---
	RankingTopN     int           `envconfig:"RANKING_TOP_N" default:"10"`
	RankingCooldown time.Duration `envconfig:"RANKING_COOLDOWN" default:"30s"`
	// Предельный модуль суммы /adjust
	AdjustMaxAmount int64         `envconfig:"ADJUST_MAX_AMOUNT" default:"10000"`

	// --- Status ---
	StatusRefreshInterval time.Duration `envconfig:"STATUS_REFRESH_INTERVAL" default:"30m"`
	StatusTopN            int           `envconfig:"STATUS_TOP_N" default:"6"`
	StatusMaxLength       int           `envconfig:"STATUS_MAX_LENGTH" default:"120"`
	StatusNameBudget      int           `envconfig:"STATUS_NAME_BUDGET" default:"8"`

	// --- Ops ---
	// Адрес для /healthz и /metrics. Пусто: сервер не поднимается.
	OpsAddr string `envconfig:"OPS_ADDR" default:":9090"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Location возвращает часовой пояс приложения. Validate уже проверил, что он загружается.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) Validate() error {
	if len(c.Communities) == 0 {
		return fmt.Errorf("COMMUNITIES не задан или пуст")
	}
	for id, community := range c.Communities {
		if len(community.Emoji) == 0 {
			return fmt.Errorf("сообщество %d: не задано ни одного эмодзи", id)
		}
		for emoji, points := range community.Emoji {
			if points <= 0 {
				return fmt.Errorf("сообщество %d: эмодзи %q должен стоить > 0", id, emoji)
			}
		}
	}
	switch c.StorageDriver {
	case "postgres":
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
		}
	case "bolt":
		if c.BoltPath == "" {
			return fmt.Errorf("BOLT_PATH не задан")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER должен быть postgres или bolt, получено %q", c.StorageDriver)
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT должен быть > 0")
	}
	if c.RankingTopN <= 0 || c.StatusTopN <= 0 {
		return fmt.Errorf("RANKING_TOP_N и STATUS_TOP_N должны быть > 0")
	}
	if c.StatusMaxLength <= 0 || c.StatusNameBudget <= 0 {
		return fmt.Errorf("STATUS_MAX_LENGTH и STATUS_NAME_BUDGET должны быть > 0")
	}
	if c.AdjustMaxAmount <= 0 {
		return fmt.Errorf("ADJUST_MAX_AMOUNT должен быть > 0")
	}
	if _, err := time.LoadLocation(c.AppTimezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	if c.StatusRefreshInterval < time.Minute {
		return fmt.Errorf("STATUS_REFRESH_INTERVAL должен быть не меньше минуты")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	ids, err := parseInt64CSV(cfg.AdminIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS parse: %w", err)
	}
	cfg.AdminIDs = ids

	if s := strings.TrimSpace(cfg.LegacyCutoffRaw); s != "" {
		cutoff, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("LEGACY_CUTOFF parse: %w", err)
		}
		cfg.LegacyCutoff = &cutoff
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
