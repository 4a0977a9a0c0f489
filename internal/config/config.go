package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultFeedURL      = "https://gg.deals/au/news/feed/"
	DefaultMax          = 25
	DefaultPollInterval = time.Hour
	MinPollInterval     = time.Minute
)

// Config хранит параметры SMTP-релея, адреса писем и настройки опроса ленты.
type Config struct {
	To           string        `mapstructure:"to"`
	From         string        `mapstructure:"from"`
	SMTPServer   string        `mapstructure:"smtp_server"`
	SMTPUsername string        `mapstructure:"smtp_username"`
	SMTPPassword string        `mapstructure:"smtp_password"`
	Max          int           `mapstructure:"max"`
	FeedURL      string        `mapstructure:"feed_url"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MetricsAddr  string        `mapstructure:"metrics_addr"`
}

// keys — ключи конфигурации; переменная окружения совпадает с ключом в верхнем регистре.
var keys = []string{
	"to", "from",
	"smtp_server", "smtp_username", "smtp_password",
	"max", "feed_url", "poll_interval", "metrics_addr",
}

// New создаёт viper с умолчаниями и привязкой к переменным окружения.
func New() (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("max", DefaultMax)
	v.SetDefault("feed_url", DefaultFeedURL)
	v.SetDefault("poll_interval", DefaultPollInterval)
	v.SetDefault("metrics_addr", "")
	for _, k := range keys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}
	return v, nil
}

// RegisterFlags добавляет флаги командной строки и привязывает их к ключам v.
// Флаг побеждает переменную окружения только если он явно задан.
func RegisterFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	flags.StringP("to", "t", "", "Email address to send freebies to")
	flags.StringP("from", "f", "", "Email address to send freebies from")
	flags.StringP("smtp-server", "s", "", "SMTP server address (host or host:port)")
	flags.StringP("smtp-username", "u", "", "SMTP server username")
	flags.StringP("smtp-password", "p", "", "SMTP server password")
	flags.IntP("max", "m", DefaultMax, "Maximum number of sent freebies to remember")
	flags.String("feed-url", DefaultFeedURL, "Feed to poll")
	flags.Duration("poll-interval", DefaultPollInterval, "Time between feed checks")
	flags.String("metrics-addr", "", "Address for /metrics and /health (disabled when empty)")

	for _, k := range keys {
		name := strings.ReplaceAll(k, "_", "-")
		if err := v.BindPFlag(k, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// LoadDotEnv подгружает переменные из файлов .env, не перезаписывая уже заданные.
// Отсутствующий файл ошибкой не считается.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// LoadConfig читает необязательный JSON-файл path поверх умолчаний, собирает Config и проверяет его.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные поля, размер окна, интервал опроса, URL ленты и адреса почты.
func (cfg *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"to", cfg.To},
		{"from", cfg.From},
		{"smtp_server", cfg.SMTPServer},
		{"smtp_username", cfg.SMTPUsername},
		{"smtp_password", cfg.SMTPPassword},
	}
	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	if cfg.Max < 0 {
		return errors.New("max must be ≥ 0")
	}
	if cfg.PollInterval < MinPollInterval {
		return fmt.Errorf("poll interval must be ≥ %s", MinPollInterval)
	}
	if _, err := url.ParseRequestURI(cfg.FeedURL); err != nil {
		return fmt.Errorf("invalid feed URL: %s", cfg.FeedURL)
	}
	if _, err := mail.ParseAddress(cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %s", cfg.From)
	}
	if _, err := mail.ParseAddress(cfg.To); err != nil {
		return fmt.Errorf("invalid to address: %s", cfg.To)
	}
	return nil
}
