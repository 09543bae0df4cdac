package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/sizzlei/confloader"

	"channelmaster/internal/channel"
)

type rawCfg struct {
	// Parameter store
	Conf      string `long:"conf" env:"CHANNELMASTER_CONF" description:"SSM parameter path holding repository/youtube/slack settings (optional)"`
	AWSRegion string `long:"aws-region" env:"AWS_REGION" default:"ap-northeast-2" description:"Region of the parameter store"`

	// Repository (overridden by the 'repository' key of --conf)
	DBHost     string `long:"db-host" env:"DB_HOST" default:"127.0.0.1" description:"MySQL host"`
	DBPort     int    `long:"db-port" env:"DB_PORT" default:"3306" description:"MySQL port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"channelmaster" description:"MySQL user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" description:"MySQL password"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"channelmaster" description:"MySQL database"`
	Migrate    bool   `long:"migrate" env:"DB_MIGRATE" description:"Apply embedded schema migrations on start"`

	// YouTube (overridden by the 'youtube' key of --conf)
	YouTubeAPIKey  string        `long:"youtube-api-key" env:"YOUTUBE_API_KEY" description:"YouTube Data API key"`
	YouTubeBaseURL string        `long:"youtube-base-url" env:"YOUTUBE_BASE_URL" default:"https://www.googleapis.com/youtube/v3" description:"YouTube Data API base URL"`
	YouTubeTimeout time.Duration `long:"youtube-timeout" env:"YOUTUBE_TIMEOUT" default:"20s" description:"Timeout of one metadata request"`

	// Slack (overridden by the 'slack' key of --conf)
	SlackBotToken  string `long:"slack-bot-token" env:"SLACK_BOT_TOKEN" description:"Bot token for save notifications (optional)"`
	SlackChannelID string `long:"slack-channel-id" env:"SLACK_CHANNEL_ID" description:"Slack channel for save notifications (optional)"`

	// Behavior
	DateCreatedPolicy string `long:"date-created-policy" env:"DATE_CREATED_POLICY" default:"fetch" choice:"fetch" choice:"keep-stored" description:"Which date_created is persisted on save"`

	// HTTP
	Port          string        `long:"port" env:"SERVER_PORT" default:"3000" description:"HTTP listen port"`
	ViewsDir      string        `long:"views-dir" env:"VIEWS_DIR" default:"./web/views" description:"HTML templates"`
	PublicDir     string        `long:"public-dir" env:"PUBLIC_DIR" default:"./web/public" description:"Static assets"`
	ViewsReload   bool          `long:"views-reload" env:"VIEWS_RELOAD" description:"Re-read templates on every render"`
	SessionTTL    time.Duration `long:"session-ttl" env:"SESSION_TTL" default:"30m" description:"Operator session lifetime"`
	SessionSecure bool          `long:"session-secure" env:"SESSION_SECURE" description:"Mark the session cookie Secure"`

	// Logging
	LogLevel string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"logrus level"`
	LogJSON  bool   `long:"log-json" env:"LOG_JSON" description:"Emit JSON logs"`
}

// Repository is the MySQL connection settings.
type Repository struct {
	User     string
	Password string
	Endpoint string
	Port     int
	Database string
}

type Cfg struct {
	Repository Repository
	Migrate    bool

	YouTubeAPIKey  string
	YouTubeBaseURL string
	YouTubeTimeout time.Duration

	SlackBotToken  string
	SlackChannelID string

	DateCreatedPolicy channel.DateCreatedPolicy

	Port          string
	ViewsDir      string
	PublicDir     string
	ViewsReload   bool
	SessionTTL    time.Duration
	SessionSecure bool

	LogLevel string
	LogJSON  bool
}

// ErrHelp is returned when --help was requested and printed.
var ErrHelp = errors.New("help requested")

// Load reads .env files, then flags/env, then the parameter store when
// --conf is given. Later sources win.
func Load(args []string) (*Cfg, error) {
	LoadDotEnvs("")

	cfg, conf, region, err := parse(args)
	if err != nil {
		return nil, err
	}

	if conf != "" {
		params, err := confloader.AWSParamLoader(region, conf)
		if err != nil {
			return nil, fmt.Errorf("parameter store %s: %w", conf, err)
		}
		if err := cfg.applyParams(params.Keyload("repository"), params.Keyload("youtube"), params.Keyload("slack")); err != nil {
			return nil, err
		}
		log.Infof("Configuration loaded from parameter store %s", conf)
	}

	return cfg, nil
}

func parse(args []string) (*Cfg, string, string, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, "", "", ErrHelp
		}
		return nil, "", "", fmt.Errorf("failed to parse configuration: %w", err)
	}

	policy, err := channel.ParseDateCreatedPolicy(raw.DateCreatedPolicy)
	if err != nil {
		return nil, "", "", err
	}

	cfg := &Cfg{
		Repository: Repository{
			User:     raw.DBUser,
			Password: raw.DBPassword,
			Endpoint: raw.DBHost,
			Port:     raw.DBPort,
			Database: raw.DBName,
		},
		Migrate:           raw.Migrate,
		YouTubeAPIKey:     raw.YouTubeAPIKey,
		YouTubeBaseURL:    raw.YouTubeBaseURL,
		YouTubeTimeout:    raw.YouTubeTimeout,
		SlackBotToken:     raw.SlackBotToken,
		SlackChannelID:    raw.SlackChannelID,
		DateCreatedPolicy: policy,
		Port:              raw.Port,
		ViewsDir:          raw.ViewsDir,
		PublicDir:         raw.PublicDir,
		ViewsReload:       raw.ViewsReload,
		SessionTTL:        raw.SessionTTL,
		SessionSecure:     raw.SessionSecure,
		LogLevel:          raw.LogLevel,
		LogJSON:           raw.LogJSON,
	}
	return cfg, raw.Conf, raw.AWSRegion, nil
}

// applyParams overlays the parameter store keys. Missing keys leave the
// flag/env value in place.
func (c *Cfg) applyParams(repository, youtube, slack map[string]interface{}) error {
	if v, ok := stringParam(repository, "User"); ok {
		c.Repository.User = v
	}
	if v, ok := stringParam(repository, "Password"); ok {
		c.Repository.Password = v
	}
	if v, ok := stringParam(repository, "Endpoint"); ok {
		c.Repository.Endpoint = v
	}
	if v, ok := stringParam(repository, "Database"); ok {
		c.Repository.Database = v
	}
	if raw, ok := repository["Port"]; ok {
		port, err := intParam(raw)
		if err != nil {
			return fmt.Errorf("repository.Port: %w", err)
		}
		c.Repository.Port = port
	}

	if v, ok := stringParam(youtube, "ApiKey"); ok {
		c.YouTubeAPIKey = v
	}
	if v, ok := stringParam(slack, "BotToken"); ok {
		c.SlackBotToken = v
	}
	if v, ok := stringParam(slack, "ChannelID"); ok {
		c.SlackChannelID = v
	}
	return nil
}

func stringParam(m map[string]interface{}, key string) (string, bool) {
	v, ok := m[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// intParam accepts the shapes a JSON/YAML parameter decodes to.
func intParam(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}

// LoadDotEnvs loads local env files. Files loaded first win, and real
// environment variables are never overwritten.
func LoadDotEnvs(rootPath string) {
	env := os.Getenv("CHANNELMASTER_ENV")
	if env == "" {
		env = "dev"
	}

	_ = godotenv.Load(rootPath + ".env." + env + ".local")
	_ = godotenv.Load(rootPath + ".env.local")
	_ = godotenv.Load(rootPath + ".env." + env)
	_ = godotenv.Load(rootPath + ".env")
}
