package config

import (
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/table"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. HOLDEM_TABLE_BIG_BLIND
const EnvPrefix = "HOLDEM"

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Table     domain.TableRules
	Pauses    table.Pauses
	Countdown CountdownConfig
}

type ServerConfig struct {
	Addr string
}

type LogConfig struct {
	Level  string
	Format string // text or json
}

type CountdownConfig struct {
	VoteWindow time.Duration
	Tick       time.Duration
}

// SetDefaults registers the default of every key
func SetDefaults(v *viper.Viper) {
	rules := domain.DefaultRules()
	pauses := table.DefaultPauses()
	settings := table.DefaultSettings()

	v.SetDefault("server.addr", "0.0.0.0:7777")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("table.max_players", rules.MaxPlayers)
	v.SetDefault("table.min_players", rules.MinPlayers)
	v.SetDefault("table.small_blind", rules.SmallBlind)
	v.SetDefault("table.big_blind", rules.BigBlind)
	v.SetDefault("table.buy_in", rules.BuyIn)
	v.SetDefault("table.time_budget", rules.TimeBudget)
	v.SetDefault("table.votes_to_extend", rules.VotesToExtend)

	v.SetDefault("pauses.street", pauses.Street)
	v.SetDefault("pauses.showdown", pauses.Showdown)
	v.SetDefault("pauses.results", pauses.Results)

	v.SetDefault("countdown.vote_window", settings.VoteWindow)
	v.SetDefault("countdown.tick", settings.Tick)
}

// LoadDotEnv reads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return errors.Wrapf(err, "loading %s", path)
}

// Load resolves the configuration from defaults, the optional config file
// (key "config"), HOLDEM_ environment variables and any flags bound to v.
// The table rules are validated.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", file)
		}
	}

	cfg := &Config{
		Server: ServerConfig{Addr: v.GetString("server.addr")},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Table: domain.TableRules{
			MaxPlayers:    v.GetInt("table.max_players"),
			MinPlayers:    v.GetInt("table.min_players"),
			SmallBlind:    v.GetInt("table.small_blind"),
			BigBlind:      v.GetInt("table.big_blind"),
			BuyIn:         v.GetInt("table.buy_in"),
			TimeBudget:    v.GetDuration("table.time_budget"),
			VotesToExtend: v.GetInt("table.votes_to_extend"),
		},
		Pauses: table.Pauses{
			Street:   v.GetDuration("pauses.street"),
			Showdown: v.GetDuration("pauses.showdown"),
			Results:  v.GetDuration("pauses.results"),
		},
		Countdown: CountdownConfig{
			VoteWindow: v.GetDuration("countdown.vote_window"),
			Tick:       v.GetDuration("countdown.tick"),
		},
	}

	if err := cfg.Table.Validate(); err != nil {
		return nil, err
	}
	if cfg.Countdown.Tick <= 0 {
		return nil, &domain.ValidationError{Field: "countdown tick", Message: "must be positive"}
	}
	return cfg, nil
}

// Settings returns the registry timings
func (c *Config) Settings() table.Settings {
	return table.Settings{
		Pauses:     c.Pauses,
		VoteWindow: c.Countdown.VoteWindow,
		Tick:       c.Countdown.Tick,
	}
}

// NewLogger builds the process logger
func NewLogger(cfg LogConfig) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, &domain.ValidationError{Field: "log level", Message: err.Error()}
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	switch cfg.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, &domain.ValidationError{Field: "log format", Message: "must be text or json"}
	}
	return log, nil
}
