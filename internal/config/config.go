package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// WARLIGHT_PLANNER_SUCCESS_RATE.
const EnvPrefix = "WARLIGHT"

// Config holds all configuration for the bot and the arena.
type Config struct {
	Bot     BotConfig     `mapstructure:"bot"`
	Planner PlannerConfig `mapstructure:"planner"`
	Arena   ArenaConfig   `mapstructure:"arena"`
	Log     LogConfig     `mapstructure:"log"`
}

// BotConfig selects the strategy and how the bot reaches its host.
type BotConfig struct {
	Strategy      string        `mapstructure:"strategy"`
	Transport     string        `mapstructure:"transport"`
	WSURL         string        `mapstructure:"ws_url"`
	EnginePath    string        `mapstructure:"engine_path"`
	EngineTimeout time.Duration `mapstructure:"engine_timeout"`
}

// PlannerConfig holds the attack/transfer planner tuning.
type PlannerConfig struct {
	ComboMinTroops        int     `mapstructure:"combo_min_troops"`
	ComboCoverRate        float64 `mapstructure:"combo_cover_rate"`
	ComboAttackRate       float64 `mapstructure:"combo_attack_rate"`
	SuccessRate           float64 `mapstructure:"success_rate"`
	SuperiorityRate       float64 `mapstructure:"superiority_rate"`
	ExpansionRate         float64 `mapstructure:"expansion_rate"`
	GarrisonFloor         int     `mapstructure:"garrison_floor"`
	WorldDominanceLimit   int     `mapstructure:"world_dominance_limit"`
	PreferredSuperRegions []int   `mapstructure:"preferred_super_regions"`
}

// ArenaConfig holds local match settings and optional persistence.
type ArenaConfig struct {
	DatabaseURL   string        `mapstructure:"database_url"`
	RedisURL      string        `mapstructure:"redis_url"`
	MaxRounds     int           `mapstructure:"max_rounds"`
	Workers       int           `mapstructure:"workers"`
	NeutralArmies int           `mapstructure:"neutral_armies"`
	StartingPicks int           `mapstructure:"starting_picks"`
	SnapshotTTL   time.Duration `mapstructure:"snapshot_ttl"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Dev   bool   `mapstructure:"dev"`
	File  string `mapstructure:"file"`
}

var (
	mu  sync.RWMutex
	cfg *Config
	v   *viper.Viper
)

func setViperDefaults(v *viper.Viper) {
	v.SetDefault("bot.strategy", "heuristic")
	v.SetDefault("bot.transport", "stdio")
	v.SetDefault("bot.ws_url", "")
	v.SetDefault("bot.engine_path", "")
	v.SetDefault("bot.engine_timeout", 2*time.Second)

	v.SetDefault("planner.combo_min_troops", 12)
	v.SetDefault("planner.combo_cover_rate", 0.85)
	v.SetDefault("planner.combo_attack_rate", 0.85)
	v.SetDefault("planner.success_rate", 0.7)
	v.SetDefault("planner.superiority_rate", 0.6)
	v.SetDefault("planner.expansion_rate", 0.8)
	v.SetDefault("planner.garrison_floor", 2)
	v.SetDefault("planner.world_dominance_limit", 30)
	v.SetDefault("planner.preferred_super_regions", []int{2, 6})

	v.SetDefault("arena.database_url", "")
	v.SetDefault("arena.redis_url", "")
	v.SetDefault("arena.max_rounds", 100)
	v.SetDefault("arena.workers", 4)
	v.SetDefault("arena.neutral_armies", 2)
	v.SetDefault("arena.starting_picks", 3)
	v.SetDefault("arena.snapshot_ttl", time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.dev", false)
	v.SetDefault("log.file", "")
}

// Init loads defaults, the config file at path (or config.yaml in the usual
// places when path is empty), and WARLIGHT_ environment overrides.
func Init(path string) error {
	nv := viper.New()
	setViperDefaults(nv)

	if path != "" {
		nv.SetConfigFile(path)
	} else {
		nv.SetConfigName("config")
		nv.SetConfigType("yaml")
		nv.AddConfigPath(".")
		nv.AddConfigPath("./config")
		nv.AddConfigPath("/etc/warlight")
	}

	nv.SetEnvPrefix(EnvPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	if err := nv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path != "" && errors.Is(err, fs.ErrNotExist):
			// explicit file that does not exist: defaults and env only
		case path == "" && errors.As(err, &notFound):
		default:
			return fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	c := &Config{}
	if err := nv.Unmarshal(c); err != nil {
		return fmt.Errorf("config: decode: %w", err)
	}
	if err := Validate(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	mu.Lock()
	v, cfg = nv, c
	mu.Unlock()
	return nil
}

// Get returns the loaded configuration, initializing from defaults on first
// use.
func Get() *Config {
	mu.RLock()
	c := cfg
	mu.RUnlock()
	if c != nil {
		return c
	}
	if err := Init(""); err != nil {
		panic("config: failed to initialize with defaults: " + err.Error())
	}
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// ConfigFilePath returns the path of the loaded config file, if any.
func ConfigFilePath() string {
	mu.RLock()
	defer mu.RUnlock()
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// Watch re-reads the config file whenever it changes and hands the new,
// validated configuration to onChange. Invalid edits are reported through
// onError and the previous configuration stays in effect.
func Watch(onChange func(*Config), onError func(error)) {
	mu.RLock()
	nv := v
	mu.RUnlock()
	if nv == nil || nv.ConfigFileUsed() == "" {
		return
	}
	nv.OnConfigChange(func(fsnotify.Event) {
		c := &Config{}
		err := nv.Unmarshal(c)
		if err == nil {
			err = Validate(c)
		}
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("config: reload: %w", err))
			}
			return
		}
		mu.Lock()
		cfg = c
		mu.Unlock()
		if onChange != nil {
			onChange(c)
		}
	})
	nv.WatchConfig()
}

// Validate checks ranges of the configuration values.
func Validate(c *Config) error {
	switch c.Bot.Transport {
	case "stdio":
	case "ws":
		if c.Bot.WSURL == "" {
			return fmt.Errorf("bot.ws_url is required for the ws transport")
		}
	default:
		return fmt.Errorf("bot.transport must be stdio or ws, got %q", c.Bot.Transport)
	}
	if c.Bot.EngineTimeout <= 0 {
		return fmt.Errorf("bot.engine_timeout must be positive")
	}

	p := c.Planner
	rates := []struct {
		name string
		val  float64
	}{
		{"planner.combo_cover_rate", p.ComboCoverRate},
		{"planner.combo_attack_rate", p.ComboAttackRate},
		{"planner.superiority_rate", p.SuperiorityRate},
		{"planner.expansion_rate", p.ExpansionRate},
	}
	for _, r := range rates {
		if r.val <= 0 || r.val > 1 {
			return fmt.Errorf("%s must be in (0, 1]", r.name)
		}
	}
	if p.SuccessRate < 0 || p.SuccessRate >= 1 {
		return fmt.Errorf("planner.success_rate must be in [0, 1)")
	}
	if p.ComboMinTroops < 0 || p.GarrisonFloor < 0 || p.WorldDominanceLimit < 0 {
		return fmt.Errorf("planner troop thresholds must be non-negative")
	}

	if c.Arena.MaxRounds <= 0 {
		return fmt.Errorf("arena.max_rounds must be positive")
	}
	if c.Arena.Workers <= 0 {
		return fmt.Errorf("arena.workers must be positive")
	}
	if c.Arena.NeutralArmies < 0 {
		return fmt.Errorf("arena.neutral_armies must be non-negative")
	}
	if c.Arena.StartingPicks <= 0 {
		return fmt.Errorf("arena.starting_picks must be positive")
	}
	return nil
}
