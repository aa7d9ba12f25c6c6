package config

import (
	"errors"
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"io/fs"
	"time"
)

var (
	ErrConfigNotLoaded = errors.New("config not loaded")
)

type Environment string

const (
	Production  Environment = "prod"
	Development Environment = "dev"
)

func (e *Environment) SetValue(s string) error {
	*e = Environment(s)
	if *e != Production && *e != Development {
		return configNotLoadedErr(`only "prod" and "dev" environments are allowed`)
	}
	return nil
}

type Config struct {
	App struct {
		Env Environment `yaml:"env" env:"ENV" env-required:""`
	} `yaml:"app" env-prefix:"APP_" env-required:""`

	Server struct {
		Host string `yaml:"host" env:"HOST" env-default:"localhost"`
		Port int    `yaml:"port" env:"PORT" env-default:"8080"`
	} `yaml:"server" env-prefix:"SERVER_"`

	DB struct {
		DSN string `yaml:"dsn" env:"DB_DSN" env-required:""`
	} `yaml:"db" env-prefix:"DB_" env-required:""`

	JWT struct {
		AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"2h"`
		RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL" env-default:"24h"`
		Secret          string        `yaml:"secret" env:"SECRET" env-required:""`
	} `yaml:"jwt" env-prefix:"JWT_" env-required:""`

	Nutrition struct {
		DefaultProteinPerKg float64 `yaml:"default_protein_per_kg" env:"DEFAULT_PROTEIN_PER_KG" env-default:"1.8"`
		FoodsPageLimit      int     `yaml:"foods_page_limit" env:"FOODS_PAGE_LIMIT" env-default:"200"`
		DefaultMealType     string  `yaml:"default_meal_type" env:"DEFAULT_MEAL_TYPE" env-default:"lunch"`
	} `yaml:"nutrition" env-prefix:"NUTRITION_"`
}

// Load reads an optional .env file into the environment, then the YAML file
// at filePath with environment overrides on top.
func Load(filePath string, envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, configNotLoadedErr("env file not loaded: %w", err)
		}
	}

	cfg := &Config{}
	if err := cleanenv.ReadConfig(filePath, cfg); err != nil {
		return nil, configNotLoadedErr("config not loaded: %w", err)
	}

	// yaml values bypass SetValue
	if err := cfg.App.Env.SetValue(string(cfg.App.Env)); err != nil {
		return nil, err
	}
	if cfg.Nutrition.DefaultProteinPerKg <= 0 {
		return nil, configNotLoadedErr("nutrition.default_protein_per_kg must be positive")
	}
	if cfg.Nutrition.FoodsPageLimit <= 0 {
		return nil, configNotLoadedErr("nutrition.foods_page_limit must be positive")
	}

	return cfg, nil
}

func MustLoad(filePath string, envFiles ...string) *Config {
	cfg, err := Load(filePath, envFiles...)
	if err != nil {
		panic(err)
	}
	return cfg
}

func configNotLoadedErr(format string, args ...any) error {
	return errors.Join(fmt.Errorf(format, args...), ErrConfigNotLoaded)
}
