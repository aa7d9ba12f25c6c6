package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseConfig = `
app:
  env: dev
db:
  dsn: postgres://localhost/diet
jwt:
  secret: s3cret
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", baseConfig))
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.App.Env)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 1.8, cfg.Nutrition.DefaultProteinPerKg)
	assert.Equal(t, 200, cfg.Nutrition.FoodsPageLimit)
	assert.Equal(t, "lunch", cfg.Nutrition.DefaultMealType)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NUTRITION_FOODS_PAGE_LIMIT", "50")

	cfg, err := Load(writeFile(t, "config.yaml", baseConfig))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Nutrition.FoodsPageLimit)
}

func TestLoad_DotEnv(t *testing.T) {
	envFile := writeFile(t, ".env", "NUTRITION_DEFAULT_MEAL_TYPE=breakfast\n")
	t.Cleanup(func() { _ = os.Unsetenv("NUTRITION_DEFAULT_MEAL_TYPE") })

	cfg, err := Load(writeFile(t, "config.yaml", baseConfig), envFile)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", cfg.Nutrition.DefaultMealType)

	_, err = Load(writeFile(t, "config.yaml", baseConfig), filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err, "a missing .env file is not an error")
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown env", "app:\n  env: staging\ndb:\n  dsn: x\njwt:\n  secret: y\n"},
		{"no secret", "app:\n  env: dev\ndb:\n  dsn: x\n"},
		{"bad protein", baseConfig + "nutrition:\n  default_protein_per_kg: -1\n"},
		{"bad limit", baseConfig + "nutrition:\n  foods_page_limit: -5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", tt.content))
			assert.ErrorIs(t, err, ErrConfigNotLoaded)
		})
	}
}

func TestLoad_RejectsZeroFoodsLimit(t *testing.T) {
	t.Setenv("NUTRITION_FOODS_PAGE_LIMIT", "0")

	_, err := Load(writeFile(t, "config.yaml", baseConfig))
	assert.ErrorIs(t, err, ErrConfigNotLoaded)
}
