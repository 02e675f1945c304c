package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/dircrawl/internal/config"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	s := config.Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, config.DefaultMaxRuntime, s.MaxRuntime)
	assert.Equal(t, config.DefaultParallelism, s.Parallelism)
	assert.True(t, s.RespectRobotsTxt)
	assert.Equal(t, "info", s.Logger.Level)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("unset keys keep defaults", func(t *testing.T) {
		t.Parallel()

		s, err := config.Load(viper.New())
		require.NoError(t, err)
		assert.Equal(t, config.Default(), s)
	})

	t.Run("set keys override defaults", func(t *testing.T) {
		t.Parallel()

		v := viper.New()
		v.Set("crawl.max_runtime", "90s")
		v.Set("crawl.max_items", 25)
		v.Set("crawl.parallelism", 2)
		v.Set("crawl.respect_robots_txt", false)
		v.Set("logger.level", "debug")

		s, err := config.Load(v)
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, s.MaxRuntime)
		assert.Equal(t, 25, s.MaxItems)
		assert.Equal(t, 2, s.Parallelism)
		assert.False(t, s.RespectRobotsTxt)
		assert.Equal(t, "debug", s.Logger.Level)
		assert.Equal(t, config.DefaultDelay, s.Delay, "unset key keeps default")
	})

	t.Run("invalid values fail", func(t *testing.T) {
		t.Parallel()

		v := viper.New()
		v.Set("crawl.parallelism", 0)

		_, err := config.Load(v)
		require.Error(t, err)
	})
}

func TestSettings_Apply(t *testing.T) {
	t.Parallel()

	base := config.Default()
	timeout := 10 * time.Second
	items := 5

	merged := base.Apply(&config.Overrides{
		MaxRuntime: &timeout,
		MaxItems:   &items,
	})

	assert.Equal(t, 10*time.Second, merged.MaxRuntime)
	assert.Equal(t, 5, merged.MaxItems)
	assert.Equal(t, base.Parallelism, merged.Parallelism, "nil override keeps base")
	assert.Equal(t, config.DefaultMaxRuntime, base.MaxRuntime, "receiver unchanged")

	assert.Equal(t, base, base.Apply(nil))
}

func TestSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Settings)
		wantErr bool
	}{
		{"defaults valid", func(*config.Settings) {}, false},
		{"zero max runtime valid", func(s *config.Settings) { s.MaxRuntime = 0 }, false},
		{"negative max runtime", func(s *config.Settings) { s.MaxRuntime = -time.Second }, true},
		{"negative max items", func(s *config.Settings) { s.MaxItems = -1 }, true},
		{"zero parallelism", func(s *config.Settings) { s.Parallelism = 0 }, true},
		{"negative delay", func(s *config.Settings) { s.Delay = -time.Second }, true},
		{"zero request timeout", func(s *config.Settings) { s.RequestTimeout = 0 }, true},
		{"empty user agent", func(s *config.Settings) { s.UserAgent = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := config.Default()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
