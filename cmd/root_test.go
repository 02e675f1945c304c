package cmd

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/dircrawl/internal/config"
)

func TestBindEnvVars_CrawlKeysFromEnvironmentOnly(t *testing.T) {
	t.Setenv("CRAWL_MAX_RUNTIME", "45s")
	t.Setenv("CRAWL_MAX_ITEMS", "7")
	t.Setenv("CRAWL_PARALLELISM", "3")
	t.Setenv("CRAWL_DELAY", "250ms")

	require.NoError(t, bindEnvVars())

	v := viper.GetViper()
	assert.True(t, v.IsSet("crawl.max_runtime"))
	assert.True(t, v.IsSet("crawl.max_items"))

	settings, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, settings.MaxRuntime)
	assert.Equal(t, 7, settings.MaxItems)
	assert.Equal(t, 3, settings.Parallelism)
	assert.Equal(t, 250*time.Millisecond, settings.Delay)
}
