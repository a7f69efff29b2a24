package cmd

import (
	"bytes"
	"testing"

	"github.com/danielolaszy/prfetch/internal/cache"
	"github.com/danielolaszy/prfetch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCache(t *testing.T) {
	store := cache.New[models.FetchResult]()
	store.Set(cache.GenerateKey("octo", "repo", "open", "created", "desc"), models.FetchResult{})
	store.Set(cache.GenerateKey("cli", "cli", "all", "updated", "asc"), models.FetchResult{})

	var out bytes.Buffer
	require.NoError(t, runCache(&out, store, false, true))
	assert.Equal(t,
		"Cached entries: 2\n  - cli/cli:all:updated:asc\n  - octo/repo:open:created:desc\n",
		out.String())

	out.Reset()
	require.NoError(t, runCache(&out, store, true, false))
	assert.Equal(t, "Cache cleared\n", out.String())
	assert.Equal(t, 0, store.Stats().Count)
}

func TestRunCacheNeedsFlag(t *testing.T) {
	var out bytes.Buffer
	err := runCache(&out, cache.New[models.FetchResult](), false, false)
	assert.Error(t, err)
	assert.Empty(t, out.String())
}
