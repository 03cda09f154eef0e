package backend

import (
	"context"
	"testing"

	"tgpcet-it/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemory(t *testing.T) {
	b, err := Open(context.Background(), &config.Config{DocStore: config.StoreMemory})
	require.NoError(t, err)
	assert.NoError(t, b.Ping(context.Background()))
	assert.NoError(t, b.Close())
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{DocStore: "mongo"})
	assert.EqualError(t, err, `unknown backend "mongo"`)
}
