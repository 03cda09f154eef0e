package memstore

import (
	"context"
	"errors"
	"testing"

	"tgpcet-it/internal/store"
	"tgpcet-it/internal/store/storetest"

	"github.com/stretchr/testify/assert"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.All { return New() })
}

func TestPingErr(t *testing.T) {
	s := New()
	assert.NoError(t, s.Ping(context.Background()))

	down := errors.New("unavailable")
	s.SetPingErr(down)
	assert.ErrorIs(t, s.Ping(context.Background()), down)
}
