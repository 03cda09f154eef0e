package docstore

import (
	"context"
	"os"
	"testing"

	"tgpcet-it/internal/store"
	"tgpcet-it/internal/store/storetest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// openTestStore работает только с эмулятором Firestore
// (gcloud emulators firestore start).
func openTestStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	s, err := Open(context.Background(), "tgpcet-test")
	if err != nil {
		t.Skipf("firestore emulator unavailable: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// clear удаляет все документы из коллекций сайта.
func (s *Store) clear(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, name := range []string{usersCollection, logsCollection, staffCollection, eventsCollection, applicationsCollection} {
		refs, err := s.client.Collection(name).DocumentRefs(ctx).GetAll()
		require.NoError(t, err)
		for _, ref := range refs {
			_, err := ref.Delete(ctx)
			require.NoError(t, err)
		}
	}
}

func TestStoreContract(t *testing.T) {
	s := openTestStore(t)
	storetest.Run(t, func(t *testing.T) store.All {
		s.clear(t)
		return s
	})
}

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(status.Error(codes.NotFound, "no document")), store.ErrNotFound)

	other := status.Error(codes.Unavailable, "backend down")
	assert.Equal(t, other, notFound(other))

	plain := errors.New("boom")
	assert.Equal(t, plain, notFound(plain))
}
