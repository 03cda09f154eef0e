// Package backend выбирает и открывает хранилище по конфигу.
package backend

import (
	"context"
	"log"

	"tgpcet-it/internal/config"
	"tgpcet-it/internal/database"
	"tgpcet-it/internal/docstore"
	"tgpcet-it/internal/memstore"
	"tgpcet-it/internal/store"

	"github.com/pkg/errors"
)

func Open(ctx context.Context, cfg *config.Config) (*store.Backend, error) {
	switch cfg.DocStore {
	case config.StorePostgres:
		db, err := database.Open(ctx, cfg.DBDSN, cfg.DBConnectRetries)
		if err != nil {
			return nil, err
		}
		log.Println("backend: postgres")
		return store.NewBackend(db), nil

	case config.StoreFirestore:
		fs, err := docstore.Open(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, err
		}
		log.Printf("backend: firestore (%s)", cfg.FirestoreProjectID)
		return store.NewBackend(fs), nil

	case config.StoreMemory:
		log.Println("backend: in-memory, data is lost on restart")
		return store.NewBackend(memstore.New()), nil
	}
	return nil, errors.Errorf("unknown backend %q", cfg.DocStore)
}
