// Package handlers — HTTP-обработчики сайта кафедры.
package handlers

import (
	"tgpcet-it/internal/activity"
	"tgpcet-it/internal/auth"
	"tgpcet-it/internal/netstatus"
	"tgpcet-it/internal/notify"
	"tgpcet-it/internal/pdf"
	"tgpcet-it/internal/retry"
	"tgpcet-it/internal/seed"
	"tgpcet-it/internal/store"
)

type Deps struct {
	Backend  *store.Backend
	Auth     *auth.Coordinator
	Activity *activity.Logger
	PDF      *pdf.Renderer
	Seeder   *seed.Seeder
	Monitor  *netstatus.Monitor
	Toasts   *notify.Container
	Retry    retry.Options

	// каталог галереи с event-images.json
	GalleryDir     string
	GoogleClientID string
}

type Handlers struct {
	db       *store.Backend
	auth     *auth.Coordinator
	activity *activity.Logger
	pdf      *pdf.Renderer
	seeder   *seed.Seeder
	monitor  *netstatus.Monitor
	toasts   *notify.Container
	retry    retry.Options

	galleryDir     string
	googleClientID string
}

func New(d Deps) *Handlers {
	return &Handlers{
		db:             d.Backend,
		auth:           d.Auth,
		activity:       d.Activity,
		pdf:            d.PDF,
		seeder:         d.Seeder,
		monitor:        d.Monitor,
		toasts:         d.Toasts,
		retry:          d.Retry,
		galleryDir:     d.GalleryDir,
		googleClientID: d.GoogleClientID,
	}
}
