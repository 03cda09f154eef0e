package handlers

import (
	"context"
	"log"
	"net/http"

	"tgpcet-it/internal/assets"
	"tgpcet-it/internal/models"
	"tgpcet-it/internal/retry"
	"tgpcet-it/internal/ui"

	"github.com/gin-gonic/gin"
)

const homeEventsLimit = 3

func (h *Handlers) listEvents(ctx context.Context) ([]models.Event, error) {
	return retry.Do(ctx, func(ctx context.Context) ([]models.Event, error) {
		return h.db.Events.ListEvents(ctx)
	}, h.retry)
}

// pageError — страница отрисуется без данных, но с сообщением и кнопкой повтора.
func pageError(c *gin.Context, data gin.H, what string, err error) {
	log.Printf("load %s: %v", what, err)
	msg := ui.ErrorMessage(err)
	data["error"] = msg
	data["RetryPanel"] = ui.RetryPanel(msg, c.Request.URL.Path)
}

func (h *Handlers) IndexPage(c *gin.Context) {
	data := gin.H{}

	events, err := h.listEvents(c.Request.Context())
	if err != nil {
		pageError(c, data, "events", err)
	}
	if len(events) > homeEventsLimit {
		events = events[:homeEventsLimit]
	}
	data["events"] = events

	h.render(c, http.StatusOK, "index.html", data)
}

func (h *Handlers) StaffPage(c *gin.Context) {
	data := gin.H{}

	staff, err := retry.Do(c.Request.Context(), func(ctx context.Context) ([]models.Staff, error) {
		return h.db.Staff.ListStaff(ctx)
	}, h.retry)
	if err != nil {
		pageError(c, data, "staff", err)
	}
	data["staff"] = staff

	h.render(c, http.StatusOK, "staff.html", data)
}

func (h *Handlers) EventsPage(c *gin.Context) {
	data := gin.H{}

	events, err := h.listEvents(c.Request.Context())
	if err != nil {
		pageError(c, data, "events", err)
	}
	data["events"] = events

	h.render(c, http.StatusOK, "events.html", data)
}

func (h *Handlers) GalleryPage(c *gin.Context) {
	data := gin.H{}

	images, err := assets.ReadManifest(h.galleryDir)
	if err != nil {
		pageError(c, data, "gallery", err)
	}
	data["images"] = images

	h.render(c, http.StatusOK, "gallery.html", data)
}

// Status — состояние связи с хранилищем для индикатора на странице.
func (h *Handlers) Status(c *gin.Context) {
	online := true
	if h.monitor != nil {
		online = h.monitor.Online()
	}
	c.JSON(http.StatusOK, gin.H{"online": online})
}

func Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
