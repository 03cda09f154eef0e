package handlers

import (
	"log"
	"net/http"
	"strings"

	"tgpcet-it/internal/activity"
	"tgpcet-it/internal/middleware"
	"tgpcet-it/internal/models"
	"tgpcet-it/internal/notify"

	"github.com/gin-gonic/gin"
)

type eventForm struct {
	Title       string `form:"title" binding:"required"`
	Date        string `form:"date" binding:"required"`
	Venue       string `form:"venue"`
	Description string `form:"description"`
	Fee         int    `form:"fee" binding:"gte=0"`
}

func (h *Handlers) CreateEvent(c *gin.Context) {
	nav := middleware.CurrentNav(c)

	var form eventForm
	if err := c.ShouldBind(&form); err != nil {
		flash(c, "Event title and date are required, fee cannot be negative.", notify.Warning)
		c.Redirect(http.StatusFound, nav.DashboardPath)
		return
	}

	ev := &models.Event{
		Title:       strings.TrimSpace(form.Title),
		Date:        strings.TrimSpace(form.Date),
		Venue:       strings.TrimSpace(form.Venue),
		Description: strings.TrimSpace(form.Description),
		Fee:         form.Fee,
	}
	if err := h.db.Events.CreateEvent(c.Request.Context(), ev); err != nil {
		log.Printf("create event: %v", err)
		flashError(c, err)
		c.Redirect(http.StatusFound, nav.DashboardPath)
		return
	}

	h.activity.Log(c.Request.Context(), activity.ActionEventAdded, "Created event: "+ev.Title, actorOf(nav))
	flash(c, "Event created.", notify.Success)
	c.Redirect(http.StatusFound, nav.DashboardPath)
}

// SeedStaff — сброс справочника преподавателей из дашборда, без подтверждения.
func (h *Handlers) SeedStaff(c *gin.Context) {
	nav := middleware.CurrentNav(c)

	if err := h.seeder.SeedStaff(c.Request.Context(), false); err != nil {
		log.Printf("seed staff: %v", err)
		flash(c, "Error seeding staff: "+err.Error(), notify.Error)
		c.Redirect(http.StatusFound, nav.DashboardPath)
		return
	}

	h.activity.Log(c.Request.Context(), activity.ActionStaffSeed, "Staff list reset to defaults", actorOf(nav))
	flash(c, "Staff seeded successfully!", notify.Success)
	c.Redirect(http.StatusFound, nav.DashboardPath)
}
