package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"tgpcet-it/internal/middleware"
	"tgpcet-it/internal/models"
	"tgpcet-it/internal/notify"
	"tgpcet-it/internal/retry"
	"tgpcet-it/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	reviewListLimit    = 50
	dashboardLogsLimit = 10
)

// applicationRow — строка таблицы заявок на дашборде.
type applicationRow struct {
	models.Application
	EventTitle     string
	ApplicantName  string
	ApplicantEmail string
}

func (h *Handlers) Dashboard(c *gin.Context) {
	nav := middleware.CurrentNav(c)
	role := models.UserRole(c.Param("role"))

	if !role.Valid() {
		c.String(http.StatusNotFound, "page not found")
		return
	}
	// чужой дашборд — отправляем на свой
	if role != nav.Role {
		c.Redirect(http.StatusFound, nav.DashboardPath)
		return
	}

	ctx := c.Request.Context()
	data := gin.H{}

	switch role {
	case models.RoleUser:
		h.userDashboard(ctx, c, nav.UID, data)
	default:
		h.reviewDashboard(ctx, c, data)
		if role == models.RoleAdmin {
			logs, err := h.activity.Recent(ctx, dashboardLogsLimit)
			if err != nil {
				pageError(c, data, "activity", err)
			}
			data["logs"] = logs
		}
	}

	h.render(c, http.StatusOK, "dashboard_"+string(role)+".html", data)
}

func (h *Handlers) userDashboard(ctx context.Context, c *gin.Context, uid string, data gin.H) {
	user, err := retry.Do(ctx, func(ctx context.Context) (models.User, error) {
		return h.db.Users.GetUser(ctx, uid)
	}, h.retry)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		pageError(c, data, "profile", err)
	}
	data["profile"] = user.Profile

	apps, err := retry.Do(ctx, func(ctx context.Context) ([]models.Application, error) {
		return h.db.Applications.ListApplications(ctx, store.ApplicationFilter{UserID: uid})
	}, h.retry)
	if err != nil {
		pageError(c, data, "applications", err)
	}
	data["applications"] = h.rows(ctx, apps, false)

	events, err := h.listEvents(ctx)
	if err != nil {
		pageError(c, data, "events", err)
	}
	data["events"] = events
}

func (h *Handlers) reviewDashboard(ctx context.Context, c *gin.Context, data gin.H) {
	pending, err := retry.Do(ctx, func(ctx context.Context) ([]models.Application, error) {
		return h.db.Applications.ListApplications(ctx, store.ApplicationFilter{Status: models.StatusPending})
	}, h.retry)
	if err != nil {
		pageError(c, data, "pending applications", err)
	}
	data["pending"] = h.rows(ctx, pending, true)

	recent, err := retry.Do(ctx, func(ctx context.Context) ([]models.Application, error) {
		return h.db.Applications.ListApplications(ctx, store.ApplicationFilter{Limit: reviewListLimit})
	}, h.retry)
	if err != nil {
		pageError(c, data, "applications", err)
	}
	data["applications"] = h.rows(ctx, recent, true)
}

// rows дополняет заявки названием мероприятия и, для проверяющих, данными заявителя.
func (h *Handlers) rows(ctx context.Context, apps []models.Application, withApplicant bool) []applicationRow {
	titles := map[string]string{}
	users := map[string]models.User{}
	out := make([]applicationRow, 0, len(apps))

	for _, a := range apps {
		title, ok := titles[a.EventID]
		if !ok {
			if ev, err := h.db.Events.GetEvent(ctx, a.EventID); err == nil {
				title = ev.Title
			} else {
				title = "(deleted event)"
			}
			titles[a.EventID] = title
		}
		row := applicationRow{Application: a, EventTitle: title}

		if withApplicant {
			u, ok := users[a.UserID]
			if !ok {
				u, _ = h.db.Users.GetUser(ctx, a.UserID)
				users[a.UserID] = u
			}
			row.ApplicantEmail = u.Email
			row.ApplicantName = u.Profile.FullName
			if row.ApplicantName == "" {
				row.ApplicantName = u.DisplayName
			}
		}
		out = append(out, row)
	}
	return out
}

type profileForm struct {
	FullName string `form:"full_name" binding:"required"`
	Mobile   string `form:"mobile"`
	PRN      string `form:"prn"`
	Year     string `form:"year"`
	Section  string `form:"section"`
	Address  string `form:"address"`
}

func (h *Handlers) UpdateProfile(c *gin.Context) {
	nav := middleware.CurrentNav(c)

	var form profileForm
	if err := c.ShouldBind(&form); err != nil {
		flash(c, "Full name is required.", notify.Warning)
		c.Redirect(http.StatusFound, nav.DashboardPath)
		return
	}

	p := models.Profile{
		FullName: strings.TrimSpace(form.FullName),
		Mobile:   strings.TrimSpace(form.Mobile),
		PRN:      strings.TrimSpace(form.PRN),
		Year:     strings.TrimSpace(form.Year),
		Section:  strings.TrimSpace(form.Section),
		Address:  strings.TrimSpace(form.Address),
	}
	err := retry.Run(c.Request.Context(), func(ctx context.Context) error {
		return h.db.Users.UpdateProfile(ctx, nav.UID, p)
	}, h.retry)
	if err != nil {
		log.Printf("update profile %s: %v", nav.UID, err)
		flashError(c, err)
		c.Redirect(http.StatusFound, nav.DashboardPath)
		return
	}

	flash(c, "Profile saved.", notify.Success)
	c.Redirect(http.StatusFound, nav.DashboardPath)
}
