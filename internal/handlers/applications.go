package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"tgpcet-it/internal/activity"
	"tgpcet-it/internal/auth"
	"tgpcet-it/internal/middleware"
	"tgpcet-it/internal/models"
	"tgpcet-it/internal/notify"
	"tgpcet-it/internal/pdf"
	"tgpcet-it/internal/retry"
	"tgpcet-it/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxTeamMembers = 10

func newApplicationNumber(now time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("TGP%s-%s", now.Format("20060102"), short)
}

// teamFromForm собирает участников из параллельных полей member_*.
// Строки без имени и email пропускаются.
func teamFromForm(c *gin.Context) []models.TeamMember {
	names := c.PostFormArray("member_name")
	emails := c.PostFormArray("member_email")
	mobiles := c.PostFormArray("member_mobile")
	prns := c.PostFormArray("member_prn")

	at := func(list []string, i int) string {
		if i < len(list) {
			return strings.TrimSpace(list[i])
		}
		return ""
	}

	var team []models.TeamMember
	for i := range names {
		m := models.TeamMember{
			Name:   at(names, i),
			Email:  at(emails, i),
			Mobile: at(mobiles, i),
			PRN:    at(prns, i),
		}
		if m.Name == "" && m.Email == "" {
			continue
		}
		team = append(team, m)
	}
	return team
}

//
// ПОДАЧА ЗАЯВКИ
//

func (h *Handlers) Apply(c *gin.Context) {
	nav := middleware.CurrentNav(c)
	ctx := c.Request.Context()
	eventID := c.Param("id")

	ev, err := h.db.Events.GetEvent(ctx, eventID)
	if errors.Is(err, store.ErrNotFound) {
		c.String(http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		flashError(c, err)
		c.Redirect(http.StatusFound, "/events")
		return
	}

	existing, err := h.db.Applications.ListApplications(ctx, store.ApplicationFilter{UserID: nav.UID})
	if err != nil {
		flashError(c, err)
		c.Redirect(http.StatusFound, "/events")
		return
	}
	for _, a := range existing {
		if a.EventID == ev.ID {
			alreadyApplied(c, nav.DashboardPath)
			return
		}
	}

	team := teamFromForm(c)
	if len(team) > maxTeamMembers {
		flash(c, fmt.Sprintf("A team can have at most %d members.", maxTeamMembers), notify.Warning)
		c.Redirect(http.StatusFound, "/events")
		return
	}

	txID := strings.TrimSpace(c.PostForm("transaction_id"))
	if ev.Fee > 0 && txID == "" {
		flash(c, "Please enter the payment transaction ID.", notify.Warning)
		c.Redirect(http.StatusFound, "/events")
		return
	}

	now := time.Now().UTC()
	app := &models.Application{
		ApplicationNumber: newApplicationNumber(now),
		EventID:           ev.ID,
		UserID:            nav.UID,
		Status:            models.StatusPending,
		Fee:               ev.Fee,
		TransactionID:     txID,
		TeamMembers:       team,
		AppliedAt:         now,
	}
	err = h.db.Applications.CreateApplication(ctx, app)
	if errors.Is(err, store.ErrDuplicate) {
		// вторая отправка формы обогнала проверку выше
		alreadyApplied(c, nav.DashboardPath)
		return
	}
	if err != nil {
		log.Printf("create application: %v", err)
		flashError(c, err)
		c.Redirect(http.StatusFound, "/events")
		return
	}

	flash(c, "Application submitted! Number: "+app.ApplicationNumber, notify.Success)
	c.Redirect(http.StatusFound, nav.DashboardPath)
}

func alreadyApplied(c *gin.Context, dashboard string) {
	flash(c, "You have already applied for this event.", notify.Warning)
	c.Redirect(http.StatusFound, dashboard)
}

//
// PDF
//

// loadForDocument достаёт заявку, заявителя и мероприятие и проверяет доступ:
// владелец заявки, преподаватель или администратор.
func (h *Handlers) loadForDocument(c *gin.Context) (models.User, models.Event, models.Application, bool) {
	nav := middleware.CurrentNav(c)
	ctx := c.Request.Context()

	app, err := retry.Do(ctx, func(ctx context.Context) (models.Application, error) {
		return h.db.Applications.GetApplication(ctx, c.Param("id"))
	}, h.retry)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.String(http.StatusNotFound, "application not found")
		} else {
			c.String(http.StatusInternalServerError, "failed to load application")
		}
		return models.User{}, models.Event{}, models.Application{}, false
	}

	if app.UserID != nav.UID && !nav.Role.CanReview() {
		c.String(http.StatusForbidden, "access denied")
		return models.User{}, models.Event{}, models.Application{}, false
	}

	user, err := h.db.Users.GetUser(ctx, app.UserID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		c.String(http.StatusInternalServerError, "failed to load applicant")
		return models.User{}, models.Event{}, models.Application{}, false
	}
	ev, err := h.db.Events.GetEvent(ctx, app.EventID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		c.String(http.StatusInternalServerError, "failed to load event")
		return models.User{}, models.Event{}, models.Application{}, false
	}
	return user, ev, app, true
}

func sendPDF(c *gin.Context, doc pdf.Document, err error) {
	if err != nil {
		log.Printf("PDF generation error: %v", err)
		c.String(http.StatusInternalServerError, "Failed to generate PDF. Please try again.")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}

func (h *Handlers) ApplicationPDF(c *gin.Context) {
	user, ev, app, ok := h.loadForDocument(c)
	if !ok {
		return
	}
	doc, err := h.pdf.ApplicationForm(user, ev, app)
	sendPDF(c, doc, err)
}

func (h *Handlers) AdmitCardPDF(c *gin.Context) {
	user, ev, app, ok := h.loadForDocument(c)
	if !ok {
		return
	}
	if app.Status != models.StatusApproved {
		c.String(http.StatusConflict, "admit card is available only for approved applications")
		return
	}
	doc, err := h.pdf.AdmitCard(user, ev, app)
	sendPDF(c, doc, err)
}

//
// РАССМОТРЕНИЕ
//

func (h *Handlers) ApproveApplication(c *gin.Context) {
	h.decide(c, models.StatusApproved)
}

func (h *Handlers) RejectApplication(c *gin.Context) {
	h.decide(c, models.StatusRejected)
}

func (h *Handlers) decide(c *gin.Context, status models.ApplicationStatus) {
	nav := middleware.CurrentNav(c)
	ctx := c.Request.Context()
	id := c.Param("id")

	app, err := h.db.Applications.GetApplication(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.String(http.StatusNotFound, "application not found")
		return
	}
	if err != nil {
		flashError(c, err)
		c.Redirect(http.StatusFound, nav.DashboardPath)
		return
	}

	d := models.Decision{
		Status:       status,
		ApproverName: nav.Name,
		ApproverRole: string(nav.Role),
		ProcessedAt:  time.Now().UTC(),
	}
	err = retry.Run(ctx, func(ctx context.Context) error {
		return h.db.Applications.DecideApplication(ctx, id, d)
	}, h.retry)
	if err != nil {
		log.Printf("decide application %s: %v", id, err)
		flashError(c, err)
		c.Redirect(http.StatusFound, nav.DashboardPath)
		return
	}

	action, verb := activity.ActionApprove, "approved"
	if status == models.StatusRejected {
		action, verb = activity.ActionReject, "rejected"
	}
	h.activity.Log(ctx, action,
		fmt.Sprintf("Application %s %s", app.ApplicationNumber, verb),
		actorOf(nav))

	flash(c, fmt.Sprintf("Application %s %s.", app.ApplicationNumber, verb), notify.Success)
	c.Redirect(http.StatusFound, nav.DashboardPath)
}

func actorOf(nav auth.Nav) activity.Actor {
	return activity.Actor{Email: nav.Email, Name: nav.Name}
}
