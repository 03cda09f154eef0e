package handlers

import (
	"time"

	"tgpcet-it/internal/middleware"
	"tgpcet-it/internal/notify"
	"tgpcet-it/internal/ui"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// render — обёртка над c.HTML, которая во все шаблоны прокидывает
// навигацию, тосты и индикатор связи.
func (h *Handlers) render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	data["Nav"] = middleware.CurrentNav(c)
	data["GoogleClientID"] = h.googleClientID

	var toasts []notify.Toast
	if h.toasts != nil {
		toasts = append(toasts, h.toasts.Active()...)
	}
	toasts = append(toasts, notify.TakeFlashes(sessions.Default(c), time.Now())...)
	data["Toasts"] = toasts

	online := true
	if h.monitor != nil {
		online = h.monitor.Online()
	}
	data["Online"] = online
	data["Connection"] = ui.ConnectionIndicator(online)
	if !online {
		data["RetryPanel"] = ui.RetryPanel("The database is unreachable right now.", c.Request.URL.Path)
	}

	c.HTML(status, tmpl, data)
}

// flash — тост на следующую страницу.
func flash(c *gin.Context, msg string, severity notify.Severity) {
	notify.Flash(sessions.Default(c), msg, severity)
}

func flashError(c *gin.Context, err error) {
	flash(c, ui.ErrorMessage(err), notify.Error)
}
