package server

import (
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"tgpcet-it/internal/config"
	"tgpcet-it/internal/handlers"
	"tgpcet-it/internal/middleware"
	"tgpcet-it/internal/models"
	"tgpcet-it/internal/ui"
	"tgpcet-it/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func maskEmail(email string) string {
	runes := []rune(email)
	atIdx := -1
	for i, r := range runes {
		if r == '@' {
			atIdx = i
			break
		}
	}
	if atIdx <= 0 {
		return "***"
	}
	prefix := string(runes[:atIdx])
	domain := string(runes[atIdx:])
	if len(prefix) <= 2 {
		return prefix + "***" + domain
	}
	return string(runes[0:2]) + "***" + domain
}

func maskPhone(phone string) string {
	runes := []rune(phone)
	n := len(runes)
	if n <= 4 {
		return "***"
	}
	masked := make([]rune, n)
	for i := range runes {
		if i >= n-2 {
			masked[i] = runes[i]
		} else {
			masked[i] = '*'
		}
	}
	return string(masked)
}

func formatDate(t interface{}) string {
	switch v := t.(type) {
	case time.Time:
		if v.IsZero() {
			return "N/A"
		}
		return v.Format("02/01/2006")
	case *time.Time:
		if v == nil || v.IsZero() {
			return "N/A"
		}
		return v.Format("02/01/2006")
	}
	return "N/A"
}

var funcs = template.FuncMap{
	"maskEmail": maskEmail,
	"maskPhone": maskPhone,
	"date":      formatDate,
	"spinner":   ui.Spinner,
	"overlay":   ui.Overlay,
	// стили тостов — константы из notify
	"css": func(s string) template.CSS { return template.CSS(s) },
}

// Templates — все шаблоны сайта из встроенной ФС.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(web.Templates, "templates/*.html"))
}

func NewRouter(cfg *config.Config, h *handlers.Handlers) *gin.Engine {
	r := gin.Default()

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic(err)
	}
	r.StaticFS("/static", http.FS(static))
	r.Static("/images", cfg.AssetsDir)

	r.SetHTMLTemplate(Templates())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 7 * 24 * 3600, HttpOnly: true})
	r.Use(sessions.Sessions("tgpcet_session", store))

	r.Use(middleware.InjectUser())

	// ПУБЛИЧНЫЕ СТРАНИЦЫ
	r.GET("/", h.IndexPage)
	r.GET("/staff", h.StaffPage)
	r.GET("/events", h.EventsPage)
	r.GET("/gallery", h.GalleryPage)

	// AUTH
	r.GET("/register", h.ShowRegister)
	r.POST("/register", h.Register)
	r.GET("/login", h.ShowLogin)
	r.POST("/login", h.Login)
	r.POST("/login/google", h.GoogleLogin)
	r.GET("/login/google/callback", h.GoogleCallback)
	r.GET("/logout", h.Logout)
	r.POST("/logout", h.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	// ДАШБОРДЫ
	auth.GET("/dashboard/:role/index.html", h.Dashboard)
	auth.POST("/dashboard/profile", h.UpdateProfile)

	// ЗАЯВКИ
	auth.POST("/events/:id/apply", h.Apply)
	auth.GET("/applications/:id/form.pdf", h.ApplicationPDF)
	auth.GET("/applications/:id/admit-card.pdf", h.AdmitCardPDF)

	// рассмотрение — преподаватель и админ
	auth.POST("/dashboard/applications/:id/approve",
		middleware.RequireRole(models.RoleFaculty, models.RoleAdmin),
		h.ApproveApplication,
	)
	auth.POST("/dashboard/applications/:id/reject",
		middleware.RequireRole(models.RoleFaculty, models.RoleAdmin),
		h.RejectApplication,
	)

	// АДМИН
	auth.POST("/dashboard/admin/events",
		middleware.RequireRole(models.RoleAdmin),
		h.CreateEvent,
	)
	auth.POST("/dashboard/admin/seed-staff",
		middleware.RequireRole(models.RoleAdmin),
		h.SeedStaff,
	)
	auth.GET("/activity",
		middleware.RequireRole(models.RoleAdmin),
		h.ListActivity,
	)

	// HEALTHCHECK
	r.GET("/health", handlers.Health)
	r.GET("/status", h.Status)

	return r
}
