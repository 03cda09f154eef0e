package handlers

import (
	"log"
	"net/http"
	"strings"

	"tgpcet-it/internal/auth"
	"tgpcet-it/internal/identity"
	"tgpcet-it/internal/middleware"
	"tgpcet-it/internal/notify"
	"tgpcet-it/internal/ui"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func welcome(c *gin.Context, nav auth.Nav) {
	flash(c, "Welcome, "+nav.DisplayName+"!", notify.Success)
}

func (h *Handlers) ShowLogin(c *gin.Context) {
	if nav := middleware.CurrentNav(c); nav.SignedIn {
		c.Redirect(http.StatusFound, nav.DashboardPath)
		return
	}
	h.render(c, http.StatusOK, "login.html", gin.H{"error": ""})
}

type loginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *Handlers) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "login.html", gin.H{"error": "Please enter your email and password."})
		return
	}

	nav, err := h.auth.SignInWithPassword(c.Request.Context(), sessions.Default(c), form.Email, form.Password)
	if err != nil {
		log.Printf("password login failed for %s: %v", form.Email, err)
		h.render(c, http.StatusBadRequest, "login.html", gin.H{
			"error": ui.ErrorMessage(err),
			"email": form.Email,
		})
		return
	}

	welcome(c, nav)
	c.Redirect(http.StatusFound, nav.DashboardPath)
}

func (h *Handlers) ShowRegister(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{"error": ""})
}

type registerForm struct {
	Name     string `form:"name"`
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *Handlers) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "register.html", gin.H{"error": "Please enter your email and password."})
		return
	}

	nav, err := h.auth.Register(c.Request.Context(), sessions.Default(c), form.Email, form.Password, strings.TrimSpace(form.Name))
	if err != nil {
		h.render(c, http.StatusBadRequest, "register.html", gin.H{
			"error": ui.ErrorMessage(err),
			"email": form.Email,
			"name":  form.Name,
		})
		return
	}

	flash(c, "Account created successfully!", notify.Success)
	c.Redirect(http.StatusFound, nav.DashboardPath)
}

//
// GOOGLE
//

// googleForm — то, что страница входа присылает после popup'а:
// либо ID token, либо код ошибки popup'а.
type googleForm struct {
	Credential string `form:"credential" json:"credential"`
	ErrorCode  string `form:"error_code" json:"error_code"`
}

func (h *Handlers) GoogleLogin(c *gin.Context) {
	if !h.auth.GoogleEnabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": ui.ErrorMessage(auth.ErrNoGoogle)})
		return
	}

	var form googleForm
	if err := c.ShouldBind(&form); err != nil || (form.Credential == "" && form.ErrorCode == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing Google credential."})
		return
	}

	res, err := h.auth.SignInWithGoogle(c.Request.Context(), sessions.Default(c), identity.PopupResult{
		Credential: form.Credential,
		ErrorCode:  form.ErrorCode,
	})
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ui.ErrorMessage(err)})
		return
	}

	if res.RedirectURL != "" {
		c.JSON(http.StatusOK, gin.H{"redirect": res.RedirectURL})
		return
	}

	welcome(c, res.Nav)
	c.JSON(http.StatusOK, gin.H{"redirect": res.Nav.DashboardPath})
}

func (h *Handlers) GoogleCallback(c *gin.Context) {
	sess := sessions.Default(c)

	if !auth.InRedirectFlow(sess) {
		// обычное открытие страницы, продолжать нечего
		c.Redirect(http.StatusFound, auth.LoginPath)
		return
	}

	if e := c.Query("error"); e != "" {
		log.Printf("google redirect returned error: %s", e)
		_, _ = h.auth.StateChanged(c.Request.Context(), sess, nil)
		flash(c, "Google sign-in was cancelled.", notify.Warning)
		c.Redirect(http.StatusFound, auth.LoginPath)
		return
	}

	nav, err := h.auth.CompleteGoogleRedirect(c.Request.Context(), sess, c.Query("state"), c.Query("code"))
	if err != nil {
		log.Printf("redirect login failed: %v", err)
		flashError(c, err)
		c.Redirect(http.StatusFound, auth.LoginPath)
		return
	}

	welcome(c, nav)
	c.Redirect(http.StatusFound, nav.DashboardPath)
}

func (h *Handlers) Logout(c *gin.Context) {
	if _, err := h.auth.SignOut(c.Request.Context(), sessions.Default(c)); err != nil {
		log.Printf("sign out: %v", err)
	}
	flash(c, "You have been signed out.", notify.Info)
	c.Redirect(http.StatusFound, "/")
}
