// Package auth — координатор входа: popup/redirect, роль пользователя,
// данные для навигации.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"tgpcet-it/internal/identity"
	"tgpcet-it/internal/models"
	"tgpcet-it/internal/retry"
	"tgpcet-it/internal/store"

	"github.com/google/uuid"
)

const (
	// RedirectFlagKey ставится перед уходом на redirect-вход
	// и снимается при любой смене состояния.
	RedirectFlagKey = "google-login-redirect"

	sessUID   = "uid"
	sessEmail = "email"
	sessName  = "name"
	sessPhoto = "photo"
	sessRole  = "role"

	LoginPath = "/login"
	stateTTL  = 10 * time.Minute
)

var (
	ErrInvalidState = errors.New("unknown or expired sign-in state")
	ErrNoGoogle     = &identity.Error{Code: identity.CodeOperationNotAllowed, Message: "google sign-in is not configured"}
)

// ошибки popup'а, после которых пробуем redirect
var fallbackCodes = map[string]bool{
	identity.CodePopupBlocked:          true,
	identity.CodePopupClosedByUser:     true,
	identity.CodeNetworkRequestFailed:  true,
	identity.CodeCancelledPopupRequest: true,
}

// Session — подмножество sessions.Session.
type Session interface {
	Get(key interface{}) interface{}
	Set(key interface{}, val interface{})
	Delete(key interface{})
	Clear()
	Save() error
}

type Nav struct {
	SignedIn    bool
	UID         string
	Email       string
	DisplayName string
	// Name — имя от провайдера как есть, может быть пустым
	Name          string
	PhotoURL      string
	Initial       string
	Role          models.UserRole
	DashboardPath string
	LoginPath     string
}

type SignInResult struct {
	Nav Nav
	// RedirectURL не пустой, если popup не удался и надо уйти на redirect-вход.
	RedirectURL string
}

type Options struct {
	Users      store.Users
	Google     identity.Federated
	Passwords  *identity.Passwords
	States     StateStore
	AdminEmail string
	Retry      retry.Options
}

type Coordinator struct {
	users      store.Users
	google     identity.Federated
	passwords  *identity.Passwords
	states     StateStore
	adminEmail string
	retry      retry.Options
	now        func() time.Time

	mu        sync.Mutex
	listeners map[int]func(p *identity.Principal, role models.UserRole)
	nextID    int
}

func NewCoordinator(opts Options) *Coordinator {
	states := opts.States
	if states == nil {
		states = NewMemoryStates()
	}
	return &Coordinator{
		users:      opts.Users,
		google:     opts.Google,
		passwords:  opts.Passwords,
		states:     states,
		adminEmail: strings.TrimSpace(opts.AdminEmail),
		retry:      opts.Retry,
		now:        time.Now,
		listeners:  map[int]func(*identity.Principal, models.UserRole){},
	}
}

func DashboardPath(role models.UserRole) string {
	return fmt.Sprintf("dashboard/%s/index.html", role)
}

func (c *Coordinator) GoogleEnabled() bool {
	return c.google != nil
}

// OnStateChange — подписка на вход/выход, p == nil при выходе.
func (c *Coordinator) OnStateChange(fn func(p *identity.Principal, role models.UserRole)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Coordinator) notify(p *identity.Principal, role models.UserRole) {
	c.mu.Lock()
	fns := make([]func(*identity.Principal, models.UserRole), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(p, role)
	}
}

//
// ВХОД
//

func (c *Coordinator) SignInWithGoogle(ctx context.Context, sess Session, res identity.PopupResult) (SignInResult, error) {
	if c.google == nil {
		return SignInResult{}, ErrNoGoogle
	}

	p, err := c.google.SignInWithPopup(ctx, res)
	if err == nil {
		nav, err := c.StateChanged(ctx, sess, &p)
		return SignInResult{Nav: nav}, err
	}

	log.Printf("popup login failed: %v", err)
	if !shouldFallback(err) {
		return SignInResult{}, err
	}

	log.Println("falling back to redirect login")
	state := uuid.NewString()
	if err := c.states.Put(ctx, state, stateTTL); err != nil {
		return SignInResult{}, err
	}
	sess.Set(RedirectFlagKey, "true")
	if err := sess.Save(); err != nil {
		return SignInResult{}, err
	}
	return SignInResult{RedirectURL: c.google.RedirectURL(state)}, nil
}

func shouldFallback(err error) bool {
	var idErr *identity.Error
	if !errors.As(err, &idErr) {
		return false
	}
	return fallbackCodes[idErr.Code]
}

// InRedirectFlow — вернулись ли мы с redirect-входа, а не просто открыли страницу.
func InRedirectFlow(sess Session) bool {
	v, _ := sess.Get(RedirectFlagKey).(string)
	return v == "true"
}

func (c *Coordinator) CompleteGoogleRedirect(ctx context.Context, sess Session, state, code string) (Nav, error) {
	if c.google == nil {
		return Nav{}, ErrNoGoogle
	}

	ok, err := c.states.Take(ctx, state)
	if err != nil {
		return Nav{}, err
	}
	if !ok {
		sess.Delete(RedirectFlagKey)
		_ = sess.Save()
		return Nav{}, ErrInvalidState
	}

	p, err := c.google.CompleteRedirect(ctx, code)
	if err != nil {
		sess.Delete(RedirectFlagKey)
		_ = sess.Save()
		return Nav{}, err
	}
	return c.StateChanged(ctx, sess, &p)
}

func (c *Coordinator) SignInWithPassword(ctx context.Context, sess Session, email, password string) (Nav, error) {
	if c.passwords == nil {
		return Nav{}, &identity.Error{Code: identity.CodeOperationNotAllowed}
	}
	p, err := c.passwords.SignIn(ctx, email, password)
	if err != nil {
		return Nav{}, err
	}
	return c.StateChanged(ctx, sess, &p)
}

func (c *Coordinator) Register(ctx context.Context, sess Session, email, password, displayName string) (Nav, error) {
	if c.passwords == nil {
		return Nav{}, &identity.Error{Code: identity.CodeOperationNotAllowed}
	}
	p, err := c.passwords.Register(ctx, email, password, displayName)
	if err != nil {
		return Nav{}, err
	}
	return c.StateChanged(ctx, sess, &p)
}

func (c *Coordinator) SignOut(ctx context.Context, sess Session) (Nav, error) {
	return c.StateChanged(ctx, sess, nil)
}

// StateChanged — единая точка смены вошедшего пользователя.
func (c *Coordinator) StateChanged(ctx context.Context, sess Session, p *identity.Principal) (Nav, error) {
	sess.Delete(RedirectFlagKey)

	if p == nil {
		sess.Clear()
		if err := sess.Save(); err != nil {
			return Nav{}, err
		}
		c.notify(nil, "")
		return SignedOutNav(), nil
	}

	role, err := c.ResolveRole(ctx, *p)
	if err != nil {
		// остаёмся в SignedOut
		sess.Clear()
		_ = sess.Save()
		return Nav{}, err
	}

	sess.Set(sessUID, p.UID)
	sess.Set(sessEmail, p.Email)
	sess.Set(sessName, p.DisplayName)
	sess.Set(sessPhoto, p.PhotoURL)
	sess.Set(sessRole, string(role))
	if err := sess.Save(); err != nil {
		return Nav{}, err
	}

	c.notify(p, role)
	return NavFor(*p, role), nil
}

//
// РОЛИ
//

func (c *Coordinator) isPrivileged(email string) bool {
	return c.adminEmail != "" && strings.EqualFold(strings.TrimSpace(email), c.adminEmail)
}

func (c *Coordinator) getUser(ctx context.Context, uid string) (models.User, error) {
	return retry.Do(ctx, func(ctx context.Context) (models.User, error) {
		return c.users.GetUser(ctx, uid)
	}, c.retry)
}

// ResolveRole читает роль из ролевого документа, создаёт его при первом входе
// и принудительно выдаёт admin назначенному email.
func (c *Coordinator) ResolveRole(ctx context.Context, p identity.Principal) (models.UserRole, error) {
	now := c.now().UTC()

	if c.isPrivileged(p.Email) {
		u, err := c.getUser(ctx, p.UID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return "", err
		}
		if errors.Is(err, store.ErrNotFound) || u.Role != models.RoleAdmin {
			err := retry.Run(ctx, func(ctx context.Context) error {
				return c.users.MergeUser(ctx, models.User{
					UID:       p.UID,
					Email:     p.Email,
					Role:      models.RoleAdmin,
					CreatedAt: now,
				})
			}, c.retry)
			if err != nil {
				return "", err
			}
			log.Printf("admin role enforced for %s", p.Email)
		}
	}

	u, err := c.getUser(ctx, p.UID)
	switch {
	case err == nil:
		role := u.Role
		if role == "" {
			role = models.RoleUser
		}
		if c.isPrivileged(p.Email) {
			role = models.RoleAdmin
		}
		return role, nil

	case errors.Is(err, store.ErrNotFound):
		role := models.RoleUser
		if c.isPrivileged(p.Email) {
			role = models.RoleAdmin
		}
		err := retry.Run(ctx, func(ctx context.Context) error {
			return c.users.CreateUser(ctx, models.User{
				UID:         p.UID,
				Email:       p.Email,
				DisplayName: p.DisplayName,
				PhotoURL:    p.PhotoURL,
				Role:        role,
				CreatedAt:   now,
			})
		}, c.retry)
		if err != nil {
			return "", err
		}
		return role, nil

	default:
		return "", err
	}
}

//
// НАВИГАЦИЯ
//

func SignedOutNav() Nav {
	return Nav{LoginPath: LoginPath}
}

func NavFor(p identity.Principal, role models.UserRole) Nav {
	name := p.DisplayName
	if name == "" {
		name = "User"
	}
	initial := "U"
	if p.DisplayName != "" {
		initial = strings.ToUpper(string([]rune(p.DisplayName)[0]))
	}
	return Nav{
		SignedIn:      true,
		UID:           p.UID,
		Email:         p.Email,
		DisplayName:   name,
		Name:          p.DisplayName,
		PhotoURL:      p.PhotoURL,
		Initial:       initial,
		Role:          role,
		DashboardPath: "/" + DashboardPath(role),
		LoginPath:     LoginPath,
	}
}

// NavFromSession восстанавливает навигацию из сессии без походов в хранилище.
func NavFromSession(sess Session) Nav {
	uid, _ := sess.Get(sessUID).(string)
	if uid == "" {
		return SignedOutNav()
	}
	email, _ := sess.Get(sessEmail).(string)
	name, _ := sess.Get(sessName).(string)
	photo, _ := sess.Get(sessPhoto).(string)
	role, _ := sess.Get(sessRole).(string)
	return NavFor(identity.Principal{UID: uid, Email: email, DisplayName: name, PhotoURL: photo}, models.UserRole(role))
}
