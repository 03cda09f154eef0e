package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"tgpcet-it/internal/identity"
	"tgpcet-it/internal/memstore"
	"tgpcet-it/internal/models"
	"tgpcet-it/internal/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminEmail = "hod.it@tgpcet.ac.in"

type fakeSession struct {
	values map[interface{}]interface{}
	saves  int
}

func newFakeSession() *fakeSession {
	return &fakeSession{values: map[interface{}]interface{}{}}
}

func (s *fakeSession) Get(key interface{}) interface{}      { return s.values[key] }
func (s *fakeSession) Set(key interface{}, val interface{}) { s.values[key] = val }
func (s *fakeSession) Delete(key interface{})               { delete(s.values, key) }
func (s *fakeSession) Clear()                               { s.values = map[interface{}]interface{}{} }
func (s *fakeSession) Save() error                          { s.saves++; return nil }

type fakeGoogle struct {
	popupPrincipal identity.Principal
	popupErr       error
	redirectCalls  []string
	exchangeResult identity.Principal
	exchangeErr    error
}

func (g *fakeGoogle) SignInWithPopup(ctx context.Context, res identity.PopupResult) (identity.Principal, error) {
	if res.ErrorCode != "" {
		return identity.Principal{}, &identity.Error{Code: res.ErrorCode}
	}
	return g.popupPrincipal, g.popupErr
}

func (g *fakeGoogle) RedirectURL(state string) string {
	g.redirectCalls = append(g.redirectCalls, state)
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (g *fakeGoogle) CompleteRedirect(ctx context.Context, code string) (identity.Principal, error) {
	return g.exchangeResult, g.exchangeErr
}

func setup(t *testing.T) (*Coordinator, *memstore.Store, *fakeGoogle) {
	t.Helper()
	db := memstore.New()
	g := &fakeGoogle{}
	c := NewCoordinator(Options{
		Users:      db,
		Google:     g,
		Passwords:  identity.NewPasswords(db),
		AdminEmail: adminEmail,
		Retry:      retry.Options{MaxRetries: 1},
	})
	return c, db, g
}

func TestDashboardPath(t *testing.T) {
	assert.Equal(t, "dashboard/admin/index.html", DashboardPath(models.RoleAdmin))
	assert.Equal(t, "dashboard/user/index.html", DashboardPath(models.RoleUser))
	assert.Equal(t, "dashboard/faculty/index.html", DashboardPath("faculty"))
}

func TestResolveRoleNewUserDefaultsToUser(t *testing.T) {
	c, db, _ := setup(t)
	ctx := context.Background()

	role, err := c.ResolveRole(ctx, identity.Principal{UID: "u1", Email: "student@tgpcet.ac.in", DisplayName: "Asha"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)

	u, err := db.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, "student@tgpcet.ac.in", u.Email)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestResolveRoleKeepsStoredRole(t *testing.T) {
	c, db, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, db.CreateUser(ctx, models.User{UID: "f1", Email: "prof@tgpcet.ac.in", Role: models.RoleFaculty}))
	require.NoError(t, db.CreateUser(ctx, models.User{UID: "e1", Email: "empty@tgpcet.ac.in"}))

	role, err := c.ResolveRole(ctx, identity.Principal{UID: "f1", Email: "prof@tgpcet.ac.in"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleFaculty, role)

	role, err = c.ResolveRole(ctx, identity.Principal{UID: "e1", Email: "empty@tgpcet.ac.in"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)
}

func TestResolveRolePrivilegedEmailAlwaysAdmin(t *testing.T) {
	tests := []struct {
		name  string
		prior *models.User
	}{
		{name: "no prior record"},
		{name: "prior user role", prior: &models.User{UID: "a1", Email: adminEmail, Role: models.RoleUser}},
		{name: "prior faculty role", prior: &models.User{UID: "a1", Email: adminEmail, Role: models.RoleFaculty}},
		{name: "prior admin role", prior: &models.User{UID: "a1", Email: adminEmail, Role: models.RoleAdmin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, db, _ := setup(t)
			ctx := context.Background()
			if tt.prior != nil {
				require.NoError(t, db.CreateUser(ctx, *tt.prior))
			}

			role, err := c.ResolveRole(ctx, identity.Principal{UID: "a1", Email: "HOD.IT@tgpcet.ac.in"})
			require.NoError(t, err)
			assert.Equal(t, models.RoleAdmin, role)

			u, err := db.GetUser(ctx, "a1")
			require.NoError(t, err)
			assert.Equal(t, models.RoleAdmin, u.Role)

			// повторный вход ничего не ломает
			role, err = c.ResolveRole(ctx, identity.Principal{UID: "a1", Email: adminEmail})
			require.NoError(t, err)
			assert.Equal(t, models.RoleAdmin, role)
		})
	}
}

func TestSignInWithGooglePopupSuccess(t *testing.T) {
	c, _, g := setup(t)
	g.popupPrincipal = identity.Principal{UID: "g1", Email: "student@tgpcet.ac.in", DisplayName: "asha", PhotoURL: "https://x/p.png"}
	sess := newFakeSession()
	sess.Set(RedirectFlagKey, "true")

	var events []string
	c.OnStateChange(func(p *identity.Principal, role models.UserRole) {
		if p == nil {
			events = append(events, "signed-out")
			return
		}
		events = append(events, p.Email+":"+string(role))
	})

	res, err := c.SignInWithGoogle(context.Background(), sess, identity.PopupResult{Credential: "token"})
	require.NoError(t, err)
	assert.Empty(t, res.RedirectURL)
	assert.True(t, res.Nav.SignedIn)
	assert.Equal(t, "/dashboard/user/index.html", res.Nav.DashboardPath)
	assert.Equal(t, "A", res.Nav.Initial)
	assert.False(t, InRedirectFlow(sess))
	assert.Equal(t, []string{"student@tgpcet.ac.in:user"}, events)

	nav := NavFromSession(sess)
	assert.Equal(t, res.Nav, nav)

	nav, err = c.SignOut(context.Background(), sess)
	require.NoError(t, err)
	assert.False(t, nav.SignedIn)
	assert.Equal(t, LoginPath, nav.LoginPath)
	assert.False(t, NavFromSession(sess).SignedIn)
	assert.Equal(t, []string{"student@tgpcet.ac.in:user", "signed-out"}, events)
}

func TestSignInWithGoogleFallsBackToRedirect(t *testing.T) {
	for _, code := range []string{
		identity.CodePopupBlocked,
		identity.CodePopupClosedByUser,
		identity.CodeNetworkRequestFailed,
		identity.CodeCancelledPopupRequest,
	} {
		t.Run(code, func(t *testing.T) {
			c, _, g := setup(t)
			sess := newFakeSession()

			res, err := c.SignInWithGoogle(context.Background(), sess, identity.PopupResult{ErrorCode: code})
			require.NoError(t, err)
			require.Len(t, g.redirectCalls, 1)
			assert.Contains(t, res.RedirectURL, g.redirectCalls[0])
			assert.True(t, InRedirectFlow(sess))
			assert.False(t, NavFromSession(sess).SignedIn)

			g.exchangeResult = identity.Principal{UID: "g2", Email: "late@tgpcet.ac.in"}
			nav, err := c.CompleteGoogleRedirect(context.Background(), sess, g.redirectCalls[0], "auth-code")
			require.NoError(t, err)
			assert.True(t, nav.SignedIn)
			assert.Equal(t, "User", nav.DisplayName)
			assert.Equal(t, "U", nav.Initial)
			assert.False(t, InRedirectFlow(sess))

			// state одноразовый
			_, err = c.CompleteGoogleRedirect(context.Background(), sess, g.redirectCalls[0], "auth-code")
			assert.ErrorIs(t, err, ErrInvalidState)
		})
	}
}

func TestSignInWithGoogleOtherErrorsPropagate(t *testing.T) {
	c, _, g := setup(t)
	sess := newFakeSession()
	want := &identity.Error{Code: identity.CodeInvalidCredential}
	g.popupErr = want

	res, err := c.SignInWithGoogle(context.Background(), sess, identity.PopupResult{Credential: "bad"})
	assert.Same(t, want, err)
	assert.Empty(t, res.RedirectURL)
	assert.Empty(t, g.redirectCalls)
	assert.False(t, InRedirectFlow(sess))
	assert.False(t, NavFromSession(sess).SignedIn)
}

func TestCompleteRedirectFailureLeavesSignedOut(t *testing.T) {
	c, _, g := setup(t)
	sess := newFakeSession()

	res, err := c.SignInWithGoogle(context.Background(), sess, identity.PopupResult{ErrorCode: identity.CodePopupBlocked})
	require.NoError(t, err)
	require.NotEmpty(t, res.RedirectURL)

	g.exchangeErr = errors.New("exchange failed")
	_, err = c.CompleteGoogleRedirect(context.Background(), sess, g.redirectCalls[0], "code")
	assert.Error(t, err)
	assert.False(t, InRedirectFlow(sess))
	assert.False(t, NavFromSession(sess).SignedIn)
}

func TestGoogleDisabled(t *testing.T) {
	c := NewCoordinator(Options{Users: memstore.New()})
	assert.False(t, c.GoogleEnabled())
	_, err := c.SignInWithGoogle(context.Background(), newFakeSession(), identity.PopupResult{Credential: "x"})
	assert.ErrorIs(t, err, ErrNoGoogle)
}

func TestPasswordSignInResolvesRole(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()

	sess := newFakeSession()
	nav, err := c.Register(ctx, sess, adminEmail, "secret1", "HOD")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, nav.Role)
	assert.Equal(t, "/dashboard/admin/index.html", nav.DashboardPath)

	other := newFakeSession()
	_, err = c.SignInWithPassword(ctx, other, adminEmail, "nope-nope")
	var idErr *identity.Error
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, identity.CodeWrongPassword, idErr.Code)
	assert.False(t, NavFromSession(other).SignedIn)
}

func TestMemoryStatesExpire(t *testing.T) {
	s := NewMemoryStates()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a", time.Minute))
	require.NoError(t, s.Put(ctx, "b", time.Minute))

	ok, err := s.Take(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, err = s.Take(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = s.Take(ctx, "missing")
	assert.False(t, ok)
}
