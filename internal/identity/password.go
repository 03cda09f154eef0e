package identity

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"tgpcet-it/internal/models"
	"tgpcet-it/internal/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// Passwords — вход по email и паролю, учётки лежат в коллекции users.
type Passwords struct {
	users store.Users
}

func NewPasswords(users store.Users) *Passwords {
	return &Passwords{users: users}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", newError(CodeInvalidEmail, "malformed email", err)
	}
	return email, nil
}

func (p *Passwords) SignIn(ctx context.Context, email, password string) (Principal, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return Principal{}, err
	}

	u, err := p.users.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return Principal{}, newError(CodeUserNotFound, "", nil)
	}
	if err != nil {
		return Principal{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Principal{}, newError(CodeWrongPassword, "", nil)
	}
	return Principal{UID: u.UID, Email: u.Email, DisplayName: u.DisplayName, PhotoURL: u.PhotoURL}, nil
}

// Register создаёт учётку с ролью user. Роль потом всё равно пересчитывает координатор.
func (p *Passwords) Register(ctx context.Context, email, password, displayName string) (Principal, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return Principal{}, err
	}
	if len(password) < minPasswordLen {
		return Principal{}, newError(CodeWeakPassword, "", nil)
	}

	if _, err := p.users.FindUserByEmail(ctx, email); err == nil {
		return Principal{}, newError(CodeEmailAlreadyInUse, "", nil)
	} else if !errors.Is(err, store.ErrNotFound) {
		return Principal{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Principal{}, err
	}

	u := models.User{
		UID:          uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		Role:         models.RoleUser,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := p.users.CreateUser(ctx, u); err != nil {
		return Principal{}, err
	}
	return Principal{UID: u.UID, Email: u.Email, DisplayName: u.DisplayName}, nil
}
