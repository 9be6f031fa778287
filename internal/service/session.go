package service

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/templui/portfolio/internal/model"
)

const SessionCookieName = "auth_token"

var ErrInvalidSession = errors.New("invalid session token")

// SessionClaims is the signed token body. Subject holds the user id.
type SessionClaims struct {
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Picture      string             `json:"picture,omitempty"`
	Role         model.Role         `json:"role"`
	Phone        string             `json:"phone,omitempty"`
	Address      string             `json:"address,omitempty"`
	Bio          string             `json:"bio,omitempty"`
	IsActive     bool               `json:"isActive"`
	LastLogin    *time.Time         `json:"lastLogin,omitempty"`
	AuthProvider model.AuthProvider `json:"authProvider"`
	jwt.RegisteredClaims
}

type SessionBuilder struct {
	secret    []byte
	issuer    string
	maxAge    time.Duration
	updateAge time.Duration
	secure    bool
	now       func() time.Time
}

func NewSessionBuilder(secret, issuer string, maxAge, updateAge time.Duration, secure bool) *SessionBuilder {
	return &SessionBuilder{
		secret:    []byte(secret),
		issuer:    issuer,
		maxAge:    maxAge,
		updateAge: updateAge,
		secure:    secure,
		now:       time.Now,
	}
}

// Issue signs a fresh token for user.
func (b *SessionBuilder) Issue(user *model.User) (string, *SessionClaims, error) {
	claims := &SessionClaims{
		Name:         user.Name,
		Email:        user.Email,
		Picture:      model.StringValue(user.Image),
		Role:         user.Role,
		Phone:        model.StringValue(user.Phone),
		Address:      model.StringValue(user.Address),
		Bio:          model.StringValue(user.Bio),
		IsActive:     user.IsActive,
		LastLogin:    user.LastLoginAt,
		AuthProvider: user.AuthProvider,
	}
	claims.Subject = user.ID
	return b.sign(claims)
}

func (b *SessionBuilder) sign(claims *SessionClaims) (string, *SessionClaims, error) {
	now := b.now()
	claims.Issuer = b.issuer
	claims.ID = uuid.New().String()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(b.maxAge))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(b.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, claims, nil
}

func (b *SessionBuilder) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return b.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(b.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(b.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: missing subject or unknown role", ErrInvalidSession)
	}

	return claims, nil
}

// View copies token fields into the client-visible session.
func (b *SessionBuilder) View(claims *SessionClaims) model.SessionView {
	view := model.SessionView{
		ID:           claims.Subject,
		Name:         claims.Name,
		Email:        claims.Email,
		Image:        claims.Picture,
		Role:         claims.Role,
		Phone:        claims.Phone,
		Address:      claims.Address,
		Bio:          claims.Bio,
		IsActive:     claims.IsActive,
		LastLogin:    claims.LastLogin,
		AuthProvider: claims.AuthProvider,
	}
	if claims.ExpiresAt != nil {
		view.Expires = claims.ExpiresAt.Time
	}
	return view
}

// NeedsRotation reports whether the token is older than the update age.
func (b *SessionBuilder) NeedsRotation(claims *SessionClaims) bool {
	if claims.IssuedAt == nil {
		return true
	}
	return b.now().Sub(claims.IssuedAt.Time) >= b.updateAge
}

func (b *SessionBuilder) SetCookie(w http.ResponseWriter, token string, claims *SessionClaims) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  claims.ExpiresAt.Time,
		Path:     "/",
		HttpOnly: true,
		Secure:   b.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (b *SessionBuilder) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   b.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
