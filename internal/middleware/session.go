package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/djjoel12/talksellr/internal/logger"
	"github.com/djjoel12/talksellr/internal/session"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	CtxSessionKey  = "session"   // session.Scope
	CtxUserIDKey   = "user_id"   // string
	CtxUserRoleKey = "user_role" // string

	DefaultSessionCookie = "sid"
)

type SessionStore interface {
	Scope(sessionID string) session.Scope
}

type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	Secure     bool
	CookieName string
}

// 署名付きCookieからセッションIDを取り出し、無ければ新しく発行する。
// ログイン中ならuser_id/user_roleもcontextへ入れる
func Session(store SessionStore, cfg SessionConfig) echo.MiddlewareFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionCookie
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			sid := ""
			if ck, err := c.Cookie(cfg.CookieName); err == nil {
				if id, err := parseSessionToken(ck.Value, cfg.Secret); err == nil {
					sid = id
				}
			}
			if sid == "" {
				sid = session.NewID()
			}

			scope := store.Scope(sid)
			c.Set(CtxSessionKey, scope)

			u, ok, err := session.CurrentUser(ctx, scope)
			if err != nil {
				logger.FromContext(ctx).Warn("failed to load session user", zap.Error(err))
			}
			if ok {
				c.Set(CtxUserIDKey, u.ID)
				c.Set(CtxUserRoleKey, string(u.Role))
			}

			//アクセスごとに期限を延ばして再発行
			token, err := issueSessionToken(sid, cfg.Secret, time.Now(), cfg.TTL)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}
			c.SetCookie(&http.Cookie{
				Name:     cfg.CookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(cfg.TTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			return next(c)
		}
	}
}

func issueSessionToken(sid string, secret string, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// 署名と期限を検証してセッションIDを返す
func parseSessionToken(raw string, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", errors.New("invalid session token")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errors.New("invalid sub")
	}
	return claims.Subject, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
