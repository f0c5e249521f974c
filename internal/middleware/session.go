package middleware

import (
	"net/http"
	"time"

	"myshop/internal/config"
	"myshop/internal/domain/model"
	"myshop/internal/repository"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CtxSessionKey     = "session" // *model.Session
	SessionCookieName = "shop_session"

	sessionTTL = 7 * 24 * time.Hour
)

// cookieのIDでサーバー側セッションを引く。無ければ作ってcookieを配る。
// セッションはリクエストスコープのオブジェクトとしてcontextに載せるだけで、
// プロセス全体の状態は持たない。
func Session(cfg *config.Config, sessions repository.SessionRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sess *model.Session

			if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				found, err := sessions.FindByID(c.Request().Context(), cookie.Value)
				if err != nil {
					return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
				}
				sess = found
			}

			if sess == nil {
				sess = &model.Session{
					ID:        uuid.NewString(),
					ExpiresAt: time.Now().Add(sessionTTL),
				}
				if err := sessions.Create(c.Request().Context(), sess); err != nil {
					return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
				}

				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    sess.ID,
					Path:     "/",
					Expires:  sess.ExpiresAt,
					HttpOnly: true,
					Secure:   cfg.Server.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(CtxSessionKey, sess)
			return next(c)
		}
	}
}
