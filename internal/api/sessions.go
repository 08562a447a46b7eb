package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"

	pberrs "github.com/jdholdren/postboard/internal/errors"
	"github.com/jdholdren/postboard/internal/logger"
	"github.com/jdholdren/postboard/internal/serverutil"
)

const (
	sessionCookieName = "postboard_session"

	// A session is honoured for this long after the user last authenticated.
	sessionMaxAge = 14 * 24 * time.Hour
)

// Describes a user's sessionState that's persisted to their cookie.
type sessionState struct {
	UserID     string
	LastAuthAt time.Time
}

// active reports whether the session belongs to someone who authenticated
// recently enough to be let straight in.
func (s sessionState) active(now time.Time) bool {
	if s.UserID == "" || s.LastAuthAt.IsZero() {
		return false
	}
	return now.Sub(s.LastAuthAt) < sessionMaxAge
}

// Fetches the current session tied to the request.
func session(r *http.Request, secureCookie *securecookie.SecureCookie) sessionState {
	cookie, err := r.Cookie(sessionCookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return sessionState{}
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "error fetching cookie", "err", err)
		return sessionState{}
	}

	value := sessionState{}
	if err := secureCookie.Decode(sessionCookieName, cookie.Value, &value); err != nil {
		slog.ErrorContext(r.Context(), "error decoding cookie", "err", err)
		return sessionState{}
	}

	return value
}

// Sets the session on the response.
func setSession(w http.ResponseWriter, secureCookie *securecookie.SecureCookie, https bool, sess sessionState) {
	encoded, err := secureCookie.Encode(sessionCookieName, sess)
	if err != nil {
		slog.Error("error encoding cookie", "err", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		Path:     "/",
		Secure:   https,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionMaxAge.Seconds()),
	})
}

func requireSessionMiddleware(sc *securecookie.SecureCookie, now func() time.Time) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := session(r, sc)
			if !state.active(now()) {
				sErr := pberrs.E(http.StatusUnauthorized, pberrs.CodeUnauthorized, "sign in again to continue")
				if err := serverutil.WriteJSON(w, sErr.Status, sErr); err != nil {
					slog.ErrorContext(r.Context(), "error writing response", "err", err)
				}
				return
			}

			ctx := logger.Ctx(r.Context(), slog.String("user_id", state.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type debugLogin struct {
	UserID string `json:"user_id"`
}

func (d debugLogin) Validate() error {
	if d.UserID == "" {
		return pberrs.E(http.StatusUnprocessableEntity, pberrs.CodeInvalid, "user_id is required",
			pberrs.Detail{Field: "user_id", Error: "required"})
	}
	return nil
}

// Signs in as any user. Only mounted when debug endpoints are on.
func (s Server) handleDebugLogin(w http.ResponseWriter, r *http.Request) error {
	body, err := serverutil.DecodeValid[debugLogin](r.Body)
	if err != nil {
		return err
	}

	setSession(w, s.secureCookie, s.httpsCookies, sessionState{UserID: body.UserID, LastAuthAt: s.now()})
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s Server) getLogout(w http.ResponseWriter, r *http.Request) error {
	setSession(w, s.secureCookie, s.httpsCookies, sessionState{})
	w.WriteHeader(http.StatusNoContent)
	return nil
}
