// Package api serves the postboard HTTP API used by the mobile app: the feed,
// posting, profiles and sessions.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jdholdren/postboard/internal/feed"
	"github.com/jdholdren/postboard/internal/objstore"
	"github.com/jdholdren/postboard/internal/postboard"
	"github.com/jdholdren/postboard/internal/serverutil"
)

type (
	// Server serves the app's API on top of the backend store.
	Server struct {
		*http.Server

		repo   postboard.Repository
		pager  feed.Pager
		images objstore.Storage

		profileCache *lru.Cache[string, profileResp]
		sanitizer    *bluemonday.Policy

		secureCookie *securecookie.SecureCookie
		httpsCookies bool // Whether or not HTTPS should be used for cookies
		now          func() time.Time
	}

	ServerConfig struct {
		Port           int
		CookieHashKey  []byte
		CookieBlockKey []byte
		HTTPSCookies   bool
		CorsOrigin     string

		// Serves images stored on local disk under /uploads/ when set.
		UploadsHandler http.Handler

		DebugEndpoints bool
	}
)

func NewServer(config ServerConfig, repo postboard.Repository, images objstore.Storage) *Server {
	var (
		r        = serverutil.ErrRouter{Router: mux.NewRouter()}
		cache, _ = lru.New[string, profileResp](1024)
	)

	srvr := Server{
		repo:         repo,
		pager:        feed.NewPager(repo),
		images:       images,
		profileCache: cache,
		sanitizer:    bluemonday.StrictPolicy(),
		secureCookie: securecookie.New(config.CookieHashKey, config.CookieBlockKey),
		httpsCookies: config.HTTPSCookies,
		now:          time.Now,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			Handler: handlers.CORS(
				handlers.AllowedOrigins([]string{config.CorsOrigin}),
				handlers.AllowCredentials(),
				handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
				handlers.AllowedHeaders([]string{"content-type"}),
			)(r),
		},
	}

	r.Use(serverutil.AccessLogMiddleware) // Log everything
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	if config.UploadsHandler != nil {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", config.UploadsHandler))
	}

	r.HandleFuncE("/api/viewer", srvr.handleViewer).Methods(http.MethodGet)
	r.HandleFuncE("/api/logout", srvr.getLogout).Methods(http.MethodGet)
	r.HandleFuncE("/api/feed", srvr.getFeed).Methods(http.MethodGet)
	r.HandleFuncE("/api/posts:precheck", srvr.postPostPrecheck).Methods(http.MethodPost)
	r.HandleFuncE("/api/users/{userID}", srvr.getUser).Methods(http.MethodGet)
	r.HandleFuncE("/api/users/{userID}/posts", srvr.getUserPosts).Methods(http.MethodGet)

	if config.DebugEndpoints {
		// For local testing
		r.HandleFuncE("/api/login", srvr.handleDebugLogin).Methods(http.MethodPost)
	}

	authed := serverutil.ErrRouter{Router: r.NewRoute().Subrouter()}
	authed.Use(requireSessionMiddleware(srvr.secureCookie, func() time.Time { return srvr.now() }))
	authed.HandleFuncE("/api/posts", srvr.postPost).Methods(http.MethodPost)
	authed.HandleFuncE("/api/profile", srvr.postProfile).Methods(http.MethodPost)

	slog.Debug("configured api server", "port", config.Port)

	return &srvr
}

// Viewer describes the signed in user to the frontend.
type Viewer struct {
	UserID   string  `json:"user_id"`
	Username *string `json:"username"`
	// NeedsProfile is set when the user has signed in but not picked a username.
	NeedsProfile bool `json:"needs_profile"`
}

func (s Server) handleViewer(w http.ResponseWriter, r *http.Request) error {
	sess := session(r, s.secureCookie)
	if !sess.active(s.now()) {
		return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
	}

	usr, err := s.repo.User(r.Context(), sess.UserID)
	if errors.Is(err, postboard.ErrNotFound) {
		return serverutil.WriteJSON(w, http.StatusOK, Viewer{UserID: sess.UserID, NeedsProfile: true})
	}
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, Viewer{UserID: usr.ID, Username: &usr.Username})
}
