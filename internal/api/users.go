package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	pberrs "github.com/jdholdren/postboard/internal/errors"
	"github.com/jdholdren/postboard/internal/postboard"
	"github.com/jdholdren/postboard/internal/serverutil"
)

type profileRequest struct {
	Username string `json:"username"`
}

func (p profileRequest) Validate() error {
	if strings.TrimSpace(p.Username) == "" {
		return pberrs.E(http.StatusUnprocessableEntity, pberrs.CodeInvalid, "please enter a username",
			pberrs.Detail{Field: "username", Error: "required"})
	}
	return nil
}

// Picks the signed in user's username.
func (s Server) postProfile(w http.ResponseWriter, r *http.Request) error {
	sess := session(r, s.secureCookie)
	body, err := serverutil.DecodeValid[profileRequest](r.Body)
	if err != nil {
		return err
	}

	usr, err := s.repo.CreateUser(r.Context(), sess.UserID, strings.TrimSpace(body.Username))
	switch {
	case errors.Is(err, postboard.ErrUsernameTaken):
		return pberrs.E(http.StatusConflict, pberrs.CodeUsernameTaken, "username is already taken",
			pberrs.Detail{Field: "username", Error: "taken"})
	case errors.Is(err, postboard.ErrConflict):
		return pberrs.E(http.StatusConflict, "profile already exists")
	case err != nil:
		return err
	}
	s.profileCache.Remove(usr.ID)

	return serverutil.WriteJSON(w, http.StatusCreated, usr)
}

type profileResp struct {
	Username *string `json:"username"`
}

// Looks up a user's username. A missing user is a null username, not an error.
func (s Server) getUser(w http.ResponseWriter, r *http.Request) error {
	userID := mux.Vars(r)["userID"]
	if resp, ok := s.profileCache.Get(userID); ok {
		return serverutil.WriteJSON(w, http.StatusOK, resp)
	}

	usr, err := s.repo.User(r.Context(), userID)
	if errors.Is(err, postboard.ErrNotFound) {
		// Not cached so that the profile shows up once it's created.
		return serverutil.WriteJSON(w, http.StatusOK, profileResp{})
	}
	if err != nil {
		return err
	}

	resp := profileResp{Username: &usr.Username}
	s.profileCache.Add(userID, resp)

	return serverutil.WriteJSON(w, http.StatusOK, resp)
}
