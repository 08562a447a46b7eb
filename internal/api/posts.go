package api

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"unicode/utf8"

	goaway "github.com/TwiN/go-away"
	"github.com/gorilla/mux"

	pberrs "github.com/jdholdren/postboard/internal/errors"
	"github.com/jdholdren/postboard/internal/feed"
	"github.com/jdholdren/postboard/internal/postboard"
	"github.com/jdholdren/postboard/internal/serverutil"
)

const (
	maxUploadBytes = 10 << 20

	// Posts shown on a profile.
	userPostsLimit = 50
)

func checkTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return pberrs.E(http.StatusUnprocessableEntity, pberrs.CodeInvalid, "please enter a title for your post",
			pberrs.Detail{Field: "title", Error: "required"})
	}
	if utf8.RuneCountInString(title) > postboard.MaxTitleLength {
		return pberrs.E(http.StatusUnprocessableEntity, pberrs.CodeInvalid, "title too long",
			pberrs.Detail{Field: "title", Error: fmt.Sprintf("must be at most %d characters", postboard.MaxTitleLength)})
	}

	return nil
}

type postPrecheckRequest struct {
	Title string `json:"title"`
}

func (p postPrecheckRequest) Validate() error {
	return checkTitle(p.Title)
}

// This route is used to aid the front-end with validation, like running a profanity check.
func (s Server) postPostPrecheck(w http.ResponseWriter, r *http.Request) error {
	body, err := serverutil.DecodeValid[postPrecheckRequest](r.Body)
	if err != nil {
		return err
	}
	if goaway.IsProfane(body.Title) {
		return pberrs.E(http.StatusUnprocessableEntity, pberrs.CodeInvalid, "profanity detected in title",
			pberrs.Detail{Field: "title", Error: "profane"})
	}

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}

// plainText strips markup from user input. The policy escapes what's left for
// HTML, so that's undone: clients render the text as is.
func (s Server) plainText(in string) string {
	return html.UnescapeString(s.sanitizer.Sanitize(in))
}

// Creates a post from a multipart form: title, description and an optional
// image file.
func (s Server) postPost(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	sess := session(r, s.secureCookie)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return pberrs.E(http.StatusBadRequest, pberrs.CodeInvalid, fmt.Errorf("error reading form: %w", err))
		}
		if err := r.ParseForm(); err != nil {
			return pberrs.E(http.StatusBadRequest, pberrs.CodeInvalid, fmt.Errorf("error reading form: %w", err))
		}
	}

	title := r.FormValue("title")
	if err := checkTitle(title); err != nil {
		return err
	}

	sub := feed.Submission{
		Title:       title,
		Description: s.plainText(r.FormValue("description")),
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return pberrs.E(http.StatusBadRequest, pberrs.CodeInvalid, fmt.Errorf("error reading image: %w", err))
	default:
		defer file.Close()
		sub.Image = &feed.Image{Filename: header.Filename, Body: file}
	}

	post, err := feed.Publish(ctx, s.repo, s.images, sess.UserID, sub)
	if errors.Is(err, feed.ErrEmptyTitle) {
		return pberrs.E(http.StatusUnprocessableEntity, pberrs.CodeInvalid, err)
	}
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusCreated, post)
}

type UserPostsResp struct {
	Items []postboard.FeedPost `json:"items"`
}

func (s Server) getUserPosts(w http.ResponseWriter, r *http.Request) error {
	userID := mux.Vars(r)["userID"]

	posts, err := s.repo.UserPosts(r.Context(), userID, userPostsLimit)
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []postboard.FeedPost{}
	}

	return serverutil.WriteJSON(w, http.StatusOK, UserPostsResp{Items: posts})
}
