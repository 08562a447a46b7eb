package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jdholdren/postboard/internal/objstore"
	"github.com/jdholdren/postboard/internal/postboard"
)

var (
	ErrSignedOut  = errors.New("you must be signed in to post")
	ErrEmptyTitle = errors.New("please enter a title for your post")
)

// PostCreator persists a post authored by a user.
type PostCreator interface {
	CreatePost(ctx context.Context, userID string, args postboard.CreatePostArgs) (postboard.Post, error)
}

// Image is a picture attached to a new post.
type Image struct {
	Filename string
	Body     io.Reader
}

type Submission struct {
	Title       string
	Description string
	Image       *Image
}

// Publish uploads the submission's image, if any, then creates the post. A
// failed upload fails the whole submission.
func Publish(ctx context.Context, creator PostCreator, images objstore.Storage, userID string, sub Submission) (postboard.Post, error) {
	if userID == "" {
		return postboard.Post{}, ErrSignedOut
	}
	title := strings.TrimSpace(sub.Title)
	if title == "" {
		return postboard.Post{}, ErrEmptyTitle
	}

	args := postboard.CreatePostArgs{Title: title, Description: sub.Description}
	if sub.Image != nil {
		if images == nil {
			return postboard.Post{}, errors.New("image uploads are not configured")
		}
		key, contentType := objstore.ImageKey(userID, sub.Image.Filename)
		url, err := images.Put(ctx, key, sub.Image.Body, contentType)
		if err != nil {
			return postboard.Post{}, fmt.Errorf("error uploading image: %w", err)
		}
		args.ImageURL = url
	}

	post, err := creator.CreatePost(ctx, userID, args)
	if err != nil {
		return postboard.Post{}, fmt.Errorf("error creating post: %w", err)
	}

	return post, nil
}
