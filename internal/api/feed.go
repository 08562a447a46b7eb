package api

import (
	"net/http"

	pberrs "github.com/jdholdren/postboard/internal/errors"
	"github.com/jdholdren/postboard/internal/feed"
	"github.com/jdholdren/postboard/internal/postboard"
	"github.com/jdholdren/postboard/internal/serverutil"
)

// FeedResp is a page of the feed. NextCursor is passed back as ?cursor= to get
// the following page.
type FeedResp struct {
	Items      []postboard.FeedPost `json:"items"`
	NextCursor *string              `json:"next_cursor"`
	HasMore    bool                 `json:"has_more"`
}

func (s Server) getFeed(w http.ResponseWriter, r *http.Request) error {
	var (
		ctx   = r.Context()
		token = r.URL.Query().Get("cursor")
		page  feed.Page
		err   error
	)
	if token == "" {
		page, err = s.pager.FirstPage(ctx)
	} else {
		cursor, decErr := postboard.DecodeCursor(token)
		if decErr != nil {
			return pberrs.E(http.StatusBadRequest, pberrs.CodeInvalid, "invalid cursor",
				pberrs.Detail{Field: "cursor", Error: decErr.Error()})
		}
		page, err = s.pager.NextPage(ctx, cursor)
	}
	if err != nil {
		return err
	}

	resp := FeedResp{
		Items:   page.Posts,
		HasMore: page.HasMore,
	}
	if resp.Items == nil {
		resp.Items = []postboard.FeedPost{}
	}
	if page.Cursor != nil {
		next := page.Cursor.Encode()
		resp.NextCursor = &next
	}

	return serverutil.WriteJSON(w, http.StatusOK, resp)
}
