package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sajidhasan07/buzzline/backend/internal/feed"
	"github.com/sajidhasan07/buzzline/backend/internal/models"
	"github.com/sajidhasan07/buzzline/backend/internal/repositories"
	"github.com/sajidhasan07/buzzline/backend/pkg/storage"
)

// FeedHandler serves cursor-paginated post pages enriched with author
// snapshots, resolved media URLs and the caller's like/bookmark flags.
type FeedHandler struct {
	postRepository       repositories.PostRepository
	userRepository       repositories.UserRepository
	engagementRepository repositories.EngagementRepository
	blobStore            storage.BlobStore
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	engagementRepo repositories.EngagementRepository,
	blobStore storage.BlobStore,
) *FeedHandler {
	return &FeedHandler{
		postRepository:       postRepo,
		userRepository:       userRepo,
		engagementRepository: engagementRepo,
		blobStore:            blobStore,
	}
}

// RegisterFeedRoutes registers feed routes (optional auth: anonymous
// readers get the feed without per-user flags)
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// EnrichedPost is a post with author info, media URLs and user-specific flags.
// Author and individual media URLs degrade to null when resolution fails;
// a single bad reference never fails the page.
type EnrichedPost struct {
	models.Post
	Author       *models.UserCompact `json:"author"`
	MediaURLs    []*string           `json:"media_urls"`
	IsLiked      bool                `json:"is_liked"`
	IsBookmarked bool                `json:"is_bookmarked"`
}

// GetFeed returns one page of the global or author-scoped feed. Pages are
// keyed by an opaque continuation cursor; ordering is strictly descending
// by creation time with the post ID as tiebreak, so a full walk yields
// every post that existed before the walk began exactly once.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getActorID(c)

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	var authorID uint
	scope := feed.GlobalScope
	if raw := c.QueryParam("author_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid author ID")
		}
		authorID = uint(parsed)
		scope = feed.AuthorScope(authorID)
	}

	var after *feed.Position
	if token := c.QueryParam("cursor"); token != "" {
		pos, err := feed.Decode(scope, token)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid cursor")
		}
		after = &pos
	}

	// Fetch one extra item to learn whether another page exists.
	posts, err := h.postRepository.ListPosts(c.Request().Context(), authorID, after, int64(limit)+1)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	isDone := len(posts) <= limit
	if !isDone {
		posts = posts[:limit]
	}

	items := h.enrich(c, posts, currentUserID)

	var nextCursor *string
	if !isDone {
		last := posts[len(posts)-1]
		token := feed.Encode(scope, feed.Position{CreatedAt: last.CreatedAt, ID: last.ID})
		nextCursor = &token
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"items":       items,
			"next_cursor": nextCursor,
			"is_done":     isDone,
		},
	})
}

// enrich resolves author snapshots, media URLs and per-user engagement
// flags for a page of posts
func (h *FeedHandler) enrich(c echo.Context, posts []models.Post, currentUserID uint) []EnrichedPost {
	ctx := c.Request().Context()

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID.Hex()
	}

	// Author snapshots, one lookup per distinct author.
	authorMap := make(map[uint]*models.UserCompact)
	for _, p := range posts {
		if _, seen := authorMap[p.AuthorID]; seen {
			continue
		}
		user, err := h.userRepository.GetUserByID(p.AuthorID)
		if err != nil {
			// Deleted or unresolvable author degrades to null.
			authorMap[p.AuthorID] = nil
			continue
		}
		compact := user.ToCompact()
		if compact.AvatarURL != "" && !strings.HasPrefix(compact.AvatarURL, "http") {
			// Stored value is a blob ID, not a URL.
			if url, err := h.blobStore.ResolveURL(ctx, compact.AvatarURL); err == nil {
				compact.AvatarURL = url
			} else {
				compact.AvatarURL = ""
			}
		}
		authorMap[p.AuthorID] = &compact
	}

	likedMap := make(map[string]bool)
	bookmarkedMap := make(map[string]bool)
	if currentUserID > 0 {
		likedMap, _ = h.engagementRepository.ActiveMap(currentUserID, postIDs, models.EngagementLike)
		bookmarkedMap, _ = h.engagementRepository.ActiveMap(currentUserID, postIDs, models.EngagementBookmark)
	}

	items := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		pid := p.ID.Hex()

		mediaURLs := make([]*string, len(p.MediaFiles))
		for j, blobID := range p.MediaFiles {
			if url, err := h.blobStore.ResolveURL(ctx, blobID); err == nil {
				mediaURLs[j] = &url
			}
		}

		items[i] = EnrichedPost{
			Post:         p,
			Author:       authorMap[p.AuthorID],
			MediaURLs:    mediaURLs,
			IsLiked:      likedMap[pid],
			IsBookmarked: bookmarkedMap[pid],
		}
	}
	return items
}
