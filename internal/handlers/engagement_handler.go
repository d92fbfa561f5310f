package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sajidhasan07/buzzline/backend/internal/models"
	"github.com/sajidhasan07/buzzline/backend/internal/repositories"
)

// EngagementHandler handles like and bookmark toggling. Toggling flips the
// join row and applies exactly one atomic counter patch on the post: two
// toggles in sequence return active=true then active=false and leave the
// counter where it started.
type EngagementHandler struct {
	engagementRepository   repositories.EngagementRepository
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(
	engagementRepo repositories.EngagementRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
) *EngagementHandler {
	return &EngagementHandler{
		engagementRepository:   engagementRepo,
		postRepository:         postRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterEngagementRoutes registers toggle routes on the protected group
func (h *EngagementHandler) RegisterEngagementRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/like/toggle", h.ToggleLike)
	g.POST("/posts/:post_id/bookmark/toggle", h.ToggleBookmark)
	g.GET("/posts/:post_id/likes", h.GetLikers)
}

// RegisterStatusRoutes registers read-only status routes on the
// optional-auth group: anonymous callers get active=false, not a 401.
func (h *EngagementHandler) RegisterStatusRoutes(g *echo.Group) {
	g.GET("/posts/:post_id/like/status", h.GetLikeStatus)
	g.GET("/posts/:post_id/bookmark/status", h.GetBookmarkStatus)
}

// ToggleLike flips the actor's like on a post
func (h *EngagementHandler) ToggleLike(c echo.Context) error {
	return h.toggle(c, models.EngagementLike, models.CounterLikes)
}

// ToggleBookmark flips the actor's bookmark on a post
func (h *EngagementHandler) ToggleBookmark(c echo.Context) error {
	return h.toggle(c, models.EngagementBookmark, models.CounterBookmarks)
}

func (h *EngagementHandler) toggle(c echo.Context, kind, counterField string) error {
	actorID := getActorID(c)
	if actorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID := c.Param("post_id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	exists, err := h.engagementRepository.Exists(actorID, postID, kind)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var active bool
	if exists {
		if err := h.engagementRepository.Delete(actorID, postID, kind); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if err := h.postRepository.AdjustCounter(c.Request().Context(), postID, counterField, -1); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		active = false
	} else {
		engagement := &models.Engagement{
			UserID: actorID,
			PostID: postID,
			Kind:   kind,
		}
		if err := h.engagementRepository.Create(engagement); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if err := h.postRepository.AdjustCounter(c.Request().Context(), postID, counterField, 1); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		active = true

		if kind == models.EngagementLike && post.AuthorID != actorID && h.notificationRepository != nil {
			if actor, err := h.userRepository.GetUserByID(actorID); err == nil {
				notif := &models.Notification{
					Type:        "like",
					ActorID:     actorID,
					RecipientID: post.AuthorID,
					TargetID:    postID,
					Message:     actor.Username + " liked your post",
				}
				h.notificationRepository.CreateNotification(notif)
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"active": active}})
}

// GetLikeStatus reports whether the caller has an active like on the post
func (h *EngagementHandler) GetLikeStatus(c echo.Context) error {
	return h.status(c, models.EngagementLike)
}

// GetBookmarkStatus reports whether the caller has an active bookmark on the post
func (h *EngagementHandler) GetBookmarkStatus(c echo.Context) error {
	return h.status(c, models.EngagementBookmark)
}

func (h *EngagementHandler) status(c echo.Context, kind string) error {
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	actorID := getActorID(c)
	if actorID == 0 {
		// Anonymous callers simply have no engagement.
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"active": false}})
	}

	active, err := h.engagementRepository.Exists(actorID, postID, kind)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"active": active}})
}

// GetLikers lists the users who liked a post
func (h *EngagementHandler) GetLikers(c echo.Context) error {
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	count, err := h.engagementRepository.CountByPost(postID, models.EngagementLike)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"post_id": postID, "likes_count": count},
	})
}

// parsePage reads page/limit query params with the handler defaults
func parsePage(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return page, limit
}
