package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sajidhasan07/buzzline/backend/internal/models"
	"github.com/sajidhasan07/buzzline/backend/internal/repositories"
	"gorm.io/gorm"
)

// FriendshipHandler drives the friend-request lifecycle:
// none -> pending -> accepted/declined, plus cancel (sender) and unfriend.
// Accepting both patches the request to accepted and inserts a symmetric
// friendship row.
type FriendshipHandler struct {
	friendshipRepository   repositories.FriendshipRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(
	friendshipRepo repositories.FriendshipRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipRepository:   friendshipRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/request", h.SendFriendRequest)
	g.PUT("/friends/request/:id", h.RespondToFriendRequest)
	g.DELETE("/friends/request/:id", h.CancelFriendRequest)
	g.GET("/friends/requests/pending", h.GetPendingFriendRequests)
	g.GET("/friends/status", h.CheckFriendshipStatus)
	g.GET("/friends", h.GetFriends)
	g.DELETE("/friends/:user_id", h.Unfriend)
}

// SendFriendRequest handles sending a friend request. At most one
// outstanding request may exist between a pair, checked in both directions;
// an existing friendship also blocks. A stale declined request is replaced.
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	actorID := getActorID(c)
	if actorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if actorID == req.ReceiverID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot send a friend request to yourself")
	}

	if _, err := h.userRepository.GetUserByID(req.ReceiverID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Receiver user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	areFriends, err := h.friendshipRepository.FriendshipExists(actorID, req.ReceiverID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if areFriends {
		return echo.NewHTTPError(http.StatusConflict, "Users are already friends")
	}

	existing, err := h.friendshipRepository.GetRequestBetween(actorID, req.ReceiverID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if existing != nil {
		switch existing.Status {
		case models.RequestPending:
			return echo.NewHTTPError(http.StatusConflict, "A pending friend request already exists between these users")
		case models.RequestAccepted:
			return echo.NewHTTPError(http.StatusConflict, "Users are already friends")
		case models.RequestDeclined:
			// A declined request does not block the pair; replace it.
			if err := h.friendshipRepository.DeleteRequest(existing.ID); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		}
	}

	friendRequest := &models.FriendRequest{
		SenderID:   actorID,
		ReceiverID: req.ReceiverID,
		Status:     models.RequestPending,
	}
	if err := h.friendshipRepository.CreateRequest(friendRequest); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.notificationRepository != nil {
		if actor, err := h.userRepository.GetUserByID(actorID); err == nil {
			notif := &models.Notification{
				Type:        "friend_request",
				ActorID:     actorID,
				RecipientID: req.ReceiverID,
				TargetID:    strconv.FormatUint(uint64(friendRequest.ID), 10),
				Message:     actor.Username + " sent you a friend request",
			}
			h.notificationRepository.CreateNotification(notif)
		}
	}

	return c.JSON(http.StatusCreated, friendRequest)
}

// RespondToFriendRequest accepts or declines a pending request. Only the
// receiver may respond; accepting materializes the friendship row.
func (h *FriendshipHandler) RespondToFriendRequest(c echo.Context) error {
	actorID := getActorID(c)
	if actorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	var req models.RespondFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	friendRequest, err := h.friendshipRepository.GetRequestByID(uint(requestID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Friend request not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if friendRequest.ReceiverID != actorID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to respond to this friend request")
	}
	if friendRequest.Status != models.RequestPending {
		return echo.NewHTTPError(http.StatusConflict, "Friend request is no longer pending")
	}

	if *req.Accept {
		if err := h.friendshipRepository.UpdateRequestStatus(friendRequest.ID, models.RequestAccepted); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		friendship := &models.Friendship{User1ID: friendRequest.SenderID, User2ID: friendRequest.ReceiverID}
		if err := h.friendshipRepository.CreateFriendship(friendship); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		friendRequest.Status = models.RequestAccepted

		if h.notificationRepository != nil {
			if actor, err := h.userRepository.GetUserByID(actorID); err == nil {
				notif := &models.Notification{
					Type:        "friend_accept",
					ActorID:     actorID,
					RecipientID: friendRequest.SenderID,
					TargetID:    strconv.FormatUint(uint64(friendRequest.ID), 10),
					Message:     actor.Username + " accepted your friend request",
				}
				h.notificationRepository.CreateNotification(notif)
			}
		}
	} else {
		if err := h.friendshipRepository.UpdateRequestStatus(friendRequest.ID, models.RequestDeclined); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		friendRequest.Status = models.RequestDeclined
	}

	return c.JSON(http.StatusOK, friendRequest)
}

// CancelFriendRequest deletes a pending request. Only the original sender
// may cancel.
func (h *FriendshipHandler) CancelFriendRequest(c echo.Context) error {
	actorID := getActorID(c)
	if actorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	friendRequest, err := h.friendshipRepository.GetRequestByID(uint(requestID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Friend request not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if friendRequest.SenderID != actorID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to cancel this friend request")
	}
	if friendRequest.Status != models.RequestPending {
		return echo.NewHTTPError(http.StatusConflict, "Only pending friend requests can be cancelled")
	}

	if err := h.friendshipRepository.DeleteRequest(friendRequest.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// GetPendingFriendRequests retrieves pending friend requests addressed to
// the authenticated user
func (h *FriendshipHandler) GetPendingFriendRequests(c echo.Context) error {
	actorID := getActorID(c)
	if actorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requests, err := h.friendshipRepository.PendingRequestsFor(actorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, requests)
}

// CheckFriendshipStatus reports the relationship between the caller and
// another user. The result is symmetric in its arguments: a friendship row
// wins, then a pending request in either direction; declined requests are
// not surfaced.
func (h *FriendshipHandler) CheckFriendshipStatus(c echo.Context) error {
	actorID := getActorID(c)
	if actorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	otherID, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	areFriends, err := h.friendshipRepository.FriendshipExists(actorID, uint(otherID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if areFriends {
		return c.JSON(http.StatusOK, models.FriendshipStatus{Status: models.StatusFriends})
	}

	request, err := h.friendshipRepository.GetRequestBetween(actorID, uint(otherID))
	if err != nil && err != gorm.ErrRecordNotFound {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if request != nil && request.Status == models.RequestPending {
		return c.JSON(http.StatusOK, models.FriendshipStatus{Status: models.StatusPending, Request: request})
	}

	return c.JSON(http.StatusOK, models.FriendshipStatus{Status: models.StatusNone})
}

// GetFriends retrieves the authenticated user's friends
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	actorID := getActorID(c)
	if actorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ids, err := h.friendshipRepository.FriendIDs(actorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	friends := make([]models.UserCompact, 0, len(ids))
	for _, id := range ids {
		if user, err := h.userRepository.GetUserByID(id); err == nil {
			friends = append(friends, user.ToCompact())
		}
	}

	return c.JSON(http.StatusOK, friends)
}

// Unfriend removes the friendship with another user and retires the
// accepted request row, so the pair can start over later.
func (h *FriendshipHandler) Unfriend(c echo.Context) error {
	actorID := getActorID(c)
	if actorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	otherID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	areFriends, err := h.friendshipRepository.FriendshipExists(actorID, uint(otherID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !areFriends {
		return echo.NewHTTPError(http.StatusNotFound, "Friendship not found")
	}

	if err := h.friendshipRepository.DeleteFriendship(actorID, uint(otherID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if request, err := h.friendshipRepository.GetRequestBetween(actorID, uint(otherID)); err == nil {
		if request.Status == models.RequestAccepted {
			h.friendshipRepository.DeleteRequest(request.ID)
		}
	}

	return c.NoContent(http.StatusNoContent)
}
