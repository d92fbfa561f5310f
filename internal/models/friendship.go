package models

import (
	"time"

	"gorm.io/gorm"
)

// Friend request statuses
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestDeclined = "declined"
)

// Friendship status values returned by the status query
const (
	StatusFriends = "friends"
	StatusPending = "pending"
	StatusNone    = "none"
)

// FriendRequest represents a directional friend request between two users
type FriendRequest struct {
	gorm.Model
	SenderID   uint   `json:"sender_id" gorm:"index"`
	ReceiverID uint   `json:"receiver_id" gorm:"index"`
	Status     string `json:"status" gorm:"type:varchar(20);default:'pending'"`
}

// Friendship represents an accepted friendship. The pair is symmetric and
// stored normalized (User1ID < User2ID) so the unique index holds for both
// argument orders.
type Friendship struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	User1ID   uint      `json:"user1_id" gorm:"index;uniqueIndex:idx_friend_pair"`
	User2ID   uint      `json:"user2_id" gorm:"index;uniqueIndex:idx_friend_pair"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizePair orders a user pair so symmetric lookups hit the same row.
func NormalizePair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// CreateFriendRequest defines the request body for sending a friend request
type CreateFriendRequest struct {
	ReceiverID uint `json:"receiver_id" validate:"required"`
}

// RespondFriendRequest defines the request body for accepting/declining a friend request
type RespondFriendRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

// FriendshipStatus is the response of the status query
type FriendshipStatus struct {
	Status  string         `json:"status"`
	Request *FriendRequest `json:"request,omitempty"`
}
