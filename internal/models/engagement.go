package models

import "time"

// Engagement kinds. A like and a bookmark are the same join-row shape, so
// both live in one table discriminated by kind.
const (
	EngagementLike     = "like"
	EngagementBookmark = "bookmark"
)

// Engagement represents a like or bookmark linking a user to a post.
// Row existence is the source of truth; the post's counter is a derived
// cache kept in step by the toggle handlers. At most one active row per
// (user, post, kind), enforced by the composite unique index.
type Engagement struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_kind"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_kind"` // MongoDB ObjectID as string
	Kind      string    `json:"kind" gorm:"size:20;uniqueIndex:idx_user_post_kind"`
	CreatedAt time.Time `json:"created_at"`
}
