package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Counter field names on the post document. Every counter mutation goes
// through a single atomic $inc patch keyed by one of these.
const (
	CounterLikes     = "likes_count"
	CounterBookmarks = "bookmarks_count"
	CounterComments  = "comments_count"
	CounterReposts   = "reposts_count"
)

// Post represents a social media post stored in MongoDB
type Post struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID       uint               `json:"author_id" bson:"author_id"`
	Content        string             `json:"content" bson:"content"`
	MediaFiles     []string           `json:"media_files,omitempty" bson:"media_files,omitempty"` // opaque blob IDs
	LikesCount     int                `json:"likes_count" bson:"likes_count"`
	BookmarksCount int                `json:"bookmarks_count" bson:"bookmarks_count"`
	CommentsCount  int                `json:"comments_count" bson:"comments_count"`
	RepostsCount   int                `json:"reposts_count" bson:"reposts_count"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content    string   `json:"content" validate:"required,min=1,max=280"`
	MediaFiles []string `json:"media_files,omitempty" validate:"omitempty,max=10,dive,required"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content    string   `json:"content,omitempty" validate:"omitempty,min=1,max=280"`
	MediaFiles []string `json:"media_files,omitempty" validate:"omitempty,max=10,dive,required"`
}
