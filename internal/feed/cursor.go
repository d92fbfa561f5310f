package feed

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidCursor is returned when a cursor is garbage, truncated, or was
// issued for a different scope. Callers should restart pagination from the
// top rather than treat this as fatal.
var ErrInvalidCursor = errors.New("invalid cursor")

// GlobalScope is the scope token for the all-posts feed. Author-scoped
// feeds use AuthorScope.
const GlobalScope = "global"

// AuthorScope builds the scope token for a single author's feed.
func AuthorScope(authorID uint) string {
	return fmt.Sprintf("author:%d", authorID)
}

// Position is the keyset a cursor points at: the creation time of the last
// item on the previous page plus its ID as the tiebreak, so the
// (created_at DESC, _id DESC) order is total and pages never duplicate or
// skip items that existed before the walk began.
type Position struct {
	CreatedAt time.Time
	ID        primitive.ObjectID
}

// Encode packs a position into an opaque continuation token. The scope is
// baked in so a token replayed against another scope fails decoding.
func Encode(scope string, pos Position) string {
	raw := fmt.Sprintf("%s|%d|%s", scope, pos.CreatedAt.UnixNano(), pos.ID.Hex())
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// Decode unpacks a token previously produced by Encode for the same scope.
func Decode(scope, token string) (Position, error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Position{}, ErrInvalidCursor
	}

	parts := strings.Split(string(decoded), "|")
	if len(parts) != 3 {
		return Position{}, ErrInvalidCursor
	}
	if parts[0] != scope {
		return Position{}, ErrInvalidCursor
	}

	nanos, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Position{}, ErrInvalidCursor
	}

	id, err := primitive.ObjectIDFromHex(parts[2])
	if err != nil {
		return Position{}, ErrInvalidCursor
	}

	return Position{CreatedAt: time.Unix(0, nanos).UTC(), ID: id}, nil
}
