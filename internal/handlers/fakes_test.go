package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sajidhasan07/buzzline/backend/internal/feed"
	"github.com/sajidhasan07/buzzline/backend/internal/models"
	"github.com/sajidhasan07/buzzline/backend/internal/repositories"
	"github.com/sajidhasan07/buzzline/backend/internal/validators"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// In-memory repository fakes. Handlers hold all the protocol logic, so the
// fakes only need faithful storage semantics: unique rows, not-found errors
// and the descending keyset order of ListPosts.

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
	for _, u := range users {
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, u := range r.users {
		if u.FirebaseUID == firebaseUID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) DeleteUser(id uint) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) SearchUsers(query string) ([]models.User, error) {
	var out []models.User
	q := strings.ToLower(query)
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) AdjustFollowerCounts(userID uint, field string, delta int) error {
	u, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	switch field {
	case "followers_count":
		u.FollowersCount += delta
	case "following_count":
		u.FollowingCount += delta
	default:
		return errors.New("unknown field: " + field)
	}
	return nil
}

type fakePostRepo struct {
	posts []*models.Post
	clock time.Time
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	if r.clock.IsZero() {
		r.clock = time.Now().UTC()
	}
	r.clock = r.clock.Add(time.Second)
	post.CreatedAt = r.clock
	post.UpdatedAt = r.clock
	r.posts = append(r.posts, post)
	return nil
}

// addPost seeds a post at an explicit creation time.
func (r *fakePostRepo) addPost(authorID uint, content string, createdAt time.Time, media ...string) *models.Post {
	post := &models.Post{
		ID:         primitive.NewObjectID(),
		AuthorID:   authorID,
		Content:    content,
		MediaFiles: media,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	r.posts = append(r.posts, post)
	return post
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	for _, p := range r.posts {
		if p.ID.Hex() == id {
			return p, nil
		}
	}
	return nil, repositories.ErrPostNotFound
}

func (r *fakePostRepo) ListPosts(_ context.Context, authorID uint, after *feed.Position, limit int64) ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.posts {
		if authorID > 0 && p.AuthorID != authorID {
			continue
		}
		if after != nil {
			below := p.CreatedAt.Before(after.CreatedAt) ||
				(p.CreatedAt.Equal(after.CreatedAt) && p.ID.Hex() < after.ID.Hex())
			if !below {
				continue
			}
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, id string, post *models.Post) error {
	for _, p := range r.posts {
		if p.ID.Hex() == id {
			p.Content = post.Content
			p.MediaFiles = post.MediaFiles
			p.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return repositories.ErrPostNotFound
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	for i, p := range r.posts {
		if p.ID.Hex() == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return repositories.ErrPostNotFound
}

func (r *fakePostRepo) AdjustCounter(_ context.Context, postID, field string, delta int) error {
	for _, p := range r.posts {
		if p.ID.Hex() != postID {
			continue
		}
		switch field {
		case models.CounterLikes:
			p.LikesCount += delta
		case models.CounterBookmarks:
			p.BookmarksCount += delta
		case models.CounterComments:
			p.CommentsCount += delta
		case models.CounterReposts:
			p.RepostsCount += delta
		default:
			return errors.New("unknown counter field: " + field)
		}
		return nil
	}
	return repositories.ErrPostNotFound
}

type fakeEngagementRepo struct {
	rows []models.Engagement
}

func (r *fakeEngagementRepo) Create(e *models.Engagement) error {
	for _, row := range r.rows {
		if row.UserID == e.UserID && row.PostID == e.PostID && row.Kind == e.Kind {
			return errors.New("duplicate engagement row")
		}
	}
	e.CreatedAt = time.Now().UTC()
	r.rows = append(r.rows, *e)
	return nil
}

func (r *fakeEngagementRepo) Delete(userID uint, postID, kind string) error {
	for i, row := range r.rows {
		if row.UserID == userID && row.PostID == postID && row.Kind == kind {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return repositories.ErrEngagementNotFound
}

func (r *fakeEngagementRepo) Exists(userID uint, postID, kind string) (bool, error) {
	for _, row := range r.rows {
		if row.UserID == userID && row.PostID == postID && row.Kind == kind {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEngagementRepo) CountByPost(postID, kind string) (int64, error) {
	var count int64
	for _, row := range r.rows {
		if row.PostID == postID && row.Kind == kind {
			count++
		}
	}
	return count, nil
}

func (r *fakeEngagementRepo) ActiveMap(userID uint, postIDs []string, kind string) (map[string]bool, error) {
	result := make(map[string]bool)
	wanted := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}
	for _, row := range r.rows {
		if row.UserID == userID && row.Kind == kind && wanted[row.PostID] {
			result[row.PostID] = true
		}
	}
	return result, nil
}

func (r *fakeEngagementRepo) ListPostIDsByUser(userID uint, kind string) ([]string, error) {
	var ids []string
	for _, row := range r.rows {
		if row.UserID == userID && row.Kind == kind {
			ids = append(ids, row.PostID)
		}
	}
	return ids, nil
}

type fakeFriendshipRepo struct {
	requests    []*models.FriendRequest
	friendships []models.Friendship
	nextID      uint
}

func newFakeFriendshipRepo() *fakeFriendshipRepo {
	return &fakeFriendshipRepo{nextID: 1}
}

func (r *fakeFriendshipRepo) CreateRequest(req *models.FriendRequest) error {
	req.ID = r.nextID
	r.nextID++
	r.requests = append(r.requests, req)
	return nil
}

func (r *fakeFriendshipRepo) GetRequestByID(id uint) (*models.FriendRequest, error) {
	for _, req := range r.requests {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFriendshipRepo) GetRequestBetween(a, b uint) (*models.FriendRequest, error) {
	for _, req := range r.requests {
		if (req.SenderID == a && req.ReceiverID == b) || (req.SenderID == b && req.ReceiverID == a) {
			return req, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFriendshipRepo) PendingRequestsFor(userID uint) ([]models.FriendRequest, error) {
	var out []models.FriendRequest
	for _, req := range r.requests {
		if req.ReceiverID == userID && req.Status == models.RequestPending {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeFriendshipRepo) UpdateRequestStatus(id uint, status string) error {
	for _, req := range r.requests {
		if req.ID == id {
			req.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeFriendshipRepo) DeleteRequest(id uint) error {
	for i, req := range r.requests {
		if req.ID == id {
			r.requests = append(r.requests[:i], r.requests[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeFriendshipRepo) CreateFriendship(f *models.Friendship) error {
	f.User1ID, f.User2ID = models.NormalizePair(f.User1ID, f.User2ID)
	for _, existing := range r.friendships {
		if existing.User1ID == f.User1ID && existing.User2ID == f.User2ID {
			return errors.New("duplicate friendship row")
		}
	}
	f.CreatedAt = time.Now().UTC()
	r.friendships = append(r.friendships, *f)
	return nil
}

func (r *fakeFriendshipRepo) FriendshipExists(a, b uint) (bool, error) {
	u1, u2 := models.NormalizePair(a, b)
	for _, f := range r.friendships {
		if f.User1ID == u1 && f.User2ID == u2 {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFriendshipRepo) DeleteFriendship(a, b uint) error {
	u1, u2 := models.NormalizePair(a, b)
	for i, f := range r.friendships {
		if f.User1ID == u1 && f.User2ID == u2 {
			r.friendships = append(r.friendships[:i], r.friendships[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeFriendshipRepo) FriendIDs(userID uint) ([]uint, error) {
	var ids []uint
	for _, f := range r.friendships {
		switch userID {
		case f.User1ID:
			ids = append(ids, f.User2ID)
		case f.User2ID:
			ids = append(ids, f.User1ID)
		}
	}
	return ids, nil
}

type fakeNotificationRepo struct {
	notifications []models.Notification
}

func (r *fakeNotificationRepo) CreateNotification(notification *models.Notification) error {
	notification.ID = uint(len(r.notifications) + 1)
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(notificationID uint) error {
	for i := range r.notifications {
		if r.notifications[i].ID == notificationID {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(recipientID uint) error {
	for i := range r.notifications {
		if r.notifications[i].RecipientID == recipientID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

// fakeBlobStore resolves blob IDs to deterministic URLs; IDs in failing
// simulate deleted or unreadable blobs.
type fakeBlobStore struct {
	failing map[string]bool
}

func (s *fakeBlobStore) GenerateUploadURL(ctx context.Context) (string, string, error) {
	return "https://storage.example.com/upload/blob-1", "media/blob-1", nil
}

func (s *fakeBlobStore) ResolveURL(ctx context.Context, blobID string) (string, error) {
	if s.failing[blobID] {
		return "", errors.New("blob unavailable: " + blobID)
	}
	return "https://storage.example.com/" + blobID, nil
}

// newTestContext builds an echo context carrying the actor ID the auth
// middleware would have set. actorID 0 means anonymous.
func newTestContext(method, target, body string, actorID uint) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validators.NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actorID > 0 {
		c.Set("userID", actorID)
	}
	return c, rec
}

// httpStatus extracts the status code from a handler error.
func httpStatus(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		t.Fatal("expected an *echo.HTTPError, got nil")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected an *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}
