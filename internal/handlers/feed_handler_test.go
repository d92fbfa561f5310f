package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sajidhasan07/buzzline/backend/internal/feed"
	"github.com/sajidhasan07/buzzline/backend/internal/models"
)

type feedPage struct {
	Items      []EnrichedPost `json:"items"`
	NextCursor *string        `json:"next_cursor"`
	IsDone     bool           `json:"is_done"`
}

func decodeFeedPage(t *testing.T, rec *httptest.ResponseRecorder) feedPage {
	t.Helper()
	var resp struct {
		Success bool     `json:"success"`
		Data    feedPage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode feed page: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success=true")
	}
	return resp.Data
}

func getFeedPage(t *testing.T, h *FeedHandler, actorID uint, query string) feedPage {
	t.Helper()
	c, rec := newTestContext(http.MethodGet, "/feed?"+query, "", actorID)
	if err := h.GetFeed(c); err != nil {
		t.Fatalf("GetFeed(%s): %v", query, err)
	}
	return decodeFeedPage(t, rec)
}

func TestFeedWalkVisitsEveryPostOnce(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: 1, Username: "mina"})
	posts := &fakePostRepo{}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		posts.addPost(1, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Minute))
	}
	h := NewFeedHandler(posts, users, &fakeEngagementRepo{}, &fakeBlobStore{})

	seen := make(map[string]bool)
	var pageSizes []int
	var lastCreated time.Time
	query := "limit=10"
	for page := 0; ; page++ {
		if page > 5 {
			t.Fatal("pagination did not terminate")
		}
		got := getFeedPage(t, h, 0, query)
		pageSizes = append(pageSizes, len(got.Items))

		for _, item := range got.Items {
			id := item.ID.Hex()
			if seen[id] {
				t.Fatalf("post %s returned twice", id)
			}
			seen[id] = true
			if !lastCreated.IsZero() && item.CreatedAt.After(lastCreated) {
				t.Fatalf("ordering violated: %v after %v", item.CreatedAt, lastCreated)
			}
			lastCreated = item.CreatedAt
		}

		if got.IsDone {
			if got.NextCursor != nil {
				t.Fatal("final page should have a nil next_cursor")
			}
			break
		}
		if got.NextCursor == nil {
			t.Fatal("non-final page missing next_cursor")
		}
		query = "limit=10&cursor=" + url.QueryEscape(*got.NextCursor)
	}

	if len(seen) != 25 {
		t.Fatalf("walk visited %d posts, want 25", len(seen))
	}
	want := []int{10, 10, 5}
	if len(pageSizes) != len(want) {
		t.Fatalf("page sizes = %v, want %v", pageSizes, want)
	}
	for i := range want {
		if pageSizes[i] != want[i] {
			t.Fatalf("page sizes = %v, want %v", pageSizes, want)
		}
	}
}

func TestFeedExactMultipleEndsWithExtraFetch(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: 1, Username: "mina"})
	posts := &fakePostRepo{}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		posts.addPost(1, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Minute))
	}
	h := NewFeedHandler(posts, users, &fakeEngagementRepo{}, &fakeBlobStore{})

	first := getFeedPage(t, h, 0, "limit=5")
	if first.IsDone || first.NextCursor == nil {
		t.Fatal("first page of 10/5 should not be final")
	}
	second := getFeedPage(t, h, 0, "limit=5&cursor="+url.QueryEscape(*first.NextCursor))
	if !second.IsDone {
		t.Fatal("second page should be final")
	}
	if len(second.Items) != 5 {
		t.Fatalf("second page has %d items, want 5", len(second.Items))
	}
}

func TestFeedRejectsForeignScopeCursor(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: 1, Username: "mina"})
	posts := &fakePostRepo{}
	post := posts.addPost(1, "solo", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	h := NewFeedHandler(posts, users, &fakeEngagementRepo{}, &fakeBlobStore{})

	authorToken := feed.Encode(feed.AuthorScope(1), feed.Position{CreatedAt: post.CreatedAt, ID: post.ID})

	// An author-scoped cursor replayed against the global feed is invalid.
	c, _ := newTestContext(http.MethodGet, "/feed?cursor="+url.QueryEscape(authorToken), "", 0)
	if code := httpStatus(t, h.GetFeed(c)); code != http.StatusBadRequest {
		t.Fatalf("global feed with author cursor status = %d, want 400", code)
	}

	// Garbage is rejected the same way.
	c, _ = newTestContext(http.MethodGet, "/feed?cursor=not-a-cursor", "", 0)
	if code := httpStatus(t, h.GetFeed(c)); code != http.StatusBadRequest {
		t.Fatalf("garbage cursor status = %d, want 400", code)
	}
}

func TestFeedAuthorScope(t *testing.T) {
	users := newFakeUserRepo(
		&models.User{ID: 1, Username: "mina"},
		&models.User{ID: 2, Username: "rafi"},
	)
	posts := &fakePostRepo{}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		posts.addPost(1, fmt.Sprintf("mina %d", i), base.Add(time.Duration(i)*time.Minute))
	}
	for i := 0; i < 4; i++ {
		posts.addPost(2, fmt.Sprintf("rafi %d", i), base.Add(time.Duration(100+i)*time.Minute))
	}
	h := NewFeedHandler(posts, users, &fakeEngagementRepo{}, &fakeBlobStore{})

	first := getFeedPage(t, h, 0, "author_id=1&limit=5")
	if len(first.Items) != 5 {
		t.Fatalf("first author page has %d items, want 5", len(first.Items))
	}
	for _, item := range first.Items {
		if item.AuthorID != 1 {
			t.Fatalf("author-scoped page leaked post by author %d", item.AuthorID)
		}
	}

	second := getFeedPage(t, h, 0, "author_id=1&limit=5&cursor="+url.QueryEscape(*first.NextCursor))
	if !second.IsDone || len(second.Items) != 3 {
		t.Fatalf("second author page: done=%v items=%d, want done with 3", second.IsDone, len(second.Items))
	}
}

func TestFeedEnrichmentFlagsAndDegradation(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: 1, Username: "mina", AvatarURL: "media/avatar-1"})
	posts := &fakePostRepo{}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	liked := posts.addPost(1, "with media", base, "media/ok", "media/gone")
	orphan := posts.addPost(99, "orphaned author", base.Add(time.Minute))

	engagements := &fakeEngagementRepo{}
	if err := engagements.Create(&models.Engagement{UserID: 7, PostID: liked.ID.Hex(), Kind: models.EngagementLike}); err != nil {
		t.Fatalf("seed like: %v", err)
	}
	blob := &fakeBlobStore{failing: map[string]bool{"media/gone": true}}
	h := NewFeedHandler(posts, users, engagements, blob)

	got := getFeedPage(t, h, 7, "limit=10")
	if len(got.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(got.Items))
	}

	// Newest first: the orphaned post leads.
	if got.Items[0].ID != orphan.ID {
		t.Fatal("expected the newer post first")
	}
	if got.Items[0].Author != nil {
		t.Fatal("post by a deleted user should carry a null author")
	}

	withMedia := got.Items[1]
	if withMedia.Author == nil || withMedia.Author.Username != "mina" {
		t.Fatal("expected a resolved author snapshot")
	}
	if withMedia.Author.AvatarURL != "https://storage.example.com/media/avatar-1" {
		t.Fatalf("avatar URL = %q, want the resolved blob URL", withMedia.Author.AvatarURL)
	}
	if !withMedia.IsLiked || withMedia.IsBookmarked {
		t.Fatalf("flags = liked %v bookmarked %v, want true/false", withMedia.IsLiked, withMedia.IsBookmarked)
	}
	if len(withMedia.MediaURLs) != 2 {
		t.Fatalf("media URLs = %d, want 2", len(withMedia.MediaURLs))
	}
	if withMedia.MediaURLs[0] == nil || *withMedia.MediaURLs[0] != "https://storage.example.com/media/ok" {
		t.Fatal("first media blob should resolve")
	}
	if withMedia.MediaURLs[1] != nil {
		t.Fatal("unresolvable media blob should degrade to null, not fail the page")
	}
}

func TestFeedAnonymousHasNoFlags(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: 1, Username: "mina"})
	posts := &fakePostRepo{}
	post := posts.addPost(1, "hello", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	engagements := &fakeEngagementRepo{}
	if err := engagements.Create(&models.Engagement{UserID: 1, PostID: post.ID.Hex(), Kind: models.EngagementLike}); err != nil {
		t.Fatalf("seed like: %v", err)
	}
	h := NewFeedHandler(posts, users, engagements, &fakeBlobStore{})

	got := getFeedPage(t, h, 0, "limit=10")
	if len(got.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(got.Items))
	}
	if got.Items[0].IsLiked || got.Items[0].IsBookmarked {
		t.Fatal("anonymous feed items must not carry per-user flags")
	}
}
