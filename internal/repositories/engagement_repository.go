package repositories

import (
	"errors"

	"github.com/sajidhasan07/buzzline/backend/internal/models"
	"gorm.io/gorm"
)

// ErrEngagementNotFound is returned when deleting a like/bookmark row that
// does not exist.
var ErrEngagementNotFound = errors.New("engagement not found")

// EngagementRepository defines the interface for like/bookmark join rows.
// Row existence is authoritative; the post counters are derived caches.
type EngagementRepository interface {
	Create(e *models.Engagement) error
	Delete(userID uint, postID, kind string) error
	Exists(userID uint, postID, kind string) (bool, error)
	CountByPost(postID, kind string) (int64, error)
	// ActiveMap reports, for a batch of post IDs, which ones the user has
	// an active engagement of the given kind on.
	ActiveMap(userID uint, postIDs []string, kind string) (map[string]bool, error)
	ListPostIDsByUser(userID uint, kind string) ([]string, error)
}

// PostgresEngagementRepository implements EngagementRepository for PostgreSQL
type PostgresEngagementRepository struct {
	db *gorm.DB
}

// NewPostgresEngagementRepository creates a new PostgresEngagementRepository
func NewPostgresEngagementRepository(db *gorm.DB) *PostgresEngagementRepository {
	return &PostgresEngagementRepository{db: db}
}

// Create inserts a new engagement row. The composite unique index on
// (user_id, post_id, kind) backstops concurrent double toggles.
func (r *PostgresEngagementRepository) Create(e *models.Engagement) error {
	return r.db.Create(e).Error
}

// Delete removes an engagement row
func (r *PostgresEngagementRepository) Delete(userID uint, postID, kind string) error {
	res := r.db.Where("user_id = ? AND post_id = ? AND kind = ?", userID, postID, kind).Delete(&models.Engagement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEngagementNotFound
	}
	return nil
}

// Exists checks whether the user has an active engagement on the post
func (r *PostgresEngagementRepository) Exists(userID uint, postID, kind string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Engagement{}).
		Where("user_id = ? AND post_id = ? AND kind = ?", userID, postID, kind).
		Count(&count).Error
	return count > 0, err
}

// CountByPost counts active engagements of one kind on a post
func (r *PostgresEngagementRepository) CountByPost(postID, kind string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Engagement{}).
		Where("post_id = ? AND kind = ?", postID, kind).
		Count(&count).Error
	return count, err
}

// ActiveMap returns which of the given posts the user has engaged with
func (r *PostgresEngagementRepository) ActiveMap(userID uint, postIDs []string, kind string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var rows []models.Engagement
	err := r.db.Where("user_id = ? AND kind = ? AND post_id IN ?", userID, kind, postIDs).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, e := range rows {
		result[e.PostID] = true
	}
	return result, nil
}

// ListPostIDsByUser returns the post IDs the user has engaged with, newest first
func (r *PostgresEngagementRepository) ListPostIDsByUser(userID uint, kind string) ([]string, error) {
	var rows []models.Engagement
	err := r.db.Where("user_id = ? AND kind = ?", userID, kind).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, e := range rows {
		ids[i] = e.PostID
	}
	return ids, nil
}
