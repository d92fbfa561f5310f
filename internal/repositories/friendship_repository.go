package repositories

import (
	"github.com/sajidhasan07/buzzline/backend/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the interface for friend request and
// friendship data operations. All state-machine decisions live in the
// handler layer; this interface is plain storage.
type FriendshipRepository interface {
	CreateRequest(req *models.FriendRequest) error
	GetRequestByID(id uint) (*models.FriendRequest, error)
	// GetRequestBetween returns the request between the two users in
	// either direction, whatever its status, or gorm.ErrRecordNotFound.
	GetRequestBetween(a, b uint) (*models.FriendRequest, error)
	PendingRequestsFor(userID uint) ([]models.FriendRequest, error)
	UpdateRequestStatus(id uint, status string) error
	DeleteRequest(id uint) error

	CreateFriendship(f *models.Friendship) error
	FriendshipExists(a, b uint) (bool, error)
	DeleteFriendship(a, b uint) error
	FriendIDs(userID uint) ([]uint, error)
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// CreateRequest inserts a new friend request row
func (r *PostgresFriendshipRepository) CreateRequest(req *models.FriendRequest) error {
	return r.db.Create(req).Error
}

// GetRequestByID retrieves a friend request by ID
func (r *PostgresFriendshipRepository) GetRequestByID(id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetRequestBetween retrieves the friend request between two users, checked
// in both directions
func (r *PostgresFriendshipRepository) GetRequestBetween(a, b uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		a, b, b, a).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// PendingRequestsFor retrieves all pending friend requests addressed to a user
func (r *PostgresFriendshipRepository) PendingRequestsFor(userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.db.Where("receiver_id = ? AND status = ?", userID, models.RequestPending).Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateRequestStatus updates the status of a friend request
func (r *PostgresFriendshipRepository) UpdateRequestStatus(id uint, status string) error {
	return r.db.Model(&models.FriendRequest{}).Where("id = ?", id).Update("status", status).Error
}

// DeleteRequest deletes a friend request row entirely
func (r *PostgresFriendshipRepository) DeleteRequest(id uint) error {
	return r.db.Delete(&models.FriendRequest{}, id).Error
}

// CreateFriendship inserts a friendship row for the normalized pair
func (r *PostgresFriendshipRepository) CreateFriendship(f *models.Friendship) error {
	f.User1ID, f.User2ID = models.NormalizePair(f.User1ID, f.User2ID)
	return r.db.Create(f).Error
}

// FriendshipExists checks whether a friendship row exists for the pair
func (r *PostgresFriendshipRepository) FriendshipExists(a, b uint) (bool, error) {
	u1, u2 := models.NormalizePair(a, b)
	var count int64
	err := r.db.Model(&models.Friendship{}).
		Where("user1_id = ? AND user2_id = ?", u1, u2).
		Count(&count).Error
	return count > 0, err
}

// DeleteFriendship removes the friendship row for the pair
func (r *PostgresFriendshipRepository) DeleteFriendship(a, b uint) error {
	u1, u2 := models.NormalizePair(a, b)
	return r.db.Where("user1_id = ? AND user2_id = ?", u1, u2).Delete(&models.Friendship{}).Error
}

// FriendIDs returns the IDs of every user the given user has a friendship with
func (r *PostgresFriendshipRepository) FriendIDs(userID uint) ([]uint, error) {
	var friendships []models.Friendship
	err := r.db.Where("user1_id = ? OR user2_id = ?", userID, userID).Find(&friendships).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(friendships))
	for _, f := range friendships {
		if f.User1ID == userID {
			ids = append(ids, f.User2ID)
		} else {
			ids = append(ids, f.User1ID)
		}
	}
	return ids, nil
}
