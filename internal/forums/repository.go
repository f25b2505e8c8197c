package forum

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
)

// Repository wires together forum persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateTopic inserts a new discussion thread.
func (r *Repository) CreateTopic(ctx context.Context, topic *models.ForumTopic) (*models.ForumTopic, error) {
	if err := r.db.WithContext(ctx).Create(topic).Error; err != nil {
		return nil, err
	}
	return topic, nil
}

// SetTopicLocked flips the moderation lock on a topic.
func (r *Repository) SetTopicLocked(ctx context.Context, id uuid.UUID, locked bool) error {
	return r.db.WithContext(ctx).Model(&models.ForumTopic{}).
		Where("id = ?", id).
		UpdateColumn("is_locked", locked).Error
}

// DeleteTopic removes a topic and its posts.
func (r *Repository) DeleteTopic(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topic_id = ?", id).Delete(&models.ForumPost{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ForumTopic{}, "id = ?", id).Error
	})
}

// FindTopicByID loads the topic with its replies in posting order.
func (r *Repository) FindTopicByID(ctx context.Context, id uuid.UUID) (*models.ForumTopic, error) {
	var topic models.ForumTopic
	if err := r.db.WithContext(ctx).
		Preload("Posts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&topic, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

// CreatePost appends a reply and bumps the topic's reply count.
func (r *Repository) CreatePost(ctx context.Context, post *models.ForumPost) (*models.ForumPost, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return tx.Model(&models.ForumTopic{}).
			Where("id = ?", post.TopicID).
			UpdateColumn("reply_count", gorm.Expr("reply_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a reply and decrements the topic's reply count.
func (r *Repository) DeletePost(ctx context.Context, topicID, postID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND topic_id = ?", postID, topicID).Delete(&models.ForumPost{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.ForumTopic{}).
			Where("id = ? AND reply_count > 0", topicID).
			UpdateColumn("reply_count", gorm.Expr("reply_count - 1")).Error
	})
}

// ListFilters describe the supported filter knobs for topic listings.
type ListFilters struct {
	Category string
	Query    string
}

// ListTopics returns a page of topics ordered by newest first.
func (r *Repository) ListTopics(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.ForumTopic, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	q := r.db.WithContext(ctx).Model(&models.ForumTopic{})
	if filters.Category != "" {
		q = q.Where("category = ?", filters.Category)
	}
	if trimmed := strings.TrimSpace(filters.Query); trimmed != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(trimmed)+"%")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.ForumTopic
	if err := q.Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1).
		Find(&rows).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}
