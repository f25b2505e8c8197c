package forum

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/enums"
	"github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/logger"
	"github.com/terra-legacy/terra-backend/pkg/outbox"
	"github.com/terra-legacy/terra-backend/pkg/outbox/payloads"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
)

// Topic titles shorter than this read as noise in the board listing.
const minTopicTitleLength = 5

// CreateTopicInput carries a new discussion thread submission.
type CreateTopicInput struct {
	Title      string
	Body       string
	Category   string
	AuthorName string
}

// ReplyInput carries a reply submission.
type ReplyInput struct {
	AuthorName string
	Body       string
}

// Service exposes the community forum operations.
type Service interface {
	CreateTopic(ctx context.Context, input CreateTopicInput) (*TopicDTO, error)
	GetTopic(ctx context.Context, id uuid.UUID) (*TopicDTO, error)
	ListTopics(ctx context.Context, params pagination.Params, filters ListFilters) ([]TopicDTO, string, error)
	Reply(ctx context.Context, topicID uuid.UUID, input ReplyInput) (*PostDTO, error)
	Lock(ctx context.Context, topicID uuid.UUID) (*TopicDTO, error)
	Unlock(ctx context.Context, topicID uuid.UUID) (*TopicDTO, error)
	DeleteTopic(ctx context.Context, topicID uuid.UUID) error
	DeletePost(ctx context.Context, topicID, postID uuid.UUID) error
}

type service struct {
	db     *gorm.DB
	repo   *Repository
	outbox *outbox.Service
	logg   *logger.Logger
}

// NewService wires the forum service with its persistence and event deps.
func NewService(db *gorm.DB, repo *Repository, outboxSvc *outbox.Service, logg *logger.Logger) (Service, error) {
	if db == nil {
		return nil, stderrors.New("db is required")
	}
	if repo == nil {
		return nil, stderrors.New("forum repository is required")
	}
	if outboxSvc == nil {
		return nil, stderrors.New("outbox service is required")
	}
	if logg == nil {
		return nil, stderrors.New("logger is required")
	}
	return &service{db: db, repo: repo, outbox: outboxSvc, logg: logg}, nil
}

func (s *service) CreateTopic(ctx context.Context, input CreateTopicInput) (*TopicDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New(errors.CodeValidation, "title is required")
	}
	if len(title) < minTopicTitleLength {
		return nil, errors.New(errors.CodeValidation, "title must be at least 5 characters")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, errors.New(errors.CodeValidation, "body is required")
	}
	category, err := enums.ParseForumCategory(strings.TrimSpace(input.Category))
	if err != nil {
		return nil, errors.New(errors.CodeValidation, "unknown category")
	}
	author := strings.TrimSpace(input.AuthorName)
	if author == "" {
		return nil, errors.New(errors.CodeValidation, "author name is required")
	}

	topic := &models.ForumTopic{
		ID:         uuid.New(),
		Title:      title,
		Body:       input.Body,
		Category:   string(category),
		AuthorName: author,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).CreateTopic(ctx, topic); err != nil {
			return err
		}
		return s.outbox.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventForumTopicCreated,
			AggregateType: enums.AggregateForumTopic,
			AggregateID:   topic.ID,
			Version:       1,
			Data: payloads.ForumTopicCreatedEvent{
				TopicID:    topic.ID,
				Title:      topic.Title,
				Category:   topic.Category,
				AuthorName: topic.AuthorName,
			},
		})
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "creating topic")
	}
	return NewTopicDTO(topic), nil
}

func (s *service) GetTopic(ctx context.Context, id uuid.UUID) (*TopicDTO, error) {
	topic, err := s.repo.FindTopicByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading topic")
	}
	return NewTopicDTO(topic), nil
}

func (s *service) ListTopics(ctx context.Context, params pagination.Params, filters ListFilters) ([]TopicDTO, string, error) {
	rows, next, err := s.repo.ListTopics(ctx, params, filters)
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeDependency, err, "listing topics")
	}
	return NewTopicDTOs(rows), next, nil
}

func (s *service) Reply(ctx context.Context, topicID uuid.UUID, input ReplyInput) (*PostDTO, error) {
	author := strings.TrimSpace(input.AuthorName)
	if author == "" {
		return nil, errors.New(errors.CodeValidation, "author name is required")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, errors.New(errors.CodeValidation, "body is required")
	}

	topic, err := s.repo.FindTopicByID(ctx, topicID)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading topic")
	}
	if topic.IsLocked {
		return nil, errors.New(errors.CodeStateConflict, "topic is locked")
	}

	post := &models.ForumPost{
		ID:         uuid.New(),
		TopicID:    topic.ID,
		AuthorName: author,
		Body:       input.Body,
	}
	created, err := s.repo.CreatePost(ctx, post)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "creating reply")
	}
	return NewPostDTO(created), nil
}

func (s *service) Lock(ctx context.Context, topicID uuid.UUID) (*TopicDTO, error) {
	return s.setLocked(ctx, topicID, true)
}

func (s *service) Unlock(ctx context.Context, topicID uuid.UUID) (*TopicDTO, error) {
	return s.setLocked(ctx, topicID, false)
}

func (s *service) setLocked(ctx context.Context, topicID uuid.UUID, locked bool) (*TopicDTO, error) {
	topic, err := s.repo.FindTopicByID(ctx, topicID)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading topic")
	}
	if err := s.repo.SetTopicLocked(ctx, topic.ID, locked); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "updating topic")
	}
	topic.IsLocked = locked
	return NewTopicDTO(topic), nil
}

func (s *service) DeleteTopic(ctx context.Context, topicID uuid.UUID) error {
	if _, err := s.repo.FindTopicByID(ctx, topicID); err != nil {
		return notFoundOrDependency(err, "loading topic")
	}
	if err := s.repo.DeleteTopic(ctx, topicID); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "deleting topic")
	}
	return nil
}

func (s *service) DeletePost(ctx context.Context, topicID, postID uuid.UUID) error {
	err := s.repo.DeletePost(ctx, topicID, postID)
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New(errors.CodeNotFound, "reply not found")
	}
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "deleting reply")
	}
	return nil
}

func notFoundOrDependency(err error, action string) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New(errors.CodeNotFound, "topic not found")
	}
	return errors.Wrap(errors.CodeDependency, err, action)
}
