package blog

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/terra-legacy/terra-backend/pkg/db"
	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
	"github.com/terra-legacy/terra-backend/pkg/slug"
)

// CreateInput carries a new article draft.
type CreateInput struct {
	Title     string
	Author    string
	Excerpt   *string
	Body      string
	HeroImage *string
	Tags      []string
}

// UpdateInput carries a partial article update.
type UpdateInput struct {
	Title     *string
	Author    *string
	Excerpt   *string
	Body      *string
	HeroImage *string
	Tags      []string
}

// Service exposes blog administration and public reads.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*BlogPostDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*BlogPostDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Publish(ctx context.Context, id uuid.UUID) (*BlogPostDTO, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*BlogPostDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*BlogPostDTO, error)
	GetBySlug(ctx context.Context, slugValue string) (*BlogPostDTO, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]BlogPostDTO, string, error)
}

type service struct {
	repo *Repository
}

// NewService wires the blog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, stderrors.New("blog repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*BlogPostDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New(errors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Author) == "" {
		return nil, errors.New(errors.CodeValidation, "author is required")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, errors.New(errors.CodeValidation, "body is required")
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	post := &models.BlogPost{
		ID:        uuid.New(),
		Title:     title,
		Slug:      slug.Make(title),
		Author:    strings.TrimSpace(input.Author),
		Excerpt:   input.Excerpt,
		Body:      input.Body,
		HeroImage: input.HeroImage,
		Tags:      tags,
	}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_blog_posts_slug") {
			return nil, errors.New(errors.CodeConflict, "a post with this title already exists")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "creating post")
	}
	return NewBlogPostDTO(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*BlogPostDTO, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading post")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errors.New(errors.CodeValidation, "title cannot be empty")
		}
		post.Title = title
		post.Slug = slug.Make(title)
	}
	if input.Author != nil {
		post.Author = strings.TrimSpace(*input.Author)
	}
	if input.Excerpt != nil {
		post.Excerpt = input.Excerpt
	}
	if input.Body != nil {
		post.Body = *input.Body
	}
	if input.HeroImage != nil {
		post.HeroImage = input.HeroImage
	}
	if input.Tags != nil {
		post.Tags = input.Tags
	}

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_blog_posts_slug") {
			return nil, errors.New(errors.CodeConflict, "a post with this title already exists")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "updating post")
	}
	return NewBlogPostDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOrDependency(err, "loading post")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "deleting post")
	}
	return nil
}

func (s *service) Publish(ctx context.Context, id uuid.UUID) (*BlogPostDTO, error) {
	return s.setPublished(ctx, id, true)
}

func (s *service) Unpublish(ctx context.Context, id uuid.UUID) (*BlogPostDTO, error) {
	return s.setPublished(ctx, id, false)
}

func (s *service) setPublished(ctx context.Context, id uuid.UUID, published bool) (*BlogPostDTO, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading post")
	}

	post.IsPublished = published
	if published {
		if post.PublishedAt == nil {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}
	} else {
		post.PublishedAt = nil
	}

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "updating post")
	}
	return NewBlogPostDTO(updated), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*BlogPostDTO, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading post")
	}
	return NewBlogPostDTO(post), nil
}

func (s *service) GetBySlug(ctx context.Context, slugValue string) (*BlogPostDTO, error) {
	post, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading post")
	}
	return NewBlogPostDTO(post), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]BlogPostDTO, string, error) {
	rows, next, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeDependency, err, "listing posts")
	}
	return NewBlogPostDTOs(rows), next, nil
}

func notFoundOrDependency(err error, action string) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New(errors.CodeNotFound, "post not found")
	}
	return errors.Wrap(errors.CodeDependency, err, action)
}
