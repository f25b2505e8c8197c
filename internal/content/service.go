package content

import (
	"context"
	stderrors "errors"
	"time"

	blog "github.com/terra-legacy/terra-backend/internal/blogs"
	course "github.com/terra-legacy/terra-backend/internal/courses"
	event "github.com/terra-legacy/terra-backend/internal/events"
	forum "github.com/terra-legacy/terra-backend/internal/forums"
	product "github.com/terra-legacy/terra-backend/internal/products"
	"github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
)

const (
	featuredProductCount = 8
	latestPostCount      = 3
	upcomingEventCount   = 5
	featuredCourseCount  = 4
	recentTopicCount     = 5
)

// HomeFeed bundles everything the marketing site landing page renders.
type HomeFeed struct {
	FeaturedProducts []product.ProductDTO `json:"featured_products"`
	LatestPosts      []blog.BlogPostDTO   `json:"latest_posts"`
	UpcomingEvents   []event.EventDTO     `json:"upcoming_events"`
	FeaturedCourses  []course.CourseDTO   `json:"featured_courses"`
	RecentTopics     []forum.TopicDTO     `json:"recent_topics"`
}

type productLister interface {
	List(ctx context.Context, params pagination.Params, filters product.ListFilters) ([]product.ProductDTO, string, error)
}

type blogLister interface {
	List(ctx context.Context, params pagination.Params, filters blog.ListFilters) ([]blog.BlogPostDTO, string, error)
}

type eventLister interface {
	List(ctx context.Context, params pagination.Params, filters event.ListFilters) ([]event.EventDTO, string, error)
}

type courseLister interface {
	List(ctx context.Context, params pagination.Params, filters course.ListFilters) ([]course.CourseDTO, string, error)
}

type topicLister interface {
	ListTopics(ctx context.Context, params pagination.Params, filters forum.ListFilters) ([]forum.TopicDTO, string, error)
}

// Service aggregates public content for the landing page.
type Service interface {
	Home(ctx context.Context) (*HomeFeed, error)
}

type service struct {
	products productLister
	blogs    blogLister
	events   eventLister
	courses  courseLister
	forums   topicLister
}

// NewService wires the content aggregator over the public catalog services.
func NewService(products productLister, blogs blogLister, events eventLister, courses courseLister, forums topicLister) (Service, error) {
	if products == nil || blogs == nil || events == nil || courses == nil || forums == nil {
		return nil, stderrors.New("all content sources are required")
	}
	return &service{
		products: products,
		blogs:    blogs,
		events:   events,
		courses:  courses,
		forums:   forums,
	}, nil
}

func (s *service) Home(ctx context.Context) (*HomeFeed, error) {
	featured := true
	products, _, err := s.products.List(ctx, pagination.Params{Limit: featuredProductCount}, product.ListFilters{
		ActiveOnly: true,
		Featured:   &featured,
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading featured products")
	}

	posts, _, err := s.blogs.List(ctx, pagination.Params{Limit: latestPostCount}, blog.ListFilters{
		PublishedOnly: true,
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading latest posts")
	}

	events, _, err := s.events.List(ctx, pagination.Params{Limit: upcomingEventCount}, event.ListFilters{
		PublishedOnly: true,
		UpcomingFrom:  time.Now().UTC(),
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading upcoming events")
	}

	courses, _, err := s.courses.List(ctx, pagination.Params{Limit: featuredCourseCount}, course.ListFilters{
		PublishedOnly: true,
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading courses")
	}

	topics, _, err := s.forums.ListTopics(ctx, pagination.Params{Limit: recentTopicCount}, forum.ListFilters{})
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading recent topics")
	}

	return &HomeFeed{
		FeaturedProducts: products,
		LatestPosts:      posts,
		UpcomingEvents:   events,
		FeaturedCourses:  courses,
		RecentTopics:     topics,
	}, nil
}
