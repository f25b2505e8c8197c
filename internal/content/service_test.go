package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blog "github.com/terra-legacy/terra-backend/internal/blogs"
	course "github.com/terra-legacy/terra-backend/internal/courses"
	event "github.com/terra-legacy/terra-backend/internal/events"
	forum "github.com/terra-legacy/terra-backend/internal/forums"
	product "github.com/terra-legacy/terra-backend/internal/products"
	pkgerrors "github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
)

type stubProducts struct {
	filters product.ListFilters
	err     error
}

func (s *stubProducts) List(_ context.Context, _ pagination.Params, filters product.ListFilters) ([]product.ProductDTO, string, error) {
	s.filters = filters
	if s.err != nil {
		return nil, "", s.err
	}
	return []product.ProductDTO{{Title: "Heirloom Tomato Seeds"}}, "", nil
}

type stubBlogs struct{}

func (stubBlogs) List(_ context.Context, _ pagination.Params, _ blog.ListFilters) ([]blog.BlogPostDTO, string, error) {
	return []blog.BlogPostDTO{{Title: "Why Cover Crops Matter"}}, "", nil
}

type stubEvents struct{ filters event.ListFilters }

func (s *stubEvents) List(_ context.Context, _ pagination.Params, filters event.ListFilters) ([]event.EventDTO, string, error) {
	s.filters = filters
	return []event.EventDTO{{Title: "Compost Clinic"}}, "", nil
}

type stubCourses struct{}

func (stubCourses) List(_ context.Context, _ pagination.Params, _ course.ListFilters) ([]course.CourseDTO, string, error) {
	return []course.CourseDTO{{Title: "Soil Health Fundamentals"}}, "", nil
}

type stubForums struct{}

func (stubForums) ListTopics(_ context.Context, _ pagination.Params, _ forum.ListFilters) ([]forum.TopicDTO, string, error) {
	return []forum.TopicDTO{{Title: "Best tomato varieties?"}}, "", nil
}

func TestHomeAggregatesAllSections(t *testing.T) {
	products := &stubProducts{}
	events := &stubEvents{}
	svc, err := NewService(products, stubBlogs{}, events, stubCourses{}, stubForums{})
	require.NoError(t, err)

	feed, err := svc.Home(context.Background())
	require.NoError(t, err)
	require.Len(t, feed.FeaturedProducts, 1)
	require.Len(t, feed.LatestPosts, 1)
	require.Len(t, feed.UpcomingEvents, 1)
	require.Len(t, feed.FeaturedCourses, 1)
	require.Len(t, feed.RecentTopics, 1)

	// only live, featured storefront content reaches the landing page
	assert.True(t, products.filters.ActiveOnly)
	require.NotNil(t, products.filters.Featured)
	assert.True(t, *products.filters.Featured)
	assert.True(t, events.filters.PublishedOnly)
	assert.False(t, events.filters.UpcomingFrom.IsZero())
}

func TestHomePropagatesSourceFailure(t *testing.T) {
	products := &stubProducts{err: pkgerrors.New(pkgerrors.CodeDependency, "db offline")}
	svc, err := NewService(products, stubBlogs{}, &stubEvents{}, stubCourses{}, stubForums{})
	require.NoError(t, err)

	_, err = svc.Home(context.Background())
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeDependency, coded.Code())
}
