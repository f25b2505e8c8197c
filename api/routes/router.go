package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-legacy/terra-backend/api/controllers"
	"github.com/terra-legacy/terra-backend/api/middleware"
	authsvc "github.com/terra-legacy/terra-backend/internal/auth"
	blogsvc "github.com/terra-legacy/terra-backend/internal/blogs"
	cartsvc "github.com/terra-legacy/terra-backend/internal/cart"
	checkoutsvc "github.com/terra-legacy/terra-backend/internal/checkout"
	contentsvc "github.com/terra-legacy/terra-backend/internal/content"
	coursesvc "github.com/terra-legacy/terra-backend/internal/courses"
	eventsvc "github.com/terra-legacy/terra-backend/internal/events"
	forumsvc "github.com/terra-legacy/terra-backend/internal/forums"
	notificationsvc "github.com/terra-legacy/terra-backend/internal/notifications"
	ordersvc "github.com/terra-legacy/terra-backend/internal/orders"
	productsvc "github.com/terra-legacy/terra-backend/internal/products"
	usersvc "github.com/terra-legacy/terra-backend/internal/users"
	"github.com/terra-legacy/terra-backend/pkg/auth/session"
	"github.com/terra-legacy/terra-backend/pkg/config"
	"github.com/terra-legacy/terra-backend/pkg/enums"
	"github.com/terra-legacy/terra-backend/pkg/logger"
	"github.com/terra-legacy/terra-backend/pkg/metrics"
	"github.com/terra-legacy/terra-backend/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth          authsvc.Service
	Products      productsvc.Service
	Cart          cartsvc.Service
	Checkout      checkoutsvc.Service
	Orders        ordersvc.Service
	Blogs         blogsvc.Service
	Events        eventsvc.Service
	Courses       coursesvc.Service
	Forums        forumsvc.Service
	Content       contentsvc.Service
	Users         usersvc.Service
	Notifications notificationsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	deps map[string]controllers.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthLimit.LoginWindow,
		cfg.AuthLimit.LoginIPLimit,
		cfg.AuthLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	// Public storefront and marketing surface. Every request rides an
	// anonymous session token so carts survive across visits.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SessionToken(logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/content/home", controllers.ContentHome(svcs.Content, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Products, logg))
			r.Get("/{slug}", controllers.ProductBySlug(svcs.Products, logg))
		})

		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", controllers.BlogList(svcs.Blogs, logg))
			r.Get("/{slug}", controllers.BlogBySlug(svcs.Blogs, logg))
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", controllers.EventList(svcs.Events, logg))
			r.Get("/{slug}", controllers.EventBySlug(svcs.Events, logg))
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", controllers.CourseList(svcs.Courses, logg))
			r.Get("/{slug}", controllers.CourseBySlug(svcs.Courses, logg))
		})

		r.Route("/forum/topics", func(r chi.Router) {
			r.Get("/", controllers.ForumTopicList(svcs.Forums, logg))
			r.Post("/", controllers.ForumTopicCreate(svcs.Forums, logg))
			r.Get("/{topicId}", controllers.ForumTopicDetail(svcs.Forums, logg))
			r.Post("/{topicId}/replies", controllers.ForumReply(svcs.Forums, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
			r.Put("/items/{productId}", controllers.CartUpdateQuantity(svcs.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(svcs.Cart, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/start", controllers.CheckoutStart(svcs.Checkout, logg))
			r.Get("/", controllers.CheckoutFetch(svcs.Checkout, logg))
			r.Delete("/", controllers.CheckoutAbandon(svcs.Checkout, logg))
			r.Post("/step", controllers.CheckoutGoToStep(svcs.Checkout, logg))
			r.Post("/shipping", controllers.CheckoutSubmitShipping(svcs.Checkout, logg))
			r.Post("/payment", controllers.CheckoutSubmitPayment(svcs.Checkout, logg))
			r.Post("/place-order", controllers.CheckoutPlaceOrder(svcs.Checkout, logg))
		})

		r.Get("/orders/{orderNumber}", controllers.OrderLookup(svcs.Orders, logg))
	})

	// Back office. Editors manage content, admins additionally manage
	// orders and accounts.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Post("/me/password", controllers.MeChangePassword(svcs.Users, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(svcs.Products, logg))
			r.Post("/", controllers.AdminProductCreate(svcs.Products, logg))
			r.Get("/{productId}", controllers.AdminProductGet(svcs.Products, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(svcs.Products, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(svcs.Products, logg))
		})

		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", controllers.AdminBlogList(svcs.Blogs, logg))
			r.Post("/", controllers.AdminBlogCreate(svcs.Blogs, logg))
			r.Patch("/{postId}", controllers.AdminBlogUpdate(svcs.Blogs, logg))
			r.Post("/{postId}/publish", controllers.AdminBlogPublish(svcs.Blogs, logg))
			r.Post("/{postId}/unpublish", controllers.AdminBlogUnpublish(svcs.Blogs, logg))
			r.Delete("/{postId}", controllers.AdminBlogDelete(svcs.Blogs, logg))
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", controllers.AdminEventList(svcs.Events, logg))
			r.Post("/", controllers.AdminEventCreate(svcs.Events, logg))
			r.Patch("/{eventId}", controllers.AdminEventUpdate(svcs.Events, logg))
			r.Post("/{eventId}/publish", controllers.AdminEventPublish(svcs.Events, logg))
			r.Post("/{eventId}/unpublish", controllers.AdminEventUnpublish(svcs.Events, logg))
			r.Delete("/{eventId}", controllers.AdminEventDelete(svcs.Events, logg))
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", controllers.AdminCourseList(svcs.Courses, logg))
			r.Post("/", controllers.AdminCourseCreate(svcs.Courses, logg))
			r.Patch("/{courseId}", controllers.AdminCourseUpdate(svcs.Courses, logg))
			r.Put("/{courseId}/lessons", controllers.AdminCourseReplaceLessons(svcs.Courses, logg))
			r.Post("/{courseId}/publish", controllers.AdminCoursePublish(svcs.Courses, logg))
			r.Post("/{courseId}/unpublish", controllers.AdminCourseUnpublish(svcs.Courses, logg))
			r.Delete("/{courseId}", controllers.AdminCourseDelete(svcs.Courses, logg))
		})

		r.Route("/forum/topics", func(r chi.Router) {
			r.Post("/{topicId}/lock", controllers.AdminForumLock(svcs.Forums, logg))
			r.Post("/{topicId}/unlock", controllers.AdminForumUnlock(svcs.Forums, logg))
			r.Delete("/{topicId}", controllers.AdminForumDeleteTopic(svcs.Forums, logg))
			r.Delete("/{topicId}/posts/{postId}", controllers.AdminForumDeletePost(svcs.Forums, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrderList(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.AdminOrderDetail(svcs.Orders, logg))
				r.Post("/{orderId}/fulfill", controllers.AdminOrderFulfill(svcs.Orders, logg))
				r.Post("/{orderId}/cancel", controllers.AdminOrderCancel(svcs.Orders, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.AdminNotificationList(svcs.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.AdminNotificationMarkRead(svcs.Notifications, logg))
				r.Post("/read-all", controllers.AdminNotificationMarkAllRead(svcs.Notifications, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminUserList(svcs.Users, logg))
				r.Post("/", controllers.AdminUserCreate(svcs.Users, logg))
				r.Get("/{userId}", controllers.AdminUserGet(svcs.Users, logg))
				r.Patch("/{userId}", controllers.AdminUserUpdate(svcs.Users, logg))
				r.Post("/{userId}/active", controllers.AdminUserSetActive(svcs.Users, logg))
				r.Post("/{userId}/reset-password", controllers.AdminUserResetPassword(svcs.Users, logg))
			})
		})
	})

	return r
}
