package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/petcareclinic/petcare-backend/api/controllers"
	webhookcontrollers "github.com/petcareclinic/petcare-backend/api/controllers/webhooks"
	"github.com/petcareclinic/petcare-backend/api/middleware"
	"github.com/petcareclinic/petcare-backend/internal/auth"
	"github.com/petcareclinic/petcare-backend/internal/cart"
	"github.com/petcareclinic/petcare-backend/internal/orders"
	"github.com/petcareclinic/petcare-backend/internal/products"
	"github.com/petcareclinic/petcare-backend/pkg/auth/session"
	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
	"github.com/petcareclinic/petcare-backend/pkg/metrics"
	pkgredis "github.com/petcareclinic/petcare-backend/pkg/redis"
)

// RedisStore covers the idempotency and rate limiting needs of the router.
type RedisStore interface {
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type TestimonialService interface {
	controllers.TestimonialService
	controllers.ReviewWriter
	controllers.ReviewLister
}

// Dependencies bundles everything the HTTP surface is built from.
type Dependencies struct {
	DB             controllers.Pinger
	Redis          RedisStore
	RedisPinger    controllers.Pinger
	Sessions       session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	Auth          auth.Service
	Register      auth.RegisterService
	Users         controllers.UserService
	Products      products.Service
	Veterinarians controllers.VeterinarianService
	Appointments  controllers.AppointmentService
	Testimonials  TestimonialService
	Cart          cart.Service
	Orders        orders.Service
	Payments      PaymentService
}

type PaymentService interface {
	controllers.HashGenerator
	webhookcontrollers.PayHereNotificationService
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins()),
		middleware.Metrics(deps.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    deps.DB,
			"redis": deps.RedisPinger,
		}))
	})
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Register, deps.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
		})

		r.Post("/payments/payhere-notify", webhookcontrollers.PayHereNotify(deps.Payments, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))

			authed := middleware.RequireUser(logg)
			admin := middleware.RequireRole(logg, enums.UserRoleAdmin)
			staff := middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleVeterinarian)

			r.Route("/users", func(r chi.Router) {
				r.Get("/exists/username/{username}", controllers.UsernameExists(deps.Users, logg))
				r.Get("/exists/email/{email}", controllers.EmailExists(deps.Users, logg))
				r.Group(func(r chi.Router) {
					r.Use(authed)
					r.Get("/me", controllers.UserMe(deps.Users, logg))
					r.Put("/me", controllers.UserUpdateMe(deps.Users, logg))
					r.Post("/me/password", controllers.UserChangePassword(deps.Users, logg))
				})
			})

			r.Route("/admin/users", func(r chi.Router) {
				r.Use(admin)
				r.Get("/", controllers.AdminListUsers(deps.Users, logg))
				r.Post("/", controllers.AdminCreateUser(deps.Users, logg))
				r.Get("/{id}", controllers.AdminGetUser(deps.Users, logg))
				r.Patch("/{id}", controllers.AdminUpdateUser(deps.Users, logg))
				r.Delete("/{id}", controllers.AdminDeleteUser(deps.Users, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductList(deps.Products, logg))
				r.Get("/{id}", controllers.ProductDetail(deps.Products, logg))
				r.With(admin).Post("/", controllers.AdminCreateProduct(deps.Products, logg))
				r.With(admin).Put("/{id}", controllers.AdminUpdateProduct(deps.Products, logg))
				r.With(admin).Delete("/{id}", controllers.AdminDeleteProduct(deps.Products, logg))
			})

			r.Route("/veterinarians", func(r chi.Router) {
				r.Get("/", controllers.VeterinarianList(deps.Veterinarians, logg))
				r.Get("/specializations", controllers.VeterinarianSpecializations(deps.Veterinarians, logg))
				r.Get("/email/{email}", controllers.VeterinarianByEmail(deps.Veterinarians, logg))
				r.Get("/license/{license}", controllers.VeterinarianByLicense(deps.Veterinarians, logg))
				r.Get("/{id}", controllers.VeterinarianDetail(deps.Veterinarians, logg))
				r.Get("/{id}/reviews", controllers.VeterinarianReviews(deps.Testimonials, logg))
				r.With(admin).Post("/", controllers.AdminCreateVeterinarian(deps.Veterinarians, logg))
				r.With(admin).Put("/{id}", controllers.AdminUpdateVeterinarian(deps.Veterinarians, logg))
				r.With(admin).Delete("/{id}", controllers.AdminDeleteVeterinarian(deps.Veterinarians, logg))
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/availability", controllers.AppointmentAvailability(deps.Appointments, logg))
				r.With(staff).Get("/", controllers.StaffListAppointments(deps.Appointments, logg))
				r.Group(func(r chi.Router) {
					r.Use(authed)
					r.Post("/", controllers.AppointmentCreate(deps.Appointments, logg))
					r.Get("/me", controllers.AppointmentMine(deps.Appointments, logg))
					r.Get("/{id}", controllers.AppointmentDetail(deps.Appointments, logg))
					r.Put("/{id}", controllers.AppointmentUpdate(deps.Appointments, logg))
					r.Delete("/{id}", controllers.AppointmentDelete(deps.Appointments, logg))
					r.Patch("/{id}/status", controllers.AppointmentChangeStatus(deps.Appointments, logg))
					r.Post("/{id}/review", controllers.AppointmentReview(deps.Appointments, deps.Testimonials, logg))
				})
			})

			r.Route("/cart", func(r chi.Router) {
				r.Use(authed)
				r.Get("/", controllers.CartFetch(deps.Cart, logg))
				r.Delete("/", controllers.CartClear(deps.Cart, logg))
				r.Get("/count", controllers.CartCount(deps.Cart, logg))
				r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
				r.Put("/items/{itemId}", controllers.CartUpdateItem(deps.Cart, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.Cart, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Use(authed)
				r.Post("/", controllers.OrderCreate(deps.Orders, logg))
				r.Get("/me", controllers.OrderMine(deps.Orders, logg))
				r.Get("/number/{orderNumber}", controllers.OrderByNumber(deps.Orders, logg))
				r.Get("/{id}", controllers.OrderDetail(deps.Orders, logg))
				r.Patch("/{id}/cancel", controllers.OrderCancel(deps.Orders, logg))

				r.Group(func(r chi.Router) {
					r.Use(admin)
					r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
					r.Get("/search", controllers.AdminSearchOrders(deps.Orders, logg))
					r.Get("/recent", controllers.AdminRecentOrders(deps.Orders, logg))
					r.Get("/to-ship", controllers.AdminOrdersToShip(deps.Orders, logg))
					r.Get("/status/{status}", controllers.AdminOrdersByStatus(deps.Orders, logg))
					r.Get("/count/status/{status}", controllers.AdminCountOrdersByStatus(deps.Orders, logg))
					r.Patch("/{id}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
					r.Patch("/{id}/tracking", controllers.AdminAddTracking(deps.Orders, logg))
					r.Delete("/{id}", controllers.AdminDeleteOrder(deps.Orders, logg))
				})
			})

			r.With(authed).Post("/payments/generate-hash", controllers.PaymentGenerateHash(deps.Payments, logg))

			r.Route("/testimonials", func(r chi.Router) {
				r.Get("/", controllers.TestimonialList(deps.Testimonials, logg))
				r.Get("/{id}", controllers.TestimonialDetail(deps.Testimonials, logg))
				r.With(authed).Post("/", controllers.TestimonialCreate(deps.Testimonials, logg))
				r.With(admin).Put("/{id}", controllers.AdminUpdateTestimonial(deps.Testimonials, logg))
				r.With(admin).Delete("/{id}", controllers.AdminDeleteTestimonial(deps.Testimonials, logg))
				r.With(admin).Patch("/{id}/approve", controllers.AdminApproveTestimonial(deps.Testimonials, logg))
				r.With(admin).Patch("/{id}/feature", controllers.AdminFeatureTestimonial(deps.Testimonials, logg))
			})
		})
	})

	return r
}
