package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SafinArnob/E-Shop-Management-System/api/controllers"
	"github.com/SafinArnob/E-Shop-Management-System/api/middleware"
	"github.com/SafinArnob/E-Shop-Management-System/internal/auth"
	"github.com/SafinArnob/E-Shop-Management-System/internal/cart"
	"github.com/SafinArnob/E-Shop-Management-System/internal/discounts"
	"github.com/SafinArnob/E-Shop-Management-System/internal/orders"
	"github.com/SafinArnob/E-Shop-Management-System/internal/products"
	"github.com/SafinArnob/E-Shop-Management-System/internal/support"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/config"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/db"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/logger"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	authService auth.Service,
	productService products.Service,
	cartService cart.Service,
	discountService discounts.Service,
	orderService orders.Service,
	supportService support.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Route("/v1/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(productService, logg))
			r.Get("/{productId}", controllers.ProductDetail(productService, logg))
		})
		r.Get("/v1/discounts/validate/{code}", controllers.DiscountValidateCode(discountService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Get("/ping", controllers.PrivatePing())

			r.Route("/v1/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(cartService, logg))
				r.Get("/validate", controllers.CartValidate(cartService, logg))
				r.Post("/items", controllers.CartAddItem(cartService, logg))
				r.Put("/items/{productId}", controllers.CartUpdateItem(cartService, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
			})

			r.Route("/v1/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderCreate(orderService, logg))
				r.Get("/", controllers.OrderList(orderService, logg))
				r.Get("/preview", controllers.OrderPreview(orderService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(orderService, logg))
				r.Put("/{orderId}/cancel", controllers.OrderCancel(orderService, logg))
			})

			r.With(middleware.DiscountRateLimit(
				cfg.DiscountRateLimit.ApplyWindow,
				cfg.DiscountRateLimit.ApplyLimit,
				redisClient,
				logg,
			)).Post("/v1/discounts/apply-code", controllers.DiscountApplyCode(discountService, logg))

			r.Route("/v1/support/tickets", func(r chi.Router) {
				r.Post("/", controllers.TicketCreate(supportService, logg))
				r.Get("/", controllers.TicketList(supportService, logg))
				r.Get("/{ticketId}", controllers.TicketDetail(supportService, logg))
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Get("/ping", controllers.AdminPing())

		r.Route("/v1/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(productService, logg))
			r.Put("/{productId}", controllers.AdminUpdateProduct(productService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(productService, logg))
		})

		r.Route("/v1/discounts", func(r chi.Router) {
			r.Get("/", controllers.AdminDiscountList(discountService, logg))
			r.Get("/stats", controllers.AdminDiscountStats(discountService, logg))
			r.Post("/", controllers.AdminCreateDiscount(discountService, logg))
			r.Get("/{discountId}", controllers.AdminDiscountDetail(discountService, logg))
			r.Put("/{discountId}", controllers.AdminUpdateDiscount(discountService, logg))
			r.Delete("/{discountId}", controllers.AdminDeleteDiscount(discountService, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(orderService, logg))
			r.Get("/stats", controllers.AdminOrderStats(orderService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(orderService, logg))
			r.Put("/{orderId}/status", controllers.AdminUpdateOrderStatus(orderService, logg))
			r.Put("/{orderId}/payment-status", controllers.AdminUpdatePaymentStatus(orderService, logg))
		})

		r.Route("/v1/support/tickets", func(r chi.Router) {
			r.Get("/", controllers.AdminTicketList(supportService, logg))
			r.Get("/{ticketId}", controllers.TicketDetail(supportService, logg))
			r.Put("/{ticketId}/status", controllers.AdminTicketStatus(supportService, logg))
			r.Put("/{ticketId}/assign", controllers.AdminTicketAssign(supportService, logg))
		})
	})

	return r
}
