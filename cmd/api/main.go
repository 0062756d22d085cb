package main

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	rd "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yassirmk/cleanshop-backend/internal/address"
	"github.com/yassirmk/cleanshop-backend/internal/auth"
	"github.com/yassirmk/cleanshop-backend/internal/banner"
	"github.com/yassirmk/cleanshop-backend/internal/cart"
	"github.com/yassirmk/cleanshop-backend/internal/category"
	"github.com/yassirmk/cleanshop-backend/internal/config"
	"github.com/yassirmk/cleanshop-backend/internal/events"
	"github.com/yassirmk/cleanshop-backend/internal/middleware"
	"github.com/yassirmk/cleanshop-backend/internal/order"
	"github.com/yassirmk/cleanshop-backend/internal/payment"
	"github.com/yassirmk/cleanshop-backend/internal/pricing"
	"github.com/yassirmk/cleanshop-backend/internal/product"
	"github.com/yassirmk/cleanshop-backend/internal/review"
	"github.com/yassirmk/cleanshop-backend/internal/shipping"
	"github.com/yassirmk/cleanshop-backend/internal/warehouse"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	setupLogger(cfg)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	if err := ensureSchema(db); err != nil {
		logrus.WithError(err).Fatal("schema bootstrap failed")
	}

	calc := pricing.Calculator{
		TaxRate:               cfg.TaxRate,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingFee:       cfg.FlatShippingFee,
	}

	publisher := newPublisher(cfg)
	defer publisher.Close()

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// The guard runs first so public routes still get their token parsed
	// when one is sent: a logged-in customer browsing the catalog keeps
	// their cart attached to their account.
	app.Use(auth.Middleware(cfg.JWTSecret, func(c *fiber.Ctx) bool {
		return publicRoute(c) && c.Get(fiber.HeaderAuthorization) == ""
	}))

	if cfg.RedisAddr != "" {
		rdb := rd.NewClient(&rd.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		limiter := middleware.RedisRateLimit(rdb, cfg.CheckoutRateLimit, cfg.CheckoutRateWindow)
		app.Use("/api/v1/orders", func(c *fiber.Ctx) error {
			if c.Method() != fiber.MethodPost {
				return c.Next()
			}
			return limiter(c)
		})
	}

	productService := product.NewService(product.NewPostgresRepository(db))
	productHandler := product.NewHandler(productService)

	categoryHandler := category.NewHandler(category.NewService(category.NewPostgresRepository(db)))
	bannerHandler := banner.NewHandler(banner.NewService(banner.NewPostgresRepository(db)))
	reviewHandler := review.NewHandler(review.NewService(review.NewPostgresRepository(db)))

	cartService := cart.NewService(cart.NewPostgresRepository(db), productService, calc)
	cartHandler := cart.NewHandler(cartService)

	zoneService := shipping.NewService(shipping.NewPostgresRepository(db))

	orderService := order.NewService(order.NewPostgresRepository(db, calc), zoneService, calc, publisher, cfg.Currency)
	orderHandler := order.NewHandler(orderService)

	paymentService := payment.NewService(payment.NewPostgresRepository(db), orderService)
	paymentHandler := payment.NewHandler(paymentService, orderService)

	addressHandler := address.NewHandler(address.NewService(address.NewPostgresRepository(db)))
	warehouseHandler := warehouse.NewHandler(warehouse.NewService(warehouse.NewPostgresRepository(db)))

	productHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	bannerHandler.RegisterPublicRoutes(app)
	reviewHandler.RegisterPublicRoutes(app)
	cartHandler.RegisterPublicRoutes(app)
	orderHandler.RegisterPublicRoutes(app)
	paymentHandler.RegisterPublicRoutes(app)

	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	paymentHandler.RegisterProtectedRoutes(app)
	reviewHandler.RegisterProtectedRoutes(app)
	addressHandler.RegisterProtectedRoutes(app)
	warehouseHandler.RegisterProtectedRoutes(app)

	logrus.WithField("addr", cfg.HTTPAddr).Info("starting http server")
	if err := app.Listen(cfg.HTTPAddr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

// publicRoute lists the surface reachable without a token: catalog,
// guest cart, guest checkout, tracking and the gateway webhook.
func publicRoute(c *fiber.Ctx) bool {
	path := c.Path()
	switch c.Method() {
	case fiber.MethodGet:
		return strings.HasPrefix(path, "/api/v1/products") ||
			strings.HasPrefix(path, "/api/v1/categories") ||
			path == "/api/v1/banners" ||
			path == "/api/v1/cart"
	case fiber.MethodPost:
		return path == "/api/v1/cart/items" ||
			path == "/api/v1/orders" ||
			path == "/api/v1/orders/track" ||
			path == "/api/v1/payments/webhook"
	case fiber.MethodPut, fiber.MethodDelete:
		return path == "/api/v1/cart" || strings.HasPrefix(path, "/api/v1/cart/items/")
	}
	return false
}

func setupLogger(cfg config.Config) {
	if cfg.LogJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func newPublisher(cfg config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logrus.Info("no kafka brokers configured, order events disabled")
		return events.NoopPublisher{}
	}
	logrus.WithField("topic", cfg.KafkaTopic).Info("publishing order events to kafka")
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}

func mustOpenDB(url string) *sql.DB {
	db, err := sql.Open("pgx", url)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open database")
	}
	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("failed to ping database")
	}
	return db
}
