package main

import (
	"fmt"
	"log"
	"net/http"

	"themepark-ticketing-platform/internal/config"
	"themepark-ticketing-platform/internal/database"
	"themepark-ticketing-platform/internal/handlers"
	"themepark-ticketing-platform/internal/middleware"
	"themepark-ticketing-platform/internal/repositories"
	"themepark-ticketing-platform/internal/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := newLogger(cfg.Server.Env)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database ready")

	// Create session store
	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Server.Env == "production",
		SameSite: http.SameSiteLaxMode,
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db.DB)
	catalogRepo := repositories.NewCatalogRepository(db.DB)
	cartRepo := repositories.NewCartRepository(db.DB)
	orderRepo := repositories.NewOrderRepository(db.DB)
	ticketRepo := repositories.NewTicketRepository(db.DB)
	reviewRepo := repositories.NewReviewRepository(db.DB)

	// Initialize services
	userService := services.NewUserService(userRepo)
	cartService := services.NewCartService(cartRepo, catalogRepo)
	paymentService := services.NewSimulatedPaymentService(logger)
	orderService := services.NewOrderService(orderRepo, cartRepo, catalogRepo, paymentService, logger)
	ticketService := services.NewTicketService(ticketRepo, logger)
	reviewService := services.NewReviewService(reviewRepo, catalogRepo, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, sessionStore, logger)
	catalogHandler := handlers.NewCatalogHandler(catalogRepo, logger)
	cartHandler := handlers.NewCartHandler(cartService, logger)
	orderHandler := handlers.NewOrderHandler(orderService, logger)
	ticketHandler := handlers.NewTicketHandler(ticketService, logger)
	reviewHandler := handlers.NewReviewHandler(reviewService, logger)

	authMiddleware := middleware.NewAuthMiddleware(sessionStore, userService)

	// Initialize router
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(authMiddleware.LoadUser)

	r.Route("/api", func(r chi.Router) {
		// Public catalog
		r.Get("/destinations", catalogHandler.ListDestinations)
		r.Get("/destinations/{id}", catalogHandler.GetDestination)
		r.Get("/parks", catalogHandler.ListParks)
		r.Get("/parks/{id}", catalogHandler.GetPark)
		r.Get("/ticket-types", catalogHandler.ListTicketTypes)
		r.Get("/ticket-types/{id}", catalogHandler.GetTicketType)
		r.Get("/attractions", catalogHandler.ListAttractions)
		r.Get("/attractions/{id}", catalogHandler.GetAttraction)

		// Auth
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
		r.With(middleware.RequireAuth).Get("/auth/me", authHandler.Me)

		// Cart
		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Patch("/items/{id}", cartHandler.UpdateItem)
			r.Delete("/items/{id}", cartHandler.RemoveItem)
			r.Post("/clear", cartHandler.Clear)
			r.Post("/checkout", orderHandler.Checkout)
		})

		// Orders
		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", orderHandler.ListOrders)
			r.Get("/{id}", orderHandler.GetOrder)
			r.Post("/{id}/pay", orderHandler.Pay)
			r.Post("/{id}/cancel", orderHandler.Cancel)
		})

		// Tickets
		r.Route("/tickets", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", ticketHandler.ListTickets)
			r.Get("/valid", ticketHandler.ListValidTickets)
			r.Get("/{id}", ticketHandler.GetTicket)
			r.Post("/{id}/use", ticketHandler.MarkUsed)
			r.Patch("/{id}/guest", ticketHandler.UpdateGuestName)
		})

		// Guest reviews
		r.Route("/reviews", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", reviewHandler.ListReviews)
			r.Post("/", reviewHandler.CreateReview)
			r.Get("/{id}", reviewHandler.GetReview)
		})
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
