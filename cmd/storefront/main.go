package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	database "github.com/dukahub/storefront/db"
	"github.com/dukahub/storefront/internal/api"
	"github.com/dukahub/storefront/internal/cart"
	"github.com/dukahub/storefront/internal/catalog"
	"github.com/dukahub/storefront/internal/checkout"
	"github.com/dukahub/storefront/internal/gateway"
	"github.com/dukahub/storefront/internal/payment"
	"github.com/dukahub/storefront/internal/session"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

type Server struct {
	router          *http.ServeMux
	sessionHandler  *session.Handler
	cartHandler     *cart.Handler
	checkoutHandler *checkout.Handler
	paymentHandler  *payment.Handler
	catalogHandler  *catalog.Handler
	edge            *gateway.Gateway
	metrics         *gateway.Collector
}

func NewServer(
	sessionHandler *session.Handler,
	cartHandler *cart.Handler,
	checkoutHandler *checkout.Handler,
	paymentHandler *payment.Handler,
	catalogHandler *catalog.Handler,
	edge *gateway.Gateway,
	metrics *gateway.Collector,
) *Server {
	return &Server{
		router:          http.NewServeMux(),
		sessionHandler:  sessionHandler,
		cartHandler:     cartHandler,
		checkoutHandler: checkoutHandler,
		paymentHandler:  paymentHandler,
		catalogHandler:  catalogHandler,
		edge:            edge,
		metrics:         metrics,
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func checkConfiguration() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	if os.Getenv("API_BASE_URL") == "" {
		return errors.New("no API_BASE_URL provided")
	}
	if os.Getenv("JWT_SECRET") == "" {
		return errors.New("no JWT_SECRET provided")
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

func (s *Server) RegisterRoutes() {
	mux := http.NewServeMux()

	// Auth / session
	mux.Handle("POST /api/auth/login", http.HandlerFunc(s.sessionHandler.HandleLogin))
	mux.Handle("POST /api/auth/register", http.HandlerFunc(s.sessionHandler.HandleRegister))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(s.sessionHandler.HandleLogout))
	mux.Handle("POST /api/auth/password/reset", http.HandlerFunc(s.sessionHandler.HandleRequestPasswordReset))
	mux.Handle("POST /api/auth/password/reset/confirm", http.HandlerFunc(s.sessionHandler.HandleResetPassword))
	mux.Handle("GET /api/auth/session", http.HandlerFunc(s.sessionHandler.HandleSession))

	// Catalog
	mux.Handle("GET /api/products", http.HandlerFunc(s.catalogHandler.GetProducts))

	// Cart
	mux.Handle("GET /api/cart", http.HandlerFunc(s.cartHandler.GetCart))
	mux.Handle("POST /api/cart/items", http.HandlerFunc(s.cartHandler.AddItem))
	mux.Handle("PATCH /api/cart/items/{itemID}", http.HandlerFunc(s.cartHandler.UpdateItem))
	mux.Handle("DELETE /api/cart/items/{itemID}", http.HandlerFunc(s.cartHandler.RemoveItem))
	mux.Handle("DELETE /api/cart", http.HandlerFunc(s.cartHandler.ClearCart))

	// Checkout wizard
	mux.Handle("GET /api/checkout", http.HandlerFunc(s.checkoutHandler.GetCheckout))
	mux.Handle("POST /api/checkout/advance", http.HandlerFunc(s.checkoutHandler.Advance))
	mux.Handle("POST /api/checkout/back", http.HandlerFunc(s.checkoutHandler.Retreat))
	mux.Handle("POST /api/checkout/submit", http.HandlerFunc(s.checkoutHandler.Submit))

	// Payments
	mux.Handle("POST /api/payments", http.HandlerFunc(s.paymentHandler.CreatePayment))
	mux.Handle("POST /api/payments/mpesa", http.HandlerFunc(s.paymentHandler.InitiateMpesaPayment))
	mux.Handle("POST /api/payments/{paymentID}/confirm", http.HandlerFunc(s.paymentHandler.ConfirmPayment))
	mux.Handle("GET /api/payments/methods", http.HandlerFunc(s.paymentHandler.GetPaymentMethods))
	mux.Handle("POST /api/payments/methods", http.HandlerFunc(s.paymentHandler.CreatePaymentMethod))
	mux.Handle("DELETE /api/payments/methods/{paymentMethodID}", http.HandlerFunc(s.paymentHandler.DeletePaymentMethod))
	mux.Handle("GET /api/payments/status/{orderID}", http.HandlerFunc(s.paymentHandler.GetPaymentStatus))
	mux.Handle("GET /api/payments/history", http.HandlerFunc(s.paymentHandler.GetPaymentHistory))
	mux.Handle("POST /api/payments/refunds", http.HandlerFunc(s.paymentHandler.CreateRefund))

	mux.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.Handle("/", http.HandlerFunc(notFoundHandler))

	// The edge gateway fronts everything: cookie-based auth for protected
	// API prefixes, redirects for page routes.
	gated := s.edge.Middleware()(mux)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", gated)
	s.router = mainRouter
}

func main() {
	if err := checkConfiguration(); err != nil {
		log.Fatalf("Missing configuration, update to start server: %v", err)
	}

	var tokenStore session.TokenStore
	var dbService *database.DBService
	if connStr := os.Getenv("DB_CONNECTION_STRING"); connStr != "" {
		var err error
		dbService, err = database.NewDBService(connStr)
		if err != nil {
			log.Fatalf("Could not initialize database: %v", err)
		}
		defer dbService.Close()
		if err := dbService.EnsureSchema(); err != nil {
			log.Fatalf("Could not prepare database: %v", err)
		}
		pgStore := session.NewPostgresTokenStore(dbService.DB, "default")
		tokenStore = pgStore

		if err := StartTokenPurgeScheduler(pgStore); err != nil {
			log.Fatalf("Scheduler didn't start, stopping the app ...")
		}
	} else {
		tokenFile := os.Getenv("TOKEN_FILE")
		if tokenFile == "" {
			tokenFile = ".storefront_tokens.json"
		}
		fileStore, err := session.NewFileTokenStore(tokenFile)
		if err != nil {
			log.Fatalf("Could not open token store: %v", err)
		}
		tokenStore = fileStore
	}

	apiClient := api.NewHTTPClient(os.Getenv("API_BASE_URL"), tokenStore.AccessToken)

	sessionService := session.NewService(apiClient, tokenStore)
	sessionHandler := session.NewHandler(sessionService)

	cartFile := os.Getenv("CART_FILE")
	if cartFile == "" {
		cartFile = ".storefront_cart.json"
	}
	cartStore := cart.NewStore(apiClient, tokenStore, cart.NewFileStorage(cartFile))
	cartHandler := cart.NewHandler(cartStore, respondJSON, respondError)

	paymentOps := payment.NewOperations(apiClient, payment.Callbacks{})
	paymentHandler := payment.NewHandler(paymentOps, respondJSON, respondError)

	orchestrator := checkout.NewOrchestrator(apiClient, paymentOps, cartStore)
	checkoutHandler := checkout.NewHandler(orchestrator, respondJSON, respondError)

	catalogHandler := catalog.NewHandler(apiClient, respondJSON, respondError)

	metrics := gateway.NewCollector()
	verifier := gateway.NewTokenVerifier(os.Getenv("JWT_SECRET"))
	allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:3000"
	}
	edge := gateway.New(verifier, metrics, allowedOrigin)

	server := NewServer(sessionHandler, cartHandler, checkoutHandler, paymentHandler, catalogHandler, edge, metrics)
	server.RegisterRoutes()

	// Session restoration runs exactly once per process.
	sessionService.Restore()
	if state := sessionService.State(); state.IsAuthenticated {
		log.Printf("Session restored for %s", state.User.Email)
	} else {
		log.Println("No session to restore, starting logged out")
	}

	handler := loggingMiddleware(server.router)
	log.Println("Starting perf on port 6060...")
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	log.Println("Server starting on port 8080...")
	if err := http.ListenAndServe(":8080", handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// StartTokenPurgeScheduler drops token rows past the refresh token lifetime.
func StartTokenPurgeScheduler(store *session.PostgresTokenStore) error {
	c := cron.New()
	_, err := c.AddFunc("@every 1h", func() {
		purged, err := store.PurgeStale(720 * time.Hour)
		if err != nil {
			log.Printf("Error purging stale tokens: %v", err)
		} else if purged > 0 {
			log.Printf("Purged %d stale token rows", purged)
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}
