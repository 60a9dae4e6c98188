package handler

import (
	"context"
	"crypto/sha256"
	"io"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/auth"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/backend"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/config"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/inventory"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/session"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/transfer"
	"go.uber.org/zap"
	"golang.org/x/crypto/hkdf"
)

type activityStore interface {
	CreateActivity(a *domain.Activity) error
	GetRecentActivities(limit int) ([]*domain.Activity, error)
	GetActivitiesByUsername(username string, limit int) ([]*domain.Activity, error)
}

// mailPublisher is satisfied by *amqp.Channel.
type mailPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	log         *zap.Logger
	translator  ut.Translator
	auth        *auth.Authenticator
	transfers   *transfer.Service
	snapshot    *inventory.Snapshot
	api         *backend.Client
	repository  activityStore
	mailChannel mailPublisher
	cookieKey   []byte

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, logger *zap.Logger, store session.Store, api *backend.Client, repo activityStore, mailCh mailPublisher) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	cookieKey, err := deriveCookieKey(cfg.Session.Secret)
	if err != nil {
		return nil, err
	}

	snapshot := inventory.NewSnapshot(api, time.Duration(cfg.Snapshot.TTL)*time.Second, logger)

	return &Handler{
		validate:    validate,
		config:      cfg,
		log:         logger,
		translator:  trans,
		auth:        auth.NewAuthenticator(store, api, logger),
		transfers:   transfer.NewService(api, snapshot, logger),
		snapshot:    snapshot,
		api:         api,
		repository:  repo,
		mailChannel: mailCh,
		cookieKey:   cookieKey,

		Mux: chi.NewRouter(),
	}, nil
}

// deriveCookieKey expands SESSION_SECRET into the HS256 key for session cookies.
func deriveCookieKey(secret string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte("inventory-console session cookie")), key); err != nil {
		return nil, err
	}
	return key, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	h.Mux.Use(h.session)

	h.Mux.Get("/healthz", h.Healthz)
	h.Mux.Handle("/metrics", promhttp.Handler())

	h.Mux.Get("/login", h.LoginPage)
	h.Mux.Post("/login", h.Login)
	h.Mux.Post("/logout", h.Logout)

	// everything below needs a session
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.requireSession)

		r.Get("/dashboard", h.Dashboard)
		r.Get("/me", h.GetMyInfo)

		r.Route("/transfers", func(r chi.Router) {
			r.Get("/", h.TransfersPage)
			r.Post("/", h.CreateTransfer)
			r.Get("/pending", h.PendingTransfers)
			r.Get("/history", h.TransferHistory)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.transferID)
				r.Post("/accept", h.AcceptTransfer)
				r.Post("/reject", h.RejectTransfer)
			})
		})

		r.With(h.RequiredRole(domain.RoleAnalyst)).Get("/analytics", h.Analytics)

		r.Route("/stock-adjustment", func(r chi.Router) {
			r.Use(h.RequiredRole(domain.RoleManager))
			r.Get("/", h.StockAdjustmentPage)
			r.Post("/", h.AdjustStock)
		})

		r.Route("/purchase-orders", func(r chi.Router) {
			r.Use(h.RequiredRole(domain.RoleManager))
			r.Get("/", h.PurchaseOrdersPage)
			r.Post("/", h.CreatePurchaseOrder)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.RequiredRole(domain.RoleAdmin))
			r.Get("/users", h.GetAllUsers)
			r.Post("/users", h.CreateUser)
			r.Get("/stores", h.GetAllStores)
			r.Post("/stores", h.CreateStore)
			r.Get("/activity", h.GetActivities)
		})
	})
}
