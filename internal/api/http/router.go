package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/emelnikov/linkly/internal/auth"
	"github.com/emelnikov/linkly/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
)

// AccountService is the account management surface consumed by the
// handlers.
type AccountService interface {
	Register(ctx context.Context, username, email, password string) error
	Activate(ctx context.Context, token string) error
	Login(ctx context.Context, identifier, password string) (string, *models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Profile(ctx context.Context, userID int64) (*models.User, error)
}

// LinkService is the link management surface consumed by the handlers.
type LinkService interface {
	Shorten(ctx context.Context, userID int64, longURL string) (*models.Link, error)
	List(ctx context.Context) ([]models.Link, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Link, error)
	IncrementCopyCount(ctx context.Context, id int64) (*models.Link, error)
	Delete(ctx context.Context, id int64) error
	DeleteBulk(ctx context.Context, ids []int64) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	Dashboard(ctx context.Context) (*models.LinkStats, error)
	Charts(ctx context.Context) (*models.ChartData, error)
	UserCharts(ctx context.Context, userID int64) (*models.ChartData, error)
}

// TokenVerifier checks bearer tokens for the authentication middleware.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

func NewRouter(logger *httplog.Logger, accountSvc AccountService, linkSvc LinkService, tokens TokenVerifier) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"POST", "GET", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.AllowContentType("application/json"))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	validate := getValidate()

	r.Post("/register", handleRegister(accountSvc, validate))
	r.Get("/activate/{token}", handleActivate(accountSvc))
	r.Post("/login", handleLogin(accountSvc, validate))
	r.Post("/forgot-password", handleForgotPassword(accountSvc, validate))
	r.Post("/reset-password/{token}", handleResetPassword(accountSvc, validate))

	r.Get("/url-list", handleListLinks(linkSvc))
	r.Post("/copy-count/{id}", handleIncrementCopyCount(linkSvc))
	r.Get("/chart", handleCharts(linkSvc))
	r.Get("/dashboard", handleDashboard(linkSvc))
	r.Delete("/urls/{id}", handleDeleteLink(linkSvc))

	r.Group(func(r chi.Router) {
		r.Use(authenticate(tokens))

		r.Get("/profile", handleProfile(accountSvc))
		r.Post("/create-url", handleCreateLink(linkSvc, validate))
		r.Get("/user-url-list", handleListUserLinks(linkSvc))
		r.Get("/user-charts", handleUserCharts(linkSvc))

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)

			r.Delete("/urls/bulk", handleDeleteBulkLinks(linkSvc, validate))
			r.Delete("/urls/all", handleDeleteAllLinks(linkSvc))
		})
	})

	return r
}
