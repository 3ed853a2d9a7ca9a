package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/emelnikov/linkly/internal/database"
	"github.com/emelnikov/linkly/internal/models"
	"github.com/emelnikov/linkly/internal/service"
	"github.com/emelnikov/linkly/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Activated bool      `json:"activated"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Activated: user.Activated,
		CreatedAt: user.CreatedAt,
	}
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, validate *validator.Validate, req any) bool {
	if err := render.DecodeJSON(r.Body, req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.EmptyRequestBodyResponse)
			return false
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.BadRequestResponse)
		return false
	}

	if err := validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationErrorResponse(err))
		return false
	}

	return true
}

func handleRegister(svc AccountService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleRegister"
	const successMsg = "The account was registered. An activation email has been sent."

	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeBody(w, r, validate, &req) {
			return
		}

		err := svc.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, database.ErrUserExists) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ErrorResponse("Registration Failed",
					"An account with this username or email already exists."))
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.SuccessResponse(successMsg))
	}
}

func handleActivate(svc AccountService) http.HandlerFunc {
	const op = "api.http.handleActivate"
	const successMsg = "The account was activated. You can now log in."

	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		err := svc.Activate(r.Context(), token)
		if err != nil {
			if errors.Is(err, database.ErrTokenInvalid) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ErrorResponse("Invalid Token",
					"The activation token is invalid or expired."))
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg))
	}
}

func handleLogin(svc AccountService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleLogin"
	const successMsg = "Logged in successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeBody(w, r, validate, &req) {
			return
		}

		token, user, err := svc.Login(r.Context(), req.Identifier, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrUserNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
			case errors.Is(err, service.ErrInvalidCredentials):
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.ErrorResponse("Unauthorized", "Invalid credentials."))
			case errors.Is(err, service.ErrNotActivated):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.ErrorResponse("Forbidden", "The account is not activated yet."))
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, loginResponse{
			Token: token,
			User:  toUserResponse(user),
		}))
	}
}

func handleForgotPassword(svc AccountService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleForgotPassword"
	const successMsg = "A password reset email has been sent. Check your inbox."

	return func(w http.ResponseWriter, r *http.Request) {
		var req forgotPasswordRequest
		if !decodeBody(w, r, validate, &req) {
			return
		}

		err := svc.ForgotPassword(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, database.ErrUserNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg))
	}
}

func handleResetPassword(svc AccountService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleResetPassword"
	const successMsg = "The password was reset successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req resetPasswordRequest
		if !decodeBody(w, r, validate, &req) {
			return
		}

		token := chi.URLParam(r, "token")

		err := svc.ResetPassword(r.Context(), token, req.NewPassword)
		if err != nil {
			if errors.Is(err, database.ErrTokenInvalid) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ErrorResponse("Invalid Token",
					"The password reset token is invalid or expired."))
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg))
	}
}

func handleProfile(svc AccountService) http.HandlerFunc {
	const op = "api.http.handleProfile"
	const successMsg = "Profile retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.InvalidTokenResponse)
			return
		}

		user, err := svc.Profile(r.Context(), userID)
		if err != nil {
			if errors.Is(err, database.ErrUserNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toUserResponse(user)))
	}
}
