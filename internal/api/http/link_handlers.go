package http

import (
	"errors"
	"net/http"
	"strconv"
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

type createLinkRequest struct {
	LongURL string `json:"long_url" validate:"required,url"`
}

type deleteBulkRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

type linkResponse struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	LongURL   string     `json:"long_url"`
	ShortURL  string     `json:"short_url"`
	Domain    string     `json:"domain"`
	CopyCount int64      `json:"copy_count"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func toLinkResponse(link *models.Link) linkResponse {
	return linkResponse{
		ID:        link.ID,
		UserID:    link.UserID,
		LongURL:   link.LongURL,
		ShortURL:  link.ShortURL,
		Domain:    link.Domain,
		CopyCount: link.CopyCount,
		CreatedAt: link.CreatedAt,
		ExpiresAt: link.ExpiresAt,
	}
}

func toLinkListResponse(links []models.Link) []linkResponse {
	resp := make([]linkResponse, 0, len(links))
	for i := range links {
		resp = append(resp, toLinkResponse(&links[i]))
	}
	return resp
}

type bucketResponse struct {
	Bucket string `json:"bucket"`
	Count  int64  `json:"count"`
}

type chartResponse struct {
	Daily   []bucketResponse `json:"daily"`
	Monthly []bucketResponse `json:"monthly"`
}

func toChartResponse(data *models.ChartData) chartResponse {
	resp := chartResponse{
		Daily:   make([]bucketResponse, 0, len(data.Daily)),
		Monthly: make([]bucketResponse, 0, len(data.Monthly)),
	}

	for _, b := range data.Daily {
		resp.Daily = append(resp.Daily, bucketResponse{Bucket: b.Bucket, Count: b.Count})
	}
	for _, b := range data.Monthly {
		resp.Monthly = append(resp.Monthly, bucketResponse{Bucket: b.Bucket, Count: b.Count})
	}

	return resp
}

type dashboardResponse struct {
	TotalLinks  int64    `json:"total_links"`
	TotalCopies int64    `json:"total_copies"`
	Domains     []string `json:"domains"`
}

type deletedResponse struct {
	Deleted int64 `json:"deleted"`
}

func linkIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func handleCreateLink(svc LinkService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleCreateLink"
	const successMsg = "The URL has been shortened successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.InvalidTokenResponse)
			return
		}

		var req createLinkRequest
		if !decodeBody(w, r, validate, &req) {
			return
		}

		link, err := svc.Shorten(r.Context(), userID, req.LongURL)
		if err != nil {
			if errors.Is(err, service.ErrInvalidURL) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ErrorResponse("Invalid URL",
					"The submitted URL must be absolute and use the http or https scheme."))
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.SuccessResponse(successMsg, toLinkResponse(link)))
	}
}

func handleListLinks(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleListLinks"
	const successMsg = "Links retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		links, err := svc.List(r.Context())
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toLinkListResponse(links)))
	}
}

func handleListUserLinks(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleListUserLinks"
	const successMsg = "Links retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.InvalidTokenResponse)
			return
		}

		links, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toLinkListResponse(links)))
	}
}

func handleIncrementCopyCount(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleIncrementCopyCount"
	const successMsg = "Copy count updated successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := linkIDParam(r)
		if !ok {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		link, err := svc.IncrementCopyCount(r.Context(), id)
		if err != nil {
			if errors.Is(err, database.ErrLinkNotFound) {
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
		render.JSON(w, r, response.SuccessResponse(successMsg, toLinkResponse(link)))
	}
}

func handleDeleteLink(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleDeleteLink"
	const successMsg = "The link was deleted successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := linkIDParam(r)
		if !ok {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		err := svc.Delete(r.Context(), id)
		if err != nil {
			if errors.Is(err, database.ErrLinkNotFound) {
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

func handleDeleteBulkLinks(svc LinkService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleDeleteBulkLinks"
	const successMsg = "The links were deleted successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteBulkRequest
		if !decodeBody(w, r, validate, &req) {
			return
		}

		deleted, err := svc.DeleteBulk(r.Context(), req.IDs)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, deletedResponse{Deleted: deleted}))
	}
}

func handleDeleteAllLinks(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleDeleteAllLinks"
	const successMsg = "All links were deleted successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := svc.DeleteAll(r.Context())
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, deletedResponse{Deleted: deleted}))
	}
}

func handleDashboard(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleDashboard"
	const successMsg = "Dashboard data retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Dashboard(r.Context())
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, dashboardResponse{
			TotalLinks:  stats.TotalLinks,
			TotalCopies: stats.TotalCopies,
			Domains:     stats.Domains,
		}))
	}
}

func handleCharts(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleCharts"
	const successMsg = "Chart data retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		data, err := svc.Charts(r.Context())
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toChartResponse(data)))
	}
}

func handleUserCharts(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleUserCharts"
	const successMsg = "Chart data retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.InvalidTokenResponse)
			return
		}

		data, err := svc.UserCharts(r.Context(), userID)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toChartResponse(data)))
	}
}
