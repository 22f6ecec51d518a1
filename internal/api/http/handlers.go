package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/linkshrink/internal/database"
	"github.com/vadimbarashkov/linkshrink/internal/models"
	"github.com/vadimbarashkov/linkshrink/internal/service"
	"github.com/vadimbarashkov/linkshrink/pkg/response"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

type shortenRequest struct {
	URL string `json:"url" validate:"required"`
}

type shortenResponse struct {
	ShortCode string `json:"short_code"`
}

type statsResponse struct {
	ShortCode string    `json:"short_code"`
	TargetURL string    `json:"target_url"`
	Clicks    int64     `json:"clicks"`
	CreatedAt time.Time `json:"created_at"`
}

func toStatsResponse(link *models.Link) statsResponse {
	return statsResponse{
		ShortCode: link.ShortCode,
		TargetURL: link.TargetURL,
		Clicks:    link.Clicks,
		CreatedAt: link.CreatedAt,
	}
}

func handleShortenURL(svc LinkService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleShortenURL"
	const invalidURLIssue = "The url must start with http:// or https:// and contain a host."

	return func(w http.ResponseWriter, r *http.Request) {
		var req shortenRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		link, err := svc.ShortenURL(r.Context(), req.URL)
		if err != nil {
			if errors.Is(err, service.ErrInvalidURL) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.InvalidURLResponse("url", req.URL, invalidURLIssue))
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, shortenResponse{ShortCode: link.ShortCode})
	}
}

func handleResolveShortCode(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleResolveShortCode"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		link, err := svc.ResolveShortCode(r.Context(), shortCode)
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

		http.Redirect(w, r, link.TargetURL, http.StatusFound)
	}
}

func handleGetLinkStats(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleGetLinkStats"
	const successMsg = "The link statistics retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		link, err := svc.GetLinkStats(r.Context(), shortCode)
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
		render.JSON(w, r, response.SuccessResponse(successMsg, toStatsResponse(link)))
	}
}
