// Package rest provides the HTTP facade over the inventory service.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	bkerrors "github.com/dkarpov/bookstore/internal/errors"
	"github.com/dkarpov/bookstore/internal/service"
	"github.com/dkarpov/bookstore/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// AdminSecretHeader carries the administrator secret for privileged routes.
const AdminSecretHeader = "X-Admin-Secret"

type Handler struct {
	service  service.InventoryService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates the REST facade over the provided inventory service.
func NewHandler(svc service.InventoryService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  svc,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// BookCreateDto is the payload for stocking a book.
type BookCreateDto struct {
	Title     string `json:"title"     validate:"required,max=200"`
	Author    string `json:"author"    validate:"max=200"`
	Publisher string `json:"publisher" validate:"max=200"`
	Price     int64  `json:"price"     validate:"min=0"`
	Quantity  int64  `json:"quantity"  validate:"required,min=1"`
}

// SellDto is the payload for a sale request.
type SellDto struct {
	Quantity   int64 `json:"quantity"   validate:"required,min=1"`
	Discounted bool  `json:"discounted"`
}

// SellResultDto reports the outcome of a sale. UnitPrice is the display
// price under the selected policy; the stored price is unchanged.
type SellResultDto struct {
	Title     string `json:"title"`
	Quantity  int64  `json:"quantity"`
	Policy    string `json:"policy"`
	UnitPrice int64  `json:"unit_price"`
	Remaining int64  `json:"remaining"`
}

// QuantityDto reports the stocked quantity for a title, zero when absent.
type QuantityDto struct {
	Title    string `json:"title"`
	Quantity int64  `json:"quantity"`
}

// RegisterRoutes registers the HTTP routes for the bookstore service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/books", func(r chi.Router) {
		r.Get("/", h.List)
		r.With(h.RequireAdmin).Post("/", h.Add)

		r.Route("/{title}", func(r chi.Router) {
			r.Get("/", h.Find)
			r.Get("/quantity", h.CheckQuantity)
			r.Post("/sell", h.Sell)
			r.With(h.RequireAdmin).Delete("/", h.Remove)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// RequireAdmin guards privileged routes with the administrator secret.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.service.AuthenticateAdmin(r.Header.Get(AdminSecretHeader)) {
			h.loggerWithReqID(r).WarnContext(r.Context(), "Admin authentication failed", "path", r.URL.Path)
			web.RespondError(w, h.logger, http.StatusUnauthorized, "Unauthorized: invalid admin secret")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// List returns the whole catalog in insertion order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	books := h.service.ListBooks(r.Context())
	mLogger.DebugContext(r.Context(), "Catalog listed", "count", len(books))
	web.RespondJSON(w, mLogger, http.StatusOK, books)
}

// Find retrieves a book by its title.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	title, ok := parseTitle(w, r, mLogger)
	if !ok {
		return
	}

	book, found := h.service.FindBook(r.Context(), title)
	if !found {
		mLogger.WarnContext(r.Context(), "Book not found", "title", title)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Book %q not found", title))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, book)
}

// CheckQuantity reports the stocked quantity for a title; absent titles
// report zero rather than an error.
func (h *Handler) CheckQuantity(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	title, ok := parseTitle(w, r, mLogger)
	if !ok {
		return
	}

	quantity := h.service.CheckQuantity(r.Context(), title)
	web.RespondJSON(w, mLogger, http.StatusOK, QuantityDto{Title: title, Quantity: quantity})
}

// Add stocks a book.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto BookCreateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}

	if err := h.service.AddBook(r.Context(), dto.Title, dto.Author, dto.Publisher, dto.Price, dto.Quantity); err != nil {
		if errors.Is(err, bkerrors.ErrInvalidArgument) {
			mLogger.WarnContext(r.Context(), "Rejected add", "title", dto.Title, "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
			return
		}
		mLogger.ErrorContext(r.Context(), "Error stocking book", "title", dto.Title, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to stock book")
		return
	}

	book, _ := h.service.FindBook(r.Context(), dto.Title)
	mLogger.InfoContext(r.Context(), "Book stocked", "title", dto.Title, "quantity", dto.Quantity)
	web.RespondJSON(w, mLogger, http.StatusCreated, book)
}

// Remove deletes a book by title. Removing an absent title succeeds.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	title, ok := parseTitle(w, r, mLogger)
	if !ok {
		return
	}

	if err := h.service.RemoveBook(r.Context(), title); err != nil {
		mLogger.ErrorContext(r.Context(), "Error removing book", "title", title, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to remove book %q", title))
		return
	}
	mLogger.InfoContext(r.Context(), "Book removed", "title", title)
	w.WriteHeader(http.StatusNoContent)
}

// Sell removes copies from stock. Insufficient stock maps to 409 with a
// user-facing message so the client session can continue.
func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	title, ok := parseTitle(w, r, mLogger)
	if !ok {
		return
	}
	var dto SellDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}

	policy := service.PolicyFor(dto.Discounted)
	sold, err := policy.Sell(r.Context(), h.service, title, dto.Quantity)
	if err != nil {
		if errors.Is(err, bkerrors.ErrInvalidArgument) {
			web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
			return
		}
		mLogger.ErrorContext(r.Context(), "Error selling book", "title", title, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to sell book %q", title))
		return
	}
	if !sold {
		mLogger.WarnContext(r.Context(), "Sale rejected", "title", title, "quantity", dto.Quantity)
		web.RespondError(w, mLogger, http.StatusConflict,
			fmt.Sprintf("Not enough copies of %q in stock", title))
		return
	}

	var unitPrice int64
	if book, found := h.service.FindBook(r.Context(), title); found {
		unitPrice = policy.DisplayPrice(book.Price)
	}
	result := SellResultDto{
		Title:     title,
		Quantity:  dto.Quantity,
		Policy:    policy.Label(),
		UnitPrice: unitPrice,
		Remaining: h.service.CheckQuantity(r.Context(), title),
	}
	mLogger.InfoContext(r.Context(), "Book sold", "title", title, "quantity", dto.Quantity, "policy", policy.Label())
	web.RespondJSON(w, mLogger, http.StatusOK, result)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// validateStruct validates a DTO and writes field-level errors on failure.
func (h *Handler) validateStruct(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, dto any) bool {
	if err := h.validate.Struct(dto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// parseTitle extracts the URL-escaped title path parameter.
func parseTitle(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (string, bool) {
	raw := chi.URLParam(r, "title")
	title, err := url.PathUnescape(raw)
	if err != nil || title == "" {
		web.RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid title: %s", raw))
		return "", false
	}
	return title, true
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
