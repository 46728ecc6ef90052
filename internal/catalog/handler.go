package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gmcandra/mebel-api/internal/httputil"
	"github.com/gmcandra/mebel-api/internal/logging"
)

// Handler contains the HTTP handlers for category and product endpoints.
// Reads are public; writes are restricted to admins by the router.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// CreateCategory handles POST /category
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var in CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := in.Validate(); err != nil {
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidation, http.StatusBadRequest)
		return
	}

	category, err := h.repo.CreateCategory(r.Context(), in)
	if err != nil {
		logger.Error("failed to create category", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to create category", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, "Category successfully created", category)
}

// ListCategories handles GET /category
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		logger.Error("failed to list categories", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to fetch categories", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Categories successfully fetched", categories)
}

// GetCategory handles GET /category/{id}
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	category, err := h.repo.GetCategoryByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			httputil.RespondErrorWithCode(w, "category not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get category", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to fetch category", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Category successfully fetched", category)
}

// UpdateCategory handles PATCH /category/{id}
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var in CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := in.Validate(); err != nil {
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidation, http.StatusBadRequest)
		return
	}

	category, err := h.repo.UpdateCategory(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			httputil.RespondErrorWithCode(w, "category not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to update category", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update category", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Category successfully updated", category)
}

// DeleteCategory handles DELETE /category/{id}
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	err := h.repo.DeleteCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			httputil.RespondErrorWithCode(w, "category not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrCategoryNotEmpty) {
			httputil.RespondErrorWithCode(w, "category still has products", httputil.CodeCategoryNotEmpty, http.StatusConflict)
			return
		}
		logger.Error("failed to delete category", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete category", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Category successfully deleted", nil)
}

// CreateProduct handles POST /product
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var in ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := in.Validate(); err != nil {
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidation, http.StatusBadRequest)
		return
	}

	product, err := h.repo.CreateProduct(r.Context(), in)
	if err != nil {
		if errors.Is(err, ErrUnknownCategory) {
			httputil.RespondErrorWithCode(w, "unknown category", httputil.CodeUnknownCategory, http.StatusBadRequest)
			return
		}
		logger.Error("failed to create product", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to create product", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, "Product successfully created", product)
}

// ListProducts handles GET /product with an optional category filter
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var categoryID *uuid.UUID
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondErrorWithCode(w, "invalid category ID", httputil.CodeValidation, http.StatusBadRequest)
			return
		}
		categoryID = &id
	}

	products, err := h.repo.ListProducts(r.Context(), categoryID)
	if err != nil {
		logger.Error("failed to list products", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to fetch products", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Products successfully fetched", products)
}

// GetProduct handles GET /product/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	product, err := h.repo.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			httputil.RespondErrorWithCode(w, "product not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get product", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to fetch product", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Product successfully fetched", product)
}

// UpdateProduct handles PATCH /product/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var in ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := in.Validate(); err != nil {
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidation, http.StatusBadRequest)
		return
	}

	product, err := h.repo.UpdateProduct(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			httputil.RespondErrorWithCode(w, "product not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrUnknownCategory) {
			httputil.RespondErrorWithCode(w, "unknown category", httputil.CodeUnknownCategory, http.StatusBadRequest)
			return
		}
		logger.Error("failed to update product", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update product", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Product successfully updated", product)
}

// DeleteProduct handles DELETE /product/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.repo.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			httputil.RespondErrorWithCode(w, "product not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete product", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete product", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, "Product successfully deleted", nil)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid ID", httputil.CodeValidation, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
