package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/shop/internal/api"
	"github.com/RoyceAzure/lab/shop/internal/api/dto"
	"github.com/RoyceAzure/lab/shop/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type ProductHandler struct {
	productService service.IProductService
	validate       *validator.Validate
}

func NewProductHandler(productService service.IProductService) *ProductHandler {
	if productService == nil {
		panic("productService cannot be nil")
	}
	return &ProductHandler{
		productService: productService,
		validate:       validator.New(),
	}
}

func writeProductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotExist):
		api.ErrorJSON(w, http.StatusNotFound, err, "")
	default:
		api.ErrorJSON(w, http.StatusInternalServerError, nil, "internal server error")
	}
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var createDTO dto.CreateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&createDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := h.validate.Struct(createDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "")
		return
	}

	product, err := createDTO.ToModel()
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid price")
		return
	}

	if err := h.productService.CreateProduct(r.Context(), product); err != nil {
		writeProductError(w, err)
		return
	}

	api.CreatedJSON(w, product)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseUintParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid product id")
		return
	}

	product, err := h.productService.GetProduct(r.Context(), productID)
	if err != nil {
		writeProductError(w, err)
		return
	}

	api.SuccessJSON(w, product, "")
}

func (h *ProductHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	product, err := h.productService.GetProductBySlug(r.Context(), slug)
	if err != nil {
		writeProductError(w, err)
		return
	}

	api.SuccessJSON(w, product, "")
}

func (h *ProductHandler) ListActiveProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListActiveProducts(r.Context())
	if err != nil {
		writeProductError(w, err)
		return
	}

	api.SuccessJSON(w, products, "")
}

func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("q")
	if name == "" {
		api.ErrorJSON(w, http.StatusBadRequest, nil, "missing search keyword")
		return
	}

	products, err := h.productService.SearchProducts(r.Context(), name)
	if err != nil {
		writeProductError(w, err)
		return
	}

	api.SuccessJSON(w, products, "")
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	products, total, err := h.productService.GetProductsPaginated(r.Context(), page, pageSize)
	if err != nil {
		writeProductError(w, err)
		return
	}

	api.SuccessJSON(w, map[string]any{
		"products":  products,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, "")
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseUintParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid product id")
		return
	}

	var updateDTO dto.UpdateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&updateDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := h.validate.Struct(updateDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "")
		return
	}

	product, err := h.productService.GetProduct(r.Context(), productID)
	if err != nil {
		writeProductError(w, err)
		return
	}

	if err := updateDTO.ApplyTo(product); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid price")
		return
	}

	if err := h.productService.UpdateProduct(r.Context(), product); err != nil {
		writeProductError(w, err)
		return
	}

	api.SuccessJSON(w, product, "")
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseUintParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid product id")
		return
	}

	if err := h.productService.DeleteProduct(r.Context(), productID); err != nil {
		writeProductError(w, err)
		return
	}

	api.SuccessJSON(w, nil, "product deleted")
}

func (h *ProductHandler) GetLowStockProducts(w http.ResponseWriter, r *http.Request) {
	threshold := uint(5)
	if v, err := strconv.ParseUint(r.URL.Query().Get("threshold"), 10, 64); err == nil {
		threshold = uint(v)
	}

	products, err := h.productService.GetLowStockProducts(r.Context(), threshold)
	if err != nil {
		writeProductError(w, err)
		return
	}

	api.SuccessJSON(w, products, "")
}
