package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mk2304/postmart/internal/core/domain"
	"github.com/mk2304/postmart/internal/core/service"
)

type HTTPHandler struct {
	checkout  *service.CheckoutService
	catalog   *service.CatalogService
	inventory *service.InventoryService
}

func NewHTTPHandler(checkout *service.CheckoutService, catalog *service.CatalogService, inventory *service.InventoryService) *HTTPHandler {
	return &HTTPHandler{
		checkout:  checkout,
		catalog:   catalog,
		inventory: inventory,
	}
}

type CartLineRequest struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type CheckoutRequest struct {
	RequestID  string            `json:"request_id"`
	LocationID string            `json:"location_id"`
	Cart       []CartLineRequest `json:"cart"`
}

type CheckoutResponse struct {
	OrderID    string  `json:"order_id"`
	TotalPrice float64 `json:"total_price"`
}

type ProductRequest struct {
	ProductID   string  `json:"product_id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

type AdjustRequest struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Delta      int    `json:"delta"`
}

type QuantityResponse struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Quantity   int    `json:"quantity"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	ProductID string `json:"product_id,omitempty"`
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	principal := principalFrom(r)
	cart := make([]domain.CartLine, len(req.Cart))
	for i, line := range req.Cart {
		cart[i] = domain.CartLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.Price,
		}
	}

	confirmation, err := h.checkout.PlaceOrder(r.Context(), req.RequestID, principal, req.LocationID, cart)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CheckoutResponse{
		OrderID:    confirmation.OrderID,
		TotalPrice: confirmation.TotalPrice,
	})
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	order, items, err := h.checkout.GetOrder(r.Context(), r.URL.Query().Get("order_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"order": order,
		"items": items,
	})
}

func (h *HTTPHandler) Products(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getProducts(w, r)
	case http.MethodPost:
		h.createProduct(w, r)
	case http.MethodPut:
		h.updateProduct(w, r)
	case http.MethodDelete:
		h.deleteProduct(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *HTTPHandler) getProducts(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("product_id")
	locationID := r.URL.Query().Get("location_id")

	if productID != "" {
		product, err := h.catalog.GetProduct(r.Context(), productID, locationID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, product)
		return
	}

	products, err := h.catalog.ListProducts(r.Context(), locationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), principalFrom(r),
		req.Name, req.Description, req.ImageURL, req.Price, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

func (h *HTTPHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.catalog.UpdateProduct(r.Context(), principalFrom(r), req.ProductID,
		req.Name, req.Description, req.ImageURL, req.Price, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"product_id": req.ProductID})
}

func (h *HTTPHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("product_id")

	if err := h.catalog.DeleteProduct(r.Context(), principalFrom(r), productID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) AdjustInventory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	quantity, err := h.inventory.Adjust(r.Context(), req.ProductID, req.LocationID, req.Delta)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QuantityResponse{
		ProductID:  req.ProductID,
		LocationID: req.LocationID,
		Quantity:   quantity,
	})
}

func (h *HTTPHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	productID := r.URL.Query().Get("product_id")
	locationID := r.URL.Query().Get("location_id")

	quantity, err := h.inventory.Available(r.Context(), productID, locationID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QuantityResponse{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   quantity,
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// principalFrom trusts the auth layer in front of this service to have
// verified the identity headers already.
func principalFrom(r *http.Request) domain.Principal {
	return domain.Principal{
		CustomerID: r.Header.Get("X-Customer-ID"),
		EmployeeID: r.Header.Get("X-Employee-ID"),
	}
}

// writeError maps the error taxonomy to status codes. Anything
// unrecognized is a store failure and surfaces without internal detail.
func writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Error()})
		return
	}

	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:     "insufficient stock",
			ProductID: stockErr.ProductID,
		})
		return
	}

	if errors.Is(err, domain.ErrDuplicateRequest) {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "duplicate request"})
		return
	}

	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not found"})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
