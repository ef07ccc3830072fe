package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-hotel-api/internal/middleware"
	"pet-hotel-api/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/products", func(pr chi.Router) {
		pr.Post("/", createProductHandler(svc))
		pr.Get("/", listProductsHandler(svc))
		pr.Get("/{productID}", getProductHandler(svc))
		pr.Put("/{productID}", updateProductHandler(svc))
		pr.Delete("/{productID}", deleteProductHandler(svc))
	})

	r.Route("/inventory", func(ir chi.Router) {
		ir.Post("/receive", receiveStockHandler(svc))
		ir.Post("/adjust", adjustStockHandler(svc))
		ir.Get("/report", stockReportHandler(svc))
		ir.Get("/alerts", lowStockAlertsHandler(svc))
		ir.Get("/transactions", listTransactionsHandler(svc))
	})
}

type productRequest struct {
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Unit         string          `json:"unit"`
	MinimumStock int             `json:"minimumStock"`
	ReorderLevel int             `json:"reorderLevel"`
	Category     string          `json:"category"`
}

type productResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	StockQuantity int             `json:"stockQuantity"`
	Unit          string          `json:"unit"`
	MinimumStock  int             `json:"minimumStock"`
	ReorderLevel  int             `json:"reorderLevel"`
	Category      string          `json:"category"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
}

type receiveLineRequest struct {
	ProductID string           `json:"productId"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
	Notes     string           `json:"notes"`
}

type receiveRequest struct {
	Supplier string               `json:"supplier"`
	Lines    []receiveLineRequest `json:"lines"`
}

type adjustRequest struct {
	ProductID string `json:"productId"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason"`
}

type transactionResponse struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"productId"`
	Change        int              `json:"change"`
	Type          TxType           `json:"type"`
	ReferenceType string           `json:"referenceType,omitempty"`
	ReferenceID   string           `json:"referenceId,omitempty"`
	UnitPrice     *decimal.Decimal `json:"unitPrice,omitempty"`
	Supplier      string           `json:"supplier,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	PerformedBy   string           `json:"performedBy,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

type stockItemResponse struct {
	Product  productResponse `json:"product"`
	Severity Severity        `json:"severity"`
}

func requireStaff(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	if !claims.IsStaff() {
		httpx.Error(w, http.StatusForbidden, "forbidden")
		return "", false
	}
	return claims.UserID, true
}

func createProductHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}
		var req productRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		p, err := svc.CreateProduct(r.Context(), ProductInput{
			Name:         req.Name,
			UnitPrice:    req.UnitPrice,
			Unit:         req.Unit,
			MinimumStock: req.MinimumStock,
			ReorderLevel: req.ReorderLevel,
			Category:     req.Category,
		})
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		httpx.JSON(w, http.StatusCreated, toProductResponse(p))
	}
}

func listProductsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}
		page := httpx.ParsePage(r)
		items, total, err := svc.ListProducts(r.Context(), ListFilter{
			Search:          strings.TrimSpace(r.URL.Query().Get("search")),
			Category:        strings.TrimSpace(r.URL.Query().Get("category")),
			IncludeInactive: r.URL.Query().Get("includeInactive") == "true",
			Page:            page.Number,
			PageSize:        page.Size,
		})
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		out := make([]productResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toProductResponse(p))
		}
		httpx.JSON(w, http.StatusOK, httpx.Paged(out, page, total))
	}
}

func getProductHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}
		p, err := svc.GetProduct(r.Context(), chi.URLParam(r, "productID"))
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "product not found")
			return
		}
		httpx.JSON(w, http.StatusOK, toProductResponse(p))
	}
}

func updateProductHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}
		var req productRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		p, err := svc.UpdateProduct(r.Context(), chi.URLParam(r, "productID"), ProductInput{
			Name:         req.Name,
			UnitPrice:    req.UnitPrice,
			Unit:         req.Unit,
			MinimumStock: req.MinimumStock,
			ReorderLevel: req.ReorderLevel,
			Category:     req.Category,
		})
		if err != nil {
			writeInventoryError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, toProductResponse(p))
	}
}

func deleteProductHandler(svc *Service) http.HandlerFunc {
	// Soft delete: el producto queda inactivo, el ledger se conserva.
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}
		if err := svc.SoftDeleteProduct(r.Context(), chi.URLParam(r, "productID")); err != nil {
			writeInventoryError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// receiveStockHandler godoc
// @Summary Recibir mercadería
// @Description Suma stock por cada línea y agrega una transacción receipt, todo o nada. Solo staff/admin.
// @Tags inventory
// @Accept json
// @Produce json
// @Param payload body receiveRequest true "Proveedor y líneas (cantidad > 0)"
// @Success 200 {array} transactionResponse
// @Failure 400 {string} string "línea inválida"
// @Failure 404 {string} string "product not found"
// @Failure 409 {string} string "conflicto de stock"
// @Router /inventory/receive [post]
func receiveStockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireStaff(w, r)
		if !ok {
			return
		}
		var req receiveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		lines := make([]ReceiveLine, 0, len(req.Lines))
		for _, l := range req.Lines {
			lines = append(lines, ReceiveLine{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				Notes:     l.Notes,
			})
		}

		movs, err := svc.ReceiveStock(r.Context(), actor, ReceiveInput{
			Supplier: req.Supplier,
			Lines:    lines,
		})
		if err != nil {
			writeInventoryError(w, err)
			return
		}

		out := make([]transactionResponse, 0, len(movs))
		for _, m := range movs {
			out = append(out, toTransactionResponse(m))
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func adjustStockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireStaff(w, r)
		if !ok {
			return
		}
		var req adjustRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		mov, err := svc.AdjustStock(r.Context(), actor, req.ProductID, req.Delta, req.Reason)
		if err != nil {
			writeInventoryError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, toTransactionResponse(mov))
	}
}

// stockReportHandler godoc
// @Summary Reporte de stock
// @Description Niveles actuales + severidad (warning/critical/out_of_stock) por producto. Solo lectura.
// @Tags inventory
// @Produce json
// @Success 200 {array} stockItemResponse
// @Router /inventory/report [get]
func stockReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}
		items, err := svc.StockReport(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		httpx.JSON(w, http.StatusOK, toStockItemResponses(items))
	}
}

func lowStockAlertsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}
		items, err := svc.LowStockAlerts(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		httpx.JSON(w, http.StatusOK, toStockItemResponses(items))
	}
}

func listTransactionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}
		page := httpx.ParsePage(r)
		items, total, err := svc.ListTransactions(r.Context(), TxFilter{
			ProductID: strings.TrimSpace(r.URL.Query().Get("productId")),
			Page:      page.Number,
			PageSize:  page.Size,
		})
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		out := make([]transactionResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toTransactionResponse(m))
		}
		httpx.JSON(w, http.StatusOK, httpx.Paged(out, page, total))
	}
}

func writeInventoryError(w http.ResponseWriter, err error) {
	var insufficient *InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		httpx.Error(w, http.StatusConflict, insufficient.Error())
	case errors.Is(err, ErrInvalidInput):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "product not found")
	default:
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toProductResponse(p Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		UnitPrice:     p.UnitPrice,
		StockQuantity: p.StockQuantity,
		Unit:          p.Unit,
		MinimumStock:  p.MinimumStock,
		ReorderLevel:  p.ReorderLevel,
		Category:      p.Category,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
	}
}

func toTransactionResponse(m Transaction) transactionResponse {
	return transactionResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Change:        m.Change,
		Type:          m.Type,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		UnitPrice:     m.UnitPrice,
		Supplier:      m.Supplier,
		Notes:         m.Notes,
		PerformedBy:   m.PerformedBy,
		CreatedAt:     m.CreatedAt,
	}
}

func toStockItemResponses(items []StockItem) []stockItemResponse {
	out := make([]stockItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, stockItemResponse{
			Product:  toProductResponse(item.Product),
			Severity: item.Severity,
		})
	}
	return out
}
