package invoices

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-hotel-api/internal/domain/catalog"
	"pet-hotel-api/internal/domain/customers"
	"pet-hotel-api/internal/domain/inventory"
	"pet-hotel-api/internal/middleware"
	"pet-hotel-api/internal/platform/httpx"
	"pet-hotel-api/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service, customersSvc *customers.Service, catalogSvc *catalog.Service, inventorySvc *inventory.Service) {
	r.Route("/invoices", func(ir chi.Router) {
		ir.Post("/", createInvoiceHandler(svc, customersSvc, catalogSvc, inventorySvc))
		ir.Get("/", listInvoicesHandler(svc))
		ir.Get("/{invoiceID}", getInvoiceHandler(svc))
		ir.Put("/{invoiceID}/pay", markPaidHandler(svc))
		ir.Put("/{invoiceID}/cancel", cancelInvoiceHandler(svc))
	})
}

type invoiceLineRequest struct {
	ServiceID string `json:"serviceId,omitempty"`
	ProductID string `json:"productId,omitempty"`
	Quantity  int    `json:"quantity"`
}

type createInvoiceRequest struct {
	CustomerID string               `json:"customerId"`
	Notes      string               `json:"notes"`
	Lines      []invoiceLineRequest `json:"lines"`
}

type invoiceDetailResponse struct {
	ID          string          `json:"id"`
	ServiceID   string          `json:"serviceId,omitempty"`
	ProductID   string          `json:"productId,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type invoiceResponse struct {
	ID           string                  `json:"id"`
	CustomerID   string                  `json:"customerId"`
	CustomerName string                  `json:"customerName"`
	Status       Status                  `json:"status"`
	Total        decimal.Decimal         `json:"total"`
	Notes        string                  `json:"notes,omitempty"`
	Details      []invoiceDetailResponse `json:"details,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
}

// createInvoiceHandler godoc
// @Summary Emitir factura
// @Description Crea una factura unpaid. Cada línea referencia un servicio o un producto (exactamente uno); las líneas de producto descuentan stock en la misma transacción. Stock insuficiente responde 409 y no persiste nada. Solo staff/admin.
// @Tags invoices
// @Accept json
// @Produce json
// @Param payload body createInvoiceRequest true "Cliente y líneas"
// @Success 200 {object} map[string]string "invoiceId"
// @Failure 400 {string} string "línea inválida"
// @Failure 404 {string} string "customer/service/product not found"
// @Failure 409 {string} string "insufficient stock"
// @Router /invoices [post]
func createInvoiceHandler(svc *Service, customersSvc *customers.Service, catalogSvc *catalog.Service, inventorySvc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !claims.IsStaff() {
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		var req createInvoiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		c, err := customersSvc.GetCustomer(r.Context(), req.CustomerID)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "customer not found")
			return
		}

		// Cada línea se resuelve contra el catálogo o el inventario; el
		// precio vigente queda congelado en el detalle.
		lines := make([]LineInput, 0, len(req.Lines))
		for _, l := range req.Lines {
			hasService := strings.TrimSpace(l.ServiceID) != ""
			hasProduct := strings.TrimSpace(l.ProductID) != ""
			if hasService == hasProduct {
				httpx.Error(w, http.StatusBadRequest, "each line needs exactly one of serviceId or productId")
				return
			}

			line := LineInput{
				ServiceID: strings.TrimSpace(l.ServiceID),
				ProductID: strings.TrimSpace(l.ProductID),
				Quantity:  l.Quantity,
			}
			if hasService {
				so, err := catalogSvc.GetService(r.Context(), line.ServiceID)
				if err != nil {
					httpx.Error(w, http.StatusNotFound, "service not found")
					return
				}
				line.Description = so.Name
				line.UnitPrice = so.Price
			} else {
				p, err := inventorySvc.GetProduct(r.Context(), line.ProductID)
				if err != nil {
					httpx.Error(w, http.StatusNotFound, "product not found")
					return
				}
				line.Description = p.Name
				line.UnitPrice = p.UnitPrice
			}
			lines = append(lines, line)
		}

		inv, _, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			CustomerID:   c.ID,
			CustomerName: c.Name,
			Notes:        req.Notes,
			Lines:        lines,
		})
		if err != nil {
			writeInvoiceError(w, err)
			return
		}

		httpx.JSON(w, http.StatusOK, map[string]string{"invoiceId": inv.ID})
	}
}

// listInvoicesHandler godoc
// @Summary Listar facturas
// @Description Lista paginada (created_at DESC) con filtro por status. Customers solo ven las propias.
// @Tags invoices
// @Produce json
// @Param status query string false "unpaid | paid | cancelled"
// @Param pageNumber query int false "Página (1-indexed)"
// @Param pageSize query int false "Tamaño de página (default 10)"
// @Success 200 {object} httpx.PagedResponse
// @Router /invoices [get]
func listInvoicesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		page := httpx.ParsePage(r)
		f := ListFilter{Page: page.Number, PageSize: page.Size}

		if v := strings.TrimSpace(r.URL.Query().Get("status")); v != "" {
			st := Status(v)
			if !ValidStatus(st) {
				httpx.Error(w, http.StatusBadRequest, "unknown status")
				return
			}
			f.Status = st
		}

		if claims.Role == auth.RoleCustomer {
			f.CustomerID = claims.UserID
		}

		items, total, err := svc.List(r.Context(), f)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]invoiceResponse, 0, len(items))
		for _, inv := range items {
			out = append(out, toInvoiceResponse(inv, nil))
		}
		httpx.JSON(w, http.StatusOK, httpx.Paged(out, page, total))
	}
}

func getInvoiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		inv, details, err := svc.Get(r.Context(), chi.URLParam(r, "invoiceID"))
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "invoice not found")
			return
		}
		if !claims.IsStaff() && inv.CustomerID != claims.UserID {
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		httpx.JSON(w, http.StatusOK, toInvoiceResponse(inv, details))
	}
}

func markPaidHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !claims.IsStaff() {
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		inv, err := svc.MarkPaid(r.Context(), chi.URLParam(r, "invoiceID"))
		if err != nil {
			writeInvoiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, toInvoiceResponse(inv, nil))
	}
}

// cancelInvoiceHandler godoc
// @Summary Cancelar factura
// @Description Solo facturas unpaid. Repone el stock de cada línea de producto en la misma transacción. Solo staff/admin.
// @Tags invoices
// @Produce json
// @Param invoiceID path string true "ID de la factura"
// @Success 200 {object} invoiceResponse
// @Failure 404 {string} string "invoice not found"
// @Failure 409 {string} string "invoice is not unpaid"
// @Router /invoices/{invoiceID}/cancel [put]
func cancelInvoiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !claims.IsStaff() {
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		inv, err := svc.Cancel(r.Context(), claims.UserID, chi.URLParam(r, "invoiceID"))
		if err != nil {
			writeInvoiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, toInvoiceResponse(inv, nil))
	}
}

func writeInvoiceError(w http.ResponseWriter, err error) {
	var insufficient *inventory.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		httpx.Error(w, http.StatusConflict, insufficient.Error())
	case errors.Is(err, ErrNotUnpaid):
		httpx.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidInput):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "invoice not found")
	default:
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toInvoiceResponse(inv Invoice, details []Detail) invoiceResponse {
	out := invoiceResponse{
		ID:           inv.ID,
		CustomerID:   inv.CustomerID,
		CustomerName: inv.CustomerName,
		Status:       inv.Status,
		Total:        inv.Total,
		Notes:        inv.Notes,
		CreatedAt:    inv.CreatedAt,
	}
	for _, d := range details {
		out.Details = append(out.Details, invoiceDetailResponse{
			ID:          d.ID,
			ServiceID:   d.ServiceID,
			ProductID:   d.ProductID,
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Subtotal:    d.Subtotal,
		})
	}
	return out
}
