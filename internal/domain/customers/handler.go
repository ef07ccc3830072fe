package customers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pet-hotel-api/internal/middleware"
	"pet-hotel-api/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/customers", func(cr chi.Router) {
		cr.Post("/", createCustomerHandler(svc))
		cr.Get("/", listCustomersHandler(svc))
		cr.Get("/{customerID}", getCustomerHandler(svc))
	})

	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc))
	})
}

type createCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type customerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type createPetRequest struct {
	OwnerCustomerID string `json:"owner_customer_id"` // solo staff; customers crean para sí mismos
	Name            string `json:"name"`
	Species         string `json:"species"`
	Breed           string `json:"breed"`
	Sex             string `json:"sex"`
	BirthDate       string `json:"birth_date"` // YYYY-MM-DD opcional
	Microchip       string `json:"microchip"`
	Notes           string `json:"notes"`
}

type petResponse struct {
	ID              string     `json:"id"`
	OwnerCustomerID string     `json:"owner_customer_id"`
	Name            string     `json:"name"`
	Species         Species    `json:"species"`
	Breed           string     `json:"breed"`
	Sex             Sex        `json:"sex"`
	BirthDate       *time.Time `json:"birth_date,omitempty"`
	Microchip       string     `json:"microchip"`
	Notes           string     `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string `json:"name"`
	Breed     *string `json:"breed"`
	Sex       *string `json:"sex"`
	BirthDate *string `json:"birth_date"` // YYYY-MM-DD
	Microchip *string `json:"microchip"`
	Notes     *string `json:"notes"`
}

// createCustomerHandler godoc
// @Summary Crear cliente
// @Description Crea una ficha de cliente. Solo staff/admin.
// @Tags customers
// @Accept json
// @Produce json
// @Param payload body createCustomerRequest true "Datos del cliente"
// @Success 201 {object} customerResponse
// @Failure 400 {string} string "invalid json"
// @Failure 403 {string} string "forbidden"
// @Router /customers [post]
func createCustomerHandler(svc *Service) http.HandlerFunc {
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

		var req createCustomerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		c, err := svc.CreateCustomer(r.Context(), CreateCustomerInput{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
		})
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		httpx.JSON(w, http.StatusCreated, toCustomerResponse(c))
	}
}

// listCustomersHandler godoc
// @Summary Listar clientes
// @Description Lista paginada de clientes con búsqueda por nombre/email. Solo staff/admin.
// @Tags customers
// @Produce json
// @Param search query string false "Texto de búsqueda"
// @Param pageNumber query int false "Página (1-indexed)"
// @Param pageSize query int false "Tamaño de página (default 10)"
// @Success 200 {object} httpx.PagedResponse
// @Router /customers [get]
func listCustomersHandler(svc *Service) http.HandlerFunc {
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

		page := httpx.ParsePage(r)
		items, total, err := svc.ListCustomers(r.Context(), ListFilter{
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
			Page:     page.Number,
			PageSize: page.Size,
		})
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]customerResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCustomerResponse(c))
		}
		httpx.JSON(w, http.StatusOK, httpx.Paged(out, page, total))
	}
}

func getCustomerHandler(svc *Service) http.HandlerFunc {
	// Staff ve cualquier cliente; un customer solo su propia ficha.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		customerID := chi.URLParam(r, "customerID")
		if !claims.IsStaff() && claims.UserID != customerID {
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		c, err := svc.GetCustomer(r.Context(), customerID)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "customer not found")
			return
		}
		httpx.JSON(w, http.StatusOK, toCustomerResponse(c))
	}
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Description Un customer registra mascotas propias; staff puede indicar owner_customer_id.
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {string} string "invalid json / birth_date inválido"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		// Customers siempre crean para sí mismos; staff puede elegir el dueño.
		ownerID := claims.UserID
		if claims.IsStaff() {
			if strings.TrimSpace(req.OwnerCustomerID) == "" {
				httpx.Error(w, http.StatusBadRequest, "owner_customer_id is required")
				return
			}
			ownerID = req.OwnerCustomerID
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				httpx.Error(w, http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
				return
			}
			bd = &t
		}

		p, err := svc.CreatePet(r.Context(), ownerID, CreatePetInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Sex:       req.Sex,
			BirthDate: bd,
			Microchip: req.Microchip,
			Notes:     req.Notes,
		})
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		httpx.JSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	// Customer: sus mascotas. Staff: las de ?ownerId.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ownerID := claims.UserID
		if claims.IsStaff() {
			if v := strings.TrimSpace(r.URL.Query().Get("ownerId")); v != "" {
				ownerID = v
			}
		}

		items, err := svc.ListPetsByOwner(r.Context(), ownerID)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		p, err := svc.GetPet(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "pet not found")
			return
		}

		if !claims.IsStaff() && p.OwnerCustomerID != claims.UserID {
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		httpx.JSON(w, http.StatusOK, toPetResponse(p))
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		petID := chi.URLParam(r, "petID")
		current, err := svc.GetPet(r.Context(), petID)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "pet not found")
			return
		}

		if !claims.IsStaff() && current.OwnerCustomerID != claims.UserID {
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		var req updatePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		var bd *time.Time
		if req.BirthDate != nil && strings.TrimSpace(*req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", *req.BirthDate)
			if err != nil {
				httpx.Error(w, http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
				return
			}
			bd = &t
		}

		updated, err := svc.UpdatePet(r.Context(), petID, UpdatePetInput{
			Name:      req.Name,
			Breed:     req.Breed,
			Sex:       req.Sex,
			BirthDate: bd,
			Microchip: req.Microchip,
			Notes:     req.Notes,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				httpx.Error(w, http.StatusBadRequest, err.Error())
			case ErrNotFound:
				httpx.Error(w, http.StatusNotFound, "pet not found")
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.JSON(w, http.StatusOK, toPetResponse(updated))
	}
}

func toCustomerResponse(c Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:              p.ID,
		OwnerCustomerID: p.OwnerCustomerID,
		Name:            p.Name,
		Species:         p.Species,
		Breed:           p.Breed,
		Sex:             p.Sex,
		BirthDate:       p.BirthDate,
		Microchip:       p.Microchip,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
