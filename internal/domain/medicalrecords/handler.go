package medicalrecords

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-hotel-api/internal/domain/customers"
	"pet-hotel-api/internal/domain/inventory"
	"pet-hotel-api/internal/middleware"
	"pet-hotel-api/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, customersSvc *customers.Service, inventorySvc *inventory.Service) {
	r.Route("/medical-records", func(mr chi.Router) {
		mr.Post("/", createRecordHandler(svc, customersSvc, inventorySvc))
		mr.Get("/{recordID}", getRecordHandler(svc, customersSvc))
	})
	r.Get("/pets/{petID}/medical-records", listByPetHandler(svc, customersSvc))
}

type prescriptionRequest struct {
	ProductID    string `json:"productId"`
	Quantity     int    `json:"quantity"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions"`
}

type createRecordRequest struct {
	PetID           string                `json:"petId"`
	AppointmentID   string                `json:"appointmentId,omitempty"`
	ExaminationDate *time.Time            `json:"examinationDate,omitempty"`
	Symptoms        string                `json:"symptoms"`
	Diagnosis       string                `json:"diagnosis"`
	Treatment       string                `json:"treatment"`
	Notes           string                `json:"notes"`
	WeightKg        *float64              `json:"weightKg,omitempty"`
	TemperatureC    *float64              `json:"temperatureC,omitempty"`
	Prescriptions   []prescriptionRequest `json:"prescriptions"`
}

type prescriptionResponse struct {
	ID           string `json:"id"`
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	Quantity     int    `json:"quantity"`
	Dosage       string `json:"dosage,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

type recordResponse struct {
	ID              string                 `json:"id"`
	PetID           string                 `json:"petId"`
	PetName         string                 `json:"petName"`
	VetUserID       string                 `json:"vetUserId"`
	AppointmentID   string                 `json:"appointmentId,omitempty"`
	ExaminationDate time.Time              `json:"examinationDate"`
	Symptoms        string                 `json:"symptoms,omitempty"`
	Diagnosis       string                 `json:"diagnosis,omitempty"`
	Treatment       string                 `json:"treatment,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	WeightKg        *float64               `json:"weightKg,omitempty"`
	TemperatureC    *float64               `json:"temperatureC,omitempty"`
	Prescriptions   []prescriptionResponse `json:"prescriptions,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// createRecordHandler godoc
// @Summary Registrar entrada de historia clínica
// @Description Crea la entrada y descuenta stock por cada receta en la misma transacción; stock insuficiente responde 409 y no persiste nada. Solo veterinario/admin.
// @Tags medical-records
// @Accept json
// @Produce json
// @Param payload body createRecordRequest true "Entrada clínica con recetas"
// @Success 200 {object} map[string]string "id de la entrada"
// @Failure 400 {string} string "symptoms o diagnosis requerido / receta inválida"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet/product not found"
// @Failure 409 {string} string "insufficient stock"
// @Router /medical-records [post]
func createRecordHandler(svc *Service, customersSvc *customers.Service, inventorySvc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		// Solo un veterinario (o admin) firma entradas clínicas.
		if !claims.IsVet() {
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		var req createRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		pet, err := customersSvc.GetPet(r.Context(), req.PetID)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "pet not found")
			return
		}

		prescriptions := make([]PrescriptionInput, 0, len(req.Prescriptions))
		for _, p := range req.Prescriptions {
			product, err := inventorySvc.GetProduct(r.Context(), p.ProductID)
			if err != nil {
				httpx.Error(w, http.StatusNotFound, "product not found")
				return
			}
			prescriptions = append(prescriptions, PrescriptionInput{
				ProductID:    product.ID,
				ProductName:  product.Name,
				Quantity:     p.Quantity,
				Dosage:       p.Dosage,
				Instructions: p.Instructions,
			})
		}

		in := CreateInput{
			PetID:         pet.ID,
			PetName:       pet.Name,
			AppointmentID: req.AppointmentID,
			Symptoms:      req.Symptoms,
			Diagnosis:     req.Diagnosis,
			Treatment:     req.Treatment,
			Notes:         req.Notes,
			WeightKg:      req.WeightKg,
			TemperatureC:  req.TemperatureC,
			Prescriptions: prescriptions,
		}
		if req.ExaminationDate != nil {
			in.ExaminationDate = *req.ExaminationDate
		}

		rec, _, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			writeRecordError(w, err)
			return
		}

		httpx.JSON(w, http.StatusOK, map[string]string{"id": rec.ID})
	}
}

func getRecordHandler(svc *Service, customersSvc *customers.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		rec, prescriptions, err := svc.Get(r.Context(), chi.URLParam(r, "recordID"))
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "medical record not found")
			return
		}

		// Ownership: un customer solo ve la historia de sus mascotas.
		if !claims.IsStaff() {
			pet, err := customersSvc.GetPet(r.Context(), rec.PetID)
			if err != nil || pet.OwnerCustomerID != claims.UserID {
				httpx.Error(w, http.StatusForbidden, "forbidden")
				return
			}
		}

		httpx.JSON(w, http.StatusOK, toRecordResponse(rec, prescriptions))
	}
}

// listByPetHandler godoc
// @Summary Historia clínica de una mascota
// @Description Lista paginada (created_at DESC). Staff/veterinario ven cualquier mascota; un customer solo las propias.
// @Tags medical-records
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param pageNumber query int false "Página (1-indexed)"
// @Param pageSize query int false "Tamaño de página (default 10)"
// @Success 200 {object} httpx.PagedResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/medical-records [get]
func listByPetHandler(svc *Service, customersSvc *customers.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		pet, err := customersSvc.GetPet(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "pet not found")
			return
		}
		if !claims.IsStaff() && pet.OwnerCustomerID != claims.UserID {
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		page := httpx.ParsePage(r)
		items, total, err := svc.ListByPet(r.Context(), ListFilter{
			PetID:    pet.ID,
			Page:     page.Number,
			PageSize: page.Size,
		})
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec, nil))
		}
		httpx.JSON(w, http.StatusOK, httpx.Paged(out, page, total))
	}
}

func writeRecordError(w http.ResponseWriter, err error) {
	var insufficient *inventory.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		httpx.Error(w, http.StatusConflict, insufficient.Error())
	case errors.Is(err, ErrInvalidInput):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "medical record not found")
	default:
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toRecordResponse(rec MedicalRecord, prescriptions []Prescription) recordResponse {
	out := recordResponse{
		ID:              rec.ID,
		PetID:           rec.PetID,
		PetName:         rec.PetName,
		VetUserID:       rec.VetUserID,
		AppointmentID:   rec.AppointmentID,
		ExaminationDate: rec.ExaminationDate,
		Symptoms:        rec.Symptoms,
		Diagnosis:       rec.Diagnosis,
		Treatment:       rec.Treatment,
		Notes:           rec.Notes,
		WeightKg:        rec.WeightKg,
		TemperatureC:    rec.TemperatureC,
		CreatedAt:       rec.CreatedAt,
	}
	for _, p := range prescriptions {
		out.Prescriptions = append(out.Prescriptions, prescriptionResponse{
			ID:           p.ID,
			ProductID:    p.ProductID,
			ProductName:  p.ProductName,
			Quantity:     p.Quantity,
			Dosage:       p.Dosage,
			Instructions: p.Instructions,
		})
	}
	return out
}
