package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-hotel-api/internal/domain/catalog"
	"pet-hotel-api/internal/domain/customers"
	"pet-hotel-api/internal/middleware"
	"pet-hotel-api/internal/platform/httpx"
	"pet-hotel-api/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, customersSvc *customers.Service, catalogSvc *catalog.Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", createAppointmentHandler(svc, customersSvc, catalogSvc))
		ar.Get("/", listAppointmentsHandler(svc))
		ar.Get("/{appointmentID}", getAppointmentHandler(svc))

		ar.Put("/{appointmentID}/accept", transitionHandler(svc, TransitionAccept))
		ar.Put("/{appointmentID}/reject", transitionHandler(svc, TransitionReject))
		ar.Put("/{appointmentID}/cancel", transitionHandler(svc, TransitionCancel))
		ar.Put("/{appointmentID}/checkin", transitionHandler(svc, TransitionCheckIn))
		ar.Put("/{appointmentID}/checkout", transitionHandler(svc, TransitionCheckOut))
	})
}

type createAppointmentRequest struct {
	CustomerID    string `json:"customerId"` // solo staff; customers reservan para sí mismos
	PetID         string `json:"petId"`
	ServiceID     string `json:"serviceId"`
	RoomID        string `json:"roomId"`
	ScheduledDate string `json:"scheduledDate"` // RFC3339
	Notes         string `json:"notes"`
}

type appointmentResponse struct {
	ID             string     `json:"id"`
	CustomerID     string     `json:"customerId"`
	PetID          string     `json:"petId"`
	ServiceID      string     `json:"serviceId,omitempty"`
	RoomID         string     `json:"roomId,omitempty"`
	CustomerName   string     `json:"customerName"`
	PetName        string     `json:"petName"`
	ServiceName    string     `json:"serviceName,omitempty"`
	ReceiverUserID string     `json:"receiverUserId,omitempty"`
	ScheduledDate  time.Time  `json:"scheduledDate"`
	CheckInAt      *time.Time `json:"checkInAt,omitempty"`
	CheckOutAt     *time.Time `json:"checkOutAt,omitempty"`
	Notes          string     `json:"notes"`
	Status         Status     `json:"status"`
}

// createAppointmentHandler godoc
// @Summary Crear reserva
// @Description Crea una reserva en estado pending. Un customer solo reserva para mascotas propias y con fecha estrictamente futura; staff puede reservar a nombre de cualquier cliente.
// @Tags appointments
// @Accept json
// @Produce json
// @Param payload body createAppointmentRequest true "Datos de la reserva; scheduledDate en RFC3339"
// @Success 200 {object} map[string]string "id de la reserva"
// @Failure 400 {string} string "invalid json / fecha pasada / campos faltantes"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet/service/room not found"
// @Router /appointments [post]
func createAppointmentHandler(svc *Service, customersSvc *customers.Service, catalogSvc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		scheduled, err := time.Parse(time.RFC3339, req.ScheduledDate)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "scheduledDate must be RFC3339")
			return
		}

		// Customers reservan para sí mismos; staff indica el cliente.
		customerID := claims.UserID
		if claims.IsStaff() {
			if strings.TrimSpace(req.CustomerID) == "" {
				httpx.Error(w, http.StatusBadRequest, "customerId is required")
				return
			}
			customerID = req.CustomerID
		}

		pet, err := customersSvc.GetPet(r.Context(), req.PetID)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "pet not found")
			return
		}
		// Ownership: un customer solo reserva para mascotas propias.
		if !claims.IsStaff() && pet.OwnerCustomerID != claims.UserID {
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		customerName := ""
		if c, err := customersSvc.GetCustomer(r.Context(), customerID); err == nil {
			customerName = c.Name
		}

		serviceName := ""
		if strings.TrimSpace(req.ServiceID) != "" {
			so, err := catalogSvc.GetService(r.Context(), req.ServiceID)
			if err != nil {
				httpx.Error(w, http.StatusNotFound, "service not found")
				return
			}
			serviceName = so.Name
		}
		if strings.TrimSpace(req.RoomID) != "" {
			if _, err := catalogSvc.GetRoom(r.Context(), req.RoomID); err != nil {
				httpx.Error(w, http.StatusNotFound, "room not found")
				return
			}
		}

		a, err := svc.Create(r.Context(), CreateInput{
			CustomerID:   customerID,
			PetID:        pet.ID,
			ServiceID:    req.ServiceID,
			RoomID:       req.RoomID,
			CustomerName: customerName,
			PetName:      pet.Name,
			ServiceName:  serviceName,
			ScheduledAt:  scheduled,
			Notes:        req.Notes,
		})
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		httpx.JSON(w, http.StatusOK, map[string]string{"id": a.ID})
	}
}

// listAppointmentsHandler godoc
// @Summary Listar reservas
// @Description Lista paginada (scheduled date DESC) con búsqueda libre sobre cliente/mascota/servicio y filtro exacto por status. Customers solo ven las propias.
// @Tags appointments
// @Produce json
// @Param search query string false "Texto de búsqueda"
// @Param status query string false "Filtro exacto de status"
// @Param pageNumber query int false "Página (1-indexed)"
// @Param pageSize query int false "Tamaño de página (default 10)"
// @Success 200 {object} httpx.PagedResponse
// @Failure 400 {string} string "status inválido"
// @Router /appointments [get]
func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		page := httpx.ParsePage(r)
		f := ListFilter{
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
			Page:     page.Number,
			PageSize: page.Size,
		}

		if v := strings.TrimSpace(r.URL.Query().Get("status")); v != "" {
			st := Status(v)
			if !ValidStatus(st) {
				httpx.Error(w, http.StatusBadRequest, "unknown status")
				return
			}
			f.Status = st
		}

		// Ownership: customers solo ven sus reservas.
		if claims.Role == auth.RoleCustomer {
			f.CustomerID = claims.UserID
		}

		items, total, err := svc.List(r.Context(), f)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(a))
		}
		httpx.JSON(w, http.StatusOK, httpx.Paged(out, page, total))
	}
}

func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "appointment not found")
			return
		}

		if !claims.IsStaff() && a.CustomerID != claims.UserID {
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		httpx.JSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// transitionHandler godoc
// @Summary Transición de estado de una reserva
// @Description accept/reject: staff o veterinario, solo desde pending. cancel: staff o el customer dueño, desde cualquier estado no terminal. checkin/checkout: staff. Conflictos de estado responden 409.
// @Tags appointments
// @Produce json
// @Param appointmentID path string true "ID de la reserva"
// @Success 200 {object} appointmentResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "appointment not found"
// @Failure 409 {string} string "transición inválida"
// @Router /appointments/{appointmentID}/accept [put]
func transitionHandler(svc *Service, t Transition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id := chi.URLParam(r, "appointmentID")
		a, err := svc.GetByID(r.Context(), id)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "appointment not found")
			return
		}

		// Política rol -> transición evaluada una sola vez.
		if !Allowed(t, claims, a) {
			httpx.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		var updated Appointment
		switch t {
		case TransitionAccept:
			updated, err = svc.Accept(r.Context(), id, claims.UserID)
		case TransitionReject:
			updated, err = svc.Reject(r.Context(), id, claims.UserID)
		case TransitionCancel:
			updated, err = svc.Cancel(r.Context(), id)
		case TransitionCheckIn:
			updated, err = svc.CheckIn(r.Context(), id)
		case TransitionCheckOut:
			updated, err = svc.CheckOut(r.Context(), id)
		default:
			httpx.Error(w, http.StatusBadRequest, "unknown transition")
			return
		}

		if err != nil {
			switch {
			case errors.Is(err, ErrNotPending), errors.Is(err, ErrBadState):
				httpx.Error(w, http.StatusConflict, err.Error())
			case errors.Is(err, ErrNotFound):
				httpx.Error(w, http.StatusNotFound, "appointment not found")
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.JSON(w, http.StatusOK, toAppointmentResponse(updated))
	}
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:             a.ID,
		CustomerID:     a.CustomerID,
		PetID:          a.PetID,
		ServiceID:      a.ServiceID,
		RoomID:         a.RoomID,
		CustomerName:   a.CustomerName,
		PetName:        a.PetName,
		ServiceName:    a.ServiceName,
		ReceiverUserID: a.ReceiverUserID,
		ScheduledDate:  a.ScheduledAt,
		CheckInAt:      a.CheckInAt,
		CheckOutAt:     a.CheckOutAt,
		Notes:          a.Notes,
		Status:         a.Status,
	}
}
