package catalog

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

// Catálogo (servicios, tipos de habitación, habitaciones): solo staff/admin muta;
// lectura abierta a cualquier usuario autenticado (el customer elige servicio al reservar).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/services", func(sr chi.Router) {
		sr.Post("/", createServiceHandler(svc))
		sr.Get("/", listServicesHandler(svc))
		sr.Get("/{serviceID}", getServiceHandler(svc))
		sr.Put("/{serviceID}", updateServiceHandler(svc))
		sr.Delete("/{serviceID}", deleteServiceHandler(svc))
	})

	r.Route("/roomtypes", func(rr chi.Router) {
		rr.Post("/", createRoomTypeHandler(svc))
		rr.Get("/", listRoomTypesHandler(svc))
		rr.Get("/{roomTypeID}", getRoomTypeHandler(svc))
		rr.Put("/{roomTypeID}", updateRoomTypeHandler(svc))
		rr.Delete("/{roomTypeID}", deleteRoomTypeHandler(svc))
	})

	r.Route("/rooms", func(rr chi.Router) {
		rr.Post("/", createRoomHandler(svc))
		rr.Get("/", listRoomsHandler(svc))
		rr.Get("/{roomID}", getRoomHandler(svc))
		rr.Put("/{roomID}/status", updateRoomStatusHandler(svc))
		rr.Delete("/{roomID}", deleteRoomHandler(svc))
	})
}

type serviceRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	DurationMin int             `json:"duration_min"`
}

type serviceResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	DurationMin int             `json:"duration_min"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}

type roomTypeRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	DailyRate   decimal.Decimal `json:"daily_rate"`
}

type roomTypeResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	DailyRate   decimal.Decimal `json:"daily_rate"`
}

type roomRequest struct {
	RoomTypeID string `json:"room_type_id"`
	Number     string `json:"number"`
	Status     string `json:"status"`
}

type roomResponse struct {
	ID         string     `json:"id"`
	RoomTypeID string     `json:"room_type_id"`
	Number     string     `json:"number"`
	Status     RoomStatus `json:"status"`
}

func requireStaff(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	if !claims.IsStaff() {
		httpx.Error(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}

func requireAuth(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	return true
}

func createServiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}
		var req serviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		so, err := svc.CreateService(r.Context(), ServiceInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			DurationMin: req.DurationMin,
		})
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		httpx.JSON(w, http.StatusCreated, toServiceResponse(so))
	}
}

func updateServiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}
		var req serviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		so, err := svc.UpdateService(r.Context(), chi.URLParam(r, "serviceID"), ServiceInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			DurationMin: req.DurationMin,
		})
		if err != nil {
			writeCatalogError(w, err, "service not found")
			return
		}
		httpx.JSON(w, http.StatusOK, toServiceResponse(so))
	}
}

// listServicesHandler godoc
// @Summary Listar servicios
// @Tags catalog
// @Produce json
// @Param search query string false "Texto de búsqueda"
// @Param pageNumber query int false "Página (1-indexed)"
// @Param pageSize query int false "Tamaño de página (default 10)"
// @Success 200 {object} httpx.PagedResponse
// @Router /services [get]
func listServicesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAuth(w, r) {
			return
		}
		page := httpx.ParsePage(r)
		items, total, err := svc.ListServices(r.Context(), ListFilter{
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
			Page:     page.Number,
			PageSize: page.Size,
		})
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		out := make([]serviceResponse, 0, len(items))
		for _, so := range items {
			out = append(out, toServiceResponse(so))
		}
		httpx.JSON(w, http.StatusOK, httpx.Paged(out, page, total))
	}
}

func getServiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAuth(w, r) {
			return
		}
		so, err := svc.GetService(r.Context(), chi.URLParam(r, "serviceID"))
		if err != nil {
			writeCatalogError(w, err, "service not found")
			return
		}
		httpx.JSON(w, http.StatusOK, toServiceResponse(so))
	}
}

func deleteServiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}
		if err := svc.DeleteService(r.Context(), chi.URLParam(r, "serviceID")); err != nil {
			writeCatalogError(w, err, "service not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func createRoomTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}
		var req roomTypeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		rt, err := svc.CreateRoomType(r.Context(), RoomTypeInput{
			Name:        req.Name,
			Description: req.Description,
			DailyRate:   req.DailyRate,
		})
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		httpx.JSON(w, http.StatusCreated, toRoomTypeResponse(rt))
	}
}

func listRoomTypesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAuth(w, r) {
			return
		}
		items, err := svc.ListRoomTypes(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		out := make([]roomTypeResponse, 0, len(items))
		for _, rt := range items {
			out = append(out, toRoomTypeResponse(rt))
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func getRoomTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAuth(w, r) {
			return
		}
		rt, err := svc.GetRoomType(r.Context(), chi.URLParam(r, "roomTypeID"))
		if err != nil {
			writeCatalogError(w, err, "room type not found")
			return
		}
		httpx.JSON(w, http.StatusOK, toRoomTypeResponse(rt))
	}
}

func updateRoomTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}
		var req roomTypeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		rt, err := svc.UpdateRoomType(r.Context(), chi.URLParam(r, "roomTypeID"), RoomTypeInput{
			Name:        req.Name,
			Description: req.Description,
			DailyRate:   req.DailyRate,
		})
		if err != nil {
			writeCatalogError(w, err, "room type not found")
			return
		}
		httpx.JSON(w, http.StatusOK, toRoomTypeResponse(rt))
	}
}

func deleteRoomTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}
		if err := svc.DeleteRoomType(r.Context(), chi.URLParam(r, "roomTypeID")); err != nil {
			writeCatalogError(w, err, "room type not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func createRoomHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}
		var req roomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		room, err := svc.CreateRoom(r.Context(), RoomInput{
			RoomTypeID: req.RoomTypeID,
			Number:     req.Number,
			Status:     RoomStatus(req.Status),
		})
		if err != nil {
			writeCatalogError(w, err, "room type not found")
			return
		}
		httpx.JSON(w, http.StatusCreated, toRoomResponse(room))
	}
}

func listRoomsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAuth(w, r) {
			return
		}
		items, err := svc.ListRooms(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		out := make([]roomResponse, 0, len(items))
		for _, room := range items {
			out = append(out, toRoomResponse(room))
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func getRoomHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAuth(w, r) {
			return
		}
		room, err := svc.GetRoom(r.Context(), chi.URLParam(r, "roomID"))
		if err != nil {
			writeCatalogError(w, err, "room not found")
			return
		}
		httpx.JSON(w, http.StatusOK, toRoomResponse(room))
	}
}

func updateRoomStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}
		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		room, err := svc.UpdateRoomStatus(r.Context(), chi.URLParam(r, "roomID"), RoomStatus(req.Status))
		if err != nil {
			writeCatalogError(w, err, "room not found")
			return
		}
		httpx.JSON(w, http.StatusOK, toRoomResponse(room))
	}
}

func deleteRoomHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}
		if err := svc.DeleteRoom(r.Context(), chi.URLParam(r, "roomID")); err != nil {
			writeCatalogError(w, err, "room not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeCatalogError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, notFoundMsg)
	default:
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toServiceResponse(so ServiceOffering) serviceResponse {
	return serviceResponse{
		ID:          so.ID,
		Name:        so.Name,
		Description: so.Description,
		Price:       so.Price,
		DurationMin: so.DurationMin,
		Active:      so.Active,
		CreatedAt:   so.CreatedAt,
	}
}

func toRoomTypeResponse(rt RoomType) roomTypeResponse {
	return roomTypeResponse{
		ID:          rt.ID,
		Name:        rt.Name,
		Description: rt.Description,
		DailyRate:   rt.DailyRate,
	}
}

func toRoomResponse(room Room) roomResponse {
	return roomResponse{
		ID:         room.ID,
		RoomTypeID: room.RoomTypeID,
		Number:     room.Number,
		Status:     room.Status,
	}
}
