package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// writeJSON vivía duplicado en los handlers de cada módulo (pets/events).
// Con siete módulos ya conviene el helper común, junto con el envelope
// de error uniforme {"message": ...}.

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Message string `json:"message"`
}

// Error responde el envelope uniforme de error.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Message: msg})
}

// Page son los parámetros de paginación 1-indexed.
// Defaults: pageNumber=1, pageSize=10 (valores <= 0 se corrigen al default).
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// ParsePage lee pageNumber/pageSize del query string.
func ParsePage(r *http.Request) Page {
	p := Page{Number: 1, Size: 10}
	if v := r.URL.Query().Get("pageNumber"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Number = n
		}
	}
	if v := r.URL.Query().Get("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Size = n
		}
	}
	return p
}

type Pagination struct {
	PageNumber   int `json:"pageNumber"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
	TotalPages   int `json:"totalPages"`
}

type PagedResponse struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paged arma el envelope paginado estándar.
func Paged(data any, p Page, totalRecords int) PagedResponse {
	totalPages := 0
	if p.Size > 0 {
		totalPages = (totalRecords + p.Size - 1) / p.Size
	}
	return PagedResponse{
		Data: data,
		Pagination: Pagination{
			PageNumber:   p.Number,
			PageSize:     p.Size,
			TotalRecords: totalRecords,
			TotalPages:   totalPages,
		},
	}
}
