package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-hotel-api/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h, _ := router.NewRouter(router.Options{AuthVerifier: nil})
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_InventoryAndInvoices(t *testing.T) {
	ts := newTestServer(t)

	// 1) Staff crea producto: arranca con stock 0
	productID := createProduct(t, ts.URL, map[string]any{
		"name":         "Shampoo",
		"unitPrice":    "120.50",
		"unit":         "unit",
		"minimumStock": 2,
		"reorderLevel": 4,
	})

	// 2) Recepción de mercadería: +5
	{
		st, body := doReq(t, ts.URL, "POST", "/inventory/receive", "staff-1", "staff", map[string]any{
			"supplier": "ACME",
			"lines":    []map[string]any{{"productId": productID, "quantity": 5}},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 receive, got %d body=%s", st, string(body))
		}
	}

	// recepción contra un producto inexistente => 404
	{
		st, _ := doReq(t, ts.URL, "POST", "/inventory/receive", "staff-1", "staff", map[string]any{
			"lines": []map[string]any{{"productId": "nope", "quantity": 1}},
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 unknown product, got %d", st)
		}
	}

	customerID := createCustomer(t, ts.URL, "Ana Gómez")

	// 3) Factura vendiendo 3: ok, stock queda en 2
	{
		st, body := doReq(t, ts.URL, "POST", "/invoices", "staff-1", "staff", map[string]any{
			"customerId": customerID,
			"lines":      []map[string]any{{"productId": productID, "quantity": 3}},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 invoice, got %d body=%s", st, string(body))
		}
	}
	if got := getStock(t, ts.URL, productID); got != 2 {
		t.Fatalf("expected stock 2 after sale, got %d", got)
	}

	// 4) Factura vendiendo 10: 409 y nada persiste
	{
		st, body := doReq(t, ts.URL, "POST", "/invoices", "staff-1", "staff", map[string]any{
			"customerId": customerID,
			"lines":      []map[string]any{{"productId": productID, "quantity": 10}},
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 for insufficient stock, got %d body=%s", st, string(body))
		}
	}
	if got := getStock(t, ts.URL, productID); got != 2 {
		t.Fatalf("expected stock untouched at 2, got %d", got)
	}

	// 5) Stock en 2 (< minimum es critical? minimum=2: 2 < 2 es falso, < reorder 4 => warning)
	{
		st, body := doReq(t, ts.URL, "GET", "/inventory/alerts", "staff-1", "staff", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 alerts, got %d", st)
		}
		var alerts []struct {
			Severity string `json:"severity"`
		}
		_ = json.Unmarshal(body, &alerts)
		if len(alerts) != 1 || alerts[0].Severity != "warning" {
			t.Fatalf("expected one warning alert, got %s", string(body))
		}
	}
}

func TestHTTP_EndToEnd_AppointmentLifecycle(t *testing.T) {
	ts := newTestServer(t)

	customerID := createCustomer(t, ts.URL, "Ana Gómez")

	// el customer crea su mascota (claims user = customer ID)
	petID := createPet(t, ts.URL, customerID, map[string]any{
		"name":    "Milo",
		"species": "dog",
		"sex":     "male",
	})

	// customer reserva para su mascota con fecha futura
	scheduled := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	var appointmentID string
	{
		st, body := doReq(t, ts.URL, "POST", "/appointments", customerID, "customer", map[string]any{
			"petId":         petID,
			"scheduledDate": scheduled,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 create appointment, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.ID == "" {
			t.Fatalf("missing appointment id body=%s", string(body))
		}
		appointmentID = resp.ID
	}

	// fecha pasada => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/appointments", customerID, "customer", map[string]any{
			"petId":         petID,
			"scheduledDate": time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for past date, got %d", st)
		}
	}

	// el customer no puede aceptar su propia reserva
	{
		st, _ := doReq(t, ts.URL, "PUT", "/appointments/"+appointmentID+"/accept", customerID, "customer", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 customer accept, got %d", st)
		}
	}

	// staff acepta
	{
		st, body := doReq(t, ts.URL, "PUT", "/appointments/"+appointmentID+"/accept", "staff-1", "staff", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 accept, got %d body=%s", st, string(body))
		}
	}

	// doble accept => 409
	{
		st, _ := doReq(t, ts.URL, "PUT", "/appointments/"+appointmentID+"/accept", "staff-2", "staff", nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 double accept, got %d", st)
		}
	}

	// checkin + checkout
	{
		st, _ := doReq(t, ts.URL, "PUT", "/appointments/"+appointmentID+"/checkin", "staff-1", "staff", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 checkin, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "PUT", "/appointments/"+appointmentID+"/checkout", "staff-1", "staff", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 checkout, got %d", st)
		}
	}

	// cancelar una reserva terminada => 409
	{
		st, _ := doReq(t, ts.URL, "PUT", "/appointments/"+appointmentID+"/cancel", "staff-1", "staff", nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 cancel after checkout, got %d", st)
		}
	}

	// otro customer no ve la reserva ajena
	{
		st, _ := doReq(t, ts.URL, "GET", "/appointments/"+appointmentID, "other-customer", "customer", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 foreign appointment, got %d", st)
		}
	}
}

func TestHTTP_EndToEnd_MedicalRecordWithPrescription(t *testing.T) {
	ts := newTestServer(t)

	customerID := createCustomer(t, ts.URL, "Ana Gómez")
	petID := createPet(t, ts.URL, customerID, map[string]any{
		"name":    "Milo",
		"species": "dog",
	})

	productID := createProduct(t, ts.URL, map[string]any{
		"name":      "Gotas óticas",
		"unitPrice": "80",
	})
	{
		st, _ := doReq(t, ts.URL, "POST", "/inventory/receive", "staff-1", "staff", map[string]any{
			"lines": []map[string]any{{"productId": productID, "quantity": 3}},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 receive, got %d", st)
		}
	}

	// staff no veterinario no puede crear historia clínica
	{
		st, _ := doReq(t, ts.URL, "POST", "/medical-records", "staff-1", "staff", map[string]any{
			"petId":     petID,
			"diagnosis": "otitis",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 staff creating record, got %d", st)
		}
	}

	// veterinario crea entrada con receta: descuenta stock
	examined := time.Now().Add(-24 * time.Hour).UTC().Truncate(time.Second)
	var recordID string
	{
		st, body := doReq(t, ts.URL, "POST", "/medical-records", "vet-1", "veterinarian", map[string]any{
			"petId":           petID,
			"examinationDate": examined.Format(time.RFC3339),
			"symptoms":        "rasca la oreja",
			"diagnosis":       "otitis",
			"treatment":       "gotas 2x día",
			"prescriptions": []map[string]any{
				{"productId": productID, "quantity": 2, "dosage": "2ml"},
			},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 create record, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &resp)
		recordID = resp.ID
	}
	if got := getStock(t, ts.URL, productID); got != 1 {
		t.Fatalf("expected stock 1 after prescription, got %d", got)
	}

	// receta que excede el stock => 409 y nada persiste
	{
		st, _ := doReq(t, ts.URL, "POST", "/medical-records", "vet-1", "veterinarian", map[string]any{
			"petId":     petID,
			"diagnosis": "control",
			"prescriptions": []map[string]any{
				{"productId": productID, "quantity": 5},
			},
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 insufficient stock, got %d", st)
		}
	}
	if got := getStock(t, ts.URL, productID); got != 1 {
		t.Fatalf("expected stock untouched at 1, got %d", got)
	}

	// el dueño ve la historia de su mascota; otro customer no
	{
		st, body := doReq(t, ts.URL, "GET", "/medical-records/"+recordID, customerID, "customer", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 owner reads record, got %d", st)
		}
		var rec struct {
			ExaminationDate time.Time `json:"examinationDate"`
			Symptoms        string    `json:"symptoms"`
		}
		_ = json.Unmarshal(body, &rec)
		if !rec.ExaminationDate.Equal(examined) {
			t.Fatalf("expected examination date %v, got %v", examined, rec.ExaminationDate)
		}
		if rec.Symptoms != "rasca la oreja" {
			t.Fatalf("expected symptoms echoed, got %q", rec.Symptoms)
		}
		st, _ = doReq(t, ts.URL, "GET", "/medical-records/"+recordID, "other-customer", "customer", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 foreign record, got %d", st)
		}
	}

	// historia por mascota, paginada
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/medical-records", "vet-1", "veterinarian", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list records, got %d", st)
		}
		var resp struct {
			Data []json.RawMessage `json:"data"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Data) != 1 {
			t.Fatalf("expected 1 record, got %d body=%s", len(resp.Data), string(body))
		}
	}
}

func TestHTTP_Pagination_Envelope(t *testing.T) {
	ts := newTestServer(t)

	for i := 0; i < 25; i++ {
		createCustomer(t, ts.URL, fmt.Sprintf("Cliente %02d", i))
	}

	var resp struct {
		Data       []json.RawMessage `json:"data"`
		Pagination struct {
			PageNumber   int `json:"pageNumber"`
			PageSize     int `json:"pageSize"`
			TotalRecords int `json:"totalRecords"`
			TotalPages   int `json:"totalPages"`
		} `json:"pagination"`
	}

	// defaults: pageNumber=1, pageSize=10
	{
		st, body := doReq(t, ts.URL, "GET", "/customers", "staff-1", "staff", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d", st)
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(resp.Data) != 10 {
			t.Fatalf("expected 10 items on page 1, got %d", len(resp.Data))
		}
		if resp.Pagination.TotalRecords != 25 || resp.Pagination.TotalPages != 3 {
			t.Fatalf("unexpected pagination: %+v", resp.Pagination)
		}
	}

	// página más allá del final: data vacía, mismo total
	{
		st, body := doReq(t, ts.URL, "GET", "/customers?pageNumber=4", "staff-1", "staff", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 page 4, got %d", st)
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(resp.Data) != 0 {
			t.Fatalf("expected empty page 4, got %d items", len(resp.Data))
		}
		if resp.Pagination.TotalRecords != 25 {
			t.Fatalf("unexpected totalRecords: %d", resp.Pagination.TotalRecords)
		}
	}

	// parámetros inválidos caen al default
	{
		st, body := doReq(t, ts.URL, "GET", "/customers?pageNumber=0&pageSize=-5", "staff-1", "staff", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d", st)
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.Pagination.PageNumber != 1 || resp.Pagination.PageSize != 10 {
			t.Fatalf("expected defaults 1/10, got %+v", resp.Pagination)
		}
	}
}

func TestHTTP_RBAC_CustomerCannotMutateInventory(t *testing.T) {
	ts := newTestServer(t)

	st, _ := doReq(t, ts.URL, "POST", "/products", "cust-1", "customer", map[string]any{
		"name":      "Shampoo",
		"unitPrice": "10",
	})
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 customer creating product, got %d", st)
	}

	// sin claims => 401
	st, _ = doReq(t, ts.URL, "GET", "/inventory/report", "", "", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 anonymous report, got %d", st)
	}
}

func TestHTTP_Catalog_RoomTypeLifecycle(t *testing.T) {
	ts := newTestServer(t)

	var roomTypeID string
	{
		st, body := doReq(t, ts.URL, "POST", "/roomtypes", "staff-1", "staff", map[string]any{
			"name":       "Suite",
			"daily_rate": "500",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create room type, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &resp)
		roomTypeID = resp.ID
	}

	// cualquier usuario autenticado lee el catálogo
	{
		st, _ := doReq(t, ts.URL, "GET", "/roomtypes/"+roomTypeID, "cust-1", "customer", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get room type, got %d", st)
		}
	}

	// solo staff actualiza
	{
		st, _ := doReq(t, ts.URL, "PUT", "/roomtypes/"+roomTypeID, "cust-1", "customer", map[string]any{
			"name":       "Suite Deluxe",
			"daily_rate": "750",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 customer update, got %d", st)
		}

		st, body := doReq(t, ts.URL, "PUT", "/roomtypes/"+roomTypeID, "staff-1", "staff", map[string]any{
			"name":       "Suite Deluxe",
			"daily_rate": "750",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update room type, got %d body=%s", st, string(body))
		}
		var resp struct {
			Name string `json:"name"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Name != "Suite Deluxe" {
			t.Fatalf("expected updated name, got %q", resp.Name)
		}
	}

	// hard delete: el segundo intento ya no encuentra nada
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/roomtypes/"+roomTypeID, "staff-1", "staff", nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "DELETE", "/roomtypes/"+roomTypeID, "staff-1", "staff", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 second delete, got %d", st)
		}
	}
}

// -------------------------
// Helpers
// -------------------------

func createCustomer(t *testing.T, baseURL, name string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/customers", "staff-1", "staff", map[string]any{
		"name":  name,
		"email": "test@example.com",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create customer, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create customer: missing id body=%s", string(body))
	}
	return resp.ID
}

func createPet(t *testing.T, baseURL, customerID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", customerID, "customer", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID
}

func createProduct(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/products", "staff-1", "staff", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create product, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create product: missing id body=%s", string(body))
	}
	return resp.ID
}

func getStock(t *testing.T, baseURL, productID string) int {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/products/"+productID, "staff-1", "staff", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get product, got %d body=%s", st, string(body))
	}

	var resp struct {
		StockQuantity int `json:"stockQuantity"`
	}
	_ = json.Unmarshal(body, &resp)
	return resp.StockQuantity
}

func doReq(t *testing.T, baseURL, method, path, debugUserID, debugRole string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}
	if debugRole != "" {
		req.Header.Set("X-Debug-Role", debugRole)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
