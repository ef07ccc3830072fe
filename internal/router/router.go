package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "pet-hotel-api/internal/adapters/storage/memory"
	pg "pet-hotel-api/internal/adapters/storage/postgres"
	"pet-hotel-api/internal/domain/appointments"
	"pet-hotel-api/internal/domain/catalog"
	"pet-hotel-api/internal/domain/customers"
	"pet-hotel-api/internal/domain/inventory"
	"pet-hotel-api/internal/domain/invoices"
	"pet-hotel-api/internal/domain/medicalrecords"
	"pet-hotel-api/internal/middleware"
	"pet-hotel-api/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
}

// NewRouter arma el árbol de rutas completo. Retorna además el service de
// inventario para que main pueda colgarle el scheduler.
func NewRouter(opts Options) (http.Handler, *inventory.Service) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		customersRepo      customers.Repository
		catalogRepo        catalog.Repository
		appointmentsRepo   appointments.Repository
		inventoryRepo      inventory.Repository
		invoicesRepo       invoices.Repository
		medicalRecordsRepo medicalrecords.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		customersRepo = pg.NewCustomersRepo(db)
		catalogRepo = pg.NewCatalogRepo(db)
		appointmentsRepo = pg.NewAppointmentsRepo(db)
		inventoryRepo = pg.NewInventoryRepo(db)
		invoicesRepo = pg.NewInvoicesRepo(db)
		medicalRecordsRepo = pg.NewMedicalRecordsRepo(db)
	} else {
		customersRepo = mem.NewCustomersRepo()
		catalogRepo = mem.NewCatalogRepo()
		appointmentsRepo = mem.NewAppointmentsRepo()
		invRepo := mem.NewInventoryRepo()
		inventoryRepo = invRepo
		// facturas e historia clínica comparten el inventario in-memory
		// para que los descuentos de stock sean atómicos
		invoicesRepo = mem.NewInvoicesRepo(invRepo)
		medicalRecordsRepo = mem.NewMedicalRecordsRepo(invRepo)
	}

	// Services por módulo
	customersSvc := customers.NewService(customersRepo)
	catalogSvc := catalog.NewService(catalogRepo)
	appointmentsSvc := appointments.NewService(appointmentsRepo)
	inventorySvc := inventory.NewService(inventoryRepo)
	invoicesSvc := invoices.NewService(invoicesRepo)
	medicalRecordsSvc := medicalrecords.NewService(medicalRecordsRepo)

	// Rutas por módulo
	customers.RegisterRoutes(r, customersSvc)
	catalog.RegisterRoutes(r, catalogSvc)
	appointments.RegisterRoutes(r, appointmentsSvc, customersSvc, catalogSvc)
	inventory.RegisterRoutes(r, inventorySvc)
	invoices.RegisterRoutes(r, invoicesSvc, customersSvc, catalogSvc, inventorySvc)
	medicalrecords.RegisterRoutes(r, medicalRecordsSvc, customersSvc, inventorySvc)

	return r, inventorySvc
}
