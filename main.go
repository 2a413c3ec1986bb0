package main

//go:generate swag init

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/saferide/portal/db"
	_ "github.com/saferide/portal/docs"
	"github.com/saferide/portal/handlers"
)

// @title           Saferide Portal API
// @version         1.0.0
// @description     Bookkeeping API for a driving school: accounts, transactions, customers, vehicles, documents and reports.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

func main() {
	// Load .env if present, then configure structured logging
	_ = godotenv.Load()

	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// Amounts go over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	// Open database
	database, err := db.Open()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Run migrations
	if err := db.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Set shared DB for handlers
	handlers.DB = database
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		handlers.UploadDir = dir
	}

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", handlers.Login)
		r.Post("/auth/register", handlers.Register)
		r.Get("/files/{name}", handlers.ServeFile)

		// Everything else needs a valid token
		r.Group(func(r chi.Router) {
			r.Use(handlers.RequireAuth)

			// Users
			r.Get("/users", handlers.ListUsers)
			r.Delete("/users/{id}", handlers.DeleteUser)
			r.Post("/users/change-password", handlers.ChangePassword)

			// Accounts
			r.Get("/accounts", handlers.ListAccounts)
			r.Post("/accounts", handlers.CreateAccount)
			r.Put("/accounts/{id}", handlers.UpdateAccount)
			r.Delete("/accounts/{id}", handlers.DeleteAccount)

			// Transactions
			r.Get("/transactions", handlers.ListTransactions)
			r.Post("/transactions", handlers.CreateTransaction)
			r.Get("/transactions/{id}", handlers.GetTransaction)
			r.Put("/transactions/{id}", handlers.UpdateTransaction)
			r.Delete("/transactions/{id}", handlers.DeleteTransaction)
			r.Post("/upload/{id}", handlers.UploadTransactionFile)

			// Customers
			r.Get("/customers", handlers.ListCustomers)
			r.Post("/customers", handlers.CreateCustomer)
			r.Get("/customers/{id}", handlers.GetCustomer)
			r.Put("/customers/{id}", handlers.UpdateCustomer)
			r.Delete("/customers/{id}", handlers.DeleteCustomer)
			r.Get("/customers/{id}/remarks", handlers.ListCustomerRemarks)
			r.Post("/customer-remarks", handlers.CreateCustomerRemark)
			r.Post("/customer-remarks/{id}/upload", handlers.UploadCustomerRemarkFile)

			// Vehicles
			r.Get("/vehicles", handlers.ListVehicles)
			r.Post("/vehicles", handlers.CreateVehicle)
			r.Get("/vehicles/{id}", handlers.GetVehicle)
			r.Put("/vehicles/{id}", handlers.UpdateVehicle)
			r.Delete("/vehicles/{id}", handlers.DeleteVehicle)
			r.Get("/vehicles/{id}/services", handlers.ListVehicleServices)
			r.Post("/vehicles/{id}/services", handlers.CreateVehicleService)
			r.Delete("/services/{id}", handlers.DeleteVehicleService)
			r.Post("/services/{id}/upload", handlers.UploadVehicleServiceFile)
			r.Get("/vehicles/{id}/images", handlers.ListVehicleImages)
			r.Post("/vehicles/{id}/images", handlers.UploadVehicleImage)
			r.Post("/vehicles/{id}/fahrzeugausweis", handlers.UploadFahrzeugausweis)

			// Bank documents
			r.Get("/bank-documents", handlers.ListBankDocuments)
			r.Post("/bank-documents", handlers.CreateBankDocument)
			r.Delete("/bank-documents/{id}", handlers.DeleteBankDocument)
			r.Post("/bank-documents/{id}/upload", handlers.UploadBankDocumentFile)

			// Misc items
			r.Get("/misc-items", handlers.ListMiscItems)
			r.Post("/misc-items", handlers.CreateMiscItem)
			r.Delete("/misc-items/{id}", handlers.DeleteMiscItem)
			r.Post("/misc-items/{id}/upload", handlers.UploadMiscItemFile)

			// Important uploads
			r.Get("/important-uploads", handlers.ListImportantUploads)
			r.Post("/important-uploads", handlers.CreateImportantUpload)
			r.Delete("/important-uploads/{id}", handlers.DeleteImportantUpload)
			r.Post("/important-uploads/{id}/upload", handlers.UploadImportantFile)

			// Reports
			r.Get("/reports/yearly", handlers.YearlyReport)
			r.Get("/reports/statistics", handlers.StatisticsReport)
			r.Get("/reports/export-pdf", handlers.ExportPDF)
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := fmt.Sprintf(":%s", port)
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
