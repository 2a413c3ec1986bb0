package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saferide/portal/models"
)

// UploadDir is where uploaded files are stored. Set at startup.
var UploadDir = "./uploads"

const maxUploadSize = 20 << 20 // 20 MiB

// saveUpload stores the multipart "file" field under a fresh uuid name and
// returns the URL it will be served from.
func saveUpload(r *http.Request, prefix string) (string, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return "", fmt.Errorf("parsing multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("reading file field: %w", err)
	}
	defer file.Close()

	if err := os.MkdirAll(UploadDir, 0755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s%s", prefix, uuid.NewString(), filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(UploadDir, name))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("writing upload file: %w", err)
	}
	return "/api/files/" + name, nil
}

// attachUpload saves the upload and points the given row's file_url at it.
func attachUpload(w http.ResponseWriter, r *http.Request, prefix, table, id string) {
	fileURL, err := saveUpload(r, prefix)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := DB.Exec("UPDATE "+table+" SET file_url = ? WHERE id = ?", fileURL, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file_url": fileURL})
}

// UploadTransactionFile attaches a receipt to a transaction
// @Summary      Upload transaction file
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Transaction ID"
// @Param        file  formData  file    true  "File to attach"
// @Success      200   {object}  Response{data=map[string]string}
// @Failure      404   {object}  Response{error=string}
// @Router       /upload/{id} [post]
// @Security     BearerAuth
func UploadTransactionFile(w http.ResponseWriter, r *http.Request) {
	attachUpload(w, r, "txn", "transactions", chi.URLParam(r, "id"))
}

// UploadBankDocumentFile attaches the statement file to a bank document
// @Summary      Upload bank document file
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Document ID"
// @Param        file  formData  file    true  "File to attach"
// @Success      200   {object}  Response{data=map[string]string}
// @Router       /bank-documents/{id}/upload [post]
// @Security     BearerAuth
func UploadBankDocumentFile(w http.ResponseWriter, r *http.Request) {
	attachUpload(w, r, "bank", "bank_documents", chi.URLParam(r, "id"))
}

// UploadMiscItemFile attaches a file to a misc item
// @Summary      Upload misc item file
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Item ID"
// @Param        file  formData  file    true  "File to attach"
// @Success      200   {object}  Response{data=map[string]string}
// @Router       /misc-items/{id}/upload [post]
// @Security     BearerAuth
func UploadMiscItemFile(w http.ResponseWriter, r *http.Request) {
	attachUpload(w, r, "misc", "misc_items", chi.URLParam(r, "id"))
}

// UploadImportantFile attaches a file to an important upload
// @Summary      Upload important file
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Upload ID"
// @Param        file  formData  file    true  "File to attach"
// @Success      200   {object}  Response{data=map[string]string}
// @Router       /important-uploads/{id}/upload [post]
// @Security     BearerAuth
func UploadImportantFile(w http.ResponseWriter, r *http.Request) {
	attachUpload(w, r, "important", "important_uploads", chi.URLParam(r, "id"))
}

// UploadCustomerRemarkFile attaches a photo to a customer remark
// @Summary      Upload customer remark file
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Remark ID"
// @Param        file  formData  file    true  "File to attach"
// @Success      200   {object}  Response{data=map[string]string}
// @Router       /customer-remarks/{id}/upload [post]
// @Security     BearerAuth
func UploadCustomerRemarkFile(w http.ResponseWriter, r *http.Request) {
	attachUpload(w, r, "remark", "customer_remarks", chi.URLParam(r, "id"))
}

// UploadVehicleServiceFile attaches an invoice to a service entry
// @Summary      Upload vehicle service file
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Service ID"
// @Param        file  formData  file    true  "File to attach"
// @Success      200   {object}  Response{data=map[string]string}
// @Router       /services/{id}/upload [post]
// @Security     BearerAuth
func UploadVehicleServiceFile(w http.ResponseWriter, r *http.Request) {
	attachUpload(w, r, "service", "vehicle_services", chi.URLParam(r, "id"))
}

// UploadFahrzeugausweis attaches the vehicle papers to a vehicle
// @Summary      Upload Fahrzeugausweis
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Vehicle ID"
// @Param        file  formData  file    true  "File to attach"
// @Success      200   {object}  Response{data=map[string]string}
// @Router       /vehicles/{id}/fahrzeugausweis [post]
// @Security     BearerAuth
func UploadFahrzeugausweis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	fileURL, err := saveUpload(r, "ausweis")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := DB.Exec("UPDATE vehicles SET fahrzeugausweis_url = ? WHERE id = ?", fileURL, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "vehicle not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file_url": fileURL})
}

// UploadVehicleImage stores a new photo of a vehicle
// @Summary      Upload vehicle image
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Vehicle ID"
// @Param        file  formData  file    true  "Image to store"
// @Success      201   {object}  Response{data=models.VehicleImage}
// @Router       /vehicles/{id}/images [post]
// @Security     BearerAuth
func UploadVehicleImage(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "id")
	fileURL, err := saveUpload(r, "vehicle")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := uuid.NewString()
	if _, err := DB.Exec("INSERT INTO vehicle_images (id, vehicle_id, file_url) VALUES (?, ?, ?)",
		id, vehicleID, fileURL); err != nil {
		writeError(w, http.StatusBadRequest, "vehicle not found")
		return
	}

	var img models.VehicleImage
	err = DB.QueryRow("SELECT id, vehicle_id, file_url, created_at FROM vehicle_images WHERE id = ?", id).
		Scan(&img.ID, &img.VehicleID, &img.FileURL, &img.CreatedAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created image: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

// ServeFile serves a stored upload
// @Summary      Serve file
// @Tags         files
// @Produce      octet-stream
// @Param        name  path  string  true  "File name"
// @Success      200
// @Failure      404  {object}  Response{error=string}
// @Router       /files/{name} [get]
func ServeFile(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(chi.URLParam(r, "name")) // strip any path components
	path := filepath.Join(UploadDir, name)
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	http.ServeFile(w, r, path)
}
