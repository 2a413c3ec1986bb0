package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saferide/portal/auth"
	"github.com/saferide/portal/models"
)

// ListBankDocuments lists the bank statements of one month
// @Summary      List bank documents
// @Tags         documents
// @Produce      json
// @Param        month  query     string  true  "Month (YYYY-MM)"
// @Success      200    {object}  Response{data=[]models.BankDocument}
// @Router       /bank-documents [get]
// @Security     BearerAuth
func ListBankDocuments(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	rows, err := DB.Query(`SELECT id, date, month, file_url, user_id, created_at
		FROM bank_documents WHERE month = ? ORDER BY date DESC`, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var docs []models.BankDocument
	for rows.Next() {
		var d models.BankDocument
		if err := rows.Scan(&d.ID, &d.Date, &d.Month, &d.FileURL, &d.UserID, &d.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		docs = append(docs, d)
	}
	if docs == nil {
		docs = []models.BankDocument{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// CreateBankDocument files a new bank statement entry
// @Summary      Create bank document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        document  body      models.BankDocumentInput  true  "Document contents"
// @Success      201       {object}  Response{data=models.BankDocument}
// @Failure      400       {object}  Response{error=string}
// @Router       /bank-documents [post]
// @Security     BearerAuth
func CreateBankDocument(w http.ResponseWriter, r *http.Request) {
	var input models.BankDocumentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	session, _ := auth.FromContext(r.Context())
	id := uuid.NewString()
	_, err := DB.Exec("INSERT INTO bank_documents (id, date, month, user_id) VALUES (?, ?, ?, ?)",
		id, input.Date, input.Month, session.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var d models.BankDocument
	err = DB.QueryRow("SELECT id, date, month, file_url, user_id, created_at FROM bank_documents WHERE id = ?", id).
		Scan(&d.ID, &d.Date, &d.Month, &d.FileURL, &d.UserID, &d.CreatedAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created document: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// DeleteBankDocument deletes a bank statement entry
// @Summary      Delete bank document
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /bank-documents/{id} [delete]
// @Security     BearerAuth
func DeleteBankDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := DB.Exec("DELETE FROM bank_documents WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// ListMiscItems lists the misc attachments of one month
// @Summary      List misc items
// @Tags         documents
// @Produce      json
// @Param        month  query     string  true  "Month (YYYY-MM)"
// @Success      200    {object}  Response{data=[]models.MiscItem}
// @Router       /misc-items [get]
// @Security     BearerAuth
func ListMiscItems(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	rows, err := DB.Query(`SELECT id, date, month, remarks, file_url, user_id, created_at
		FROM misc_items WHERE month = ? ORDER BY date DESC`, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var items []models.MiscItem
	for rows.Next() {
		var m models.MiscItem
		if err := rows.Scan(&m.ID, &m.Date, &m.Month, &m.Remarks, &m.FileURL, &m.UserID, &m.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		items = append(items, m)
	}
	if items == nil {
		items = []models.MiscItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateMiscItem files a new misc attachment
// @Summary      Create misc item
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        item  body      models.MiscItemInput  true  "Item contents"
// @Success      201   {object}  Response{data=models.MiscItem}
// @Failure      400   {object}  Response{error=string}
// @Router       /misc-items [post]
// @Security     BearerAuth
func CreateMiscItem(w http.ResponseWriter, r *http.Request) {
	var input models.MiscItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	session, _ := auth.FromContext(r.Context())
	id := uuid.NewString()
	_, err := DB.Exec("INSERT INTO misc_items (id, date, month, remarks, user_id) VALUES (?, ?, ?, ?, ?)",
		id, input.Date, input.Month, input.Remarks, session.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var m models.MiscItem
	err = DB.QueryRow("SELECT id, date, month, remarks, file_url, user_id, created_at FROM misc_items WHERE id = ?", id).
		Scan(&m.ID, &m.Date, &m.Month, &m.Remarks, &m.FileURL, &m.UserID, &m.CreatedAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created item: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// DeleteMiscItem deletes a misc attachment
// @Summary      Delete misc item
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /misc-items/{id} [delete]
// @Security     BearerAuth
func DeleteMiscItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := DB.Exec("DELETE FROM misc_items WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// ListImportantUploads lists all long-lived documents
// @Summary      List important uploads
// @Tags         documents
// @Produce      json
// @Success      200  {object}  Response{data=[]models.ImportantUpload}
// @Router       /important-uploads [get]
// @Security     BearerAuth
func ListImportantUploads(w http.ResponseWriter, r *http.Request) {
	rows, err := DB.Query(`SELECT id, date, description, remarks, file_url, user_id, created_at
		FROM important_uploads ORDER BY date DESC`)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var uploads []models.ImportantUpload
	for rows.Next() {
		var u models.ImportantUpload
		if err := rows.Scan(&u.ID, &u.Date, &u.Description, &u.Remarks, &u.FileURL, &u.UserID, &u.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		uploads = append(uploads, u)
	}
	if uploads == nil {
		uploads = []models.ImportantUpload{}
	}
	writeJSON(w, http.StatusOK, uploads)
}

// CreateImportantUpload files a new long-lived document
// @Summary      Create important upload
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        upload  body      models.ImportantUploadInput  true  "Upload contents"
// @Success      201     {object}  Response{data=models.ImportantUpload}
// @Failure      400     {object}  Response{error=string}
// @Router       /important-uploads [post]
// @Security     BearerAuth
func CreateImportantUpload(w http.ResponseWriter, r *http.Request) {
	var input models.ImportantUploadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	session, _ := auth.FromContext(r.Context())
	id := uuid.NewString()
	_, err := DB.Exec("INSERT INTO important_uploads (id, date, description, remarks, user_id) VALUES (?, ?, ?, ?, ?)",
		id, input.Date, input.Description, input.Remarks, session.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var u models.ImportantUpload
	err = DB.QueryRow("SELECT id, date, description, remarks, file_url, user_id, created_at FROM important_uploads WHERE id = ?", id).
		Scan(&u.ID, &u.Date, &u.Description, &u.Remarks, &u.FileURL, &u.UserID, &u.CreatedAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created upload: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// DeleteImportantUpload deletes a long-lived document
// @Summary      Delete important upload
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Upload ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /important-uploads/{id} [delete]
// @Security     BearerAuth
func DeleteImportantUpload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := DB.Exec("DELETE FROM important_uploads WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "upload not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
