package handlers

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/saferide/portal/models"
	"github.com/saferide/portal/pdf"
	"github.com/saferide/portal/report"
)

// OrgName appears in report titles. Overridable via ORG_NAME.
func OrgName() string {
	if v := os.Getenv("ORG_NAME"); v != "" {
		return v
	}
	return "Fahrschule saferide by Nadine Staeubli"
}

func yearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	return year, nil
}

// loadReportData fetches all of a year's transactions plus every account.
func loadReportData(year int) ([]models.Transaction, []models.Account, error) {
	rows, err := DB.Query(txnSelectQuery+" WHERE t.date LIKE ?", fmt.Sprintf("%04d%%", year))
	if err != nil {
		return nil, nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("scanning transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	accRows, err := DB.Query(accountSelectQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer accRows.Close()

	var accounts []models.Account
	for accRows.Next() {
		a, err := scanAccount(accRows)
		if err != nil {
			return nil, nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := accRows.Err(); err != nil {
		return nil, nil, err
	}
	return txns, accounts, nil
}

// YearlyReport returns aggregated totals for a year
// @Summary      Yearly report
// @Tags         reports
// @Produce      json
// @Param        year  query     int  false  "Year (defaults to current)"
// @Success      200   {object}  Response{data=report.YearlyReport}
// @Failure      500   {object}  Response{error=string}
// @Router       /reports/yearly [get]
// @Security     BearerAuth
func YearlyReport(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	txns, accounts, err := loadReportData(year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "report data unavailable: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report.ComputeYearlyTotals(year, txns, accounts))
}

// StatisticsReport returns monthly series and breakdowns for a year
// @Summary      Statistics report
// @Tags         reports
// @Produce      json
// @Param        year  query     int  false  "Year (defaults to current)"
// @Success      200   {object}  Response{data=report.Statistics}
// @Failure      500   {object}  Response{error=string}
// @Router       /reports/statistics [get]
// @Security     BearerAuth
func StatisticsReport(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	txns, accounts, err := loadReportData(year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "report data unavailable: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report.ComputeStatistics(year, txns, accounts))
}

// ExportPDF streams a PDF report for a year or a single month
// @Summary      Export PDF report
// @Tags         reports
// @Produce      application/pdf
// @Param        year   query  int  false  "Year (defaults to current)"
// @Param        month  query  int  false  "Month 1-12; omit for the yearly report"
// @Success      200
// @Failure      400  {object}  Response{error=string}
// @Router       /reports/export-pdf [get]
// @Security     BearerAuth
func ExportPDF(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var doc []byte
	var name string
	if rawMonth := r.URL.Query().Get("month"); rawMonth != "" {
		month, err := strconv.Atoi(rawMonth)
		if err != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid month %q", rawMonth))
			return
		}
		txns, _, err := loadReportData(year)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "report data unavailable: "+err.Error())
			return
		}
		prefix := report.MonthKey(year, month)
		monthTxns := make([]models.Transaction, 0, len(txns))
		for _, t := range txns {
			if len(t.Date) >= len(prefix) && t.Date[:len(prefix)] == prefix {
				monthTxns = append(monthTxns, t)
			}
		}
		doc, err = pdf.BuildMonthlyDetail(OrgName(), year, month, monthTxns)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "generating pdf: "+err.Error())
			return
		}
		name = pdf.MonthlyFileName(year, month)
	} else {
		txns, accounts, err := loadReportData(year)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "report data unavailable: "+err.Error())
			return
		}
		doc, err = pdf.BuildYearlyReport(OrgName(), year, report.ComputeYearlyTotals(year, txns, accounts))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "generating pdf: "+err.Error())
			return
		}
		name = pdf.YearlyFileName(year)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}
