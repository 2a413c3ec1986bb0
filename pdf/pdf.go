// Package pdf assembles the exportable report documents.
package pdf

import (
	"fmt"
	"sort"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/saferide/portal/models"
	"github.com/saferide/portal/report"
)

var monthNames = []string{
	"Januar", "Februar", "Maerz", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// FormatCHF renders an amount as "CHF <value>" with two decimal places.
// Rounding happens here, never during aggregation.
func FormatCHF(d decimal.Decimal) string {
	return "CHF " + d.StringFixed(2)
}

// MonthlyFileName returns the download name for a monthly detail export.
func MonthlyFileName(year, month int) string {
	return fmt.Sprintf("saferide_%d_%02d.pdf", year, month)
}

// YearlyFileName returns the download name for a yearly export.
func YearlyFileName(year int) string {
	return fmt.Sprintf("saferide_%d.pdf", year)
}

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).
		WithTopMargin(15).
		WithRightMargin(10).
		WithBottomMargin(10).
		Build()
	return maroto.New(cfg)
}

func addTitle(m core.Maroto, org, period string) {
	m.AddRow(12,
		text.NewCol(12, fmt.Sprintf("%s - %s", org, period),
			props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Left,
			}),
	)
	m.AddRow(2, line.NewCol(12))
	m.AddRow(3)
}

func headerCell(width int, label string, a align.Type) core.Col {
	return text.NewCol(width, label, props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: a,
	})
}

func cell(width int, value string, a align.Type) core.Col {
	return text.NewCol(width, value, props.Text{
		Size:  8,
		Align: a,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// BuildMonthlyDetail renders one month's transactions as a landscape table
// with a trailing totals row and the resulting balance.
func BuildMonthlyDetail(org string, year, month int, txns []models.Transaction) ([]byte, error) {
	m := newDocument()
	addTitle(m, org, fmt.Sprintf("%02d/%d", month, year))

	m.AddRow(8,
		headerCell(2, "Datum", align.Left),
		headerCell(3, "Bezeichnung", align.Left),
		headerCell(2, "Konto", align.Left),
		headerCell(1, "Bezahlung", align.Left),
		headerCell(1, "Einnahmen", align.Right),
		headerCell(1, "Ausgaben", align.Right),
		headerCell(2, "Bemerkungen", align.Left),
	)
	m.AddRow(1, line.NewCol(12))

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	for _, t := range txns {
		income, expense := "", ""
		if t.Type == "income" {
			income = t.Amount.StringFixed(2)
			totalIncome = totalIncome.Add(t.Amount)
		} else {
			expense = t.Amount.StringFixed(2)
			totalExpense = totalExpense.Add(t.Amount)
		}
		m.AddRow(6,
			cell(2, t.Date, align.Left),
			cell(3, truncate(t.Description, 40), align.Left),
			cell(2, truncate(deref(t.AccountName), 25), align.Left),
			cell(1, deref(t.PaymentMethod), align.Left),
			cell(1, income, align.Right),
			cell(1, expense, align.Right),
			cell(2, truncate(deref(t.Remarks), 35), align.Left),
		)
	}

	m.AddRow(1, line.NewCol(12))
	m.AddRow(7,
		headerCell(8, "Total:", align.Right),
		headerCell(1, totalIncome.StringFixed(2), align.Right),
		headerCell(1, totalExpense.StringFixed(2), align.Right),
		cell(2, "", align.Left),
	)
	m.AddRow(7,
		headerCell(8, "Einkommen:", align.Right),
		headerCell(2, FormatCHF(totalIncome.Sub(totalExpense)), align.Right),
		cell(2, "", align.Left),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

// BuildYearlyReport renders the account breakdown and the monthly breakdown
// of a yearly report, one table per page.
func BuildYearlyReport(org string, year int, r report.YearlyReport) ([]byte, error) {
	m := newDocument()

	// Page 1: account breakdown
	addTitle(m, org, fmt.Sprintf("Jahresuebersicht %d", year))
	m.AddRow(8,
		headerCell(4, "Konto", align.Left),
		headerCell(2, "Typ", align.Left),
		headerCell(2, "Einnahmen", align.Right),
		headerCell(2, "Ausgaben", align.Right),
		headerCell(2, "Gesamt", align.Right),
	)
	m.AddRow(1, line.NewCol(12))

	names := make([]string, 0, len(r.AccountTotals))
	for name := range r.AccountTotals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		at := r.AccountTotals[name]
		m.AddRow(6,
			cell(4, truncate(name, 45), align.Left),
			cell(2, at.Type, align.Left),
			cell(2, at.Income.StringFixed(2), align.Right),
			cell(2, at.Expense.StringFixed(2), align.Right),
			cell(2, at.Income.Sub(at.Expense).StringFixed(2), align.Right),
		)
	}
	m.AddRow(1, line.NewCol(12))
	m.AddRow(7,
		headerCell(6, "Total:", align.Right),
		headerCell(2, r.YearIncome.StringFixed(2), align.Right),
		headerCell(2, r.YearExpense.StringFixed(2), align.Right),
		headerCell(2, r.YearIncome.Sub(r.YearExpense).StringFixed(2), align.Right),
	)

	// Page 2: monthly breakdown
	m.AddPages(page.New())
	addTitle(m, org, fmt.Sprintf("Monatsuebersicht %d", year))
	m.AddRow(8,
		headerCell(3, "Monat", align.Left),
		headerCell(3, "Einnahmen", align.Right),
		headerCell(3, "Ausgaben", align.Right),
		headerCell(3, "Einkommen", align.Right),
	)
	m.AddRow(1, line.NewCol(12))

	for month := 1; month <= 12; month++ {
		mt := r.MonthlyTotals[report.MonthKey(year, month)]
		m.AddRow(6,
			cell(3, monthNames[month-1], align.Left),
			cell(3, mt.Income.StringFixed(2), align.Right),
			cell(3, mt.Expense.StringFixed(2), align.Right),
			cell(3, mt.Total.StringFixed(2), align.Right),
		)
	}
	m.AddRow(1, line.NewCol(12))
	m.AddRow(7,
		headerCell(3, "Total:", align.Right),
		headerCell(3, FormatCHF(r.YearIncome), align.Right),
		headerCell(3, FormatCHF(r.YearExpense), align.Right),
		headerCell(3, FormatCHF(r.YearIncome.Sub(r.YearExpense)), align.Right),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
