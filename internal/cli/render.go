package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/jask/payrecon/internal/database/repository"
	"github.com/jask/payrecon/internal/service"
)

const (
	colorText    lipgloss.Color = "#cdd6f4"
	colorSubtle  lipgloss.Color = "#7f849c"
	colorBorder  lipgloss.Color = "#45475a"
	colorAccent  lipgloss.Color = "#f5c2e7"
	colorSuccess lipgloss.Color = "#a6e3a1"
	colorWarning lipgloss.Color = "#f9e2af"
	colorError   lipgloss.Color = "#f38ba8"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	labelStyle   = lipgloss.NewStyle().Foreground(colorSubtle).Width(16)
	valueStyle   = lipgloss.NewStyle().Foreground(colorText)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Foreground(colorText).Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func text(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func money(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2)
}

func printTransactions(w io.Writer, views []repository.TransactionView) {
	if len(views) == 0 {
		fmt.Fprintln(w, warningStyle.Render("no transactions"))
		return
	}
	t := newTable("ID", "Client", "Identification", "Email", "Platform", "Invoice", "Amount")
	for _, v := range views {
		t.Row(strconv.FormatInt(v.ID, 10), text(v.ClientName), v.Identification, text(v.Email),
			text(v.PlatformName), text(v.InvoiceNumber), money(v.Amount))
	}
	fmt.Fprintln(w, t.Render())
}

func printDetail(w io.Writer, d repository.TransactionDetail) {
	section := func(title string, rows [][2]string) {
		fmt.Fprintln(w, titleStyle.Render(title))
		for _, r := range rows {
			fmt.Fprintln(w, labelStyle.Render(r[0])+valueStyle.Render(r[1]))
		}
	}
	tx := d.Transaction
	section(fmt.Sprintf("Transaction %d", tx.ID), [][2]string{
		{"code", text(tx.Code)},
		{"datetime", text(tx.Datetime)},
		{"amount", money(tx.Amount)},
		{"status", tx.Status},
		{"type", text(tx.Type)},
		{"amount paid", money(tx.AmountPaid)},
	})
	section(fmt.Sprintf("Client %d", d.Client.ID), [][2]string{
		{"name", text(d.Client.Name)},
		{"identification", d.Client.Identification},
		{"address", text(d.Client.Address)},
		{"phone", text(d.Client.Phone)},
		{"email", text(d.Client.Email)},
	})
	section(fmt.Sprintf("Platform %d", d.Platform.ID), [][2]string{
		{"name", text(d.Platform.Name)},
	})
	section(fmt.Sprintf("Invoice %d", d.Invoice.ID), [][2]string{
		{"number", text(d.Invoice.Number)},
		{"billing period", text(d.Invoice.BillingPeriod)},
		{"amount billed", money(d.Invoice.AmountBilled)},
	})
}

func printImports(w io.Writer, runs []repository.ImportRun) {
	if len(runs) == 0 {
		fmt.Fprintln(w, warningStyle.Render("no imports"))
		return
	}
	t := newTable("Run", "File", "Started", "Rows", "Written", "Skipped", "Failed")
	for _, r := range runs {
		started := r.StartedAt.Format("2006-01-02 15:04:05")
		if r.FinishedAt == nil {
			started += " (unfinished)"
		}
		t.Row(shortID(r.ID), r.Filename, started, strconv.Itoa(r.Total),
			strconv.Itoa(r.Written), strconv.Itoa(r.Skipped), strconv.Itoa(r.Failed))
	}
	fmt.Fprintln(w, t.Render())
}

func printResult(w io.Writer, res service.Result) {
	fmt.Fprintln(w, titleStyle.Render(res.File))
	if len(res.UnknownHeaders) > 0 {
		fmt.Fprintln(w, warningStyle.Render("ignored columns: "+strings.Join(res.UnknownHeaders, ", ")))
	}
	for _, r := range res.Rows {
		switch r.Outcome {
		case service.OutcomeSkipped:
			fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("  line %d skipped: %s", r.Line, r.Reason)))
		case service.OutcomeFailed:
			fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("  line %d failed: %s", r.Line, r.Reason)))
		}
	}
	summary := fmt.Sprintf("%d written, %d skipped, %d failed (new: %d clients, %d platforms, %d invoices)",
		res.Written, res.Skipped, res.Failed, res.ClientsCreated, res.PlatformsCreated, res.InvoicesCreated)
	if res.Failed > 0 {
		fmt.Fprintln(w, errorStyle.Render(summary))
		return
	}
	fmt.Fprintln(w, successStyle.Render(summary))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
