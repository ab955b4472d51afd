package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/bagdasarian/meeting-cost-ticker/internal/config"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageSetup     = "setup.html"
	pageLobby     = "lobby.html"
	pageDashboard = "dashboard.html"
	pageSummary   = "summary.html"
	pageError     = "error.html"
)

// Views renders the HTML pages and formats money for both pages and API.
type Views struct {
	pages          map[string]*template.Template
	printer        *message.Printer
	currencySymbol string
}

func NewViews(cfg config.DisplayConfig) (*Views, error) {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", cfg.Locale, err)
	}

	v := &Views{
		pages:          make(map[string]*template.Template),
		printer:        message.NewPrinter(tag),
		currencySymbol: cfg.CurrencySymbol,
	}

	funcs := template.FuncMap{
		"money":     v.Money,
		"timestamp": formatTimestamp,
	}

	for _, page := range []string{pageSetup, pageLobby, pageDashboard, pageSummary, pageError} {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/attendees.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		v.pages[page] = tmpl
	}

	return v, nil
}

// Money formats an amount with two decimals and locale digit grouping.
func (v *Views) Money(amount float64) string {
	return v.currencySymbol + v.printer.Sprintf("%.2f", amount)
}

func (v *Views) CurrencySymbol() string {
	return v.currencySymbol
}

// Render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (v *Views) Render(w io.Writer, page string, data any) error {
	tmpl, ok := v.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// formatDuration renders elapsed time as HH:MM:SS, truncating sub-second parts.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}
