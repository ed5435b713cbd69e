package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names
const (
	PageIndex     = "index.html"
	PageDashboard = "dashboard.html"
	PageLogin     = "login.html"
)

// Layout is shared by every page; User is empty when nobody is logged in
type Layout struct {
	User string
}

// IndexPage is the data for the ordering screen
type IndexPage struct {
	Layout
	Categories []models.CategoryGroup
}

// DashboardPage is the data for the sales dashboard
type DashboardPage struct {
	Layout
	Summary *models.SalesSummary
}

// LoginPage is the data for the login form
type LoginPage struct {
	Layout
	Username string
	Error    string
}

// Renderer executes the embedded page templates
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"money":    Money,
	"datetime": func(t time.Time) string { return t.Local().Format("02/01/2006 15:04") },
}

// NewRenderer parses every page together with the shared layout
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{PageIndex, PageDashboard, PageLogin} {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render writes the named page. Output is buffered so a template error
// never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Money formats an amount the way the menu shows it, e.g. "R$ 29,90"
func Money(d decimal.Decimal) string {
	return "R$ " + strings.Replace(d.StringFixed(2), ".", ",", 1)
}
