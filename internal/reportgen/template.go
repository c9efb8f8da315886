package reportgen

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/dukerupert/weldmark"
)

//go:embed templates/*.html
var templateFS embed.FS

// reportData is the payload passed to the report template.
type reportData struct {
	Title       string
	OrderNumber string
	Description string
	Format      string
	Version     int
	GeneratedAt time.Time
	Photos      []photoData
}

type photoData struct {
	Template    string
	Description string
	StorageKey  string
	URL         string
	UploaderID  string
	UploadedAt  time.Time
	ReviewerID  string
	ReviewedAt  *time.Time
	Resolution  string
	Megapixels  string
	Annotations []weldmark.PhotoAnnotation
}

// renderer renders report documents from the embedded templates.
type renderer struct {
	tmpl *template.Template
}

func newRenderer() (*renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report templates: %w", err)
	}
	return &renderer{tmpl: tmpl}, nil
}

// Render produces the report document for the given data.
func (r *renderer) Render(data reportData) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "report.html", data); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
