package loginsvc

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// ViewPresenter renders a named template.
type ViewPresenter interface {
	Render(w io.Writer, name string, data ViewContext) error
}

// TemplatePresenter renders the embedded html templates. Values are escaped by html/template.
type TemplatePresenter struct {
	templates *template.Template
}

var _ ViewPresenter = (*TemplatePresenter)(nil)

func NewTemplatePresenter() (*TemplatePresenter, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &TemplatePresenter{templates: templates}, nil
}

// Render implements ViewPresenter. name is a template name such as LoginFormTemplate.
func (p *TemplatePresenter) Render(w io.Writer, name string, data ViewContext) error {
	if err := p.templates.ExecuteTemplate(w, name+".html", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	return nil
}
