package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	texttemplate "text/template"

	"techevents/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// Each message named N is made of three files: N_subject.txt, N.html and N.txt.
var (
	htmlTemplates = template.Must(template.New("").Option("missingkey=error").ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.New("").Option("missingkey=error").ParseFS(templateFS, "templates/*.txt"))
)

type templateRenderer struct {
	html *template.Template
	text *texttemplate.Template
}

// NewTemplateRenderer returns a renderer over the templates embedded in the binary.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{html: htmlTemplates, text: textTemplates}
}

func (r *templateRenderer) Render(name string, data any) (subject, htmlBody, textBody string, err error) {
	subjectTmpl, htmlTmpl, textTmpl := r.text.Lookup(name+"_subject.txt"), r.html.Lookup(name+".html"), r.text.Lookup(name+".txt")
	if subjectTmpl == nil || htmlTmpl == nil || textTmpl == nil {
		return "", "", "", fmt.Errorf("email template %q not found", name)
	}

	if subject, err = execute(subjectTmpl, data); err != nil {
		return "", "", "", fmt.Errorf("render %s subject: %w", name, err)
	}
	if htmlBody, err = execute(htmlTmpl, data); err != nil {
		return "", "", "", fmt.Errorf("render %s html: %w", name, err)
	}
	if textBody, err = execute(textTmpl, data); err != nil {
		return "", "", "", fmt.Errorf("render %s text: %w", name, err)
	}
	return strings.TrimSpace(subject), htmlBody, textBody, nil
}

// executor is satisfied by both html/template and text/template templates.
type executor interface {
	Execute(w io.Writer, data any) error
}

func execute(t executor, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
