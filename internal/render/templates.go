package render

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates returns the page template set. It panics if the embedded
// templates fail to parse.
func Templates() *template.Template {
	return template.Must(template.New("page").ParseFS(templateFS, "templates/*.tmpl"))
}

// Write renders page as a full HTML document.
func Write(w io.Writer, t *template.Template, page Page) error {
	return t.ExecuteTemplate(w, "page.tmpl", page)
}
