package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed static/*.html
var staticFiles embed.FS

var pageTemplates = template.Must(template.ParseFS(staticFiles, "static/*.html"))

// renderTemplate renders one of the embedded pages. Output is buffered so a
// failing template still produces a clean error response.
func (s *Server) renderTemplate(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("Failed to render template", "template", name, "error", err)
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load %s", name))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
