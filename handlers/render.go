package handlers

import (
	"html/template"
	"net/http"

	"github.com/sirupsen/logrus"

	"echonet/templates"
)

var views = template.Must(template.ParseFS(templates.FS, "*.html"))

func renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.ExecuteTemplate(w, name, data); err != nil {
		logrus.WithError(err).Errorf("failed to render %s", name)
	}
}

// failPage answers a failure with a short HTML message, the way the page
// routes report every error.
func failPage(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(msg))
}
