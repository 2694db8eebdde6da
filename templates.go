package formsubmit

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

//go:embed api/logreg.yaml
var openAPIDocument []byte

// EmbeddedTemplates exposes the log in, register and home page templates
// (pongo2 syntax) used by the reference server.
func EmbeddedTemplates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// OpenAPIDocument returns the OpenAPI description of the login and register
// endpoints.
func OpenAPIDocument() []byte {
	return append([]byte(nil), openAPIDocument...)
}
