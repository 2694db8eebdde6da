// Package parser turns OpenAPI documents into submit profiles: every POST
// operation with a form request body becomes a profile whose tracked fields
// are the body's top-level properties and whose success status is the lowest
// explicit 2xx response.
package parser
