// Package dom describes the handful of document capabilities the submit
// handlers need: a feedback element whose text can be replaced, an input
// element that carries CSS classes and click listeners, and a Resolver that
// maps a field name onto that pair. Concrete documents live in memdom
// (in-memory, used by tests and the terminal client) and jsdom (the browser,
// built with GOOS=js GOARCH=wasm).
package dom
