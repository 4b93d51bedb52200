// Package router wires handlers to routes using Go 1.22 method
// patterns on the standard ServeMux, wrapped in CORS for browser
// clients.
package router
