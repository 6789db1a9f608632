// Package api contains the HTTP handlers, request/response schemas, and
// error mapping for the book exchange REST surface.
package api
