// Package source implements the client for the remote ticketing system's
// paginated list endpoint. Responses are decoded exactly once here; the rest
// of the pipeline works with core.TicketRecord values and never re-validates
// wire shapes.
package source
