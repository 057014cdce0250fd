// Package api is the HTTP façade over ticketvec: a thin layer that decodes
// requests, delegates to the ingestion and search services, and maps the
// error taxonomy onto status codes. Validation failures are 400 with the
// provided length, provider/store failures are 502, and a failed source page
// fetch carries the raw payload for operator diagnosis.
package api
