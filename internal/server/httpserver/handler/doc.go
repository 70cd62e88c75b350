// Package handler implements the RelayMesh HTTP API.
//
// Endpoints:
//
//	POST /login                    - credential validation and token issue
//	GET  /admin                    - admin greeting (admin scope)
//	GET  /admin/v1/status/summary  - relay status snapshot (admin scope)
//	POST /admin/v1/users           - create a credential (admin scope)
//	GET  /admin/v1/users           - list credentials (admin scope)
//	DELETE /admin/v1/users/{identity} - remove a credential (admin scope)
//	GET  /health, GET /ready       - liveness and readiness
//
// All responses use a JSON envelope with code, message, request_id,
// timestamp and data fields. Error codes are structured RM-* codes
// mapped to HTTP status codes in errorCodeToHTTPStatus.
package handler
