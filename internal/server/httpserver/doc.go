// Package httpserver assembles the RelayMesh HTTP surface: the JSON
// API (login, admin, user management), the Prometheus /metrics
// endpoint and the websocket channel endpoint, behind a middleware
// chain for recovery, request IDs, rate limiting and request logging.
package httpserver
