// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key) protecting every route registered after it.
//   - rayid: a unique Request ID (RayID) per request, stored in the context and echoed
//     in the X-Ray-ID response header for tracing.
package middleware
