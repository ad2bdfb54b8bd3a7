// Package server holds the HTTP server configuration.
//
// While cmd/start handles the server startup, this package defines the settings it
// reads: listen port, API key and the request body limit applied to batch uploads.
package server
