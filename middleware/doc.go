/*
Package middleware provides HTTP helpers shared by all handlers.

  - WithLogging: request start/completion logging with timing
  - JSONResponse / ErrorResponse: consistent JSON envelopes
  - ParseJSONBody: request body decoding
  - CORS: cross-origin headers for browser clients, including the
    custom auth headers (X-Host-Key, X-Session-Id, X-Owner-Id)
*/
package middleware
