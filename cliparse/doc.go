/*
Package cliparse handles configuration from CLI flags and environment.

Flags take precedence over environment variables:

  - -p / PORT: server port (default 3525)
  - -d / DATABASE_URL: database connection string (required)
  - -t / DATABASE_TYPE: "sqlite" (default) or "postgres"
  - -vote-retries / VOTE_RETRIES: transaction retry budget (default 3)
  - -host-salt / HOST_KEY_SALT: host key HMAC secret (required)

A .env file is loaded by main before parsing, so all of the above can
live there during development.
*/
package cliparse
