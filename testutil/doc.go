// Package testutil provides shared test fixtures: a throwaway SQLite
// database with the full schema, canned polls in each lifecycle
// status, and HTTP request helpers.
package testutil
