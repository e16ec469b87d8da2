// Package client contains the client-side bootstrap for fieldsync.
//
// # Overview
//
// The package provides:
//  1. Local persistence bootstrap (InitDatabase, Open, RunMigrations): an
//     SQLite database in WAL mode with the embedded goose migrations applied,
//     and the repositories built on top of it.
//  2. A gRPC reachability prober (GRPCClient) that calls the standard health
//     service of the backend, injects the access token via an interceptor and
//     maps gRPC status codes to sentinel errors.
//
// # Error Handling
//
// Failures are reported with sentinel errors from internal/common that callers
// match with errors.Is: ErrStoreUnavailable, ErrUnavailable, ErrUnauthorized.
package client
