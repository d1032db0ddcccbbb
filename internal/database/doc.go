// Package database provides the PostgreSQL connection pool for the
// public_assets store.
//
// The connection string is assembled from explicit config; TLS verification
// is enabled only when root CA material is supplied, in which case the PEM
// is staged in the OS temp directory for libpq-style sslrootcert use.
package database
