// Package duckdb discovers table schemas in DuckDB database files.
//
// The adapter links the cgo DuckDB driver and is only compiled with the
// duckdb build tag:
//
//	go build -tags duckdb .
package duckdb
