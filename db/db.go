// Package db embeds the database schemas
package db

import _ "embed"

// Postgres creates every relational table, safe to apply repeatedly
//
//go:embed schema.sql
var Postgres string

// ClickhouseAudit creates the audit_log table
//
//go:embed audit_clickhouse.sql
var ClickhouseAudit string
