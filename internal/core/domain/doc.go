// Package domain contains the core business types of datascribe:
// warehouse configuration, table metadata, the per-run sync ledger,
// and table filters. It has no dependencies on adapters or drivers.
package domain
