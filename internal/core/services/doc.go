// Package services contains the core application services: the sync
// runner that walks configured databases and writes the documentation
// tree, the cleanup pass that reconciles that tree against the sync
// ledger, and the warehouse factory registry.
package services
