// Package driven defines the driven ports: interfaces the core services
// depend on, implemented by adapters (warehouse drivers, the renderer,
// the config loader).
package driven
