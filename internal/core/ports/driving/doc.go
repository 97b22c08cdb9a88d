// Package driving defines the driving ports: the operations the CLI
// invokes on the core services.
package driving
