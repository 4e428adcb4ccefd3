// Package resource bounds what a catalog may consume: bytes of loaded
// dictionaries, concurrent loads and blob transfer throughput.
package resource
