// Package driven defines the secondary (driven) ports: interfaces the
// core services depend on and adapters implement. This includes the
// search backends, subprocess and scheduler executors, configuration,
// the run store and the reference database provider.
package driven
