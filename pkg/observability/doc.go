/*
Package observability provides tools for monitoring the morph engine.

It turns engine lifecycle hooks into prometheus metrics and structured log
records, so hosts can watch orientation transitions and layout sweeps
without touching the core packages.
*/
package observability
