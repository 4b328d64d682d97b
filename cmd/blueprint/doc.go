// Package main is the entry point for the blueprint provisioning CLI.
//
// The tool fetches a named blueprint bundle from the remote archive store,
// installs the application archive, stages the knowledge-base archive under
// the per-user cache, and loads every knowledge-base file into the index host.
// Cached archives are reused whenever they are strictly newer than the remote
// copy, so repeated runs are cheap.
//
// Configuration:
//   - Environment variables (BLUEPRINT_BASE_URL, WORKBENCH_INDEX_HOST,
//     WORKBENCH_CACHE_ROOT, HTTP_TIMEOUT, HTTP_RETRIES, LOG_LEVEL, LOG_DEV)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Full provision into ./quick_start
//	blueprint -index-host http://localhost:9200 quick_start
//
//	# Application archive only, custom install path
//	blueprint -app-only -app-path ./demo quick_start
//
//	# Knowledge base only, with transport-level retries
//	blueprint -kb-only -retries 3 food_ordering
//
// Signals:
//   - SIGINT, SIGTERM: cancel the in-flight step and exit
package main
