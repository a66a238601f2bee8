// Package config provides configuration management for the claim loader.
// It handles loading configuration from a YAML file and the environment,
// validation, and provides a type-safe API for the values the load pipeline
// and the command line tool need.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later sources
// overriding earlier ones:
//
//	1. Default values (Default)
//	2. Configuration file (YAML)
//	3. Environment variables (highest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern CLAIMLOAD_<SECTION>_<KEY>:
//
//	CLAIMLOAD_LOADER_DIR=data/claims
//	CLAIMLOAD_LOADER_SUFFIX=.csv
//	CLAIMLOAD_LOADER_CONCURRENCY=4
//	CLAIMLOAD_LOADER_NULL_TOKENS=NA,N/A
//	CLAIMLOAD_EXPORT_DIR=out
//	CLAIMLOAD_LOGGING_LEVEL=debug
//
// Null tokens apply to integer, float and date columns; string columns keep
// them as text.
//
// # Validation
//
// Every loaded configuration is validated with struct tags
// (github.com/go-playground/validator/v10) before it is returned, so the
// pipeline never sees an out-of-range concurrency or an unknown policy.
//
// # Usage
//
//	cfg, err := config.Load("claimload.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The Config value is passed explicitly to the pipeline; this package keeps
// no process-wide state.
package config
