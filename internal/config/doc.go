// Package config provides centralized configuration management for the daily
// report generator. It loads configuration from multiple sources, validates it,
// and exposes a typed struct to the rest of the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file (config.yaml, configs/config.yaml or DAILYREPORT_CONFIG)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern DAILYREPORT_* for namespacing:
//
//	DAILYREPORT_SERVER_PORT=8501
//	DAILYREPORT_LOGGING_LEVEL=debug
//	DAILYREPORT_UPLOAD_MAX_BYTES=20971520
//	DAILYREPORT_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Path Management
//
// Paths resolves the output directories of the command-line tool relative to
// the executable:
//
//	paths, err := config.GetPaths()
//	out := paths.GetReportPath("日報表_20240502.xlsx")
//
// # Testing
//
// Use Default() to obtain a configuration that needs no environment.
package config
