// Package config handles configuration loading for santa-exchange.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  path: "${SANTA_DATA_DIR}/wishes.db"
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Database (driver "sqlite" or "files"):
//
//	database:
//	  driver: "sqlite"
//	  path: "/var/lib/santa-exchange/wishes.db"
//
// Event manifest (optional; both phases open without one):
//
//	event:
//	  manifest: "/etc/santa-exchange/event.toml"
//
// Sessions:
//
//	sessions:
//	  overflow_slack: 1024
//
// Web:
//
//	web:
//	  static_dir: "static"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
