// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// Loggers live in a [Registry]. Each module logger gets its own
// [log/slog.LevelVar], so its level can be changed while the process runs.
// Modules without a configured level follow the registry-wide [RootModule]
// level. Output is routed automatically:
//   - Logs to systemd journal when available (Linux systems with journald)
//   - Logs to stdout when a terminal, pipe, or file is connected
//   - Logs to both when both are available
//
// Registries are ordinary values: the process-wide one is returned by
// [Default], and every host scope running the slog framework owns its own.
//
// # Usage
//
// Initialize the process-wide registry once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"engine": "debug",
//			"api":    "warn",
//		},
//	})
//
//	logger := logging.GetLogger("engine")
//	logger.Info("Scan finished", "scopes", 3)
//
// Change levels at runtime:
//
//	logging.Default().SetLevel("engine", "warn")
//	logging.Default().SetLevel(logging.RootModule, "debug") // every non-explicit module
//
// # Configuration
//
// Example TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "text"
//	engine = "debug"
//	api = "warn"
package logging
