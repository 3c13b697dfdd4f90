// Package log provides the application's logging setup, built on top of
// the standard slog package.
//
// Crawl diagnostics carry page URLs, extracted titles, and occasionally
// raw markup fragments. The TrimHandler truncates oversized string
// values so a single noisy page cannot flood the log output, while
// keeping the structured attributes intact for every other value.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("page processed",
//	    "url", "https://example.com/docs",
//	    "title", veryLongTitle, // truncated past 256 bytes
//	)
//
//	slog.SetDefault(logger)
package log
