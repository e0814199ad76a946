// Package logging provides structured logging on top of log/slog.
//
// # Overview
//
//   - JSON (default) or text output
//   - A runtime-adjustable level (Logger.SetLevel), used by the config watcher
//   - Per-request attributes, such as request_id, pulled from the record's
//     context by ContextFields hooks
//   - Masking of attributes whose name looks like a secret (api_key, token, ...)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Fields: []logging.ContextFields{middleware.LogFields},
//	})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger.Logger)
//
//	// request_id is added from ctx automatically
//	slog.InfoContext(ctx, "booking search", "venue_count", 12)
//
// # Secrets
//
// Attributes named like api_key are rewritten with MaskKey before they reach
// the output. Code should still log key labels, not keys.
package logging
