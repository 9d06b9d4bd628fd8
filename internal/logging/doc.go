// Package logging provides structured logging for scanform.
//
// This package wraps Go's log/slog to produce JSON-formatted logs. Child
// loggers carry persistent attributes (component, scan token, ticket) so the
// life of one scan can be followed from classification to field write.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/logs", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	scanLog := logger.WithComponent("dispatch").WithScan("8412345678900")
//	scanLog.Info("scan queued", "ticket", id)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"scan queued","component":"dispatch","token":"8412345678900","ticket":"..."}
//
// # Testing
//
// Use [NopLogger] to discard all output. Every constructor in scanform that
// accepts a *Logger treats nil as [NopLogger].
//
// # Configuration
//
//	logging:
//	  enabled: true
//	  level: info
//	  dir: ~/.local/state/scanform
package logging
