// Package log provides the structured logger used throughout laddr. It is a
// thin, concurrency-safe layer over [log/slog].
//
// A [Logger] is a value type. Its zero value discards everything, so
// packages such as addr can carry an unconfigured Logger without checks:
//
//	var logger log.Logger
//	logger.Trace("never written")
//
// Loggers are created with [Make] and configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
// Every level has a context-aware variant ([Logger.InfoContext]) and a
// context-unaware one ([Logger.Info]) that uses [DefaultContextProvider].
//
// The package also owns a default Logger writing to stderr. It is
// reconfigured with [Config] and used by the package-level functions
// [Debug], [Info], [Warn], and [Error].
package log
