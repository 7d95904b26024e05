// Package audit records an audit trail of authorization changes:
// permission grants and prohibitions, role synchronization, and
// organization unit membership changes.
//
// # Overview
//
// Mutating components emit Events through the Logger interface. Loggers
// are composable: DBLogger persists to SQL and supports search, stats,
// export and retention purges; FileLogger appends newline-delimited JSON
// with size-based rotation; MultiLogger fans out to several sinks;
// NopLogger discards. Packages that emit events accept a nil Logger via
// OrNop, so auditing stays optional.
//
// # Retention
//
// A Scheduler runs DBLogger.Purge on a cron schedule against a
// RetentionPolicy:
//
//	scheduler, err := audit.NewScheduler(dbLogger, audit.DefaultRetentionPolicy(), "5 0 * * *", log)
//	scheduler.Start()
//	defer scheduler.Stop()
package audit
