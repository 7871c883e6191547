// Package retention prunes validation history.
//
// A Pruner removes records older than the configured number of days and,
// when a record cap is set, the oldest records beyond that cap. A Scheduler
// runs the pruner on a cron schedule while tablecheck watches files.
package retention
