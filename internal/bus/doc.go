// Package bus connects the dashboard to the message bus that carries log
// records and aggregated statistics.
//
// Two channels are consumed: constants.LogsChannel carries one JSON object per
// log record and constants.StatsChannel carries a JSON array of statistics
// windows. Transports only move raw payloads; DecodeLogRecord and DecodeStats
// turn them into domain values and classify failures as domain.ErrParse.
//
// Redis is the production transport (Redis pub/sub). Memory is an in-process
// transport used by the demo mode and by tests.
package bus
