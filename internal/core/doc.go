// Package core holds the dashboard's business logic, independent of HTTP.
//
// # Service
//
// [Service] owns the dashboard state kept in a [store.Store]. Its operations:
//
//   - [Service.IngestUpload] and [Service.IngestSample] run an AIDA64 log
//     through [aida.Ingestor]. When a log is rejected the dashboard falls back
//     to synthetic cards labelled "Mock Data" and the error says why.
//   - [Service.Refresh] replaces the cards with a live variation of the
//     uploaded log while auto-refresh is on; [Service.StartLiveRefresh] runs
//     it on a ticker.
//   - [Service.Snapshot], [Service.SetAutoRefresh] and [Service.History]
//     read and update the stored state.
//
// # Uploads
//
// Uploads pass through [LogReader], which strips a BOM and enforces the size
// limit, and [DecodeLog], which sanitises invalid UTF-8. At most
// Upload.MaxConcurrent ingests run at once ([IngestLimiter]); shutdown waits
// for them with [Service.WaitForIngests].
//
// # Error Handling
//
// [MapError] turns technical errors into a [UserMessage] with a support code
// (ING001, FILE001, UPL002, ...). See error_messages.go for the full list.
package core
