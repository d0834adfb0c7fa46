// Package http provides the HTTP handlers of the daily report service.
//
// # Handlers
//
//   - ReportHandler: the upload page, form submission, downloads and the
//     JSON-less API that answers with the generated workbook
//   - HealthHandler: liveness and version information
//   - MetricsHandler: the Prometheus scrape endpoint
//
// # Uploads
//
// Both the form and the API accept multipart/form-data with two file
// fields: "raw" holds the POS shift export (CSV or Excel) and the optional
// "workbook" holds the month's running report. Every file is checked by
// validation.UploadValidator before it is read into memory.
//
// # Errors
//
// API failures are written as RFC 7807 problem documents through
// errors.ErrorHandler. Form submissions render the same message on the
// upload page with the matching status code.
//
// # Downloads
//
// A workbook generated from the form is held in memory behind a random
// token until its link expires. Content-Disposition carries both an ASCII
// fallback name and the RFC 5987 encoded UTF-8 name.
package http
