// Package services implements the business logic between the HTTP handlers
// and the report packages.
//
// # Report pipeline
//
// ReportService.Generate runs one upload end to end:
//
//	normalize.Normalizer.Load       POS export -> canonical table + report date
//	empty check                     EMPTY AppError when nothing survived cleaning
//	cumulative.Extractor.Extract    month-to-date snapshot from the prior workbook
//	report.Builder.Build            day sheet written into the month workbook
//	report.Workbook.Bytes           serialized workbook returned to the caller
//
// Each stage runs in its own span under "report.generate". Failures are
// returned as *errors.AppError so handlers can map them to problem details.
// Soft conditions (no prior workbook, an unreadable one, unassigned regions,
// ambiguous columns) do not fail the run and are returned as notices.
//
// # Health
//
// HealthService reports process status, version and layout for /api/health.
package services
