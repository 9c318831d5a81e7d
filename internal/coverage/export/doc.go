// Package export appends dated per-repository coverage records to the CSV
// history file consumed by the QA dashboard.
package export
