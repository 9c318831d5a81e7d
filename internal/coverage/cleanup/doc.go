// Package cleanup removes the per-repository work files that analysis runs
// leave alongside the coverage reports.
package cleanup
