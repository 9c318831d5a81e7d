// Package report derives per-repository coverage trends and aggregate
// statistics from the retained coverage report generations.
package report
