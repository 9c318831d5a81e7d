// Package rotation shifts the three-generation retention window of
// per-repository coverage reports maintained for the QA dashboard.
package rotation
