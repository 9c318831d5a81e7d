// Package shared defines the coverage report naming convention, target
// validation, and report parsing helpers reused by the coverage commands.
package shared
