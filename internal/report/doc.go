// Package report renders analysis reports for terminal display, JSON
// consumers, and markdown documents.
package report
