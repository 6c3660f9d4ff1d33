// Package diagnostic provides structured errors, warnings and infos
// reported by keyed-lint.
package diagnostic
