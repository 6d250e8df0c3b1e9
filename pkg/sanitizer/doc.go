// Package sanitizer normalizes untrusted booking fields before they reach
// templates, invites and the provider.
//
// Every function is idempotent and total: bad input yields "" rather than an
// error, so callers decide whether an empty value is fatal.
package sanitizer
