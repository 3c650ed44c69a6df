// Package sanitizer normalizes guest-supplied text before validation and storage.
//
// All functions are idempotent: applying them twice gives the same result as once.
// Invalid input is never an error here; validation happens afterwards.
//
// Normalization includes:
//   - Names and free text: collapse whitespace runs, trim leading/trailing spaces
//   - Emails: trim and lowercase, so lookups by email match regardless of input case
//   - Dates: trim surrounding whitespace only, format is checked by the validator
package sanitizer
