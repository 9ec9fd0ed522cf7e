// Package sanitizer normalizes client input before validation.
//
// All functions are idempotent. Invalid input is returned in a shape the
// validator rejects rather than silently dropped, so a request naming seat
// "z0" still fails validation instead of booking fewer seats than asked.
//
// Normalization includes:
//   - Seat ids: trimmed and upper-cased, " a1 " becomes "A1"
//   - IMDb ids: trimmed and lower-cased
//   - Free text (titles, cinema names, search queries): whitespace collapsed
//   - Show ids: trimmed, with the movie part lower-cased
package sanitizer
