// Package quote implements the Quote Fetcher component.
//
// The Quote Fetcher:
//   - Resolves a symbol's last-trade ("fast") price from the provider's
//     lightweight quote endpoint
//   - Retries with jittered backoff, with a separate, much longer backoff
//     when the provider signals rate limiting
//   - Accepts only strictly positive prices
//   - Absorbs all per-symbol errors; exhausting retries yields "unavailable"
package quote
