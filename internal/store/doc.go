// Package store implements the Bulk Price Writer component.
//
// Each batch of resolved prices lands in public_assets through a single
// parameterized, set-based statement (temp staging table + UPDATE ... FROM),
// with market_value rounded half-up to 8 fractional digits and updated_date
// set to UTC write time in the same statement. Per-row interpolated SQL is
// deliberately absent.
package store
