// Package diagnostic provides structured errors, warnings and infos
// collected while compiling and validating mapping plans.
//
// Key capabilities:
//   - Configuration errors with type pair and member context
//   - Unmapped member infos with similar source names
//   - Statically known conversion misses
package diagnostic
