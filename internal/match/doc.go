// Package match provides identifier normalization, Levenshtein distance and
// candidate ranking used to pair destination members with source members.
//
// Key functions:
//   - NormalizeIdent: folds identifiers so that customer_id matches CustomerID
//   - Levenshtein: computes edit distance between strings
//   - RankCandidates: ranks source member names against a destination member name
package match
