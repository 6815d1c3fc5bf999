// Package plan compiles one source/destination type pair into an immutable
// Plan: an ordered list of member assignment steps, each made of a reader
// and a converter closure chosen once from the static types.
//
// Compilation pipeline:
//  1. List writable destination members; drop ignored ones.
//  2. Resolve each remaining member: explicit rule first, then conventions
//     (map:"from" tag, same name, map:"to" tag, normalized name).
//  3. Select a converter for the source and destination member types:
//     identity, optional (pointer), collection, nested object, primitive.
//  4. Emit diagnostics (unmapped members, static conversion misses) and
//     collect the nested type pairs the plan depends on.
package plan
