// Package etymology owns the etymology record domain: the boundary-validated
// record types, the normalizer that flattens a record into renderable
// markers and the sorted timeline step domain, and the LLM-backed source
// that synthesizes records for words.
//
// Producers do not guarantee chronological order across root -> path ->
// current, and may duplicate years between stages. Normalize absorbs both
// silently: steps are deduplicated and sorted by value while markers keep
// traversal order for rendering stability.
package etymology
