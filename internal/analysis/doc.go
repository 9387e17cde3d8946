// Package analysis holds the Aggregator, the Cohort Partitioner and the
// Pay-Change Calculator.
//
// All functions are pure over their inputs: groupings are returned as new
// values, records passed in are never modified. Sums are exact decimals, so
// a Stats built in chunks and merged equals one built in a single pass.
package analysis
