// Package adjlist parses the line-based adjacency-list format and builds a
// graph from it.
//
// # Format
//
// One relation group per line:
//
//	A->B,C,D
//	B->A,C,D
//
// Labels are trimmed of surrounding whitespace. Blank lines are ignored, and
// empty input is an empty graph. A line without "->", with more than one
// "->", with an empty source or with an empty neighbor token is rejected
// with a [ParseError] naming the line.
//
// # Reciprocity
//
// A relation A->B becomes an edge only if B->A is also declared. [Reciprocal]
// implements this rule as a pure function over the declared relations, and
// [OneWay] returns what it drops. Nodes are still created for both ends of a
// dropped relation.
package adjlist
