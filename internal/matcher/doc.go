// Package matcher finds the words shared by a set of documents.
//
// Matching is anchored on a reference document: only its tokens are
// candidates. A candidate is credited once for the reference itself and
// once for every other document containing a token equal to it under ASCII
// case folding, no matter how often it appears there. Candidates whose
// credit reaches int(ratio * documents) are kept, in reference order.
package matcher
