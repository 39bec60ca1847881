// Package model defines the data passed between the stages of a blacklist
// generation run: the per-URL fetch results, the documents that survived
// fetching, their tokens, and the resulting common-word list.
package model
