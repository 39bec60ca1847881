// Package pipeline runs the stages of blacklist generation in order.
//
// Each stage is a Step operating on a shared *model.Run: load links, fetch,
// clean, tokenize, match, dedupe, write. A step runs only after the previous
// one has finished, and the first failing step stops the run. Per-URL fetch
// failures are not step failures; they are recorded on the run and reduce
// the number of documents instead.
package pipeline
