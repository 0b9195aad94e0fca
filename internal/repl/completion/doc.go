// Package completion provides tab completion for the shelly REPL.
//
// Completion is generator based: the line editor calls a generator with an
// increasing state index until it reports end-of-sequence. State 0 starts a
// new request. The command generator collects every match into a bounded
// Store up front and hands them out one per call; the filename generator
// keeps an explicit Cursor over an open directory and advances it lazily.
// The Dispatcher picks a generator based on where the completed word starts.
package completion
