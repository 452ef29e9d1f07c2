/*
Package markov provides a small, in-memory n-gram Markov chain over opaque
string tokens.

A Chain learns transition frequencies with Train, produces new sequences
with Generate by weighted random sampling, and converts its transition
table to and from a portable, JSON-compatible form (ToPortable and
FromPortable). Saving and loading are delegated to a caller-supplied
Persistence implementation; see the store package for file, SQLite and
Badger backends, and the textchain package for a free-text adapter.
*/
package markov
