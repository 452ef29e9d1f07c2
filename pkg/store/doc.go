/*
Package store provides markov.Persistence implementations.

FileStore keeps one chain per file, encoded as JSON or msgpack and written
atomically. SQLStore keeps any number of named chains in a SQLite database;
the caller opens the database with the driver of its choice. BadgerStore
keeps a named chain in a BadgerDB key-value store.

All stores convert through markov.Portable, so a chain saved by one can be
exported and loaded by another.
*/
package store
