/*
Package textchain specializes a markov.Chain to free text.

A TextTool turns text into tokens, tokens back into text, and counts
sentences. Every one of those operations can be replaced with a functional
option; unset ones fall back to whitespace splitting, single-space joining
and counting tokens that end in a period. A TextChain pairs a TextTool with
a chain and exposes text-in, text-out training and generation.
*/
package textchain
