// Package wordcount counts whitespace-separated words in large text buffers.
//
// Buffers at least as long as the chunk threshold are split in two at a
// whitespace byte near the middle; the left half is forked onto another
// goroutine while the right half is counted inline, and the two partial
// counts are summed. Because every split point sits on whitespace, no word is
// ever divided between halves and the result equals a single sequential pass
// for every threshold.
package wordcount
