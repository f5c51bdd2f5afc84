package calibration

import (
	"math/rand/v2"
	"strings"
)

// DefaultCorpusBytes is the size of the synthetic calibration corpus.
const DefaultCorpusBytes = 8 << 20

var corpusWords = []string{
	"the", "a", "of", "word", "counter", "parallel", "document", "story",
	"network", "goroutine", "whitespace", "deadline", "hacker", "news",
	"café", "naïve", "日本語", "Ünïcödé", "x",
}

var corpusSeparators = []string{" ", " ", " ", "  ", "\n", "\t", "\r\n", "\n\n"}

// SyntheticCorpus builds a deterministic text of roughly size bytes mixing
// ASCII and multi-byte words with assorted whitespace runs.
func SyntheticCorpus(size int, seed uint64) string {
	if size <= 0 {
		return ""
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	var sb strings.Builder
	sb.Grow(size + 16)
	for sb.Len() < size {
		sb.WriteString(corpusWords[rng.IntN(len(corpusWords))])
		sb.WriteString(corpusSeparators[rng.IntN(len(corpusSeparators))])
	}
	return sb.String()
}
