package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultSeparators is the cascade used to split a section, coarsest first.
// Each separator is kept at the start of the piece that follows it.
var DefaultSeparators = []string{
	"\n\n\n",
	"\n\n",
	"\n• ", "\n- ", "\n* ", "\n○ ",
	". ", "! ", "? ",
	", ", "; ", " ", "",
}

// splitter recursively splits text on a separator cascade and merges the
// pieces back into chunks no longer than size runes, carrying up to
// overlap runes of trailing pieces into the next chunk.
type splitter struct {
	size       int
	overlap    int
	separators []string
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func (s *splitter) split(text string) []string {
	return s.splitWith(text, s.separators)
}

func (s *splitter) splitWith(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	var rest []string
	for i, candidate := range separators {
		if candidate == "" {
			sep = candidate
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	var chunks, good []string
	for _, piece := range splitKeepingSeparator(text, sep) {
		if runeLen(piece) < s.size {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			chunks = append(chunks, s.merge(good)...)
			good = nil
		}
		if len(rest) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, s.splitWith(piece, rest)...)
		}
	}
	if len(good) > 0 {
		chunks = append(chunks, s.merge(good)...)
	}
	return chunks
}

// splitKeepingSeparator splits text on sep, prefixing every piece after the
// first with the separator. The empty separator splits into runes.
func splitKeepingSeparator(text, sep string) []string {
	var pieces []string
	if sep == "" {
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}
	parts := strings.Split(text, sep)
	for i, p := range parts {
		if i > 0 {
			p = sep + p
		}
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

// merge greedily joins pieces into chunks. When a chunk is emitted, leading
// pieces are dropped until what remains fits the overlap budget; the
// remainder starts the next chunk.
func (s *splitter) merge(pieces []string) []string {
	var (
		chunks  []string
		current []string
		total   int
	)
	for _, p := range pieces {
		n := runeLen(p)
		if total+n > s.size && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > s.overlap || (total+n > s.size && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, p)
		total += n
	}
	if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}
