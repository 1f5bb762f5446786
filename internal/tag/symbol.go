// SPDX-License-Identifier: MPL-2.0

package tag

import (
	"math"
	"unicode/utf8"
)

var (
	// binaryAlphabet holds ZERO WIDTH SPACE and ZERO WIDTH NON-JOINER.
	binaryAlphabet = []rune{'\u200b', '\u200c'}
	// ternaryAlphabet adds ZERO WIDTH JOINER.
	ternaryAlphabet = []rune{'\u200b', '\u200c', '\u200d'}
)

// Symbol writes the index in base len(alphabet), most significant digit first,
// using zero-width code points. The marker is invisible in most selectors and is
// practically never produced by a keyboard, so typed input does not collide with it.
type Symbol struct {
	alphabet  []rune
	separator string
	position  Position
}

// NewSymbol returns the symbol codec for SchemeBinary or SchemeTernary. Any other
// scheme falls back to the binary alphabet.
func NewSymbol(scheme Scheme, separator string, position Position) *Symbol {
	alphabet := binaryAlphabet
	if scheme == SchemeTernary {
		alphabet = ternaryAlphabet
	}
	return &Symbol{alphabet: alphabet, separator: separator, position: position}
}

// Encode returns the symbol marker for index. Negative indices encode as zero.
func (s *Symbol) Encode(index int) string {
	if index < 0 {
		index = 0
	}
	base := len(s.alphabet)

	// digits are produced least significant first, then reversed
	var digits []rune
	for {
		digits = append(digits, s.alphabet[index%base])
		index /= base
		if index == 0 {
			break
		}
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

// Decode reads the run of alphabet symbols at the tagged end of line.
func (s *Symbol) Decode(line string) (int, bool) {
	var run string
	if s.position == PositionPrefix {
		end := 0
		for end < len(line) {
			r, size := utf8.DecodeRuneInString(line[end:])
			if s.digit(r) < 0 {
				break
			}
			end += size
		}
		run = line[:end]
	} else {
		start := len(line)
		for start > 0 {
			r, size := utf8.DecodeLastRuneInString(line[:start])
			if s.digit(r) < 0 {
				break
			}
			start -= size
		}
		run = line[start:]
	}

	if run == "" {
		return 0, false
	}

	base := len(s.alphabet)
	value := 0
	for _, r := range run {
		if value > (math.MaxInt-s.digit(r))/base {
			return 0, false
		}
		value = value*base + s.digit(r)
	}
	return value, true
}

// Separator returns the text placed between tag and name.
func (s *Symbol) Separator() string { return s.separator }

// Position returns the side of the line that carries the tag.
func (s *Symbol) Position() Position { return s.position }

// Alphabet returns the symbols used by the codec, in digit order.
func (s *Symbol) Alphabet() string { return string(s.alphabet) }

func (s *Symbol) digit(r rune) int {
	for i, symbol := range s.alphabet {
		if r == symbol {
			return i
		}
	}
	return -1
}
