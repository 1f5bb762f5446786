// SPDX-License-Identifier: MPL-2.0

package tag

import "strconv"

// Decimal writes the index as plain decimal digits.
//
// Decoding takes the maximal run of ASCII digits on the codec's side of the line.
// Typed input that happens to start (or end) with digits therefore decodes as a tag
// whenever the number is in range; that ambiguity is part of the scheme.
type Decimal struct {
	separator string
	position  Position
}

// NewDecimal returns a decimal codec.
func NewDecimal(separator string, position Position) *Decimal {
	return &Decimal{separator: separator, position: position}
}

// Encode returns the decimal form of index.
func (d *Decimal) Encode(index int) string {
	return strconv.Itoa(index)
}

// Decode parses the digit run at the tagged end of line.
func (d *Decimal) Decode(line string) (int, bool) {
	var digits string
	if d.position == PositionSuffix {
		i := len(line)
		for i > 0 && isDigit(line[i-1]) {
			i--
		}
		digits = line[i:]
	} else {
		i := 0
		for i < len(line) && isDigit(line[i]) {
			i++
		}
		digits = line[:i]
	}

	if digits == "" {
		return 0, false
	}
	index, err := strconv.Atoi(digits)
	if err != nil {
		// overflow
		return 0, false
	}
	return index, true
}

// Separator returns the text placed between tag and name.
func (d *Decimal) Separator() string { return d.separator }

// Position returns the side of the line that carries the tag.
func (d *Decimal) Position() Position { return d.position }

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
