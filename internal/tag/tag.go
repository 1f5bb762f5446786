// SPDX-License-Identifier: MPL-2.0

package tag

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// SchemeDecimal tags lines with decimal digits.
	SchemeDecimal Scheme = "decimal"
	// SchemeBinary tags lines with two zero-width symbols.
	SchemeBinary Scheme = "binary"
	// SchemeTernary tags lines with three zero-width symbols.
	SchemeTernary Scheme = "ternary"

	// PositionPrefix places the tag before the name: tag, separator, name.
	PositionPrefix Position = "prefix"
	// PositionSuffix places the tag after the name: name, separator, tag.
	PositionSuffix Position = "suffix"
)

var (
	// ErrInvalidScheme is returned when a Scheme value is not recognized.
	ErrInvalidScheme = errors.New("invalid tag scheme")
	// ErrInvalidPosition is returned when a Position value is not recognized.
	ErrInvalidPosition = errors.New("invalid tag position")
)

type (
	// Scheme names a tag encoding family.
	Scheme string

	// Position says on which end of a menu line the tag lives.
	Position string

	// InvalidSchemeError is returned when a Scheme value is not recognized.
	// It wraps ErrInvalidScheme for errors.Is() compatibility.
	InvalidSchemeError struct {
		Value Scheme
	}

	// InvalidPositionError is returned when a Position value is not recognized.
	// It wraps ErrInvalidPosition for errors.Is() compatibility.
	InvalidPositionError struct {
		Value Position
	}

	// Codec maps entry indices to markers and back.
	//
	// Decode returns the raw decoded value without a range check; callers that know
	// the entry count should use Lookup. Decode never fails loudly: text that does not
	// carry a tag simply reports false.
	Codec interface {
		Encode(index int) string
		Decode(line string) (int, bool)
		Separator() string
		Position() Position
	}
)

// New returns the codec for scheme. An empty position selects the scheme's
// conventional side: prefix for decimal, suffix for the symbol schemes.
func New(scheme Scheme, separator string, position Position) (Codec, error) {
	if position != "" {
		if valid, errs := position.IsValid(); !valid {
			return nil, errs[0]
		}
	}

	switch scheme {
	case SchemeDecimal:
		if position == "" {
			position = PositionPrefix
		}
		return &Decimal{separator: separator, position: position}, nil
	case SchemeBinary, SchemeTernary:
		if position == "" {
			position = PositionSuffix
		}
		return NewSymbol(scheme, separator, position), nil
	default:
		return nil, &InvalidSchemeError{Value: scheme}
	}
}

// Render joins the tag for index with name according to the codec's position.
func Render(c Codec, index int, name string) string {
	var sb strings.Builder
	WriteLine(&sb, c, index, name)
	return sb.String()
}

// WriteLine appends the rendered line for index and name to sb, without a newline.
func WriteLine(sb *strings.Builder, c Codec, index int, name string) {
	if c.Position() == PositionSuffix {
		sb.WriteString(name)
		sb.WriteString(c.Separator())
		sb.WriteString(c.Encode(index))
		return
	}
	sb.WriteString(c.Encode(index))
	sb.WriteString(c.Separator())
	sb.WriteString(name)
}

// Lookup decodes line and accepts the result only when it addresses one of count
// entries.
func Lookup(c Codec, line string, count int) (int, bool) {
	index, ok := c.Decode(line)
	if !ok || index < 0 || index >= count {
		return 0, false
	}
	return index, true
}

// String returns the string representation of the Scheme.
func (s Scheme) String() string { return string(s) }

// IsValid returns whether the Scheme is one of the defined schemes,
// and a list of validation errors if it is not.
func (s Scheme) IsValid() (bool, []error) {
	switch s {
	case SchemeDecimal, SchemeBinary, SchemeTernary:
		return true, nil
	default:
		return false, []error{&InvalidSchemeError{Value: s}}
	}
}

// String returns the string representation of the Position.
func (p Position) String() string { return string(p) }

// IsValid returns whether the Position is prefix or suffix.
func (p Position) IsValid() (bool, []error) {
	switch p {
	case PositionPrefix, PositionSuffix:
		return true, nil
	default:
		return false, []error{&InvalidPositionError{Value: p}}
	}
}

// Error implements the error interface for InvalidSchemeError.
func (e *InvalidSchemeError) Error() string {
	return fmt.Sprintf("invalid tag scheme %q (valid: decimal, binary, ternary)", e.Value)
}

// Unwrap returns ErrInvalidScheme for errors.Is() compatibility.
func (e *InvalidSchemeError) Unwrap() error { return ErrInvalidScheme }

// Error implements the error interface for InvalidPositionError.
func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid tag position %q (valid: prefix, suffix)", e.Value)
}

// Unwrap returns ErrInvalidPosition for errors.Is() compatibility.
func (e *InvalidPositionError) Unwrap() error { return ErrInvalidPosition }
