package suffix

import (
	"errors"
	"strings"
)

var (
	// ErrMalformed means the suffix does not start with a hyphen or is empty after it.
	ErrMalformed = errors.New("malformed suffix")

	// ErrScope means the isolated scope does not match the scope grammar.
	ErrScope = errors.New("invalid scope")

	// ErrPadding means a segment in padding position is not Z lowercase hex characters.
	ErrPadding = errors.New("invalid padding")

	// ErrNode means the HLC node segment is missing or not [A-Za-z0-9_]+.
	ErrNode = errors.New("invalid node")
)

// SplitWid splits the text after a plain WID's Z terminator into scope and
// padding. Either may be empty. z is the configured padding length.
func SplitWid(s string, z int) (scope, pad string, err error) {
	if s == "" {
		return "", "", nil
	}
	if s[0] != '-' {
		return "", "", ErrMalformed
	}
	body := s[1:]
	if body == "" {
		return "", "", ErrMalformed
	}

	if z > 0 {
		cut := strings.LastIndexByte(body, '-')
		last := body[cut+1:]
		if len(last) == z {
			if !IsLowerHex(last, z) {
				return "", "", ErrPadding
			}
			pad = last
			if cut < 0 {
				return "", pad, nil
			}
			body = body[:cut]
			if body == "" {
				return "", "", ErrMalformed
			}
		}
	}

	if !ValidScope(body) {
		return "", "", ErrScope
	}
	return body, pad, nil
}

// SplitHLC splits the text after an HLC-WID's Z terminator into the
// mandatory node and the optional padding.
func SplitHLC(s string, z int) (node, pad string, err error) {
	if s == "" || s[0] != '-' {
		return "", "", ErrNode
	}
	body := s[1:]

	node, rest, hasPad := strings.Cut(body, "-")
	if !ValidNode(node) {
		return "", "", ErrNode
	}
	if !hasPad {
		return node, "", nil
	}
	if z == 0 || !IsLowerHex(rest, z) {
		return "", "", ErrPadding
	}
	return node, rest, nil
}
