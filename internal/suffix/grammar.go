package suffix

import "strings"

// IsLowerHex reports whether s is exactly z characters of [0-9a-f].
func IsLowerHex(s string, z int) bool {
	if len(s) != z {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// ValidNode reports whether s matches [A-Za-z0-9_]+. Hyphens are excluded
// so a node can never swallow the padding segment.
func ValidNode(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isWordByte(s[i]) {
			return false
		}
	}
	return true
}

// ValidScope reports whether s matches [A-Za-z0-9_]+(-[A-Za-z0-9_]+)*.
func ValidScope(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, "-") {
		if !ValidNode(part) {
			return false
		}
	}
	return true
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}
