package conv

const hexDigits = "0123456789ABCDEF"

// AppendHex appends b as uppercase hex pairs, without separators or 0x.
func AppendHex(dst, b []byte) []byte {
	for _, c := range b {
		dst = append(dst, hexDigits[c>>4], hexDigits[c&0xF])
	}
	return dst
}

// Hex returns b as an uppercase hex string.
func Hex(b []byte) string {
	return string(AppendHex(make([]byte, 0, 2*len(b)), b))
}

// ParseHex decodes an even-length hex string (either case). Spaces, ':' and
// a leading 0x are skipped. ok is false on any other character or an odd
// digit count.
func ParseHex(s string) (out []byte, ok bool) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	var hi byte
	half := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		var v byte
		switch {
		case c >= '0' && c <= '9':
			v = c - '0'
		case c >= 'a' && c <= 'f':
			v = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			v = c - 'A' + 10
		case c == ' ' || c == ':':
			continue
		default:
			return nil, false
		}
		if half {
			out = append(out, hi<<4|v)
		} else {
			hi = v
		}
		half = !half
	}
	if half {
		return nil, false
	}
	return out, true
}
