package engine

import "strings"

// preprocessSource rewrites script source before it reaches zygomys:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols.
//  2. kebab-case identifiers become snake_case; zygomys reads a hyphen as
//     subtraction.
//  3. ; line comments become // comments.
//
// String literals are left untouched.
func preprocessSource(source string) string {
	r := rewriter{src: source}
	r.out.Grow(len(source) + len(source)/4)
	for r.pos < len(r.src) {
		switch c := r.src[r.pos]; {
		case c == '"':
			r.quoted('"', true)
		case c == '`':
			r.quoted('`', false)
		case c == ';':
			r.comment()
		case c == ':' && r.keyword():
		case c == '-' && r.joinsIdent():
			r.out.WriteByte('_')
			r.pos++
		default:
			r.out.WriteByte(c)
			r.pos++
		}
	}
	return r.out.String()
}

// rewriter walks src once, writing the rewritten text to out.
type rewriter struct {
	src string
	pos int
	out strings.Builder
}

// quoted copies a literal delimited by q, including both delimiters.
// An unterminated literal runs to the end of the source.
func (r *rewriter) quoted(q byte, escapes bool) {
	end := r.pos + 1
	for end < len(r.src) && r.src[end] != q {
		if escapes && r.src[end] == '\\' && end+1 < len(r.src) {
			end++
		}
		end++
	}
	if end < len(r.src) {
		end++
	}
	r.out.WriteString(r.src[r.pos:end])
	r.pos = end
}

// comment turns a run of semicolons into // and copies the rest of the
// line verbatim.
func (r *rewriter) comment() {
	for r.pos < len(r.src) && r.src[r.pos] == ';' {
		r.pos++
	}
	end := strings.IndexByte(r.src[r.pos:], '\n')
	if end < 0 {
		end = len(r.src) - r.pos
	}
	r.out.WriteString("//")
	r.out.WriteString(r.src[r.pos : r.pos+end])
	r.pos += end
}

// keyword handles a colon at pos. It reports false, writing nothing, when
// the colon starts neither := nor a keyword.
func (r *rewriter) keyword() bool {
	rest := r.src[r.pos+1:]
	switch {
	case strings.HasPrefix(rest, "="):
		r.out.WriteString(":=")
		r.pos += 2
		return true
	case rest == "" || !isLetter(rest[0]):
		return false
	}
	n := 1
	for n < len(rest) && isKWChar(rest[n]) {
		n++
	}
	r.out.WriteString(`"` + kwPrefix + rest[:n] + `"`)
	r.pos += 1 + n
	return true
}

// joinsIdent reports whether the hyphen at pos sits inside an identifier
// such as base-plate.
func (r *rewriter) joinsIdent() bool {
	i := r.pos
	return i > 0 && i+1 < len(r.src) && isIdentChar(r.src[i-1]) && isLetter(r.src[i+1])
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isKWChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}
