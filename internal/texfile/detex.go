package texfile

// Commands whose braced argument is dropped from the plain-text rendering
// because it is markup, not prose.
var dropArgCommands = map[string]bool{
	"begin":             true,
	"end":               true,
	"label":             true,
	"ref":               true,
	"pageref":           true,
	"cite":              true,
	"citep":             true,
	"citet":             true,
	"input":             true,
	"include":           true,
	"usepackage":        true,
	"documentclass":     true,
	"bibliography":      true,
	"bibliographystyle": true,
	"newcommand":        true,
	"renewcommand":      true,
	"url":               true,
	"hypersetup":        true,
}

// detex renders LaTeX source as plain text and records, for every byte of
// the rendering, the source offset it came from. Comments, math and command
// tokens are stripped; brace groups keep their content.
func detex(source string) (string, []int) {
	var plain []byte
	var plainMap []int

	emit := func(b byte, srcOffset int) {
		plain = append(plain, b)
		plainMap = append(plainMap, srcOffset)
	}

	i := 0
	n := len(source)
	for i < n {
		c := source[i]
		switch {
		case c == '%':
			// Comment runs to the end of the line; the newline is kept so
			// line counts in the rendering stay aligned with the source.
			for i < n && source[i] != '\n' {
				i++
			}

		case c == '$':
			// Inline or display math, skipped entirely.
			display := i+1 < n && source[i+1] == '$'
			i++
			if display {
				i++
			}
			for i < n {
				if source[i] == '\\' && i+1 < n {
					i += 2
					continue
				}
				if source[i] == '$' {
					i++
					if display && i < n && source[i] == '$' {
						i++
					}
					break
				}
				i++
			}

		case c == '\\':
			if i+1 >= n {
				i++
				break
			}
			next := source[i+1]
			if !isLetter(next) {
				// Escaped character such as \% or \&: keep the literal.
				emit(next, i+1)
				i += 2
				break
			}
			start := i + 1
			j := start
			for j < n && isLetter(source[j]) {
				j++
			}
			name := source[start:j]
			i = j
			i = skipOptionArgs(source, i)
			if dropArgCommands[name] {
				i = skipBraceGroup(source, i)
			}

		case c == '{' || c == '}':
			i++

		default:
			emit(c, i)
			i++
		}
	}

	return string(plain), plainMap
}

// skipOptionArgs skips whitespace-adjacent [...] option groups.
func skipOptionArgs(source string, i int) int {
	n := len(source)
	for i < n && source[i] == '[' {
		depth := 0
		for i < n {
			if source[i] == '[' {
				depth++
			} else if source[i] == ']' {
				depth--
				if depth == 0 {
					i++
					break
				}
			}
			i++
		}
	}
	return i
}

// skipBraceGroup skips one balanced {...} group if it starts at i.
func skipBraceGroup(source string, i int) int {
	n := len(source)
	if i >= n || source[i] != '{' {
		return i
	}
	depth := 0
	for i < n {
		switch source[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
		i++
	}
	return i
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
