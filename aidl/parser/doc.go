package parser

import "strings"

// docBefore returns the normalized documentation comment immediately
// preceding pos, or "". Line comments between the doc comment and the
// declaration are tolerated, anything else breaks the association.
func docBefore(input string, pos int) string {
	content, ok := docContentBefore(input[:pos])
	if !ok {
		return ""
	}
	return normalizeDoc(content)
}

type docScanState int

const (
	docIdle docScanState = iota
	docLineCommentOrOther
	docLineCommentOrOtherBeforeSlash
	docBeforeEndSlash
	docInsideComment
	docBeforeBeginStar
	docBeforeBeginStarStar
)

// docContentBefore scans backwards for a `/** ... */` comment ending at the
// tail of input, and returns the text between the markers.
func docContentBefore(input string) (string, bool) {
	start, end := -1, -1
	state := docIdle

scan:
	for i := len(input) - 1; i >= 0; i-- {
		current := input[i]
		switch state {
		case docIdle:
			if current == '/' {
				state = docBeforeEndSlash
			} else if current != ' ' && current != '\n' && current != '\r' && current != '\t' {
				state = docLineCommentOrOther
			}
		case docLineCommentOrOther:
			if current == '/' {
				state = docLineCommentOrOtherBeforeSlash
			} else if current == '\n' {
				break scan
			}
		case docLineCommentOrOtherBeforeSlash:
			if current == '/' {
				state = docIdle
			} else {
				break scan
			}
		case docBeforeEndSlash:
			if current == '*' {
				end = i
				state = docInsideComment
			} else {
				state = docIdle
			}
		case docInsideComment:
			if current == '*' {
				state = docBeforeBeginStar
			}
		case docBeforeBeginStar:
			if current == '*' {
				state = docBeforeBeginStarStar
			} else if current == '/' {
				state = docIdle
			} else {
				state = docInsideComment
			}
		case docBeforeBeginStarStar:
			if current == '/' {
				start = i + 3
				break scan
			}
			state = docInsideComment
		}
	}

	if start < 0 || end < 0 {
		return "", false
	}
	return input[start:end], true
}

// normalizeDoc flattens raw doc comment content: comment gutters are
// stripped, paragraphs separated by blank lines are kept on their own
// lines with internal line breaks collapsed to spaces, and a line break is
// forced before any @tag not already at the start of a line.
func normalizeDoc(content string) string {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.Trim(line, " \t\r*")
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	for i, p := range paragraphs {
		paragraphs[i] = breakBeforeTags(p)
	}
	return strings.Join(paragraphs, "\n")
}

func breakBeforeTags(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '@' {
			b.WriteByte(s[i])
			continue
		}
		// Replace the whitespace run before the tag with a line break,
		// unless the tag already starts a line (or the string).
		out := strings.TrimRight(b.String(), " \t")
		if out != "" && !strings.HasSuffix(out, "\n") {
			b.Reset()
			b.WriteString(out)
			b.WriteByte('\n')
		}
		b.WriteByte('@')
	}
	return b.String()
}
