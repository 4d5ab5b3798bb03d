package search

import "unicode"

type lexer struct {
	src     []rune
	ch      rune
	offset  int
	pos     int
	nextPos int
}

func newLexer(src string) *lexer {
	l := &lexer{src: []rune(src)}
	l.next()

	return l
}

// Scan returns the position, token and value of the next token.
func (l *lexer) Scan() (int, Token, string) {
	for unicode.IsSpace(l.ch) {
		l.next()
	}

	if l.ch == 0 {
		return l.pos, eol, ""
	}

	pos := l.pos
	ch := l.ch
	l.next()

	if isWordChar(ch) {
		chars := []rune{ch}
		for isWordChar(l.ch) || isInnerChar(l.ch) {
			chars = append(chars, l.ch)
			l.next()
		}
		for len(chars) > 1 && isInnerChar(chars[len(chars)-1]) {
			chars = chars[:len(chars)-1]
		}
		if l.ch == '*' {
			l.next()
			if !isBoundary(l.ch) {
				return pos, illegal, "wildcard must end a term"
			}
			return pos, prefix, string(chars)
		}
		return pos, word, string(chars)
	}

	switch ch {
	case '+':
		if isBoundary(l.ch) {
			return pos, illegal, "dangling '+' operator"
		}
		return pos, plus, ""
	case '-':
		if isBoundary(l.ch) {
			return pos, illegal, "dangling '-' operator"
		}
		return pos, minus, ""
	case '"':
		chars := make([]rune, 0, 32)
		for l.ch != '"' {
			if l.ch == 0 {
				return pos, illegal, "unterminated phrase"
			}
			chars = append(chars, l.ch)
			l.next()
		}
		l.next()
		return pos, phrase, string(chars)
	case '*':
		return pos, illegal, "wildcard without a term"
	default:
		return pos, illegal, "unexpected char"
	}
}

// Load the next character into l.ch (or 0 on end of input).
func (l *lexer) next() {
	l.pos = l.nextPos
	if l.offset >= len(l.src) {
		l.ch = 0
		return
	}
	l.ch = l.src[l.offset]
	l.nextPos++
	l.offset++
}

func isWordChar(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

// isInnerChar accepts characters allowed inside a word but not at its start.
func isInnerChar(ch rune) bool {
	return ch == '-' || ch == '\'' || ch == '.'
}

func isBoundary(ch rune) bool {
	return ch == 0 || unicode.IsSpace(ch)
}
