package search

import (
	"fmt"
	"slices"
)

// ParseError is the type of error returned by Parse.
type ParseError struct {
	// Source column position where the error occurred.
	Position int
	// Error message.
	Message string
}

// Error returns a formatted version of the error, including the position.
func (e ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Position, e.Message)
}

type parser struct {
	lexer *lexer
	pos   int    // position of last token (tok)
	tok   Token  // last lexed token
	val   string // string value of last token (or "")
}

// Parse parses an advanced search string. Errors are returned as ParseError.
func Parse(src string) (q *Query, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(ParseError); ok {
				q = nil
				err = pe
			} else {
				panic(r)
			}
		}
	}()

	p := parser{lexer: newLexer(src)}
	p.next()

	q = p.query()
	p.expect(eol)

	return q, nil
}

// query parses one or more clauses.
//
// clause+
func (p *parser) query() *Query {
	if p.matches(eol) {
		panic(p.errorf("empty query"))
	}

	q := &Query{}
	for !p.matches(eol) {
		q.Terms = append(q.Terms, p.clause())
	}
	return q
}

// clause parses an optionally prefixed term.
//
// ( "+" | "-" )? term
func (p *parser) clause() Term {
	op := Optional
	switch p.tok {
	case plus:
		op = Required
		p.next()
	case minus:
		op = Excluded
		p.next()
	}

	t := p.term()
	t.Op = op
	return t
}

// term parses a word, a prefix or a phrase.
//
// WORD | WORD "*" | PHRASE
func (p *parser) term() Term {
	var t Term

	switch p.tok {
	case word:
		t = Term{Text: p.val}
	case prefix:
		t = Term{Text: p.val, Prefix: true}
	case phrase:
		text := collapse(p.val)
		if text == "" {
			panic(p.errorf("empty phrase"))
		}
		t = Term{Text: text, Phrase: true}
	default:
		panic(p.errorf("expected term instead of %s", p.tok))
	}

	p.next()
	return t
}

// next parses the next token into p.tok.
func (p *parser) next() {
	p.pos, p.tok, p.val = p.lexer.Scan()
	if p.tok == illegal {
		panic(p.errorf("%s", p.val))
	}
}

// matches returns true if current token matches one of the given tokens.
func (p *parser) matches(tokens ...Token) bool {
	return slices.Contains(tokens, p.tok)
}

// expect panics if current token is not the expected token.
func (p *parser) expect(tok Token) {
	if p.tok != tok {
		panic(p.errorf("expected %s instead of %s", tok, p.tok))
	}
}

// errorf formats an error with the current position.
func (p *parser) errorf(format string, args ...any) error {
	message := fmt.Sprintf(format, args...)
	return ParseError{p.pos, message}
}
