package search

type Token int

const (
	illegal Token = iota
	eol
	plus
	minus
	word
	prefix
	phrase
)

var tokenNames = map[Token]string{
	illegal: "illegal",
	eol:     "eol",
	plus:    "plus",
	minus:   "minus",
	word:    "word",
	prefix:  "prefix",
	phrase:  "phrase",
}

func (t Token) String() string {
	return tokenNames[t]
}
