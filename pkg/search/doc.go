// Package search parses the advanced full-text search syntax.
//
// Grammar
//
//	query   : clause+ ;
//	clause  : ( "+" | "-" )? term ;
//	term    : WORD | PREFIX | PHRASE ;
//
//	WORD    : [letter digit _] [letter digit _ - ' .]* ;
//	PREFIX  : WORD "*" ;
//	PHRASE  : '"' .+? '"' ;
//
// A '+' term is required, a '-' term excludes records containing it, and an
// unprefixed term is optional: when no term is required, at least one optional
// term has to match.
//
// Operators must be attached to their term ("+ word" is a dangling operator),
// a wildcard must end a term, and phrases must be closed and non-empty.
//
// A parsed Query renders two ways:
//
//	q, _ := search.Parse(`+evidence -retracted "peer review" clin*`)
//	q.Boolean()    // +evidence -retracted "peer review" clin*
//	q.Normalized() // "+evidence\t-retracted\t~peer review\t~clin"
//
// Boolean feeds MATCH ... AGAINST (... IN BOOLEAN MODE); Normalized feeds the
// ft_boolean_match macro installed with the embedded schema.
package search
