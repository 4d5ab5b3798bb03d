// Package query compiles record filters into parameterized SQL and pages the results.
//
// Every list operation of the store runs through one generic Engine configured by
// a Category: the base table, the ordered predicate vocabulary, the sortable
// properties and the record scanner.
//
// # Request Flow
//
//	(filter, pageable)
//	       │
//	       ▼
//	┌──────────────┐  anonymous caller on a secured category
//	│  Classify    │──────────────► status := {published}
//	└──────┬───────┘
//	       │ Shape (active predicate tokens + sort tokens)
//	       ▼
//	┌──────────────┐   miss    ┌──────────┐
//	│ Cache lookup │──────────►│ Compose  │──► register (COUNT, SELECT)
//	└──────┬───────┘           └──────────┘
//	       │ hit
//	       ▼
//	┌──────────────┐
//	│ Bind + page  │──► COUNT, then SELECT [LIMIT ? OFFSET ?]
//	└──────┬───────┘
//	       ▼
//	    Page[T]
//
// # Shape Keys
//
// A shape key lists the active predicate tokens in declared order, with their
// variant ("text:advanced", "parent:recursive"), followed by the sort tokens:
//
//	topic|status,parent:recursive|label:ASC:NATIVE;id:ASC:NATIVE
//
// Values never enter the key, so "status in (PUB)" and "status in (PUB, DRA)"
// share one compiled pair: collection parameters are expanded when bound. The
// COUNT statement is keyed without the sort and is shared by all sort variants.
//
// # Composition Order
//
//	1. WITH RECURSIVE over the hierarchy table      (recursive shapes)
//	2. FROM base table and base joins
//	3. association joins of link predicates
//	4. user joins for username sort                 (SELECT only)
//	5. full-text index join                         (IndexJoin strategy)
//	6. WHERE, active predicates AND-joined in declared order
//	7. ORDER BY                                     (SELECT only)
//
// An active exact id predicate suppresses every other predicate.
//
// # Full-Text Strategies
//
// The Dialect fixes the strategy for the process:
//
//	IndexJoin     JOIN fulltext_index ft ON ft.table_name = 'claim'
//	                AND ft.entity_id = c.id AND contains(ft.content, lower(:text))
//	MatchAgainst  WHERE MATCH (c.text, c.notes) AGAINST (:text IN BOOLEAN MODE)
//
// Paged shapes joining an index get the primary key appended as a final sort term
// unless a sort term already references it, so pages don't overlap.
package query
