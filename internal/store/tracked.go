package store

import (
	"github.com/evidentia/evidence-store/internal/models"
	srvErrors "github.com/evidentia/evidence-store/pkg/errors"
	"github.com/evidentia/evidence-store/pkg/query"
)

var (
	claimTable = recordTable[models.Claim]{
		category:  "claim",
		kind:      models.EntityKindClaim,
		table:     "claim",
		alias:     "c",
		columns:   []string{"text", "date", "notes"},
		fulltext:  []string{"text", "notes"},
		sorts:     []string{"date"},
		textSorts: []string{"text"},
		dest: func(c *models.Claim) []any {
			return append(entityDest(&c.Entity), &c.Text, &c.Date, &c.Notes)
		},
	}

	declarationTable = recordTable[models.Declaration]{
		category:  "declaration",
		kind:      models.EntityKindDeclaration,
		table:     "declaration",
		alias:     "d",
		columns:   []string{"title", "date", "url", "notes"},
		fulltext:  []string{"title", "notes"},
		sorts:     []string{"date"},
		textSorts: []string{"title"},
		dest: func(d *models.Declaration) []any {
			return append(entityDest(&d.Entity), &d.Title, &d.Date, &d.URL, &d.Notes)
		},
	}

	personTable = recordTable[models.Person]{
		category:  "person",
		kind:      models.EntityKindPerson,
		table:     "person",
		alias:     "p",
		columns:   []string{"title", "first_name", "last_name", "alias", "notes"},
		fulltext:  []string{"title", "first_name", "last_name", "alias", "notes"},
		textSorts: []string{"title", "firstName", "lastName", "alias"},
		dest: func(p *models.Person) []any {
			return append(entityDest(&p.Entity), &p.Title, &p.FirstName, &p.LastName, &p.Alias, &p.Notes)
		},
	}

	publicationTable = recordTable[models.Publication]{
		category:  "publication",
		kind:      models.EntityKindPublication,
		table:     "publication",
		alias:     "pb",
		columns:   []string{"title", "authors", "journal_id", "year", "doi", "url", "abstract", "notes"},
		fulltext:  []string{"title", "authors", "abstract", "notes"},
		sorts:     []string{"journalId", "year"},
		textSorts: []string{"title", "authors", "doi"},
		dest: func(p *models.Publication) []any {
			return append(entityDest(&p.Entity), &p.Title, &p.Authors, &p.JournalID, &p.Year, &p.DOI, &p.URL, &p.Abstract, &p.Notes)
		},
	}

	quotationTable = recordTable[models.Quotation]{
		category:  "quotation",
		kind:      models.EntityKindQuotation,
		table:     "quotation",
		alias:     "q",
		columns:   []string{"text", "quotee", "quoted", "source", "url", "notes"},
		fulltext:  []string{"text", "quotee", "source", "notes"},
		textSorts: []string{"quotee", "quoted", "source"},
		dest: func(q *models.Quotation) []any {
			return append(entityDest(&q.Entity), &q.Text, &q.Quotee, &q.Quoted, &q.Source, &q.URL, &q.Notes)
		},
	}

	userTable = recordTable[models.User]{
		category:  "user",
		kind:      models.EntityKindUser,
		table:     "users",
		alias:     "u",
		columns:   []string{"username", "first_name", "last_name", "email"},
		fulltext:  []string{"username", "first_name", "last_name", "email"},
		textSorts: []string{"username", "firstName", "lastName", "email"},
		dest: func(u *models.User) []any {
			return append(entityDest(&u.Entity), &u.Username, &u.FirstName, &u.LastName, &u.Email)
		},
	}
)

// trackedCategory serves claims, declarations, persons, publications, quotations and users.
func trackedCategory[T any](r recordTable[T]) *query.Category[models.TrackedFilter, T] {
	predicates := []query.Predicate[models.TrackedFilter]{
		idPredicate(r.key()+" = :id", func(f *models.TrackedFilter) *int64 { return f.ID }),
		statusPredicate("e.status", func(f *models.TrackedFilter) []models.Status { return f.Status }),
		query.FullText(func(f *models.TrackedFilter) (string, bool) { return f.Text, f.Advanced }),
		topicPredicate("e.id", func(f *models.TrackedFilter) (*int64, bool) { return f.TopicID, f.Recursive }),
		linkPredicate(linkedFrom, func(f *models.TrackedFilter) (*models.EntityKind, *int64) {
			return f.FromEntityKind, f.FromEntityID
		}),
		linkPredicate(linkedTo, func(f *models.TrackedFilter) (*models.EntityKind, *int64) {
			return f.ToEntityKind, f.ToEntityID
		}),
	}
	return newRecordCategory(r, predicates,
		func(f *models.TrackedFilter) { f.Status = models.Published() },
		validateTrackedFilter)
}

func validateTrackedFilter(f *models.TrackedFilter) error {
	from := f.FromEntityKind != nil || f.FromEntityID != nil
	to := f.ToEntityKind != nil || f.ToEntityID != nil
	if from && to {
		return srvErrors.NewInvalidArgumentError("", "linked from and linked to predicates are exclusive")
	}
	return nil
}
