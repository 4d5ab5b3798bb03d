package store

import (
	"github.com/evidentia/evidence-store/internal/models"
	"github.com/evidentia/evidence-store/pkg/query"
)

var (
	journalTable = recordTable[models.Journal]{
		category:  "journal",
		kind:      models.EntityKindJournal,
		table:     "journal",
		alias:     "j",
		columns:   []string{"title", "abbreviation", "issn", "publisher_id", "url", "notes"},
		fulltext:  []string{"title", "abbreviation", "notes"},
		sorts:     []string{"publisherId"},
		textSorts: []string{"title", "abbreviation", "issn"},
		dest: func(j *models.Journal) []any {
			return append(entityDest(&j.Entity), &j.Title, &j.Abbreviation, &j.ISSN, &j.PublisherID, &j.URL, &j.Notes)
		},
	}

	publisherTable = recordTable[models.Publisher]{
		category:  "publisher",
		kind:      models.EntityKindPublisher,
		table:     "publisher",
		alias:     "pr",
		columns:   []string{"name", "location", "country", "url", "notes"},
		fulltext:  []string{"name", "location", "notes"},
		textSorts: []string{"name", "location", "country"},
		dest: func(p *models.Publisher) []any {
			return append(entityDest(&p.Entity), &p.Name, &p.Location, &p.Country, &p.URL, &p.Notes)
		},
	}
)

// referenceCategory serves journals and publishers. Only journals reference a publisher.
func referenceCategory[T any](r recordTable[T]) *query.Category[models.ReferenceFilter, T] {
	predicates := []query.Predicate[models.ReferenceFilter]{
		idPredicate(r.key()+" = :id", func(f *models.ReferenceFilter) *int64 { return f.ID }),
		statusPredicate("e.status", func(f *models.ReferenceFilter) []models.Status { return f.Status }),
		query.FullText(func(f *models.ReferenceFilter) (string, bool) { return f.Text, f.Advanced }),
	}
	if r.kind == models.EntityKindJournal {
		predicates = append(predicates,
			int64Predicate("publisher", r.alias+".publisher_id", "publisherId",
				func(f *models.ReferenceFilter) *int64 { return f.PublisherID }))
	}
	return newRecordCategory(r, predicates,
		func(f *models.ReferenceFilter) { f.Status = models.Published() },
		nil)
}
