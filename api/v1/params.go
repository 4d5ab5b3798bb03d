package v1

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/evidentia/evidence-store/internal/models"
	srvErrors "github.com/evidentia/evidence-store/pkg/errors"
	"github.com/evidentia/evidence-store/pkg/query"
)

// binder reads optional form-style query parameters, keeping the first failure.
type binder struct {
	q   url.Values
	err error
}

func newBinder(q url.Values) *binder {
	return &binder{q: q}
}

func (b *binder) bind(name string, dest any) {
	if b.err != nil {
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, name, b.q, dest); err != nil {
		b.err = srvErrors.NewInvalidArgumentError(name, err.Error())
	}
}

func (b *binder) integer(name string) *int64 {
	var v *int64
	b.bind(name, &v)
	return v
}

func (b *binder) flag(name string) bool {
	var v *bool
	b.bind(name, &v)
	return v != nil && *v
}

func (b *binder) text(name string) string {
	var v *string
	b.bind(name, &v)
	if v == nil {
		return ""
	}
	return *v
}

func (b *binder) instant(name string) *time.Time {
	var v *time.Time
	b.bind(name, &v)
	return v
}

func (b *binder) list(name string) []string {
	var v *[]string
	b.bind(name, &v)
	if v == nil {
		return nil
	}
	// status=DRA,PUB and status=DRA&status=PUB are both accepted
	var out []string
	for _, s := range *v {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (b *binder) statuses(name string) []models.Status {
	var out []models.Status
	for _, s := range b.list(name) {
		st, err := models.ParseStatus(s)
		if err != nil {
			b.fail(name, err)
			return nil
		}
		out = append(out, st)
	}
	return out
}

func (b *binder) kind(name string) *models.EntityKind {
	s := b.text(name)
	if s == "" {
		return nil
	}
	k, err := models.ParseEntityKind(s)
	if err != nil {
		b.fail(name, err)
		return nil
	}
	return &k
}

func (b *binder) transactionKinds(name string) []models.TransactionKind {
	var out []models.TransactionKind
	for _, s := range b.list(name) {
		k, err := models.ParseTransactionKind(s)
		if err != nil {
			b.fail(name, err)
			return nil
		}
		out = append(out, k)
	}
	return out
}

func (b *binder) fail(name string, err error) {
	if b.err == nil {
		b.err = srvErrors.NewInvalidArgumentError(name, err.Error())
	}
}

func BindTrackedFilter(q url.Values) (*models.TrackedFilter, error) {
	b := newBinder(q)
	f := &models.TrackedFilter{
		ID:             b.integer("id"),
		Status:         b.statuses("status"),
		Text:           b.text("text"),
		Advanced:       b.flag("advanced"),
		TopicID:        b.integer("topicId"),
		Recursive:      b.flag("recursive"),
		FromEntityKind: b.kind("fromEntityKind"),
		FromEntityID:   b.integer("fromEntityId"),
		ToEntityKind:   b.kind("toEntityKind"),
		ToEntityID:     b.integer("toEntityId"),
	}
	return f, b.err
}

func BindReferenceFilter(q url.Values) (*models.ReferenceFilter, error) {
	b := newBinder(q)
	f := &models.ReferenceFilter{
		ID:          b.integer("id"),
		Status:      b.statuses("status"),
		Text:        b.text("text"),
		Advanced:    b.flag("advanced"),
		PublisherID: b.integer("publisherId"),
	}
	return f, b.err
}

func BindTopicFilter(q url.Values) (*models.TopicFilter, error) {
	b := newBinder(q)
	f := &models.TopicFilter{
		ID:        b.integer("id"),
		Status:    b.statuses("status"),
		Text:      b.text("text"),
		Advanced:  b.flag("advanced"),
		ParentID:  b.integer("parentId"),
		Recursive: b.flag("recursive"),
	}
	return f, b.err
}

func BindEntityLinkFilter(q url.Values) (*models.EntityLinkFilter, error) {
	b := newBinder(q)
	f := &models.EntityLinkFilter{
		ID:             b.integer("id"),
		Status:         b.statuses("status"),
		Text:           b.text("text"),
		Advanced:       b.flag("advanced"),
		FromEntityKind: b.kind("fromEntityKind"),
		FromEntityID:   b.integer("fromEntityId"),
		ToEntityKind:   b.kind("toEntityKind"),
		ToEntityID:     b.integer("toEntityId"),
	}
	return f, b.err
}

func BindTopicRefFilter(q url.Values) (*models.TopicRefFilter, error) {
	b := newBinder(q)
	f := &models.TopicRefFilter{
		ID:               b.integer("id"),
		Status:           b.statuses("status"),
		TopicID:          b.integer("topicId"),
		Recursive:        b.flag("recursive"),
		MasterEntityKind: b.kind("masterEntityKind"),
		MasterEntityID:   b.integer("masterEntityId"),
	}
	return f, b.err
}

func BindLogFilter(q url.Values) (*models.LogFilter, error) {
	b := newBinder(q)
	f := &models.LogFilter{
		ID:              b.integer("id"),
		EntityKind:      b.kind("entityKind"),
		EntityID:        b.integer("entityId"),
		UserID:          b.integer("userId"),
		TransactionKind: b.transactionKinds("transactionKind"),
		From:            b.instant("from"),
		To:              b.instant("to"),
		Text:            b.text("text"),
		Advanced:        b.flag("advanced"),
	}
	return f, b.err
}

func BindStatisticsFilter(q url.Values) (*models.StatisticsFilter, error) {
	b := newBinder(q)
	f := &models.StatisticsFilter{
		Status:    b.statuses("status"),
		TopicID:   b.integer("topicId"),
		Recursive: b.flag("recursive"),
	}
	return f, b.err
}

// PageDefaults bounds the paging parameters of list requests.
type PageDefaults struct {
	Size    int
	MaxSize int
}

// BindPageable reads page (zero based), size and any number of sort parameters.
// A missing size falls back to the default and sizes above the maximum are capped.
// unpaged=true returns every match and is only honoured when no size is given.
func BindPageable(q url.Values, d PageDefaults) (query.Pageable, error) {
	b := newBinder(q)
	var page, size *int
	b.bind("page", &page)
	b.bind("size", &size)
	unpaged := b.flag("unpaged")
	var sorts *[]string
	b.bind("sort", &sorts)
	if b.err != nil {
		return query.Pageable{}, b.err
	}

	p := query.Pageable{}
	if page != nil {
		if *page < 0 {
			return query.Pageable{}, srvErrors.NewInvalidArgumentError("page", "must not be negative")
		}
		p.Page = *page
	}

	switch {
	case size != nil:
		if *size < 1 {
			return query.Pageable{}, srvErrors.NewInvalidArgumentError("size", "must be at least 1")
		}
		p.Size = *size
	case !unpaged:
		p.Size = d.Size
	}
	if d.MaxSize > 0 && p.Size > d.MaxSize {
		p.Size = d.MaxSize
	}
	if !p.IsPaged() {
		p.Page = 0
	}

	var terms []string
	if sorts != nil {
		terms = *sorts
	}
	order, err := ParseSort(terms)
	if err != nil {
		return query.Pageable{}, err
	}
	p.Sort = order
	return p, nil
}

// ParseSort parses sort terms of the form property[,asc|desc][,nullsFirst|nullsLast][,ignoreCase].
func ParseSort(terms []string) ([]query.Order, error) {
	var out []query.Order
	for _, term := range terms {
		parts := strings.Split(term, ",")
		prop := strings.TrimSpace(parts[0])
		if prop == "" {
			return nil, srvErrors.NewInvalidArgumentError("sort", fmt.Sprintf("missing property in %q", term))
		}
		o := query.SortBy(prop)
		for _, opt := range parts[1:] {
			switch strings.ToLower(strings.TrimSpace(opt)) {
			case "asc":
				o = o.Asc()
			case "desc":
				o = o.Desc()
			case "nullsfirst":
				o = o.NullsFirst()
			case "nullslast":
				o = o.NullsLast()
			case "ignorecase":
				o = o.IgnoringCase()
			default:
				return nil, srvErrors.NewInvalidArgumentError("sort", fmt.Sprintf("invalid option %q in %q", opt, term))
			}
		}
		out = append(out, o)
	}
	return out, nil
}
