package query

import (
	"fmt"
	"strings"

	srvErrors "github.com/evidentia/evidence-store/pkg/errors"
)

// Direction is the sort direction of an Order.
type Direction string

const (
	DirectionAsc  Direction = "ASC"
	DirectionDesc Direction = "DESC"
)

// ParseDirection accepts "asc" or "desc" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ASC":
		return DirectionAsc, nil
	case "DESC":
		return DirectionDesc, nil
	default:
		return "", srvErrors.NewInvalidArgumentError("sort", fmt.Sprintf("invalid direction %q, must be 'asc' or 'desc'", s))
	}
}

// NullHandling controls where NULL values sort.
type NullHandling string

const (
	// NullsNative leaves NULL placement to the store.
	NullsNative NullHandling = "NATIVE"
	NullsFirst  NullHandling = "NULLS_FIRST"
	NullsLast   NullHandling = "NULLS_LAST"
)

// Order is a single sort term.
type Order struct {
	Property   string
	Direction  Direction
	Nulls      NullHandling
	IgnoreCase bool
}

// SortBy returns an ascending Order on property with native null handling.
func SortBy(property string) Order {
	return Order{Property: property, Direction: DirectionAsc, Nulls: NullsNative}
}

func (o Order) Asc() Order {
	o.Direction = DirectionAsc
	return o
}

func (o Order) Desc() Order {
	o.Direction = DirectionDesc
	return o
}

func (o Order) NullsFirst() Order {
	o.Nulls = NullsFirst
	return o
}

func (o Order) NullsLast() Order {
	o.Nulls = NullsLast
	return o
}

func (o Order) IgnoringCase() Order {
	o.IgnoreCase = true
	return o
}

func (o Order) normalized() Order {
	if o.Direction == "" {
		o.Direction = DirectionAsc
	}
	if o.Nulls == "" {
		o.Nulls = NullsNative
	}
	return o
}

// token is the Order's contribution to a shape key. Property is validated as an
// identifier before a token is built, so ':' and ';' can't appear inside it.
func (o Order) token() string {
	o = o.normalized()
	t := o.Property + ":" + string(o.Direction) + ":" + string(o.Nulls)
	if o.IgnoreCase {
		t += ":ci"
	}
	return t
}

func (o Order) validate() error {
	if !isIdentifier(o.Property) {
		return srvErrors.NewInvalidArgumentError("sort", fmt.Sprintf("invalid property %q", o.Property))
	}
	switch o.normalized().Direction {
	case DirectionAsc, DirectionDesc:
	default:
		return srvErrors.NewInvalidArgumentError("sort", fmt.Sprintf("invalid direction %q", o.Direction))
	}
	switch o.normalized().Nulls {
	case NullsNative, NullsFirst, NullsLast:
	default:
		return srvErrors.NewInvalidArgumentError("sort", fmt.Sprintf("invalid null handling %q", o.Nulls))
	}
	return nil
}

// Pageable is the requested page, page size and sort order. Page is zero based;
// a Size of zero means unpaged.
type Pageable struct {
	Page int
	Size int
	Sort []Order
}

// Unpaged returns a Pageable without paging, optionally sorted.
func Unpaged(sort ...Order) Pageable {
	return Pageable{Sort: sort}
}

// PageOf returns a Pageable for the zero based page of the given size.
func PageOf(page, size int, sort ...Order) Pageable {
	return Pageable{Page: page, Size: size, Sort: sort}
}

func (p Pageable) IsPaged() bool {
	return p.Size > 0
}

// Offset is the number of rows skipped before the page starts.
func (p Pageable) Offset() int64 {
	if !p.IsPaged() {
		return 0
	}
	return int64(p.Page) * int64(p.Size)
}

// Validate rejects negative paging values and malformed sort terms.
func (p Pageable) Validate() error {
	if p.Page < 0 {
		return srvErrors.NewInvalidArgumentError("page", "must not be negative")
	}
	if p.Size < 0 {
		return srvErrors.NewInvalidArgumentError("size", "must not be negative")
	}
	for _, o := range p.Sort {
		if err := o.validate(); err != nil {
			return err
		}
	}
	return nil
}

// sortsBy reports whether any sort term references property.
func (p Pageable) sortsBy(property string) bool {
	for _, o := range p.Sort {
		if o.Property == property {
			return true
		}
	}
	return false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
