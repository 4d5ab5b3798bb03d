package query

// Page is the envelope returned by every filtered list operation. It is derived
// from the COUNT result, the SELECT rows and the requested Pageable only.
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	HasNext          bool  `json:"hasNext"`
	HasPrevious      bool  `json:"hasPrevious"`
	Empty            bool  `json:"empty"`
	HasContent       bool  `json:"hasContent"`
}

// NewPage builds the envelope for content fetched with pageable out of total matching rows.
// An unpaged request is reported as a single page sized to its content.
func NewPage[T any](content []T, pageable Pageable, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	p := Page[T]{
		Content:          content,
		TotalElements:    total,
		NumberOfElements: len(content),
		Empty:            len(content) == 0,
		HasContent:       len(content) > 0,
	}

	if pageable.IsPaged() {
		p.Number = pageable.Page
		p.Size = pageable.Size
		p.TotalPages = int((total + int64(pageable.Size) - 1) / int64(pageable.Size))
		p.HasNext = int64(pageable.Page+1)*int64(pageable.Size) < total
		p.HasPrevious = pageable.Page > 0
	} else {
		p.Size = len(content)
		p.TotalPages = 1
	}

	p.First = !p.HasPrevious
	p.Last = !p.HasNext
	return p
}

// MapPage converts the content of a page, keeping its paging metadata.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	content := make([]U, 0, len(p.Content))
	for _, t := range p.Content {
		content = append(content, fn(t))
	}
	return Page[U]{
		Content:          content,
		TotalElements:    p.TotalElements,
		TotalPages:       p.TotalPages,
		Number:           p.Number,
		Size:             p.Size,
		NumberOfElements: p.NumberOfElements,
		First:            p.First,
		Last:             p.Last,
		HasNext:          p.HasNext,
		HasPrevious:      p.HasPrevious,
		Empty:            p.Empty,
		HasContent:       p.HasContent,
	}
}
