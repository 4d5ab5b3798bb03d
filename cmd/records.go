package cmd

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// requestFlags are the query parameters of an API list request given on the
// command line.
type requestFlags struct {
	filters   []string
	sort      []string
	page      int
	size      int
	unpaged   bool
	anonymous bool
}

func (r *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&r.filters, "filter", "f", nil, "Filter parameter as name=value, repeatable")
	cmd.Flags().StringArrayVar(&r.sort, "sort", nil, "Sort term as property[,asc|desc][,nullsFirst|nullsLast][,ignoreCase], repeatable")
	cmd.Flags().IntVar(&r.page, "page", 0, "Zero based page number")
	cmd.Flags().IntVar(&r.size, "size", 0, "Page size, the configured default when unset")
	cmd.Flags().BoolVar(&r.unpaged, "unpaged", false, "Return every matching record")
	cmd.Flags().BoolVar(&r.anonymous, "anonymous", false, "Run as an anonymous caller")
}

// values renders the flags the way the HTTP API receives them.
func (r *requestFlags) values() (url.Values, error) {
	q := url.Values{}
	for _, f := range r.filters {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid filter %q, expected name=value", f)
		}
		q.Add(strings.TrimSpace(name), value)
	}

	for _, s := range r.sort {
		q.Add("sort", s)
	}
	if r.page != 0 {
		q.Set("page", strconv.Itoa(r.page))
	}
	if r.size != 0 {
		q.Set("size", strconv.Itoa(r.size))
	}
	if r.unpaged {
		q.Set("unpaged", "true")
	}
	return q, nil
}
