package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	v1 "github.com/evidentia/evidence-store/api/v1"
	"github.com/evidentia/evidence-store/internal/config"
	"github.com/evidentia/evidence-store/internal/services"
)

func NewExplainCommand(cfg *config.Configuration) *cobra.Command {
	var req requestFlags

	explainCmd := &cobra.Command{
		Use:   "explain <category>",
		Short: "Print the COUNT and SELECT statements serving a list request",
		Example: `  evidence-store explain claims -f topicId=7 -f recursive=true --sort text,desc
  evidence-store explain logs -f userId=3 -f from=2024-01-01T00:00:00Z --anonymous`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := req.values()
			if err != nil {
				return err
			}

			pageable, err := v1.BindPageable(q, v1.PageDefaults{Size: cfg.Query.DefaultPageSize, MaxSize: cfg.Query.MaxPageSize})
			if err != nil {
				return err
			}

			ctx := cliContext(cmd.Context(), req.anonymous)
			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			cat, err := services.NewRecordService(st).Category(args[0])
			if err != nil {
				return err
			}

			e, err := cat.Explain(ctx, q, pageable)
			if err != nil {
				return err
			}

			printExplanation(cmd.OutOrStdout(), e)
			return nil
		},
	}

	req.register(explainCmd)
	registerQueryFlags(explainCmd, cfg)
	return explainCmd
}

func printExplanation(w io.Writer, e *services.Explanation) {
	title := color.New(color.FgCyan, color.Bold)
	key := color.New(color.FgHiBlack)
	stmt := color.New(color.FgYellow)
	param := color.New(color.FgGreen)

	title.Fprintf(w, "%s (%s)\n", e.Category, e.Record)
	key.Fprintf(w, "shape %s\n\n", e.Key)

	title.Fprintln(w, "COUNT")
	key.Fprintf(w, "shape %s\n", e.CountKey)
	stmt.Fprintf(w, "%s\n\n", e.Count)

	title.Fprintln(w, "SELECT")
	stmt.Fprintf(w, "%s\n", e.Select)

	if len(e.Params) == 0 {
		return
	}

	names := make([]string, 0, len(e.Params))
	for n := range e.Params {
		names = append(names, n)
	}
	sort.Strings(names)

	fmt.Fprintln(w)
	title.Fprintln(w, "PARAMETERS")
	for _, n := range names {
		param.Fprintf(w, "  :%s", n)
		fmt.Fprintf(w, " = %v\n", e.Params[n])
	}
}
