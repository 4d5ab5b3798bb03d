package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v1 "github.com/evidentia/evidence-store/api/v1"
	"github.com/evidentia/evidence-store/internal/config"
	"github.com/evidentia/evidence-store/internal/services"
	"github.com/evidentia/evidence-store/pkg/export"
)

func NewExportCommand(cfg *config.Configuration) *cobra.Command {
	var (
		req    requestFlags
		output string
	)

	exportCmd := &cobra.Command{
		Use:   "export <category>...",
		Short: "Write the records matching a filter to an XLSX workbook, one sheet per category",
		Example: `  evidence-store export claims declarations -f status=PUB --unpaged -o published.xlsx
  evidence-store export topics -f parentId=7 -f recursive=true --unpaged`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.S().Named("export")

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

			records := services.NewRecordService(st)

			sheets := make([]export.Sheet, 0, len(args))
			for _, name := range args {
				page, err := records.List(ctx, name, q, pageable)
				if err != nil {
					return fmt.Errorf("listing %s: %w", name, err)
				}
				sheets = append(sheets, export.Sheet{Name: name, Rows: page.Content})
				logger.Infow("exporting", "category", name, "rows", page.NumberOfElements, "total", page.TotalElements)
			}

			if output == "" {
				output = args[0] + ".xlsx"
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()

			if err := export.Write(f, sheets...); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}

	req.register(exportCmd)
	registerQueryFlags(exportCmd, cfg)
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Workbook path, <category>.xlsx when unset")
	return exportCmd
}
