// Package main provides the xlrw command line: dump sheets as records,
// copy row blocks inside a workbook and convert workbooks to .xlsx.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/javajack/xlrw"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	sheetName string
	verbose   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "xlrw",
		Short:         "Read, write and rewrite spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&sheetName, "sheet", "", "Sheet to use (default: active sheet)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug events to stderr")

	rootCmd.AddCommand(dumpCmd(), copyCmd(), convertCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

func options() []xlrw.Option {
	opts := []xlrw.Option{xlrw.WithLogger(logger())}
	if sheetName != "" {
		opts = append(opts, xlrw.WithSheet(sheetName))
	}
	return opts
}

func dumpCmd() *cobra.Command {
	var (
		headerRow int
		where     string
		format    string
	)
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the rows under a header row as records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := xlrw.OpenExcelReader(args[0], options()...)
			if err != nil {
				return err
			}
			defer r.Close()

			var filter *xlrw.RowFilter
			if where != "" {
				if filter, err = xlrw.CompileFilter(where); err != nil {
					return err
				}
			}
			var records []*xlrw.Record
			if filter == nil {
				for rec := range r.Records(headerRow - 1) {
					records = append(records, rec)
				}
			} else {
				for rec, err := range r.Filter(headerRow-1, filter) {
					if err != nil {
						return err
					}
					records = append(records, rec)
				}
			}
			return writeRecords(cmd.OutOrStdout(), records, format)
		},
	}
	cmd.Flags().IntVar(&headerRow, "header-row", 1, "Row number holding the column labels")
	cmd.Flags().StringVar(&where, "where", "", `Filter expression, e.g. 'amount > 100 && row["Customer Name"] != ""'`)
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")
	return cmd
}

func writeRecords(out io.Writer, records []*xlrw.Record, format string) error {
	switch format {
	case "json":
		rows := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			rows = append(rows, rec.Map())
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		doc := &yaml.Node{Kind: yaml.SequenceNode}
		for _, rec := range records {
			node, err := recordNode(rec)
			if err != nil {
				return err
			}
			doc.Content = append(doc.Content, node)
		}
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(doc)
	}
	return fmt.Errorf("invalid format: %s (must be yaml or json)", format)
}

// recordNode keeps the column order of a record, which a map would lose.
func recordNode(rec *xlrw.Record) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, label := range rec.Labels() {
		v := rec.Values()[i]
		if t, ok := v.(time.Time); ok {
			v = t.Format(time.DateTime)
		}
		value := &yaml.Node{}
		if err := value.Encode(v); err != nil {
			return nil, fmt.Errorf("encode %q on row %d: %w", label, rec.Row, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: label}, value)
	}
	return node, nil
}

func copyCmd() *cobra.Command {
	var (
		from, last, to, repeat int
		output                 string
		noFormulas             bool
	)
	cmd := &cobra.Command{
		Use:   "copy FILE",
		Short: "Copy a block of rows to another position, repeatedly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if last == 0 {
				last = from
			}
			w, err := xlrw.OpenExcelRewriter(args[0], options()...)
			if err != nil {
				return err
			}
			defer w.Close()

			policy := xlrw.DefaultCopyPolicy()
			policy.CopyFormula = !noFormulas
			if err := w.CopyRows(from-1, last-1, to-1, repeat, policy); err != nil {
				return err
			}
			if output == "" {
				return w.Save()
			}
			return w.SaveAs(output)
		},
	}
	cmd.Flags().IntVar(&from, "from", 1, "First source row number")
	cmd.Flags().IntVar(&last, "last", 0, "Last source row number (default: --from)")
	cmd.Flags().IntVar(&to, "to", 0, "Destination row number")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "Number of copies")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: rewrite FILE)")
	cmd.Flags().BoolVar(&noFormulas, "values-only", false, "Copy cached values instead of formulas")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func convertCmd() *cobra.Command {
	var window int
	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Stream every sheet of a workbook into a new .xlsx",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := convert(args[0], args[1], window)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", args[1], humanize.Bytes(uint64(n)))
			return nil
		},
	}
	cmd.Flags().IntVar(&window, "window", 100, "Rows kept in memory while streaming")
	return cmd
}

// convert copies values and formulas of every sheet of in to out and
// returns the size of out.
func convert(in, out string, window int) (int64, error) {
	r, err := xlrw.OpenExcelReader(in, xlrw.WithLogger(logger()))
	if err != nil {
		return 0, err
	}
	defer r.Close()

	sheets := r.Sheets()
	if sheetName != "" {
		sheets = []string{sheetName}
	}
	if len(sheets) == 0 {
		return 0, fmt.Errorf("%s has no sheets", in)
	}
	w, err := xlrw.NewSSheetWriter(xlrw.WithSheet(sheets[0]), xlrw.WithWindowSize(window), xlrw.WithLogger(logger()))
	if err != nil {
		return 0, err
	}
	defer w.Close()

	for _, name := range sheets {
		if err := r.UseSheet(name); err != nil {
			return 0, err
		}
		if err := w.UseSheet(name); err != nil {
			return 0, err
		}
		for r.Next() {
			cells := make([]xlrw.Cell, r.LastColumnIndex()+1)
			for col := range cells {
				cells[col] = r.Cell(col).ReadCell().WithStyle(xlrw.NoStyle)
			}
			if err := w.WriteRow(r.RowIndex(), cells...); err != nil {
				return 0, fmt.Errorf("sheet %q: %w", name, err)
			}
		}
	}
	if err := w.SaveAs(out); err != nil {
		return 0, err
	}
	info, err := os.Stat(out)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
