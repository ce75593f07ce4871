// Command produkta browses and exports the ProdukTa directory from the terminal
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/iloilo-msme/produkta/internal/client"
	"github.com/iloilo-msme/produkta/internal/export"
	"github.com/iloilo-msme/produkta/internal/listing"
	"github.com/iloilo-msme/produkta/internal/logging"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/portal"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	apiURL  string
	token   string
	timeout time.Duration
}

type listOptions struct {
	sectors   []int64
	locations []string
	search    string
	sort      string
	dir       string
	page      int
	perPage   int
	all       bool
	json      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "produkta",
		Short:        "Browse and export the ProdukTa MSME directory",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api", envOrDefault("PRODUKTA_API_URL", "http://localhost:8080"), "ProdukTa API base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("PRODUKTA_TOKEN"), "Bearer token for admin endpoints")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Overall command timeout")

	root.AddCommand(newSectorsCmd(opts), newListCmd(opts), newExportCmd(opts))
	return root
}

func (o *rootOptions) client() *client.Client {
	var opts []client.Option
	if o.token != "" {
		opts = append(opts, client.WithToken(o.token))
	}
	return client.New(o.apiURL, opts...)
}

func newSectorsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "sectors",
		Short: "List business sectors",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			sectors, err := opts.client().ListSectors(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), sectors)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME")
			for _, s := range sectors {
				fmt.Fprintf(tw, "%d\t%s\n", s.ID, s.Name)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	lo := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List MSMEs matching the given filters",
		Long: `Lists one page of the directory.

Examples:
  produkta list --sector 2 --sort company_name
  produkta list --location Oton --location Miagao -q weaves
  produkta list --all --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			view, err := lo.view(ctx, opts.client())
			if err != nil {
				return err
			}
			res := view.State().Result()
			if lo.json {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			return writeTable(cmd.OutOrStdout(), res, view.State().SectorNames())
		},
	}
	lo.bind(cmd)
	cmd.Flags().BoolVar(&lo.json, "json", false, "Output as JSON")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	lo := &listOptions{}
	var (
		format string
		ids    []int64
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export MSMEs as CSV or PDF",
		Long: `Exports the given ids, or the page selected by the filters when no ids are given.

Examples:
  produkta export --format csv --ids 1,2,3
  produkta export --format pdf --sector 2 --all -o coffee.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			c := opts.client()
			var visible []int64
			if len(ids) == 0 {
				view, err := lo.view(ctx, c)
				if err != nil {
					return err
				}
				visible = view.VisibleIDs()
			}

			data, err := c.Export(ctx, f, ids, visible)
			if errors.Is(err, models.ErrNothingToExport) {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to export")
				return nil
			}
			if err != nil {
				return err
			}

			if output == "" {
				output = f.Filename()
			}
			if output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", output, len(data))
			return nil
		},
	}
	lo.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatCSV), "Export format: csv or pdf")
	cmd.Flags().Int64SliceVar(&ids, "ids", nil, "MSME ids to export")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout (default msme_data.<format>)")
	return cmd
}

func (lo *listOptions) bind(cmd *cobra.Command) {
	cmd.Flags().Int64SliceVar(&lo.sectors, "sector", nil, "Sector id filter (repeatable)")
	cmd.Flags().StringArrayVar(&lo.locations, "location", nil, "City/municipality filter (repeatable)")
	cmd.Flags().StringVarP(&lo.search, "query", "q", "", "Search term")
	cmd.Flags().StringVar(&lo.sort, "sort", "", "Sort column")
	cmd.Flags().StringVar(&lo.dir, "dir", string(listing.DirAsc), "Sort direction: asc or desc")
	cmd.Flags().IntVar(&lo.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&lo.perPage, "per-page", listing.DefaultPageSize, fmt.Sprintf("Items per page (at most %d)", listing.MaxPageSize))
	cmd.Flags().BoolVar(&lo.all, "all", false, "Show every matching record on one page")
}

// view loads sectors and the requested page through a list view over c
func (lo *listOptions) view(ctx context.Context, c *client.Client) (*portal.ListView, error) {
	if lo.sort != "" && !listing.IsSortColumn(lo.sort) {
		return nil, fmt.Errorf("unknown sort column %q", lo.sort)
	}

	view := portal.NewListView(ctx, c, portal.NewState(), logging.Logger)
	if err := view.LoadSectors(ctx); err != nil {
		return nil, err
	}

	// the panel refreshes on every change, so the state is built before refreshing once
	panel := listing.NewFilterPanel(lo.query())
	panel.OnChange = view.Filters.OnChange
	view.Filters = panel
	if err := view.Refresh(ctx); err != nil {
		return nil, err
	}
	return view, nil
}

func (lo *listOptions) query() listing.Query {
	q := listing.DefaultQuery()
	q.Sectors = append(q.Sectors, lo.sectors...)
	q.Locations = append(q.Locations, lo.locations...)
	q.Search = strings.TrimSpace(lo.search)
	if lo.sort != "" {
		q.Sort = listing.SortSpec{Column: lo.sort, Direction: listing.ParseDirection(lo.dir)}
	}
	q.Page = lo.page
	q.PageSize = min(lo.perPage, listing.MaxPageSize)
	q.ShowAll = lo.all
	return q.Normalized()
}

func writeTable(w io.Writer, res listing.Result, sectors map[int64]string) error {
	if res.Empty {
		_, err := fmt.Fprintln(w, "No businesses match the selected filters.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPANY\tSECTOR\tLOCATION\tCONTACT\tVISITS")
	for _, m := range res.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n", m.ID, m.CompanyName, sectors[m.SectorID], m.CityMunicipality, m.ContactPerson, m.Visits)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d of %d, %d total\n", res.Page, res.TotalPages, res.Total)
	return err
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOrDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
