// Command menuctl inspects and exports menu plans outside the HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"menu-planner/config"
	"menu-planner/domain"
	"menu-planner/export"
	"menu-planner/fetch"
	"menu-planner/storage"
)

type rootOptions struct {
	catalogPath string
	draftPath   string
	redisConn   string
	dataDir     string
	debug       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "menuctl",
		Short:        "Inspect, preview and export weekly menu plans",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.debug {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.catalogPath, "catalog", "", "catalog YAML file (default: built-in catalog)")
	flags.StringVar(&opts.draftPath, "draft", "", "draft JSON file")
	flags.StringVar(&opts.redisConn, "redis", "", "redis connection string holding the shared draft")
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory with {section}Data.json prefill files")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newCatalogCmd(opts),
		newPreviewCmd(opts),
		newExportCmd(opts),
		newDraftCmd(opts),
	)
	return root
}

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the categories, colors and options of every section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := config.LoadCatalog(opts.catalogPath)
			if err != nil {
				return err
			}
			export.RenderCatalog(cmd.OutOrStdout(), catalog)
			return nil
		},
	}
}

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	var section, search string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the plan as console tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var only domain.MealSection
			if section != "" {
				s, err := domain.ParseSection(section)
				if err != nil {
					return err
				}
				only = s
			}
			board, err := opts.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			board.SetSearchTerm(search)
			return export.NewTable(cmd.OutOrStdout()).Export(cmd.Context(), previewSheets(board.View(), only))
		},
	}
	cmd.Flags().StringVar(&section, "section", "", "only print this section")
	cmd.Flags().StringVar(&search, "search", "", "only print rows matching this term")
	return cmd
}

// previewSheets projects the visible rows of the view. An empty section
// selects all of them.
func previewSheets(view domain.BoardView, only domain.MealSection) []domain.Sheet {
	sheets := make([]domain.Sheet, 0, len(view.Sections))
	for _, sv := range view.Sections {
		if only != "" && sv.Name != only {
			continue
		}
		sheet := domain.Sheet{Name: sv.Name.String(), Rows: make([]domain.Record, 0, len(sv.Rows))}
		for _, rv := range sv.Rows {
			rec := domain.ProjectRow(rv.Row)
			rec.Color = rv.Color
			sheet.Rows = append(sheet.Rows, rec)
		}
		sheets = append(sheets, sheet)
	}
	return sheets
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the plan to an xlsx workbook, one sheet per section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := opts.loadBoard(cmd.Context())
			if err != nil {
				return err
			}
			if err := board.ExportAll(cmd.Context(), export.XLSXFile{Path: out}); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "menu-plan.xlsx", "output workbook path")
	return cmd
}

func newDraftCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Move drafts between a local file and redis",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "push",
			Short: "Save the --draft file (and --data-dir prefill) to redis",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rc, err := opts.redisClient()
				if err != nil {
					return err
				}
				defer rc.Close()
				board, err := opts.localBoard(cmd.Context())
				if err != nil {
					return err
				}
				if err := board.SaveDraft(cmd.Context(), storage.NewRedisStore(rc)); err != nil {
					return fmt.Errorf("save draft: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "draft saved")
				return nil
			},
		},
		&cobra.Command{
			Use:   "pull",
			Short: "Write the draft stored in redis to the --draft file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if opts.draftPath == "" {
					return errors.New("--draft is required")
				}
				rc, err := opts.redisClient()
				if err != nil {
					return err
				}
				defer rc.Close()
				catalog, err := config.LoadCatalog(opts.catalogPath)
				if err != nil {
					return err
				}
				board := domain.NewBoard(catalog)
				if err := board.LoadDraft(cmd.Context(), storage.NewRedisStore(rc)); err != nil {
					return fmt.Errorf("load draft: %w", err)
				}
				if err := board.SaveDraft(cmd.Context(), storage.File{Path: opts.draftPath}); err != nil {
					return fmt.Errorf("write draft: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", opts.draftPath)
				return nil
			},
		},
	)
	return cmd
}

func (o *rootOptions) redisClient() (*redis.Client, error) {
	if o.redisConn == "" {
		return nil, errors.New("--redis is required")
	}
	redisOpts, err := config.ParseRedisOptions(o.redisConn)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(redisOpts), nil
}

// loadBoard builds a board from --data-dir, then --draft, then --redis. Later
// sources replace the sections they contain.
func (o *rootOptions) loadBoard(ctx context.Context) (*domain.Board, error) {
	board, err := o.localBoard(ctx)
	if err != nil {
		return nil, err
	}
	if o.redisConn == "" {
		return board, nil
	}
	rc, err := o.redisClient()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	if err := board.LoadDraft(ctx, storage.NewRedisStore(rc)); err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	return board, nil
}

func (o *rootOptions) localBoard(ctx context.Context) (*domain.Board, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	catalog, err := config.LoadCatalog(o.catalogPath)
	if err != nil {
		return nil, err
	}
	board := domain.NewBoard(catalog)
	if o.dataDir != "" {
		for _, section := range domain.Sections() {
			done, err := board.StartFetch(ctx, section, fetch.Dir{Path: o.dataDir})
			if err != nil {
				return nil, err
			}
			<-done
		}
	}
	if o.draftPath != "" {
		if err := board.LoadDraft(ctx, storage.File{Path: o.draftPath}); err != nil {
			return nil, fmt.Errorf("load %s: %w", o.draftPath, err)
		}
	}
	log.WithFields(log.Fields{
		"dataDir": o.dataDir,
		"draft":   o.draftPath,
	}).Debug("board loaded")
	return board, nil
}
