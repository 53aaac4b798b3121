package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pocket_library/lang"
	"pocket_library/library"
	"pocket_library/ui"
	"pocket_library/utils"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "pocket_library",
		Short:         "Search Open Library and keep a pocket library of favourites",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			utils.CloseLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", utils.DefaultConfigPath(), "path to config.toml")

	root.AddCommand(newSearchCmd(), newListCmd(), newShareCmd())
	return root
}

// setup loads the config and points logging and the locale at it.
func setup(opts *rootOptions) error {
	if err := utils.LoadConfig(opts.configPath); err != nil {
		return err
	}
	cfg := utils.AppConfig
	if err := utils.InitLogging(cfg.Log.File, cfg.Log.Level); err != nil {
		return err
	}
	if !lang.SetLocale(lang.Locale(cfg.UI.Language)) {
		lang.SetLocale(lang.LocaleEnglish)
	}
	utils.Info("config loaded", "path", opts.configPath, "database", cfg.Library.Database)
	return nil
}

func openStore() (*library.Store, error) {
	store, err := library.OpenStore(utils.AppConfig.Library.Database)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	return store, nil
}

// ---------------- TUI ----------------
func runTUI() error {
	cfg := utils.AppConfig

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	saved, err := utils.LoadState()
	if err != nil {
		utils.Warn("load state failed", "err", err)
	}

	client := library.NewClientFromConfig(cfg.Search)
	notifier := ui.NewSearchNotifier()
	search := library.NewSearchController(client, library.SearchOptions{
		QuietPeriod: cfg.Search.QuietPeriod(),
		Limit:       cfg.Search.Limit,
		OnChange:    notifier.Notify,
	})
	defer search.Close()

	favourites := library.NewFavouritesController(store, nil)

	final, runErr := ui.Run(ui.Deps{
		Search:       search,
		SearchEvents: notifier.Events(),
		Favourites:   favourites,
		Details:      client,
		PicturesDir:  cfg.Library.PicturesDir,
		PickImage:    utils.SelectImageDialog,
		Saved:        saved,
	})
	if err := utils.SaveState(final); err != nil {
		utils.Warn("save state failed", "err", err)
	}
	return runErr
}

// ---------------- search ----------------
func newSearchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <terms...>",
		Short: "Search Open Library once and print the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := utils.AppConfig.Search
			if limit <= 0 {
				limit = cfg.Limit
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
			defer cancel()

			results, err := library.NewClientFromConfig(cfg).SearchBooks(ctx, strings.Join(args, " "), limit)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			printResults(cmd.OutOrStdout(), results)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results (default from config)")
	return cmd
}

func printResults(w io.Writer, results []library.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, lang.Active().Search.NoResults)
		return
	}
	for _, r := range results {
		authors := strings.Join(r.Authors, ", ")
		if authors == "" {
			authors = lang.Active().Search.UnknownAuthor
		}
		fmt.Fprintf(w, "%s | %s | %s\n", r.Title(), authors, yearOrUnknown(r.Year))
	}
}

// ---------------- list ----------------
func newListCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print saved favourites in title order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			c := library.NewFavouritesController(store, nil)
			if err := c.SetFilter(cmd.Context(), filter); err != nil {
				return fmt.Errorf("list favourites: %w", err)
			}
			printFavourites(cmd.OutOrStdout(), c.State())
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only entries whose title or author contains this text")
	return cmd
}

func printFavourites(w io.Writer, s library.LibraryState) {
	texts := lang.Active()
	if len(s.Entries) == 0 {
		if strings.TrimSpace(s.Query) != "" {
			fmt.Fprintln(w, texts.Library.NoMatches)
		} else {
			fmt.Fprintln(w, texts.Library.Empty)
		}
		return
	}
	for _, f := range s.Entries {
		author := f.Author
		if author == "" {
			author = texts.Search.UnknownAuthor
		}
		fmt.Fprintf(w, "%4d  %s | %s | %s\n", f.ID, f.Title(), author, yearOrUnknown(f.Year))
	}
}

func yearOrUnknown(y int) string {
	if y == 0 {
		return lang.Active().Share.Unknown
	}
	return strconv.Itoa(y)
}

// ---------------- share ----------------
func newShareCmd() *cobra.Command {
	var noClipboard bool
	cmd := &cobra.Command{
		Use:   "share <id>",
		Short: "Print a recommendation for a favourite and copy it to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			f, err := store.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("favourite %d: %w", id, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, library.ShareSubject(f))
			fmt.Fprintln(out)
			fmt.Fprintln(out, library.ShareText(f))

			if noClipboard {
				return nil
			}
			if err := library.Share(f); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), lang.ClipboardFailed(err))
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), lang.ShareCopied(f.Title()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&noClipboard, "no-clipboard", false, "print only, do not copy")
	return cmd
}
