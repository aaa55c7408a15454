package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"calgrid/internal/config"
	"calgrid/internal/datequery"
	"calgrid/internal/ics"
	appLog "calgrid/internal/log"
	"calgrid/internal/metric"
	"calgrid/internal/model"
	"calgrid/internal/store"
	"calgrid/internal/view"
	"calgrid/internal/web"
)

var (
	configPath string
	listen     string
)

func main() {
	defer appLog.Sync()

	rootCmd := &cobra.Command{
		Use:           "calgrid",
		Short:         "Calendar event store with day/week/month/year grids",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(); err != nil {
				appLog.Debug(".env not loaded", "reason", err.Error())
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "calgrid.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config and env)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(viewCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		appLog.Error("command failed", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, then applies env and flag overrides.
func loadConfig() (*config.Config, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		if conf == nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		appLog.Warn("default config not written, continuing", "path", configPath, "err", err)
	}
	conf.ApplyEnv()
	if listen != "" {
		conf.Listen = listen
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))
	return conf, nil
}

func newStore(conf *config.Config, rec store.Recorder) *store.Store {
	opts := []store.Option{
		store.WithCategories(conf.DefaultCategories),
		store.WithView(conf.DefaultView),
		store.WithSidebar(conf.SidebarOpen),
	}
	if rec != nil {
		opts = append(opts, store.WithRecorder(rec))
	}
	return store.New(opts...)
}

func sources(conf *config.Config) []ics.Source {
	out := make([]ics.Source, 0, len(conf.Subscriptions))
	for _, sub := range conf.Subscriptions {
		out = append(out, ics.Source{ID: sub.ID, URL: sub.URL, Name: sub.Name, Category: sub.Category})
	}
	return out
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			appLog.Info("signal received, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar API",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			appLog.Info("effective config",
				"listen", conf.Listen,
				"default_view", conf.DefaultView,
				"categories", len(conf.DefaultCategories),
				"subscriptions", len(conf.Subscriptions),
			)

			ctx, cancel := signalContext()
			defer cancel()

			reg := prometheus.NewRegistry()
			m := metric.New(reg)
			st := newStore(conf, m)
			m.Observe(st)

			if len(conf.Subscriptions) > 0 {
				n := ics.Sync(ctx, ics.NewFetcher(nil), st, sources(conf))
				appLog.Info("subscriptions imported", "events", n)
			}

			srv := web.NewServer(conf, st, web.WithMetrics(m, reg))
			if err := srv.Run(ctx); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			appLog.Info("calgrid exiting")
			return nil
		},
	}
}

// importFiles loads each ICS file into st.
func importFiles(st *store.Store, paths []string) error {
	for _, p := range paths {
		body, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		items, err := ics.Parse(ics.Source{ID: p}, body)
		if err != nil {
			return fmt.Errorf("import %s: %w", p, err)
		}
		ics.Import(st, items, "")
	}
	return nil
}

func viewCmd() *cobra.Command {
	var (
		viewName string
		dateText string
		imports  []string
		hidden   []string
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the cell grid of a view",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			st := newStore(conf, nil)
			if err := importFiles(st, imports); err != nil {
				return err
			}
			for _, id := range hidden {
				st.ToggleCategory(id)
			}

			v := conf.DefaultView
			if viewName != "" {
				v = model.ViewType(viewName)
			}
			date := time.Now()
			if dateText != "" {
				date, err = datequery.New().Parse(dateText, date)
				if err != nil {
					return err
				}
			}

			grid, err := st.CellsFor(v, date)
			if err != nil {
				return err
			}
			printGrid(cmd.OutOrStdout(), v, date, grid, time.Now())
			return nil
		},
	}

	cmd.Flags().StringVar(&viewName, "view", "", "day, week, month or year (default from config)")
	cmd.Flags().StringVar(&dateText, "date", "", `reference date, e.g. "2024-03-15" or "next friday"`)
	cmd.Flags().StringSliceVar(&imports, "import", nil, "ICS files to load before projecting")
	cmd.Flags().StringSliceVar(&hidden, "hide", nil, "category ids to hide")
	return cmd
}

func exportCmd() *cobra.Command {
	var imports []string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Merge ICS files and subscriptions into one calendar on stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			st := newStore(conf, nil)
			if err := importFiles(st, imports); err != nil {
				return err
			}
			if len(conf.Subscriptions) > 0 {
				ctx, cancel := signalContext()
				defer cancel()
				ics.Sync(ctx, ics.NewFetcher(nil), st, sources(conf))
			}
			snap := st.Snapshot()
			_, err = io.WriteString(cmd.OutOrStdout(), ics.Export(snap.Events, snap.Categories, time.Now()))
			return err
		},
	}

	cmd.Flags().StringSliceVar(&imports, "import", nil, "ICS files to include")
	return cmd
}

// printGrid writes the view title followed by the grid. Month views are
// drawn as a calendar table; the others list the cells holding events.
// Cells on now's day are starred.
func printGrid(w io.Writer, v model.ViewType, date time.Time, g view.Grid, now time.Time) {
	fmt.Fprintln(w, view.Title(v, date))
	if v == model.ViewMonth {
		printMonthTable(w, g, now)
		return
	}

	layout := "Mon 02 Jan 15:04"
	if v == model.ViewYear {
		layout = "Mon 02 Jan"
	}
	for _, c := range g.Cells {
		if len(c.Events) == 0 && c.Overflow == 0 {
			continue
		}
		titles := make([]string, 0, len(c.Events)+1)
		for _, ev := range c.Events {
			titles = append(titles, ev.Title)
		}
		if c.Overflow > 0 {
			titles = append(titles, fmt.Sprintf("+%d", c.Overflow))
		}
		mark := " "
		if view.SameDay(c.Anchor, now) {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s  %s\n", mark, c.Anchor.Format(layout), strings.Join(titles, ", "))
	}
}

// printMonthTable prints one line per week. Each day shows its number, the
// number of events in parentheses, "*" for today and "." for days outside
// the month.
func printMonthTable(w io.Writer, g view.Grid, now time.Time) {
	fmt.Fprintln(w, "  Mon     Tue     Wed     Thu     Fri     Sat     Sun")
	for row := 0; row < g.Rows; row++ {
		var b strings.Builder
		for col := 0; col < g.Cols; col++ {
			c, ok := g.At(row, col)
			if !ok {
				b.WriteString("        ")
				continue
			}
			mark := " "
			switch {
			case view.SameDay(c.Anchor, now):
				mark = "*"
			case c.Dimmed:
				mark = "."
			}
			day := fmt.Sprintf("%s%2d", mark, c.Anchor.Day())
			if n := len(c.Events) + c.Overflow; n > 0 {
				day += fmt.Sprintf("(%d)", n)
			}
			fmt.Fprintf(&b, "%-8s", day)
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}
