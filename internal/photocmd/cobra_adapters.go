package photocmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/photomap/internal/config"
	"github.com/lehigh-university-libraries/photomap/internal/gazetteer"
)

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// NewHarvestCmd creates the harvest command
func NewHarvestCmd() *cobra.Command {
	var configPath string
	var gazetteerPath, nameColumn, latColumn, lonColumn string
	var wordsPath string
	var startYear, endYear int
	var output, apiURL, language string
	var pageSize, retries int
	var timeout time.Duration
	var reportPath string
	var color, noPrompt, verbose bool

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Harvest geocoded photo records for a list of politicians",
		Long: `Search the archive API for every name in the search word file, keep the
image records whose description names a known town and a date, and write the
deduplicated records to the output file.

The search word file lists one name per line. A line of the form ::Party::
starts a new party group for the names that follow it.

The output format follows the file extension: .csv, .parquet or .db/.sqlite.
Afterwards the per-year town maps, party series, institution counts and
politician counts are printed as tables.`,
		Example: `  # Prompt for the inputs
  photomap harvest

  # Fully specified run
  photomap harvest --gazetteer kunnat.csv --words poliitikot.txt --start 1960 --end 1990

  # Use a config file and write a YAML report as well
  photomap harvest --config photomap.yaml --report reports/1970s.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(verbose)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg.ApplyEnv(os.Getenv)

			flags := cmd.Flags()
			if flags.Changed("gazetteer") {
				cfg.Gazetteer.Path = gazetteerPath
			}
			if flags.Changed("name-column") {
				cfg.Gazetteer.NameColumn = nameColumn
			}
			if flags.Changed("lat-column") {
				cfg.Gazetteer.LatColumn = latColumn
			}
			if flags.Changed("lon-column") {
				cfg.Gazetteer.LonColumn = lonColumn
			}
			if flags.Changed("words") {
				cfg.SearchWords = wordsPath
			}
			if flags.Changed("start") {
				cfg.StartYear = startYear
			}
			if flags.Changed("end") {
				cfg.EndYear = endYear
			}
			if flags.Changed("output") {
				cfg.Output = output
			}
			if flags.Changed("api-url") {
				cfg.APIURL = apiURL
			}
			if flags.Changed("language") {
				cfg.Language = language
			}
			if flags.Changed("page-size") {
				cfg.PageSize = pageSize
			}
			if flags.Changed("timeout") {
				cfg.Timeout = timeout
			}
			if flags.Changed("retries") {
				cfg.Retries = retries
			}

			if len(cfg.Missing()) > 0 && !noPrompt && config.StdinIsTerminal() {
				if err := cfg.Prompt(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
					return err
				}
			}

			return executeHarvest(cmd.Context(), cfg, cmd.OutOrStdout(), harvestOptions{
				ReportPath: reportPath,
				Color:      color,
			})
		},
	}

	cols := gazetteer.DefaultColumns()
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&gazetteerPath, "gazetteer", "", "Path to the semicolon separated town list")
	cmd.Flags().StringVar(&nameColumn, "name-column", cols.Name, "Gazetteer column holding the town name")
	cmd.Flags().StringVar(&latColumn, "lat-column", cols.Lat, "Gazetteer column holding the latitude")
	cmd.Flags().StringVar(&lonColumn, "lon-column", cols.Lon, "Gazetteer column holding the longitude")
	cmd.Flags().StringVar(&wordsPath, "words", "", "Path to the search word file")
	cmd.Flags().IntVar(&startYear, "start", 0, "First year to report")
	cmd.Flags().IntVar(&endYear, "end", 0, "Last year to report")
	cmd.Flags().StringVarP(&output, "output", "o", config.DefaultOutput, "Record output file (.csv, .parquet, .db)")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "Search API base URL")
	cmd.Flags().StringVar(&language, "language", "", "Language of translated API fields")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Records per API page (1-100)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Timeout per API request")
	cmd.Flags().IntVar(&retries, "retries", 0, "Retries on server errors")
	cmd.Flags().StringVar(&reportPath, "report", "", "Also write the aggregates to a .yaml or .json file")
	cmd.Flags().BoolVar(&color, "color", true, "Color dominant parties in tables")
	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "Never prompt for missing inputs")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	return cmd
}

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	var opts reportOptions
	var verbose bool

	cmd := &cobra.Command{
		Use:   "report <records-file>",
		Short: "Print aggregates for a previously harvested record file",
		Long: `Load records written by harvest and print the per-year town maps, party
series, institution counts and politician counts.

Without --start and --end the range spans every dated record. Passing the
search word file with --words keeps party colors in group order.`,
		Example: `  photomap report photos.csv
  photomap report photos.parquet --start 1970 --end 1979 --output reports/1970s.yaml
  photomap report photos.db --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(verbose)
			opts.Input = args[0]
			return executeReport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.StartYear, "start", 0, "First year to report")
	cmd.Flags().IntVar(&opts.EndYear, "end", 0, "Last year to report")
	cmd.Flags().StringVar(&opts.WordsPath, "words", "", "Search word file defining party order")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the aggregates to a .yaml or .json file")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print JSON instead of tables")
	cmd.Flags().BoolVar(&opts.Color, "color", true, "Color dominant parties in tables")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	return cmd
}

// NewTownsCmd creates the towns command
func NewTownsCmd() *cobra.Command {
	var cols gazetteer.Columns
	var match string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "towns <gazetteer>",
		Short: "List the towns of a gazetteer or match one against text",
		Example: `  photomap towns kunnat.csv
  photomap towns kunnat.csv --match "Kekkonen vierailulla Uusikaupunki 1975"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(verbose)
			return executeTowns(cmd.OutOrStdout(), args[0], cols, match)
		},
	}

	defaults := gazetteer.DefaultColumns()
	cmd.Flags().StringVar(&cols.Name, "name-column", defaults.Name, "Column holding the town name")
	cmd.Flags().StringVar(&cols.Lat, "lat-column", defaults.Lat, "Column holding the latitude")
	cmd.Flags().StringVar(&cols.Lon, "lon-column", defaults.Lon, "Column holding the longitude")
	cmd.Flags().StringVar(&match, "match", "", "Print the town found in this text")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	return cmd
}

// NewTermsCmd creates the terms command
func NewTermsCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "terms <search-word-file>",
		Short:   "List the search terms and party groups built from a word file",
		Example: `  photomap terms poliitikot.txt`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(verbose)
			return executeTerms(cmd.OutOrStdout(), args[0])
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	return cmd
}
