// josaactl is the operator CLI: it imports cutoff datasets into the
// database and runs one-shot predictions without the HTTP gateway.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/jarawa/josaa-predictor/internal/cutoff"
	"github.com/jarawa/josaa-predictor/internal/db"
	"github.com/jarawa/josaa-predictor/internal/logging"
	"github.com/jarawa/josaa-predictor/internal/predict"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"

	outputFormat = formatJSON

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	dbDriverFlag = &cli.StringFlag{
		Name:  "db-driver",
		Usage: "Database driver [sqlite, postgres]",
		Value: "sqlite",
	}

	dbDSNFlag = &cli.StringFlag{
		Name:  "db-dsn",
		Usage: "Database DSN (driver default when empty)",
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}

	urlFlag = &cli.StringFlag{
		Name:  "url",
		Usage: "Cutoff CSV URL (published dataset when empty)",
	}

	fileFlag = &cli.StringFlag{
		Name:  "file",
		Usage: "Local cutoff CSV file (overrides --url)",
	}
)

func main() {
	initLogging(false)

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:            "josaactl",
		Version:         version,
		HideHelpCommand: true,
		Usage:           "JOSAA admission probability toolkit",
		Flags: []cli.Flag{
			debugFlag,
			formatFlag,
		},
		Commands: []*cli.Command{
			importCmd,
			predictCmd,
			branchesCmd,
		},
		Before: func(c *cli.Context) error {
			if c.Bool(debugFlag.Name) {
				initLogging(true)
			}
			if f := c.String(formatFlag.Name); f == formatYAML || f == "yml" {
				outputFormat = formatYAML
			}
			return nil
		},
	}
}

func initLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(logging.NewCLILogger(os.Stderr, level))
}

func openDB(c *cli.Context) (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()
	return db.Open(ctx, db.Driver(c.String(dbDriverFlag.Name)), c.String(dbDSNFlag.Name))
}

// loadRecords reads records from --file when given, otherwise from --url.
func loadRecords(c *cli.Context) ([]predict.CutoffRecord, error) {
	if path := c.String(fileFlag.Name); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return cutoff.ParseCSV(f)
	}
	return cutoff.NewHTTPSource(c.String(urlFlag.Name), nil).Records(c.Context)
}

func printResult(v any) error {
	if outputFormat == formatYAML {
		return yaml.NewEncoder(os.Stdout).Encode(v)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var importCmd = &cli.Command{
	Name:  "import",
	Usage: "Fetch the cutoff CSV and load it into the database",
	Flags: []cli.Flag{urlFlag, fileFlag, dbDriverFlag, dbDSNFlag},
	Action: func(c *cli.Context) error {
		records, err := loadRecords(c)
		if err != nil {
			return fmt.Errorf("loading cutoff data: %w", err)
		}
		dbh, err := openDB(c)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer dbh.Close()

		if err := cutoff.NewSQLStore(dbh).BulkImport(c.Context, records); err != nil {
			return fmt.Errorf("importing cutoff data: %w", err)
		}
		slog.Info("import complete", "records", len(records))
		return nil
	},
}

var (
	rankFlag = &cli.Float64Flag{
		Name:     "rank",
		Usage:    "Candidate JEE rank",
		Required: true,
	}
	categoryFlag = &cli.StringFlag{
		Name:  "category",
		Usage: "Reservation category (or 'all')",
		Value: "all",
	}
	collegeTypeFlag = &cli.StringFlag{
		Name:  "college-type",
		Usage: "College type [IIT, NIT, IIIT, GFTI, ALL]",
		Value: "ALL",
	}
	branchFlag = &cli.StringFlag{
		Name:  "branch",
		Usage: "Academic program name (or 'all')",
		Value: "all",
	}
	roundFlag = &cli.StringFlag{
		Name:  "round",
		Usage: "Counselling round [1..6]",
		Value: "1",
	}
	minProbabilityFlag = &cli.Float64Flag{
		Name:  "min-probability",
		Usage: "Drop options scoring below this probability",
	}
	scoreAllFlag = &cli.BoolFlag{
		Name:  "all-matches",
		Usage: "Score every filtered record instead of the bounded preview",
	}
)

var predictCmd = &cli.Command{
	Name:  "predict",
	Usage: "Rank college options for a candidate",
	Flags: []cli.Flag{
		rankFlag, categoryFlag, collegeTypeFlag, branchFlag, roundFlag,
		minProbabilityFlag, scoreAllFlag, urlFlag, fileFlag,
	},
	Action: func(c *cli.Context) error {
		records, err := loadRecords(c)
		if err != nil {
			return fmt.Errorf("loading cutoff data: %w", err)
		}

		var opts []predict.Option
		if c.Bool(scoreAllFlag.Name) {
			opts = append(opts, predict.WithSelector(predict.SelectAll))
		}
		shortlist, err := predict.NewBuilder(opts...).Build(records, c.Float64(rankFlag.Name), predict.Filter{
			Category:       c.String(categoryFlag.Name),
			CollegeType:    c.String(collegeTypeFlag.Name),
			Branch:         c.String(branchFlag.Name),
			Round:          c.String(roundFlag.Name),
			MinProbability: c.Float64(minProbabilityFlag.Name),
		})
		if errors.Is(err, predict.ErrNoMatches) {
			slog.Info("no colleges match the selected filters")
			return nil
		}
		if err != nil {
			return err
		}
		return printResult(shortlist)
	},
}

var branchesCmd = &cli.Command{
	Name:  "branches",
	Usage: "List the academic program names in the dataset",
	Flags: []cli.Flag{urlFlag, fileFlag},
	Action: func(c *cli.Context) error {
		records, err := loadRecords(c)
		if err != nil {
			return fmt.Errorf("loading cutoff data: %w", err)
		}
		return printResult(cutoff.BranchList(records))
	},
}
