// Command tipctl parses tip distribution reports and splits tip pools from
// the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sbuxpartner/sbuxpartners/internal/calculator"
	"github.com/sbuxpartner/sbuxpartners/internal/config"
	"github.com/sbuxpartner/sbuxpartners/internal/models"
	"github.com/sbuxpartner/sbuxpartners/internal/ocr/tesseract"
	"github.com/sbuxpartner/sbuxpartners/internal/parser"
	"github.com/sbuxpartner/sbuxpartners/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:           "tipctl",
	Short:         "Tip distribution helper",
	Long:          "tipctl reads partner hours from OCR'd tip reports or typed lists and splits a tip pool into whole-dollar payouts.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		logging.SetupWithLevelName(cfg.Log.Level)
		return nil
	},
}

// cfg is loaded before any subcommand runs.
var cfg *config.Config

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse partner hours from OCR text (file or stdin)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

var scanCmd = &cobra.Command{
	Use:   "scan <image>",
	Short: "Recognize a report image with Tesseract and parse it",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

var manualCmd = &cobra.Command{
	Use:   "manual [file]",
	Short: `Parse "Name: hours" lines (file or stdin)`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runManual,
}

var calcCmd = &cobra.Command{
	Use:   "calc [file]",
	Short: `Split a tip pool over "Name: hours" lines (file or stdin)`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCalc,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to a TOML config file (default $SBUX_CONFIG)")
	rootCmd.PersistentFlags().Bool("json", false, "print JSON instead of tables")

	calcCmd.Flags().Float64P("total", "t", 0, "total tip amount in dollars")
	calcCmd.MarkFlagRequired("total")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(manualCmd)
	rootCmd.AddCommand(calcCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// readInput reads the named file, or stdin when no file is given or it is "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

func wantJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type parseOutput struct {
	parser.ParseResult
	Validation parser.Validation `json:"validation"`
}

func runParse(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	return printParse(cmd, parser.New(cfg.Parser), text)
}

func runScan(cmd *cobra.Command, args []string) error {
	image, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	if int64(len(image)) > cfg.OCR.MaxImageBytes {
		return fmt.Errorf("%s is %d bytes, limit is %d", args[0], len(image), cfg.OCR.MaxImageBytes)
	}

	result, err := tesseract.New(cfg.OCR.Languages...).Recognize(context.Background(), image)
	if err != nil {
		return fmt.Errorf("recognizing %s: %w", args[0], err)
	}
	return printParse(cmd, parser.New(cfg.Parser), result.Text)
}

func printParse(cmd *cobra.Command, p *parser.Parser, text string) error {
	result := p.Parse(text)
	validation := p.Validate(result)

	if wantJSON(cmd) {
		return writeJSON(cmd.OutOrStdout(), parseOutput{ParseResult: result, Validation: validation})
	}
	fmt.Fprint(cmd.OutOrStdout(), renderParse(result, validation))
	return nil
}

func runManual(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	partners := parser.ParseManualEntry(text)
	if wantJSON(cmd) {
		return writeJSON(cmd.OutOrStdout(), partners)
	}
	fmt.Fprint(cmd.OutOrStdout(), renderPartners(partners))
	return nil
}

type calcOutput struct {
	Distribution models.DistributionData     `json:"distribution"`
	BillsNeeded  []models.BillBreakdownEntry `json:"billsNeeded"`
}

func runCalc(cmd *cobra.Command, args []string) error {
	total, _ := cmd.Flags().GetFloat64("total")
	if err := calculator.ValidateTotalAmount(total); err != nil {
		return fmt.Errorf("invalid total: %w", err)
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	partners := parser.ParseManualEntry(text)
	if err := calculator.ValidatePartnerHours(partners); err != nil {
		return fmt.Errorf("invalid partner hours: %w", err)
	}

	data, err := calculator.Distribute(total, partners)
	if err != nil {
		return fmt.Errorf("calculating distribution: %w", err)
	}
	bills := calculator.BillsNeeded(data.PartnerPayouts)

	if wantJSON(cmd) {
		return writeJSON(cmd.OutOrStdout(), calcOutput{Distribution: data, BillsNeeded: bills})
	}
	fmt.Fprint(cmd.OutOrStdout(), renderDistribution(data, bills))
	return nil
}
