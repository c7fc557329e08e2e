package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/danmuck/stsctl/internal/datum"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errNoDatum = errors.New("either --file or --id is required")

func newWriteCmd(opts *options) *cobra.Command {
	var (
		file      string
		id        int32
		format    string
		value     string
		text      string
		timestamp int64
	)

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Transmit datums to the server",
		Long: `Transmit one datum described by flags, or a batch read from a YAML or
JSON file, inside a single write-mode handshake.

Example:
  stsctl write --id 100 --format integer --value 42
  stsctl write --id 7 --format float-with-text --value 3.5 --text "pump B"
  stsctl write --file batch.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []datum.Datum
			switch {
			case file != "":
				batch, err := loadBatch(file)
				if err != nil {
					return err
				}
				data = batch
			case cmd.Flags().Changed("id"):
				ts := time.Now().Unix()
				if cmd.Flags().Changed("timestamp") {
					ts = timestamp
				}
				d, err := datumFromFlags(id, format, value, text, ts)
				if err != nil {
					return err
				}
				data = []datum.Datum{d}
			default:
				return errNoDatum
			}

			client, err := opts.client(cmd)
			if err != nil {
				return err
			}
			if err := client.Transmit(cmd.Context(), data); err != nil {
				return err
			}
			cmd.Printf("wrote %d datum(s) to %s\n", len(data), client.Config().Addr())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&file, "file", "f", "", "YAML or JSON file holding a list of datums")
	flags.Int32Var(&id, "id", 0, "datum id")
	flags.StringVar(&format, "format", "integer", "integer|float|text|integer-with-text|float-with-text|exponent")
	flags.StringVar(&value, "value", "", "numeric value (text for the text format)")
	flags.StringVar(&text, "text", "", "text payload for *-with-text and text formats")
	flags.Int64Var(&timestamp, "timestamp", 0, "unix seconds (default now)")
	return cmd
}

func datumFromFlags(id int32, formatName, value, text string, ts int64) (datum.Datum, error) {
	f, err := datum.ParseFormat(formatName)
	if err != nil {
		return datum.Datum{}, err
	}

	doc := datum.Document{ID: id, Format: f, Timestamp: ts}
	switch f {
	case datum.FormatInteger, datum.FormatIntegerWithText:
		n, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return datum.Datum{}, fmt.Errorf("%w: parse %s value %q: %v", datum.ErrValueMismatch, f, value, err)
		}
		i := int32(n)
		doc.Int = &i
	case datum.FormatFloat, datum.FormatFloatWithText, datum.FormatExponent:
		x, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return datum.Datum{}, fmt.Errorf("%w: parse %s value %q: %v", datum.ErrValueMismatch, f, value, err)
		}
		doc.Float = &x
	case datum.FormatText:
		if text == "" {
			text = value
		}
	}
	if f.HasText() {
		doc.Text = &text
	}
	return doc.Datum()
}

// loadBatch reads a list of documents. JSON input is accepted as YAML.
func loadBatch(path string) ([]datum.Datum, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	var docs []datum.Document
	if err := yaml.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("parse batch %s: %w", path, err)
	}
	return datum.Documents(docs)
}
