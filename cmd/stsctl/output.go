package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/danmuck/stsctl/internal/datum"
	"gopkg.in/yaml.v3"
)

var errNonFinite = errors.New("non-finite float cannot be rendered as JSON; use -o yaml or -o table")

func render(w io.Writer, format string, data []datum.Datum) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table":
		return renderTable(w, data)
	case "json":
		if err := checkFinite(data); err != nil {
			return err
		}
		docs := documents(data)
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("render json: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(documents(data)); err != nil {
			return fmt.Errorf("render yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func renderTable(w io.Writer, data []datum.Datum) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFORMAT\tTIMESTAMP\tVALUE")
	for _, d := range data {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			d.ID, d.Format, d.Timestamp.UTC().Format(time.RFC3339), valueString(d.Value))
	}
	return tw.Flush()
}

func valueString(v datum.Value) string {
	if v == nil {
		return "-"
	}
	return v.String()
}

func documents(data []datum.Datum) []datum.Document {
	docs := make([]datum.Document, 0, len(data))
	for _, d := range data {
		docs = append(docs, datum.FromDatum(d))
	}
	return docs
}

func checkFinite(data []datum.Datum) error {
	for _, d := range data {
		var f float64
		switch v := d.Value.(type) {
		case datum.Float:
			f = float64(v)
		case datum.FloatText:
			f = v.Float
		default:
			continue
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("id %d: %w", d.ID, errNonFinite)
		}
	}
	return nil
}
