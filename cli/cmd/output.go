package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/laddr/addr"
	"github.com/ardnew/laddr/buffer"
)

// Output formats accepted by --output.
const (
	outputLines   = "lines"
	outputIndices = "indices"
	outputSpans   = "spans"
	outputJSON    = "json"
	outputYAML    = "yaml"
)

var outputs = []string{
	outputLines,
	outputIndices,
	outputSpans,
	outputJSON,
	outputYAML,
}

// selectedLine is one entry of a structured result.
type selectedLine struct {
	Index uint64 `json:"index" yaml:"index"`
	Text  string `json:"text"  yaml:"text"`
}

// result is the structured form of an evaluated address.
type result struct {
	Address string         `json:"address" yaml:"address"`
	Spans   string         `json:"spans"   yaml:"spans"`
	Count   int            `json:"count"   yaml:"count"`
	Lines   []selectedLine `json:"lines"   yaml:"lines"`
}

// writeResult writes the lines of r selected from snap in the given format.
// Indices past the end of the buffer have no text and are omitted from the
// lines, json and yaml formats. The indices format lists every index, and
// fails with [addr.ErrRangeTooLarge] if there are more than limit.
func writeResult(
	ctx context.Context,
	w io.Writer,
	format string,
	a *addr.Address,
	snap *buffer.Snapshot,
	r addr.Range,
	limit uint64,
) error {
	if format == outputIndices {
		if err := checkWalk(r, limit, format); err != nil {
			return err
		}
	}

	bw := bufio.NewWriter(w)

	err := encodeResult(ctx, bw, format, a, snap, r)
	if err == nil {
		err = bw.Flush()
	}

	if err != nil {
		return ErrOutput.Wrap(err).With(slog.String("output", format))
	}

	return nil
}

func encodeResult(
	ctx context.Context,
	w *bufio.Writer,
	format string,
	a *addr.Address,
	snap *buffer.Snapshot,
	r addr.Range,
) error {
	switch format {
	case outputIndices:
		for i := range r.All() {
			fmt.Fprintln(w, i)
		}

		return nil

	case outputSpans:
		_, err := fmt.Fprintln(w, r.String())

		return err

	case outputJSON, outputYAML:
		res := result{
			Address: a.String(),
			Spans:   r.String(),
			Count:   r.Len(),
		}

		in := snap.Clip(r)
		res.Lines = make([]selectedLine, 0, in.Len())

		for i := range in.All() {
			text, _ := snap.Line(i)
			res.Lines = append(res.Lines, selectedLine{Index: i, Text: text})
		}

		if format == outputJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")

			return enc.Encode(res)
		}

		return yaml.NewEncoder(w, yaml.Indent(2)).EncodeContext(ctx, res)

	default:
		for i := range snap.Clip(r).All() {
			text, _ := snap.Line(i)
			fmt.Fprintf(w, "%d\t%s\n", i, text)
		}

		return nil
	}
}

// checkWalk fails if visiting every index of r would take more than limit
// steps. Zero selects [addr.DefaultMaxLines].
func checkWalk(r addr.Range, limit uint64, what string) error {
	if limit == 0 {
		limit = addr.DefaultMaxLines
	}

	if n := uint64(r.Len()); n > limit {
		return addr.ErrRangeTooLarge.With(
			slog.String("walk", what),
			slog.Uint64("lines", n),
			slog.Uint64("max_lines", limit),
		)
	}

	return nil
}
