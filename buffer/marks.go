package buffer

import (
	"errors"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/laddr/addr"
)

// markFile is the YAML layout of a mark table.
type markFile struct {
	Marks map[string]addr.Range `yaml:"marks"`
}

// LoadMarks decodes a YAML mark table of the form
//
//	marks:
//	  top: 0
//	  body: "3-9,12"
//	  list: [1, "4-5"]
//
// An empty document is an empty table.
func LoadMarks(r io.Reader) (map[string]addr.Range, error) {
	var doc markFile

	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, ErrMarks.Wrap(err)
	}

	for name := range doc.Marks {
		if !addr.IsMarkName(name) {
			return nil, ErrMarks.With(slog.String("name", name))
		}
	}

	if doc.Marks == nil {
		doc.Marks = map[string]addr.Range{}
	}

	return doc.Marks, nil
}

// SaveMarks encodes marks in the format read by [LoadMarks].
func SaveMarks(w io.Writer, marks map[string]addr.Range) error {
	for name := range marks {
		if !addr.IsMarkName(name) {
			return ErrMarks.With(slog.String("name", name))
		}
	}

	data, err := yaml.Marshal(markFile{Marks: marks})
	if err != nil {
		return ErrMarks.Wrap(err)
	}

	_, err = w.Write(data)

	return err
}
