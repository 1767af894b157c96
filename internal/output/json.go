package output

import (
	"encoding/json"
	"io"
)

// jsonWriter buffers items and emits them as one JSON document: a bare
// object for a single item, an array otherwise.
type jsonWriter struct {
	w      io.Writer
	pretty bool
	items  []any
}

func (w *jsonWriter) Write(data any) error {
	w.items = append(w.items, data)
	return nil
}

func (w *jsonWriter) Flush() error {
	var payload any
	switch len(w.items) {
	case 0:
		return nil
	case 1:
		payload = w.items[0]
	default:
		payload = w.items
	}

	var out []byte
	var err error
	if w.pretty {
		out, err = json.MarshalIndent(payload, "", "  ")
	} else {
		out, err = json.Marshal(payload)
	}
	if err != nil {
		return err
	}

	out = append(out, '\n')
	_, err = w.w.Write(out)
	return err
}

// jsonlWriter writes newline-delimited JSON.
type jsonlWriter struct {
	w io.Writer
}

func (w *jsonlWriter) Write(data any) error {
	out, err := json.Marshal(data)
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.w.Write(out)
	return err
}

func (w *jsonlWriter) Flush() error {
	return nil
}
