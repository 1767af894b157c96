package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// yamlWriter emits each item as a YAML document, separated by ---.
type yamlWriter struct {
	w     io.Writer
	wrote bool
}

func (w *yamlWriter) Write(data any) error {
	if w.wrote {
		if _, err := io.WriteString(w.w, "---\n"); err != nil {
			return err
		}
	}
	w.wrote = true

	out, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	_, err = w.w.Write(out)
	return err
}

func (w *yamlWriter) Flush() error {
	return nil
}
