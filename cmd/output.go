package cmd

import (
	"encoding/json"
	"fmt"
	"io"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printOut writes JSON when --json is set and the rendered table otherwise.
func printOut(w io.Writer, v any, render func() string) error {
	if jsonOutput {
		return printJSON(w, v)
	}
	_, err := fmt.Fprint(w, render())
	return err
}
