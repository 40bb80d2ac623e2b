package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/tidwall/pretty"
	"golang.org/x/term"

	"github.com/dshills/stickbind/internal/binding/match"
)

// writeJSON prints v indented, coloured when out is a terminal.
func writeJSON(out io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return writeRawJSON(out, data)
}

func writeRawJSON(out io.Writer, data []byte) error {
	data = pretty.Pretty(data)
	if isTerminal(out) {
		data = pretty.Color(data, nil)
	}
	_, err := out.Write(data)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type matchJSON struct {
	ActionMap      string   `json:"actionMap"`
	Action         string   `json:"action"`
	Input          string   `json:"input"`
	Label          string   `json:"label"`
	MapLabel       string   `json:"mapLabel"`
	Default        bool     `json:"default"`
	Modifiers      []string `json:"modifiers,omitempty"`
	MultiTap       *int     `json:"multiTap,omitempty"`
	ActivationMode string   `json:"activationMode,omitempty"`
}

func matchesJSON(ms []match.Match) []matchJSON {
	out := make([]matchJSON, len(ms))
	for i, m := range ms {
		out[i] = matchJSON{
			ActionMap:      m.ActionMap,
			Action:         m.Action,
			Input:          m.Input,
			Label:          m.ActionLabel,
			MapLabel:       m.MapLabel,
			Default:        m.IsDefault,
			Modifiers:      m.Modifiers,
			MultiTap:       m.MultiTap,
			ActivationMode: m.ActivationMode,
		}
	}
	return out
}

// writeMatches prints one row per match.
func writeMatches(out io.Writer, ms []match.Match) error {
	if len(ms) == 0 {
		_, err := fmt.Fprintln(out, "No bindings.")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MAP\tACTION\tINPUT\tSOURCE")
	for _, m := range ms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.MapLabel, m.ActionLabel, m.Input, source(m))
	}
	return tw.Flush()
}

func source(m match.Match) string {
	var parts []string
	if m.IsDefault {
		parts = append(parts, "default")
	} else {
		parts = append(parts, "custom")
	}
	if m.MultiTap != nil && *m.MultiTap > 1 {
		parts = append(parts, "tap x"+strconv.Itoa(*m.MultiTap))
	}
	if m.ActivationMode != "" {
		parts = append(parts, m.ActivationMode)
	}
	return strings.Join(parts, ", ")
}
