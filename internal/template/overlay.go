package template

import (
	"github.com/dshills/stickbind/internal/binding/match"
	"github.com/dshills/stickbind/internal/ident"
)

// Searcher answers binding queries. *match.Matcher implements it.
type Searcher interface {
	Search(q match.Query, f match.Filters) []match.Match
}

// ButtonOverlay is a template button with the bindings it drives.
type ButtonOverlay struct {
	Side    Side
	Button  Button
	Matches []match.Match
}

// Overlay queries s for every button of t.
func Overlay(t Template, s Searcher, f match.Filters) []ButtonOverlay {
	var out []ButtonOverlay
	for _, stick := range t.Sticks {
		for _, b := range stick.Buttons {
			q, ok := query(stick, b)
			if !ok {
				continue
			}
			out = append(out, ButtonOverlay{
				Side:    stick.Side,
				Button:  b,
				Matches: s.Search(q, f),
			})
		}
	}
	return out
}

func query(stick Stick, b Button) (match.Query, bool) {
	if b.Number > 0 {
		return match.Query{Button: b.Number, Prefix: stick.Prefix}, true
	}
	in, ok := ident.Normalize(b.Input, ident.Context{TargetPrefix: stick.Prefix})
	if !ok {
		return match.Query{}, false
	}
	return match.Query{Input: string(in)}, true
}
