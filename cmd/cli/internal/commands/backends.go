package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/wolfeidau/bundlecompose/internal/compose"
)

// BackendsCmd lists the backend catalog.
type BackendsCmd struct {
	Options bool `help:"Show the option keys each backend accepts" default:"true" negatable:""`
}

func (b *BackendsCmd) Run(ctx context.Context, globals *Globals) error {
	w := tabwriter.NewWriter(globals.stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tDESCRIPTION")
	for _, backend := range compose.New().Backends() {
		fmt.Fprintf(w, "%s\t%s\n", backend.ID, backend.Description)
		if b.Options {
			fmt.Fprintf(w, "\t  options: %s\n", strings.Join(backend.Options(), ", "))
		}
	}
	return w.Flush()
}
