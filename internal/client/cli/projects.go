package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
)

func (a *App) Projects(ctx context.Context, category string) error {
	items, err := a.api.Projects(ctx, category)
	if err != nil {
		a.reportError(ctx, "Could not load projects", err)
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "No projects.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tTECHNOLOGIES")
	for _, p := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Category, strings.Join(p.Technologies, ", "))
	}
	return w.Flush()
}

// Status prints connectivity and session state.
func (a *App) Status(ctx context.Context) error {
	a.checkOnline(ctx)
	fmt.Fprintf(a.out, "Server: %s (%s)\n", a.Mode(), a.config.ServerURL)

	s := a.session.Session()
	if !s.Active() {
		fmt.Fprintln(a.out, "Session: anonymous")
		return nil
	}
	fmt.Fprintf(a.out, "Session: %s, last activity %s\n",
		s.User.Username, s.LastActivity.Local().Format("2006-01-02 15:04:05"))
	return nil
}
