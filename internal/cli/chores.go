package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/chores/internal/model"
	"github.com/idilsaglam/chores/internal/tui"
	"github.com/idilsaglam/chores/internal/ui"
	"github.com/idilsaglam/chores/internal/view"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Print today's chores and points",
		Args:    exactArgs(0),
		RunE: func(cc *cobra.Command, _ []string) error {
			return a.list(cc.Context())
		},
	}
}

func newUpdateCmd(a *app, use string, completed bool) *cobra.Command {
	short, verb := "Mark one of your chores done", "marked done"
	if !completed {
		short, verb = "Mark one of your chores not done", "reopened"
	}
	return &cobra.Command{
		Use:   use + " <chore-id>",
		Short: short,
		Args:  exactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, _, err := a.client(nil)
			if err != nil {
				return err
			}
			if err := c.UpdateChore(cc.Context(), id, completed); err != nil {
				return fmt.Errorf("update chore %d: %w", id, err)
			}
			if completed {
				a.cue(tui.CueComplete)
			}
			a.out.OK(fmt.Sprintf("chore %d %s", id, verb))
			return nil
		},
	}
}

func newClaimCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "claim <chore-id>",
		Short: "Claim a chore from today's claimable list",
		Args:  exactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, _, err := a.client(nil)
			if err != nil {
				return err
			}
			if err := c.ClaimChore(cc.Context(), id); err != nil {
				return fmt.Errorf("claim chore %d: %w", id, err)
			}
			a.cue(tui.CueClaim)
			a.out.OK(fmt.Sprintf("chore %d claimed", id))
			return nil
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: not a chore id: %s", ErrInvalidArgument, s)
	}
	return id, nil
}

// cue rings the terminal bell when sounds are on and stderr is a terminal.
func (a *app) cue(c tui.Cue) {
	var p tui.Player = tui.Silent{}
	if w := a.out.Err(); a.cfg.Sound && ui.IsTerminal(w) {
		p = tui.Bell{W: w}
	}
	p.Play(c)
}

// list prints both chore lists and a points summary. Chores and points are
// fetched concurrently; whatever arrives is printed and every failure is
// returned.
func (a *app) list(ctx context.Context) error {
	c, sess, err := a.client(nil)
	if err != nil {
		return err
	}

	var (
		chores           []model.Chore
		points           model.PointsData
		gotChores, gotPd bool
	)
	var g multierror.Group
	g.Go(func() error {
		var err error
		if chores, err = c.Chores(ctx); err != nil {
			a.log.Error("Error fetching chores", "err", err)
			return fmt.Errorf("fetch chores: %w", err)
		}
		gotChores = true
		return nil
	})
	g.Go(func() error {
		var err error
		if points, err = c.Points(ctx); err != nil {
			a.log.Error("Error fetching points data", "err", err)
			return fmt.Errorf("fetch points: %w", err)
		}
		gotPd = true
		return nil
	})
	merr := g.Wait()

	var lines []string
	if gotChores {
		page := view.Render(model.PageContext{Username: sess.Username, ServerURL: a.cfg.Server}, chores)
		lines = append(lines, a.pageLines(page)...)
	}
	if gotPd {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, a.pointsSummary(points))
	}
	if len(lines) > 0 {
		a.out.Panel(lines)
	}

	return merr.ErrorOrNil()
}

func (a *app) pageLines(page view.Page) []string {
	p, t := a.out, a.out.Theme()

	done, total := 0, 0
	for _, r := range page.Mine.Rows {
		if r.HasCheckbox {
			total++
			if r.Checked {
				done++
			}
		}
	}

	header := fmt.Sprintf("%s  %s %d  %s %d",
		p.C(t.Title, "Chores"),
		p.C(t.Success, t.SymDone), done,
		p.C(t.Pending, t.SymUnchecked), total-done,
	)
	if u := page.Context.Username; u != "" {
		header += "  " + p.C(t.Muted, "· "+u)
	}

	lines := []string{header, p.C(t.Muted, ui.ProgressBar(done, total, 28)), ""}
	lines = append(lines, a.sectionLines(page.Mine)...)
	lines = append(lines, "")
	lines = append(lines, a.sectionLines(page.Claim)...)
	return lines
}

func (a *app) sectionLines(s view.Section) []string {
	p, t := a.out, a.out.Theme()

	lines := []string{p.C(t.Accent, s.Title)}
	for _, r := range s.Rows {
		if r.Placeholder() {
			lines = append(lines, p.C(t.Muted, r.Label))
			continue
		}
		id := p.C(ui.Dim, fmt.Sprintf("#%-3d", r.ChoreID))
		switch {
		case r.HasCheckbox:
			box, color := t.BoxUnchecked, t.Muted
			if r.Checked {
				box, color = t.BoxChecked, t.Success
			}
			lines = append(lines, fmt.Sprintf("%s %s %s", id, p.C(color, box), r.Label))
		case r.HasClaim:
			lines = append(lines, fmt.Sprintf("%s %s %s", id, r.Label, p.C(t.Accent, "[claim]")))
		}
	}
	return lines
}

func (a *app) pointsSummary(pd model.PointsData) string {
	p, t := a.out, a.out.Theme()
	return fmt.Sprintf("%s  today %d  this week %d",
		p.C(t.Title, "Points"), last(pd.DailyData), last(pd.WeeklyData))
}

func last(xs []int) int {
	if len(xs) == 0 {
		return 0
	}
	return xs[len(xs)-1]
}
