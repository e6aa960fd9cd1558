package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/chores/internal/chart"
)

const (
	surfaceWidth  = 300
	surfaceHeight = 100
)

func newPointsCmd(a *app) *cobra.Command {
	var cols, rows int

	cmd := &cobra.Command{
		Use:   "points",
		Short: "Draw the daily and weekly points charts in the terminal",
		Args:  exactArgs(0),
		RunE: func(cc *cobra.Command, _ []string) error {
			if cols < 10 || rows < 2 {
				return fmt.Errorf("%w: chart needs at least 10 columns and 2 rows", ErrInvalidArgument)
			}
			c, _, err := a.client(nil)
			if err != nil {
				return err
			}
			pd, err := c.Points(cc.Context())
			if err != nil {
				a.log.Error("Error fetching points data", "err", err)
				return fmt.Errorf("fetch points: %w", err)
			}

			set := chart.NewSet(surfaceWidth, surfaceHeight)
			set.Draw(pd, a.now())

			p, t := a.out, a.out.Theme()
			p.Println(p.C(t.Title, "Daily points"))
			p.Println(chart.Terminal(set.Daily, cols, rows))
			p.Println()
			p.Println(p.C(t.Title, "Weekly points"))
			p.Println(chart.Terminal(set.Weekly, cols, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&cols, "width", 60, "Chart width in columns")
	cmd.Flags().IntVar(&rows, "height", 5, "Chart height in rows")

	return cmd
}

func newChartCmd(a *app) *cobra.Command {
	var (
		dir           string
		width, height float64
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Export the points charts as SVG files",
		Long: `Writes daily-chart.svg and weekly-chart.svg into the output directory,
drawn the same way as the web page's charts.`,
		Args: exactArgs(0),
		RunE: func(cc *cobra.Command, _ []string) error {
			if width <= 0 || height <= chart.LabelSpace {
				return fmt.Errorf("%w: chart size %gx%g too small", ErrInvalidArgument, width, height)
			}
			c, _, err := a.client(nil)
			if err != nil {
				return err
			}
			pd, err := c.Points(cc.Context())
			if err != nil {
				a.log.Error("Error fetching points data", "err", err)
				return fmt.Errorf("fetch points: %w", err)
			}

			set := chart.NewSet(width, height)
			set.Draw(pd, a.now())

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			surfaces := []*chart.Surface{set.Daily, set.Weekly}
			var g errgroup.Group
			for _, s := range surfaces {
				s := s // per-iteration copy; go directive is < 1.22
				g.Go(func() error {
					return writeSVG(filepath.Join(dir, s.ID+".svg"), s)
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			for _, s := range surfaces {
				a.out.OK("wrote " + filepath.Join(dir, s.ID+".svg"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "out", "o", ".", "Output directory")
	cmd.Flags().Float64Var(&width, "width", surfaceWidth, "Chart width in pixels")
	cmd.Flags().Float64Var(&height, "height", surfaceHeight, "Chart height in pixels")
	if err := cmd.MarkFlagDirname("out"); err != nil {
		panic(err)
	}

	return cmd
}

func writeSVG(path string, s *chart.Surface) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := chart.SVG(f, s); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
