package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/chores/internal/config"
	"github.com/idilsaglam/chores/internal/logging"
	"github.com/idilsaglam/chores/internal/model"
	"github.com/idilsaglam/chores/internal/tui"
)

// runTUI opens the interactive view. Logs go to a file while the view owns
// the screen.
func (a *app) runTUI(cc *cobra.Command) error {
	path := a.cfg.LogFile
	if path == "" {
		dir, err := config.StateDir()
		if err != nil {
			return fmt.Errorf("state dir: %w", err)
		}
		path = filepath.Join(dir, a.name+".log")
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	l, err := logging.New(f, a.logLevel, a.logFormat)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLogHandlerFailed, err)
	}

	c, sess, err := a.client(l)
	if err != nil {
		return err
	}

	var player tui.Player = tui.Silent{}
	if a.cfg.Sound {
		player = tui.Bell{W: cc.ErrOrStderr()}
	}

	m := tui.New(c, model.PageContext{Username: sess.Username, ServerURL: a.cfg.Server}, tui.Options{
		RollbackOnFailure: a.cfg.RollbackOnFailure,
		Player:            player,
		Logger:            l,
		Now:               a.now,
	})
	l.Info("starting interactive view", "server", a.cfg.Server, "user", sess.Username)
	return tui.Run(cc.Context(), m)
}
