package viz

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/sim"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunLive shows cfg in the terminal until the user quits or ctx ends. Each
// mounted simulation is driven by its own goroutine; with opts.WatchPath set,
// valid edits to that file replace the running simulation.
func RunLive(ctx context.Context, cfg *config.Config, opts LiveOptions) error {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	logger := opts.Logger

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	mount := func(cfg *config.Config, width, height float64, r sim.Renderer) (Controller, error) {
		loop, err := sim.New(cfg, sim.WithLogger(logger), sim.WithRenderer(r))
		if err != nil {
			return nil, err
		}
		if err := loop.Start(width, height); err != nil {
			loop.Dispose()
			return nil, err
		}
		g.Go(func() error {
			err := loop.Run(gctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
		return loop, nil
	}

	m, err := NewModel(cfg, mount, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
		tea.WithContext(gctx))

	if opts.WatchPath != "" {
		w, err := config.NewWatcher(opts.WatchPath, logger)
		if err != nil {
			m.Close()
			return err
		}
		if err := w.Start(gctx); err != nil {
			m.Close()
			return err
		}
		defer w.Stop()

		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case next := <-w.Updates():
					p.Send(ReloadMsg{Config: next})
				}
			}
		})
	}

	final, runErr := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	} else {
		m.Close()
	}
	cancel()

	if err := g.Wait(); err != nil {
		return err
	}
	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return runErr
}
