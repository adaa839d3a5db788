package council

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
	"github.com/hugo-lorenzo-mato/council-ai/internal/events"
	"github.com/hugo-lorenzo-mato/council-ai/internal/logging"
)

// Dispatcher fans a round's input out to every selected panel in parallel and
// collects the findings that arrive before the round closes. A panel that
// errors or times out is skipped for the round; the round itself only fails
// when the surrounding run context is done.
type Dispatcher struct {
	log          *logging.Logger
	bus          *events.Bus
	panelTimeout time.Duration
}

// NewDispatcher creates a dispatcher. The bus may be nil.
func NewDispatcher(log *logging.Logger, bus *events.Bus, panelTimeout time.Duration) *Dispatcher {
	if log == nil {
		log = logging.NewNop()
	}
	return &Dispatcher{
		log:          log,
		bus:          bus,
		panelTimeout: panelTimeout,
	}
}

// RunPanels runs every panel concurrently and returns the findings of the
// panels that completed. The returned map is keyed by panel name and contains
// no entry for skipped panels.
func (d *Dispatcher) RunPanels(ctx context.Context, runID string, panels []core.Panel, in core.PanelInput) map[string]core.PanelFinding {
	findings := make(map[string]core.PanelFinding, len(panels))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, panel := range panels {
		panel := panel
		g.Go(func() error {
			d.publish(events.NewPanelStarted(runID, panel.Name(), in.Round))

			pctx := gctx
			var cancel context.CancelFunc
			if d.panelTimeout > 0 {
				pctx, cancel = context.WithTimeout(gctx, d.panelTimeout)
				defer cancel()
			}

			started := time.Now()
			finding, err := panel.Run(pctx, in)
			if err != nil {
				d.log.Warn("panel skipped",
					"panel", panel.Name(),
					"round", in.Round,
					"duration", time.Since(started),
					"error", err)
				d.publish(events.NewPanelSkipped(runID, panel.Name(), in.Round, err))
				return nil
			}

			finding.PanelName = panel.Name()
			finding.ClampConfidence()
			if verr := finding.Validate(); verr != nil {
				d.log.Warn("panel returned invalid finding",
					"panel", panel.Name(),
					"round", in.Round,
					"error", verr)
				d.publish(events.NewPanelSkipped(runID, panel.Name(), in.Round, verr))
				return nil
			}

			mu.Lock()
			findings[panel.Name()] = *finding
			mu.Unlock()

			d.log.Debug("panel completed",
				"panel", panel.Name(),
				"round", in.Round,
				"severity", finding.Severity,
				"confidence", finding.Confidence,
				"duration", time.Since(started))
			d.publish(events.NewPanelCompleted(runID, in.Round, *finding))
			return nil
		})
	}

	// Goroutines never return errors; Wait only sequences the fan-in.
	_ = g.Wait()
	return findings
}

func (d *Dispatcher) publish(e events.Event) {
	if d.bus != nil {
		d.bus.Publish(e)
	}
}
