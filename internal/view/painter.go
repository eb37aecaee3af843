package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"github.com/sellerdesk/couponctl/internal/dashboard"
	"github.com/sellerdesk/couponctl/internal/notify"
)

// FrameInterval is the live repaint period.
const FrameInterval = 33 * time.Millisecond

// blinkEvery is how many frames the title stays in one blink state.
const blinkEvery = 12

// Painter redraws a screen into a pterm live area until stopped.
type Painter struct {
	screen *dashboard.Screen
	area   *pterm.AreaPrinter

	stop chan struct{}
	wg   sync.WaitGroup
}

// Start begins painting screen.
func Start(screen *dashboard.Screen) (*Painter, error) {
	area, err := pterm.DefaultArea.Start()
	if err != nil {
		return nil, fmt.Errorf("failed to start live area: %w", err)
	}
	p := &Painter{screen: screen, area: area, stop: make(chan struct{})}
	p.wg.Add(1)
	go p.loop()
	return p, nil
}

func (p *Painter) loop() {
	defer p.wg.Done()
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	for tick := 0; ; tick++ {
		p.area.Update(Frame(p.screen.Frame(), tick/blinkEvery))
		select {
		case <-p.stop:
			return
		case <-ticker.C:
		}
	}
}

// Stop paints a final frame and releases the area. The area is left on the
// terminal so the prompt continues below it.
func (p *Painter) Stop() error {
	close(p.stop)
	p.wg.Wait()
	p.area.Update(Frame(p.screen.Frame(), 0))
	return p.area.Stop()
}

// Footer keeps the screen footer in sync with credential notifications until
// ctx ends.
func Footer(ctx context.Context, bus notify.Bus, screen *dashboard.Screen) {
	events, unsubscribe := bus.Subscribe()
	go func() {
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				if text, ok := footerText(e); ok {
					screen.SetFooter(text)
				}
			}
		}
	}()
}

func footerText(e notify.Event) (string, bool) {
	switch e.Type {
	case notify.TypeCredentialShow:
		p, ok := e.Payload.(notify.CredentialPayload)
		if !ok || p.Masked == "" {
			return "No session cookie", true
		}
		return fmt.Sprintf("Session cookie %s (from %s)", p.Masked, p.Source), true
	case notify.TypeSessionReset:
		return "Session cleared", true
	}
	return "", false
}
