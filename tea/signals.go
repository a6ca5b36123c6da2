package tea

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

// handleSignals turns SIGINT into InterruptMsg and SIGTERM into QuitMsg.
// In raw mode Ctrl+C arrives as input, so SIGINT only comes from outside.
func (p *Program) handleSignals(ctx context.Context, deliver Deliver) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-sig:
			p.logger.Debug("signal", "signal", s)
			var msg Msg = QuitMsg{}
			if s == syscall.SIGINT {
				msg = InterruptMsg{}
			}
			if !deliver(msg) {
				return nil
			}
		}
	}
}

// splitLines breaks printed text into rows; a bare LF would not return
// the cursor to column 0 in raw mode
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
