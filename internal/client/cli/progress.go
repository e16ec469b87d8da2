package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
)

// progressPrinter renders sync snapshots. On a terminal the running count is
// redrawn in place; otherwise only the final summary of a run is written.
type progressPrinter struct {
	mu      sync.Mutex
	w       io.Writer
	tty     bool
	drawing bool
}

func newProgressPrinter(w io.Writer, tty bool) *progressPrinter {
	return &progressPrinter{w: w, tty: tty}
}

// Print is a SyncService listener.
func (p *progressPrinter) Print(s models.SyncProgress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s.InProgress {
		if p.tty {
			fmt.Fprintf(p.w, "\r\033[K%s", s.Summary())
			p.drawing = true
		}
		return
	}

	if p.drawing {
		fmt.Fprint(p.w, "\r\033[K")
		p.drawing = false
	}
	fmt.Fprintln(p.w, s.Summary())
}
