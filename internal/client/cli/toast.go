package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
)

// toastPrinter writes each notification once, when it first appears in the
// published list. Expiry is silent.
type toastPrinter struct {
	mu   sync.Mutex
	w    io.Writer
	seen map[string]struct{}
}

func newToastPrinter(w io.Writer) *toastPrinter {
	return &toastPrinter{w: w, seen: make(map[string]struct{})}
}

func (p *toastPrinter) onChange(_ context.Context, list []models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := make(map[string]struct{}, len(list))
	for _, n := range list {
		current[n.ID] = struct{}{}
		if _, ok := p.seen[n.ID]; ok {
			continue
		}
		fmt.Fprintln(p.w, formatToast(n))
	}
	p.seen = current
}

func formatToast(n models.Notification) string {
	return fmt.Sprintf("[%s] %s", strings.ToUpper(string(n.Type)), n.Message)
}
