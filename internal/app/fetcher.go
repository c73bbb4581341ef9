// internal/app/fetcher.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ferrule/celled/internal/errfetch"
	"github.com/ferrule/celled/internal/types"
)

// demoFetcher fakes a backend round trip for error detail: it answers
// after a short delay with an expanded description for the cell.
type demoFetcher struct {
	delay time.Duration
}

func newDemoFetcher() *demoFetcher {
	return &demoFetcher{delay: 150 * time.Millisecond}
}

func (f *demoFetcher) FetchErrorDetail(ctx context.Context, key errfetch.Key) (types.RaisedException, error) {
	select {
	case <-ctx.Done():
		return types.RaisedException{}, ctx.Err()
	case <-time.After(f.delay):
	}
	return types.RaisedException{
		Code:    "EVAL",
		Summary: "evaluation failed",
		Detail:  fmt.Sprintf("table %s, column %s, row %d: see formula for details", key.TableID, key.ColRef, key.RowID),
	}, nil
}
