package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// seedLeads bootstraps an empty inventory from a JSON array of leads. A
// non-empty inventory is left alone so restarts do not duplicate rows.
func seedLeads(ctx context.Context, s *LeadStore, path string) (int, error) {
	existing, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading seed file: %w", err)
	}
	var leads []Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return 0, fmt.Errorf("parsing seed file: %w", err)
	}

	n := 0
	for i := range leads {
		l := &leads[i]
		l.LeadTypeNorm = normType(l.LeadTypeNorm)
		l.State = normState(l.State)
		if l.Zip5 == "" {
			l.Zip5 = normZip(l.ZipCode)
		}
		if l.CreatedAt.IsZero() {
			l.CreatedAt = time.Now().UTC()
		}
		if err := s.Insert(ctx, l); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
