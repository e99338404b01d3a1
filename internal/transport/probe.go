package transport

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const defaultProbeConcurrency = 8

// Presence is the outcome of looking up one id.
type Presence int

const (
	Absent Presence = iota
	Present
	// Unknown means the lookup failed for a reason other than absence.
	Unknown
)

func (p Presence) String() string {
	switch p {
	case Absent:
		return "absent"
	case Present:
		return "present"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("Presence(%d)", int(p))
	}
}

type Probe struct {
	Presence Presence
	Err      error
}

type getFunc func(ctx context.Context, id string) ([]byte, error)

// probeObjects looks up every distinct id concurrently, at most limit at a
// time. One id failing never changes the result for another.
func probeObjects(ctx context.Context, ids []string, limit int, get getFunc) map[string]Probe {
	unique := uniqueIDs(ids)
	results := make([]Probe, len(unique))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, id := range unique {
		g.Go(func() error {
			results[i] = probeOne(ctx, id, get)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]Probe, len(unique))
	for i, id := range unique {
		out[id] = results[i]
	}
	return out
}

func probeOne(ctx context.Context, id string, get getFunc) Probe {
	payload, err := get(ctx, id)
	switch {
	case err == nil && len(payload) > 0:
		return Probe{Presence: Present}
	case err == nil:
		return Probe{Presence: Absent}
	case errors.Is(err, ErrNotFound):
		return Probe{Presence: Absent}
	default:
		return Probe{Presence: Unknown, Err: err}
	}
}

// collapseLenient maps Unknown to false.
func collapseLenient(probes map[string]Probe) map[string]bool {
	out := make(map[string]bool, len(probes))
	for id, p := range probes {
		out[id] = p.Presence == Present
	}
	return out
}

// collapseStrict maps Unknown to false and returns every lookup failure,
// in input order, combined into one error.
func collapseStrict(ids []string, probes map[string]Probe) (map[string]bool, error) {
	var err error
	for _, id := range uniqueIDs(ids) {
		if p := probes[id]; p.Presence == Unknown {
			err = multierr.Append(err, fmt.Errorf("probe %s: %w", id, p.Err))
		}
	}
	return collapseLenient(probes), err
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
