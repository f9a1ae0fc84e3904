// Package snapshot maintains the ephemeral per-favorite weather summaries
// shown on the favorites list. Snapshots are derived, never persisted, and
// rebuilt in full whenever the favorites list changes.
package snapshot

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/FAYAZKLU/WeatherApp/internal/common"
	"github.com/FAYAZKLU/WeatherApp/internal/favorites"
	"github.com/FAYAZKLU/WeatherApp/internal/weather"
)

// Lookup is the slice of the weather service the refresher needs.
// *weather.Service satisfies it.
type Lookup interface {
	FetchCurrent(ctx context.Context, loc weather.Location) (weather.CurrentWeather, error)
}

// Snapshot is a lightweight current-weather summary for one favorite.
// OK=false is the explicit "unknown" placeholder for a failed lookup; the
// UI renders a dash instead of dropping the card.
type Snapshot struct {
	OK        bool   `json:"ok"`
	Temp      int    `json:"temp"`
	Min       int    `json:"min"`
	Max       int    `json:"max"`
	Condition string `json:"condition"`
}

// Refresher rebuilds the favorite-id → snapshot map on every favorites
// change. Batches are identified by a monotonic epoch: a new batch cancels
// the previous one, and a finished batch applies its map only if its epoch
// is still current, so a stale batch can never clobber a fresher one. The
// map is swapped whole, never merged from partial batches.
type Refresher struct {
	lookup  Lookup
	timeout time.Duration

	mu        sync.Mutex
	epoch     uint64
	cancel    context.CancelFunc
	snapshots map[favorites.ID]Snapshot
}

// NewRefresher creates a Refresher. timeout bounds one whole batch so a
// hung lookup cannot leave the UI pending forever.
func NewRefresher(lookup Lookup, timeout time.Duration) *Refresher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Refresher{
		lookup:    lookup,
		timeout:   timeout,
		snapshots: make(map[favorites.ID]Snapshot),
	}
}

// Refresh starts a new snapshot batch for the given favorites list and
// supersedes any batch still in flight. Safe to use directly as the
// favorites store's OnChange callback. Returns without waiting for the
// batch to finish.
func (r *Refresher) Refresh(favs []favorites.Favorite) {
	r.mu.Lock()
	r.epoch++
	epoch := r.epoch
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	r.cancel = cancel
	r.mu.Unlock()

	go r.run(ctx, cancel, epoch, favs)
}

// Snapshots returns a copy of the current snapshot map.
func (r *Refresher) Snapshots() map[favorites.ID]Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[favorites.ID]Snapshot, len(r.snapshots))
	for id, s := range r.snapshots {
		out[id] = s
	}
	return out
}

func (r *Refresher) run(ctx context.Context, cancel context.CancelFunc, epoch uint64, favs []favorites.Favorite) {
	defer cancel()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		batched = make(map[favorites.ID]Snapshot, len(favs))
	)

	for _, fav := range favs {
		fav := fav
		wg.Add(1)
		go func() {
			defer wg.Done()

			snap := r.fetchOne(ctx, fav)
			mu.Lock()
			batched[fav.ID] = snap
			mu.Unlock()
		}()
	}
	wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()

	if epoch != r.epoch {
		// Superseded while running; discard the whole batch.
		return
	}
	r.snapshots = batched
}

// fetchOne resolves one favorite to a snapshot. Failures degrade to the
// unknown placeholder and never abort the batch.
func (r *Refresher) fetchOne(ctx context.Context, fav favorites.Favorite) Snapshot {
	if fav.CityName == "" {
		return Snapshot{}
	}

	loc := weather.Location{
		City:    fav.CityName,
		Country: fav.Country,
		Lat:     fav.Latitude,
		Lon:     fav.Longitude,
	}
	cw, err := r.lookup.FetchCurrent(ctx, loc)
	if err != nil {
		log.Printf("snapshot: lookup failed for favorite %s (%s): %v", fav.ID, fav.CityName, err)
		return Snapshot{}
	}

	condition := cw.Condition
	if condition == "" {
		condition = cw.Description
	}
	return Snapshot{
		OK:        true,
		Temp:      common.RoundDegree(cw.Temperature),
		Min:       common.RoundDegree(cw.TempMin),
		Max:       common.RoundDegree(cw.TempMax),
		Condition: condition,
	}
}
