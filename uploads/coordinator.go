package uploads

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/trip-routes/ranking"
	"github.com/theoremus-urban-solutions/trip-routes/store"
	"github.com/theoremus-urban-solutions/trip-routes/tripdata"
)

// Mode selects how a batch treats entities that already exist.
type Mode string

const (
	// ModeCreate only adds what is missing; existing routes are skipped,
	// which makes re-running the same batch a no-op.
	ModeCreate Mode = "create"
	// ModeUpdate additionally reactivates existing zones and refreshes
	// existing routes with the new frequency.
	ModeUpdate Mode = "update"
)

// ParseMode validates a mode string from the transport layer.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCreate, ModeUpdate:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode: %q, must be %q or %q", s, ModeCreate, ModeUpdate)
}

// Summary reports the outcome of one processed batch. Per-item failures
// accumulate in Errors; they never abort the batch.
type Summary struct {
	UploadID       string   `json:"upload_id"`
	FileName       string   `json:"file_name"`
	RowsRead       int      `json:"rows_read"`
	ZonesCreated   int      `json:"zones_created"`
	ZonesUpdated   int      `json:"zones_updated"`
	RoutesDetected int      `json:"routes_detected"`
	RoutesCreated  int      `json:"routes_created"`
	RoutesUpdated  int      `json:"routes_updated"`
	Errors         []string `json:"errors"`
}

// Coordinator turns a batch of trip records into an idempotent set of zone
// and route writes against the store.
type Coordinator struct {
	store *store.Store
}

// NewCoordinator creates a coordinator over the given store.
func NewCoordinator(st *store.Store) *Coordinator {
	return &Coordinator{store: st}
}

// ProcessFile decodes a parquet trip file and processes it as one batch.
// Decode and schema failures are fatal: no summary is produced.
func (c *Coordinator) ProcessFile(ctx context.Context, path, fileName string, mode Mode, limitRows, topN int) (*Summary, error) {
	if err := checkMode(mode); err != nil {
		return nil, err
	}
	pairs, rowsRead, err := tripdata.ReadPairs(ctx, path, limitRows)
	if err != nil {
		return nil, err
	}
	sum, err := c.Process(ctx, pairs, mode, limitRows, topN)
	if err != nil {
		return nil, err
	}
	sum.FileName = fileName
	sum.RowsRead = rowsRead
	return sum, nil
}

// Process ranks the records and applies a create-or-update per ranked pair.
// Each pair is handled independently: a rejected or failed pair contributes
// an error message and processing moves on.
func (c *Coordinator) Process(ctx context.Context, records []tripdata.Pair, mode Mode, limitRows, topN int) (*Summary, error) {
	if err := checkMode(mode); err != nil {
		return nil, err
	}

	sum := &Summary{
		UploadID: uuid.NewString(),
		RowsRead: len(records),
		Errors:   []string{},
	}

	ranked := ranking.Rank(records, limitRows, topN)
	sum.RoutesDetected = len(ranked)

	// Snapshot of pairs already present, for bookkeeping only. The
	// authoritative existence check is per item against the live store.
	existing := map[tripdata.Pair]struct{}{}
	for _, r := range c.store.ListRoutes(store.RouteFilter{}) {
		existing[tripdata.Pair{Pickup: r.PickupZoneID, Dropoff: r.DropoffZoneID}] = struct{}{}
	}
	fresh := ranking.FilterNew(ranked, existing)
	log.Printf("upload %s: %d ranked pairs, %d not yet in store", sum.UploadID, len(ranked), len(fresh))

	for _, pair := range ranked {
		c.processPair(pair, mode, sum)
	}

	log.Printf("upload %s complete: zones_created=%d zones_updated=%d routes_created=%d routes_updated=%d errors=%d",
		sum.UploadID, sum.ZonesCreated, sum.ZonesUpdated, sum.RoutesCreated, sum.RoutesUpdated, len(sum.Errors))
	return sum, nil
}

// processPair handles one ranked pair. Panics are converted to an error
// entry naming the pair so a single bad item cannot abort the batch.
func (c *Coordinator) processPair(pair ranking.RankedPair, mode Mode, sum *Summary) {
	defer func() {
		if r := recover(); r != nil {
			sum.Errors = append(sum.Errors,
				fmt.Sprintf("error processing route pickup=%d dropoff=%d: %v", pair.Pickup, pair.Dropoff, r))
		}
	}()

	if err := ranking.ValidatePair(pair.Pickup, pair.Dropoff); err != nil {
		sum.Errors = append(sum.Errors, err.Error())
		return
	}
	c.ensureZones(pair.Pickup, pair.Dropoff, mode, sum)
	c.upsertRoute(pair, mode, sum)
}

// ensureZones creates placeholder zones for missing ids. In update mode an
// existing inactive zone is reactivated; in create mode it is left alone.
func (c *Coordinator) ensureZones(pickupID, dropoffID int, mode Mode, sum *Summary) {
	for _, zoneID := range []int{pickupID, dropoffID} {
		z, ok := c.store.GetZone(zoneID)
		if !ok {
			_, err := c.store.CreateZone(store.Zone{
				ID:          zoneID,
				Borough:     "Unknown",
				ZoneName:    fmt.Sprintf("Zone %d", zoneID),
				ServiceZone: "Unknown",
				Active:      true,
			})
			if err != nil {
				sum.Errors = append(sum.Errors, fmt.Sprintf("failed to create zone %d: %v", zoneID, err))
				continue
			}
			sum.ZonesCreated++
		} else if mode == ModeUpdate && !z.Active {
			z.Active = true
			c.store.UpdateZone(z)
			sum.ZonesUpdated++
		}
	}
}

func (c *Coordinator) upsertRoute(pair ranking.RankedPair, mode Mode, sum *Summary) {
	name := routeName(pair)
	existing, ok := c.store.FindRouteByZonePair(pair.Pickup, pair.Dropoff)
	if !ok {
		route := store.Route{
			ID:            c.store.AssignRouteID(),
			PickupZoneID:  pair.Pickup,
			DropoffZoneID: pair.Dropoff,
			Name:          name,
			Active:        true,
		}
		if _, err := c.store.CreateRoute(route); err != nil {
			sum.Errors = append(sum.Errors, fmt.Sprintf("failed to create route: %v", err))
			return
		}
		sum.RoutesCreated++
		return
	}
	if mode != ModeUpdate {
		// Create mode skips existing routes; this is the idempotency
		// guarantee.
		return
	}
	existing.Active = true
	existing.Name = name
	if _, err := c.store.UpdateRoute(existing.ID, existing); err != nil {
		sum.Errors = append(sum.Errors, fmt.Sprintf("failed to update route %d: %v", existing.ID, err))
		return
	}
	sum.RoutesUpdated++
}

func routeName(pair ranking.RankedPair) string {
	return fmt.Sprintf("Route %d→%d (freq:%d)", pair.Pickup, pair.Dropoff, pair.Frequency)
}

func checkMode(mode Mode) error {
	if mode != ModeCreate && mode != ModeUpdate {
		return fmt.Errorf("invalid mode: %q, must be %q or %q", mode, ModeCreate, ModeUpdate)
	}
	return nil
}
