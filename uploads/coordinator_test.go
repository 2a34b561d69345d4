package uploads

import (
	"context"
	"strings"
	"testing"

	"github.com/theoremus-urban-solutions/trip-routes/store"
	"github.com/theoremus-urban-solutions/trip-routes/tripdata"
)

func records(ids ...int) []tripdata.Pair {
	out := make([]tripdata.Pair, 0, len(ids)/2)
	for i := 0; i+1 < len(ids); i += 2 {
		out = append(out, tripdata.Pair{Pickup: ids[i], Dropoff: ids[i+1]})
	}
	return out
}

// repeat yields n copies of the pair so a ranked frequency can be forced.
func repeat(pickup, dropoff, n int) []tripdata.Pair {
	out := make([]tripdata.Pair, n)
	for i := range out {
		out[i] = tripdata.Pair{Pickup: pickup, Dropoff: dropoff}
	}
	return out
}

func TestProcess_InvalidModeIsFatal(t *testing.T) {
	c := NewCoordinator(store.New())
	_, err := c.Process(context.Background(), records(1, 2), Mode("delete"), 100, 10)
	if err == nil {
		t.Fatal("invalid mode must abort the batch")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "create", want: ModeCreate},
		{in: "update", want: ModeUpdate},
		{in: "", wantErr: true},
		{in: "CREATE", wantErr: true},
		{in: "upsert", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestProcess_CreatesZonesAndRoutes(t *testing.T) {
	st := store.New()
	c := NewCoordinator(st)

	sum, err := c.Process(context.Background(), repeat(1, 2, 5), ModeCreate, 100, 10)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if sum.ZonesCreated != 2 || sum.RoutesCreated != 1 || len(sum.Errors) != 0 {
		t.Errorf("first run: %+v", sum)
	}
	if sum.RoutesDetected != 1 {
		t.Errorf("routes_detected = %d, want 1", sum.RoutesDetected)
	}

	route, ok := st.FindRouteByZonePair(1, 2)
	if !ok {
		t.Fatal("route for (1,2) should exist")
	}
	if !strings.Contains(route.Name, "freq:5") {
		t.Errorf("route name should embed the frequency, got %q", route.Name)
	}
	if !st.ZoneExists(1) || !st.ZoneExists(2) {
		t.Error("both placeholder zones should exist")
	}
	if z, _ := st.GetZone(1); z.Borough != "Unknown" || z.ZoneName != "Zone 1" {
		t.Errorf("unexpected placeholder zone: %+v", z)
	}
}

func TestProcess_CreateModeIsIdempotent(t *testing.T) {
	st := store.New()
	c := NewCoordinator(st)
	in := repeat(1, 2, 5)

	if _, err := c.Process(context.Background(), in, ModeCreate, 100, 10); err != nil {
		t.Fatal(err)
	}
	routesAfterFirst := len(st.ListRoutes(store.RouteFilter{}))
	zonesAfterFirst := len(st.ListZones(store.ZoneFilter{}))

	sum, err := c.Process(context.Background(), in, ModeCreate, 100, 10)
	if err != nil {
		t.Fatal(err)
	}
	if sum.ZonesCreated != 0 || sum.RoutesCreated != 0 {
		t.Errorf("second run must write nothing: %+v", sum)
	}
	if got := len(st.ListRoutes(store.RouteFilter{})); got != routesAfterFirst {
		t.Errorf("route count changed: %d -> %d", routesAfterFirst, got)
	}
	if got := len(st.ListZones(store.ZoneFilter{})); got != zonesAfterFirst {
		t.Errorf("zone count changed: %d -> %d", zonesAfterFirst, got)
	}
}

func TestProcess_ExistingZoneIsReused(t *testing.T) {
	st := store.New()
	if _, err := st.CreateZone(store.Zone{ID: 1, Borough: "Manhattan", ZoneName: "Midtown", ServiceZone: "Yellow", Active: true}); err != nil {
		t.Fatal(err)
	}
	c := NewCoordinator(st)

	sum, err := c.Process(context.Background(), repeat(1, 2, 5), ModeCreate, 100, 10)
	if err != nil {
		t.Fatal(err)
	}
	if sum.ZonesCreated != 1 {
		t.Errorf("only the missing zone should be created, got %d", sum.ZonesCreated)
	}
	if z, _ := st.GetZone(1); z.ZoneName != "Midtown" {
		t.Errorf("existing zone must not be overwritten: %+v", z)
	}
	if sum.RoutesCreated != 1 {
		t.Errorf("route referencing both zones should be created: %+v", sum)
	}
}

func TestProcess_SelfLoopRejectedPerItem(t *testing.T) {
	st := store.New()
	c := NewCoordinator(st)

	sum, err := c.Process(context.Background(), repeat(3, 3, 9), ModeCreate, 100, 10)
	if err != nil {
		t.Fatalf("a bad pair must not abort the batch: %v", err)
	}
	if len(sum.Errors) != 1 {
		t.Fatalf("want one error, got %v", sum.Errors)
	}
	if sum.ZonesCreated != 0 || sum.RoutesCreated != 0 {
		t.Errorf("rejected pair must touch nothing: %+v", sum)
	}
	if st.ZoneExists(3) {
		t.Error("no zone should be created for a rejected pair")
	}
}

func TestProcess_NonPositiveIDRejectedPerItem(t *testing.T) {
	st := store.New()
	c := NewCoordinator(st)

	in := append(repeat(0, 5, 2), repeat(1, 2, 3)...)
	sum, err := c.Process(context.Background(), in, ModeCreate, 100, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.Errors) != 1 {
		t.Fatalf("want one error for the invalid pair, got %v", sum.Errors)
	}
	if sum.RoutesCreated != 1 {
		t.Errorf("the valid pair should still be processed: %+v", sum)
	}
}

func TestProcess_UpdateModeRefreshesRoute(t *testing.T) {
	st := store.New()
	c := NewCoordinator(st)

	if _, err := c.Process(context.Background(), repeat(1, 2, 5), ModeCreate, 100, 10); err != nil {
		t.Fatal(err)
	}
	existing, _ := st.FindRouteByZonePair(1, 2)
	existing.Active = false
	existing.Name = "stale"
	if _, err := st.UpdateRoute(existing.ID, existing); err != nil {
		t.Fatal(err)
	}

	sum, err := c.Process(context.Background(), repeat(1, 2, 40), ModeUpdate, 100, 10)
	if err != nil {
		t.Fatal(err)
	}
	if sum.RoutesUpdated != 1 || sum.RoutesCreated != 0 {
		t.Errorf("expected one route update: %+v", sum)
	}
	refreshed, _ := st.FindRouteByZonePair(1, 2)
	if !refreshed.Active {
		t.Error("update mode must force the route active")
	}
	if !strings.Contains(refreshed.Name, "freq:40") {
		t.Errorf("route name should carry the new frequency, got %q", refreshed.Name)
	}
	if refreshed.ID != existing.ID {
		t.Errorf("route id must be stable across updates: %d vs %d", refreshed.ID, existing.ID)
	}
}

func TestProcess_UpdateModeReactivatesZone(t *testing.T) {
	st := store.New()
	c := NewCoordinator(st)

	if _, err := c.Process(context.Background(), repeat(1, 2, 5), ModeCreate, 100, 10); err != nil {
		t.Fatal(err)
	}
	z, _ := st.GetZone(1)
	z.Active = false
	st.UpdateZone(z)

	t.Run("create mode leaves inactive zones alone", func(t *testing.T) {
		sum, err := c.Process(context.Background(), repeat(1, 2, 5), ModeCreate, 100, 10)
		if err != nil {
			t.Fatal(err)
		}
		if sum.ZonesUpdated != 0 {
			t.Errorf("create mode must not touch existing zones: %+v", sum)
		}
		if z, _ := st.GetZone(1); z.Active {
			t.Error("zone should still be inactive")
		}
	})

	t.Run("update mode reactivates", func(t *testing.T) {
		sum, err := c.Process(context.Background(), repeat(1, 2, 5), ModeUpdate, 100, 10)
		if err != nil {
			t.Fatal(err)
		}
		if sum.ZonesUpdated != 1 {
			t.Errorf("want one zone update: %+v", sum)
		}
		if z, _ := st.GetZone(1); !z.Active {
			t.Error("zone should be active again")
		}
	})
}

func TestProcess_SummaryShape(t *testing.T) {
	st := store.New()
	c := NewCoordinator(st)

	sum, err := c.Process(context.Background(), records(1, 2, 2, 3, 1, 2), ModeCreate, 100, 10)
	if err != nil {
		t.Fatal(err)
	}
	if sum.UploadID == "" {
		t.Error("summary should carry an upload id")
	}
	if sum.RowsRead != 3 {
		t.Errorf("rows_read = %d, want 3", sum.RowsRead)
	}
	if sum.RoutesDetected != 2 {
		t.Errorf("routes_detected = %d, want 2", sum.RoutesDetected)
	}
	if sum.Errors == nil {
		t.Error("errors must be an empty list, not nil")
	}
}
