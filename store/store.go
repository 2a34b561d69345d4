package store

import (
	"sync"
	"time"
)

// Zone is a named geographic unit identified by a TLC LocationID.
type Zone struct {
	ID          int       `json:"id"`
	Borough     string    `json:"borough"`
	ZoneName    string    `json:"zone_name"`
	ServiceZone string    `json:"service_zone"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Route is a directional pickup→dropoff zone pair with a store-assigned id.
type Route struct {
	ID            int       `json:"id"`
	PickupZoneID  int       `json:"pickup_zone_id"`
	DropoffZoneID int       `json:"dropoff_zone_id"`
	Name          string    `json:"name"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// ZoneFilter narrows ListZones. Filters are conjunctive; zero values mean
// no constraint.
type ZoneFilter struct {
	Active  *bool
	Borough string
}

// RouteFilter narrows ListRoutes. Zone ids are strictly positive, so zero
// means no constraint.
type RouteFilter struct {
	Active      *bool
	PickupZone  int
	DropoffZone int
}

// Stats is a snapshot of store occupancy.
type Stats struct {
	Zones       int `json:"zones_count"`
	Routes      int `json:"routes_count"`
	NextRouteID int `json:"next_route_id"`
}

type pairKey struct {
	pickup, dropoff int
}

// Store holds the authoritative zone and route tables in memory. All state
// is process-lifetime only; a restart is a full reset.
//
// Mutating operations run under an exclusive lock so duplicate-id checks,
// referential-integrity checks and the route id counter are atomic with
// respect to each other. Reads run under a shared lock.
type Store struct {
	mu sync.RWMutex

	zones     map[int]Zone
	zoneOrder []int

	routes     map[int]Route
	routeOrder []int
	routePairs map[pairKey]int

	nextRouteID int
}

// New creates an empty store with the route id counter at 1.
func New() *Store {
	return &Store{
		zones:       map[int]Zone{},
		routes:      map[int]Route{},
		routePairs:  map[pairKey]int{},
		nextRouteID: 1,
	}
}

// Zone operations

// CreateZone inserts a zone and stamps CreatedAt. The zone id is externally
// assigned and must be unused.
func (s *Store) CreateZone(z Zone) (Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.zones[z.ID]; ok {
		return Zone{}, &DuplicateKeyError{Entity: "zone", ID: z.ID}
	}
	z.CreatedAt = time.Now().UTC()
	s.zones[z.ID] = z
	s.zoneOrder = append(s.zoneOrder, z.ID)
	return z, nil
}

// GetZone returns the zone with the given id.
func (s *Store) GetZone(id int) (Zone, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	z, ok := s.zones[id]
	return z, ok
}

// ListZones returns matching zones in insertion order.
func (s *Store) ListZones(f ZoneFilter) []Zone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Zone, 0, len(s.zoneOrder))
	for _, id := range s.zoneOrder {
		z := s.zones[id]
		if f.Active != nil && z.Active != *f.Active {
			continue
		}
		if f.Borough != "" && z.Borough != f.Borough {
			continue
		}
		out = append(out, z)
	}
	return out
}

// UpdateZone replaces the zone with z.ID unconditionally. Callers that need
// not-found semantics must check existence first. CreatedAt of an existing
// row is preserved; replacing an absent id behaves as an insert.
func (s *Store) UpdateZone(z Zone) Zone {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.zones[z.ID]; ok {
		z.CreatedAt = prev.CreatedAt
	} else {
		z.CreatedAt = time.Now().UTC()
		s.zoneOrder = append(s.zoneOrder, z.ID)
	}
	s.zones[z.ID] = z
	return z
}

// DeleteZone removes a zone. It reports whether a row was removed.
func (s *Store) DeleteZone(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.zones[id]; !ok {
		return false
	}
	delete(s.zones, id)
	s.zoneOrder = removeID(s.zoneOrder, id)
	return true
}

// ZoneExists reports whether a zone with the given id is present.
func (s *Store) ZoneExists(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.zones[id]
	return ok
}

// Route operations

// CreateRoute inserts a route after integrity checks. Check order is fixed
// for error-message determinism: duplicate id, self-loop, dropoff zone,
// pickup zone.
func (s *Store) CreateRoute(r Route) (Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.routes[r.ID]; ok {
		return Route{}, &DuplicateKeyError{Entity: "route", ID: r.ID}
	}
	if err := s.checkRouteIntegrity(r); err != nil {
		return Route{}, err
	}
	r.CreatedAt = time.Now().UTC()
	s.routes[r.ID] = r
	s.routeOrder = append(s.routeOrder, r.ID)
	s.routePairs[pairKey{r.PickupZoneID, r.DropoffZoneID}] = r.ID
	return r, nil
}

// GetRoute returns the route with the given id.
func (s *Store) GetRoute(id int) (Route, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.routes[id]
	return r, ok
}

// ListRoutes returns matching routes in insertion order.
func (s *Store) ListRoutes(f RouteFilter) []Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Route, 0, len(s.routeOrder))
	for _, id := range s.routeOrder {
		r := s.routes[id]
		if f.Active != nil && r.Active != *f.Active {
			continue
		}
		if f.PickupZone != 0 && r.PickupZoneID != f.PickupZone {
			continue
		}
		if f.DropoffZone != 0 && r.DropoffZoneID != f.DropoffZone {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FindRouteByZonePair returns the route for the exact ordered pair. Pairs
// are directional: (A,B) and (B,A) are distinct routes.
func (s *Store) FindRouteByZonePair(pickupID, dropoffID int) (Route, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.routePairs[pairKey{pickupID, dropoffID}]
	if !ok {
		return Route{}, false
	}
	return s.routes[id], true
}

// UpdateRoute replaces the route with the given id after the same integrity
// checks as create, plus a key-mismatch check against the body. There is no
// existence precheck; callers needing not-found semantics check first.
func (s *Store) UpdateRoute(id int, r Route) (Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != r.ID {
		return Route{}, &KeyMismatchError{TargetID: id, BodyID: r.ID}
	}
	if err := s.checkRouteIntegrity(r); err != nil {
		return Route{}, err
	}
	if prev, ok := s.routes[id]; ok {
		r.CreatedAt = prev.CreatedAt
		delete(s.routePairs, pairKey{prev.PickupZoneID, prev.DropoffZoneID})
	} else {
		r.CreatedAt = time.Now().UTC()
		s.routeOrder = append(s.routeOrder, id)
	}
	s.routes[id] = r
	s.routePairs[pairKey{r.PickupZoneID, r.DropoffZoneID}] = id
	return r, nil
}

// DeleteRoute removes a route. It reports whether a row was removed.
func (s *Store) DeleteRoute(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.routes[id]
	if !ok {
		return false
	}
	delete(s.routes, id)
	delete(s.routePairs, pairKey{r.PickupZoneID, r.DropoffZoneID})
	s.routeOrder = removeID(s.routeOrder, id)
	return true
}

// RouteExists reports whether a route with the given id is present.
func (s *Store) RouteExists(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.routes[id]
	return ok
}

// AssignRouteID returns the next route id. The counter starts at 1, only
// grows, and ids are never reused even after deletes.
func (s *Store) AssignRouteID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextRouteID
	s.nextRouteID++
	return id
}

// GetStats returns current table sizes and the next route id.
func (s *Store) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Zones:       len(s.zones),
		Routes:      len(s.routes),
		NextRouteID: s.nextRouteID,
	}
}

// Reset clears both tables and restarts the id counter. Intended for tests.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zones = map[int]Zone{}
	s.zoneOrder = nil
	s.routes = map[int]Route{}
	s.routeOrder = nil
	s.routePairs = map[pairKey]int{}
	s.nextRouteID = 1
}

// checkRouteIntegrity validates self-loop then zone references; callers
// hold the lock.
func (s *Store) checkRouteIntegrity(r Route) error {
	if r.PickupZoneID == r.DropoffZoneID {
		return &SelfLoopError{ZoneID: r.PickupZoneID}
	}
	if _, ok := s.zones[r.DropoffZoneID]; !ok {
		return &DanglingReferenceError{Side: "dropoff", ZoneID: r.DropoffZoneID}
	}
	if _, ok := s.zones[r.PickupZoneID]; !ok {
		return &DanglingReferenceError{Side: "pickup", ZoneID: r.PickupZoneID}
	}
	return nil
}

func removeID(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
