package triproutes

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/theoremus-urban-solutions/trip-routes/store"
)

// routeInput is the wire form of a route. The id is store-assigned on
// create and therefore not part of the payload.
type routeInput struct {
	PickupZoneID  int    `json:"pickup_zone_id" validate:"required,gt=0"`
	DropoffZoneID int    `json:"dropoff_zone_id" validate:"required,gt=0"`
	Name          string `json:"name" validate:"required"`
	Active        *bool  `json:"active"`
}

func (s *Server) routeFromInput(in routeInput, id int) (store.Route, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return store.Route{}, err
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return store.Route{
		ID:            id,
		PickupZoneID:  in.PickupZoneID,
		DropoffZoneID: in.DropoffZoneID,
		Name:          in.Name,
		Active:        active,
	}, nil
}

// storeErrorStatus maps route integrity rejections to status codes.
func storeErrorStatus(err error) int {
	var dup *store.DuplicateKeyError
	var loop *store.SelfLoopError
	var dangling *store.DanglingReferenceError
	var mismatch *store.KeyMismatchError
	switch {
	case errors.As(err, &dup), errors.As(err, &dangling), errors.As(err, &mismatch):
		return http.StatusBadRequest
	case errors.As(err, &loop):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) handleCreateRoute(w http.ResponseWriter, r *http.Request) {
	var in routeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	route, err := s.routeFromInput(in, 0)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if route.PickupZoneID == route.DropoffZoneID {
		writeError(w, http.StatusUnprocessableEntity, "pickup_zone_id and dropoff_zone_id must be different")
		return
	}
	route.ID = s.store.AssignRouteID()
	created, err := s.store.CreateRoute(route)
	if err != nil {
		writeError(w, storeErrorStatus(err), err.Error())
		return
	}
	log.Printf("route created: id=%d %d→%d", created.ID, created.PickupZoneID, created.DropoffZoneID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	active, ok := queryBool(r, "active")
	if !ok {
		writeError(w, http.StatusBadRequest, "active must be a boolean")
		return
	}
	pickup, ok := queryInt(r, "pickup_zone_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "pickup_zone_id must be a non-negative integer")
		return
	}
	dropoff, ok := queryInt(r, "dropoff_zone_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "dropoff_zone_id must be a non-negative integer")
		return
	}
	routes := s.store.ListRoutes(store.RouteFilter{
		Active:      active,
		PickupZone:  pickup,
		DropoffZone: dropoff,
	})
	writeJSON(w, http.StatusOK, routes)
}

func (s *Server) handleGetRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "route id must be a positive integer")
		return
	}
	route, ok := s.store.GetRoute(id)
	if !ok {
		writeError(w, http.StatusNotFound, "route not found")
		return
	}
	writeJSON(w, http.StatusOK, route)
}

func (s *Server) handleUpdateRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "route id must be a positive integer")
		return
	}
	var in routeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	route, err := s.routeFromInput(in, id)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	// The store replaces unconditionally; 404 semantics live here.
	if !s.store.RouteExists(id) {
		writeError(w, http.StatusNotFound, "route not found")
		return
	}
	updated, err := s.store.UpdateRoute(id, route)
	if err != nil {
		writeError(w, storeErrorStatus(err), err.Error())
		return
	}
	log.Printf("route updated: id=%d", updated.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "route id must be a positive integer")
		return
	}
	if !s.store.DeleteRoute(id) {
		writeError(w, http.StatusNotFound, "route not found")
		return
	}
	log.Printf("route deleted: id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}
