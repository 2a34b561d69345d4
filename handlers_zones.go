package triproutes

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/theoremus-urban-solutions/trip-routes/store"
)

// zoneInput is the wire form of a zone. Text fields are trimmed before
// validation so whitespace-only values are rejected.
type zoneInput struct {
	ID          int    `json:"id" validate:"required,gt=0"`
	Borough     string `json:"borough" validate:"required"`
	ZoneName    string `json:"zone_name" validate:"required"`
	ServiceZone string `json:"service_zone"`
	Active      *bool  `json:"active"`
}

// zoneFromInput validates the payload and builds the entity value; entities
// inside the core are valid by construction.
func (s *Server) zoneFromInput(in zoneInput) (store.Zone, error) {
	in.Borough = strings.TrimSpace(in.Borough)
	in.ZoneName = strings.TrimSpace(in.ZoneName)
	in.ServiceZone = strings.TrimSpace(in.ServiceZone)
	if err := s.validate.Struct(in); err != nil {
		return store.Zone{}, err
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return store.Zone{
		ID:          in.ID,
		Borough:     in.Borough,
		ZoneName:    in.ZoneName,
		ServiceZone: in.ServiceZone,
		Active:      active,
	}, nil
}

func (s *Server) handleCreateZone(w http.ResponseWriter, r *http.Request) {
	var in zoneInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	zone, err := s.zoneFromInput(in)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	created, err := s.store.CreateZone(zone)
	if err != nil {
		var dup *store.DuplicateKeyError
		if errors.As(err, &dup) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	log.Printf("zone created: id=%d borough=%s name=%s", created.ID, created.Borough, created.ZoneName)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListZones(w http.ResponseWriter, r *http.Request) {
	active, ok := queryBool(r, "active")
	if !ok {
		writeError(w, http.StatusBadRequest, "active must be a boolean")
		return
	}
	zones := s.store.ListZones(store.ZoneFilter{
		Active:  active,
		Borough: strings.TrimSpace(r.URL.Query().Get("borough")),
	})
	writeJSON(w, http.StatusOK, zones)
}

func (s *Server) handleGetZone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "zone id must be a positive integer")
		return
	}
	zone, ok := s.store.GetZone(id)
	if !ok {
		writeError(w, http.StatusNotFound, "zone not found")
		return
	}
	writeJSON(w, http.StatusOK, zone)
}

func (s *Server) handleUpdateZone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "zone id must be a positive integer")
		return
	}
	var in zoneInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	zone, err := s.zoneFromInput(in)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	// The store replaces unconditionally; 404 semantics live here.
	if !s.store.ZoneExists(id) {
		writeError(w, http.StatusNotFound, "zone not found")
		return
	}
	if id != zone.ID {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("zone ID mismatch: URL id=%d, payload id=%d", id, zone.ID))
		return
	}
	updated := s.store.UpdateZone(zone)
	log.Printf("zone updated: id=%d name=%s", updated.ID, updated.ZoneName)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteZone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "zone id must be a positive integer")
		return
	}
	if !s.store.DeleteZone(id) {
		writeError(w, http.StatusNotFound, "zone not found")
		return
	}
	log.Printf("zone deleted: id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}
