package triproutes

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/trip-routes/store"
)

// SeedZonesFromCSV preloads the store from a TLC zone lookup table
// (LocationID,Borough,Zone,service_zone). Rows with an id already present
// are left untouched, so seeding after a partial run is safe. It returns
// the number of zones created.
func SeedZonesFromCSV(st *store.Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("reading zone lookup %s: %w", path, err)
	}

	created := 0
	for i, rec := range records {
		if i == 0 {
			// header
			continue
		}
		if len(rec) < 4 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil || id <= 0 {
			continue
		}
		if st.ZoneExists(id) {
			continue
		}
		zone := store.Zone{
			ID:          id,
			Borough:     strings.TrimSpace(rec[1]),
			ZoneName:    strings.TrimSpace(rec[2]),
			ServiceZone: strings.TrimSpace(rec[3]),
			Active:      true,
		}
		if zone.Borough == "" || zone.ZoneName == "" {
			continue
		}
		if _, err := st.CreateZone(zone); err != nil {
			return created, err
		}
		created++
	}
	log.Printf("seeded %d zones from %s", created, path)
	return created, nil
}
