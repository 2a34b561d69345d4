package triproutes

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/theoremus-urban-solutions/trip-routes/tripdata"
	"github.com/theoremus-urban-solutions/trip-routes/uploads"
)

// Boundary caps for upload parameters, matching the config validation.
const (
	maxLimitRows = 1000000
	maxTopN      = 500
)

// handleUpload accepts a multipart parquet upload and processes it as one
// batch. A structurally invalid request (bad mode, bad parameters, file
// that cannot be decoded) is fatal and returns no summary; everything past
// decoding is reported per item inside the summary.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	mode, err := uploads.ParseMode(r.FormValue("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limitRows, err := formInt(r, "limit_rows", s.cfg.Upload.LimitRows, maxLimitRows)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	topN, err := formInt(r, "top_n", s.cfg.Upload.TopN, maxTopN)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	src, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer src.Close()

	// The parquet reader needs a seekable file, so spool to disk first.
	tmp, err := os.CreateTemp("", "trips-*.parquet")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()
	if _, err := io.Copy(tmp, src); err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	sum, err := s.coord.ProcessFile(r.Context(), tmp.Name(), header.Filename, mode, limitRows, topN)
	if err != nil {
		var schemaErr *tripdata.SchemaError
		if errors.As(err, &schemaErr) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("could not process file: %v", err))
		return
	}
	log.Printf("upload %s: file=%s mode=%s rows=%d", sum.UploadID, sum.FileName, mode, sum.RowsRead)
	writeJSON(w, http.StatusOK, sum)
}

func formInt(r *http.Request, name string, def, max int) (int, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > max {
		return 0, fmt.Errorf("%s must be an integer in [1, %d]", name, max)
	}
	return v, nil
}
