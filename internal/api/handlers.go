package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/common"
	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/service"
	"github.com/Veraticus/the-stars-must-align/internal/storage"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 16

// ScanBody is the POST /scans payload.
type ScanBody struct {
	Priorities []string `json:"priorities"`
	Timezone   string   `json:"timezone,omitempty"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Month      int      `json:"month"`
	Year       int      `json:"year"`
	Save       bool     `json:"save,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

type priorityInfo struct {
	Name    model.Priority `json:"name"`
	Display string         `json:"display"`
	Planets []model.Planet `json:"planets"`
	Houses  []int          `json:"houses"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) priorities(w http.ResponseWriter, _ *http.Request) {
	out := make([]priorityInfo, 0, len(model.AllPriorities))
	for _, p := range model.AllPriorities {
		c, ok := s.criteria.Lookup(p)
		if !ok {
			continue
		}
		out = append(out, priorityInfo{Name: p, Display: p.Display(), Planets: c.Planets, Houses: c.Houses})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createScan(w http.ResponseWriter, r *http.Request) {
	var body ScanBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	loc := time.UTC
	if body.Timezone != "" {
		l, err := time.LoadLocation(body.Timezone)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown timezone: "+body.Timezone)
			return
		}
		loc = l
	}

	req := model.ScanRequest{
		Location:   loc,
		Priorities: model.ParsePriorities(body.Priorities),
		Latitude:   body.Latitude,
		Longitude:  body.Longitude,
		Month:      time.Month(body.Month),
		Year:       body.Year,
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.Save && s.store == nil {
		writeError(w, http.StatusBadRequest, "saving is not enabled on this server")
		return
	}

	report, err := s.runner.Run(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}

	if body.Save {
		if err := s.store.SaveScan(r.Context(), report); err != nil {
			s.fail(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) listScans(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	q := r.URL.Query()
	filter := service.ScanFilter{}
	for name, dst := range map[string]*int{"year": &filter.Year, "month": &filter.Month, "limit": &filter.Limit} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid "+name)
				return
			}
			*dst = n
		}
	}

	reports, err := s.store.ListScans(r.Context(), filter)
	if err != nil {
		s.fail(w, err)
		return
	}
	if reports == nil {
		reports = []model.ScanReport{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) getScan(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	report, err := s.store.GetScan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) deleteScan(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.store.DeleteScan(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) eventsByRange(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	q := r.URL.Query()
	events, err := s.store.GetEventsByDateRange(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "scan history is not enabled on this server")
		return false
	}
	return true
}

// fail maps an error to a status code.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrNoViableTiming):
		writeError(w, http.StatusUnprocessableEntity, common.UserMessage(err))
	case errors.Is(err, storage.ErrEmptyString), errors.Is(err, storage.ErrInvalidDateRange):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		common.LogError(err, "Request failed", nil)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
