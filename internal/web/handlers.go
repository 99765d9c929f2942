package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/prolifichq/prolific/internal/adapters/turso"
	"github.com/prolifichq/prolific/internal/domain"
	"github.com/prolifichq/prolific/internal/engine"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// parseBody reads a form-encoded or JSON request body into a flat string
// map. Both encodings are accepted because the legacy frontend posts
// forms while newer clients post JSON.
func parseBody(r *http.Request) map[string]string {
	fields := map[string]string{}
	ct := strings.TrimSpace(strings.SplitN(r.Header.Get("Content-Type"), ";", 2)[0])
	if ct == "application/json" {
		var data map[string]any
		if r.Body == nil || json.NewDecoder(r.Body).Decode(&data) != nil {
			return fields
		}
		for k, v := range data {
			switch val := v.(type) {
			case string:
				fields[k] = val
			case float64:
				fields[k] = strconv.FormatInt(int64(val), 10)
			}
		}
		return fields
	}
	_ = r.ParseForm()
	for k, vs := range r.PostForm {
		if len(vs) > 0 {
			fields[k] = vs[0]
		}
	}
	return fields
}

func (s *Server) handleDayIndex(w http.ResponseWriter, r *http.Request) {
	index, err := s.exporter.DayIndex(r.Context())
	if err != nil {
		writeText(w, http.StatusInternalServerError, fmt.Sprintf("ERROR: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, index)
}

func (s *Server) dayParam(r *http.Request) (int64, error) {
	t0, err := strconv.ParseInt(r.PathValue("t0"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid day timestamp %q", r.PathValue("t0"))
	}
	return t0, nil
}

func (s *Server) handleDayPayload(w http.ResponseWriter, r *http.Request) {
	t0, err := s.dayParam(r)
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	payload, err := s.exporter.BuildPayload(r.Context(), t0)
	if err != nil {
		writeText(w, http.StatusInternalServerError, fmt.Sprintf("ERROR: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleDayAnalytics(w http.ResponseWriter, r *http.Request) {
	t0, err := s.dayParam(r)
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	payload, err := s.exporter.BuildPayload(r.Context(), t0)
	if err != nil {
		writeText(w, http.StatusInternalServerError, fmt.Sprintf("ERROR: %v", err))
		return
	}
	sleepClock, err := s.settings.SleepClock(r.Context())
	if err != nil {
		writeText(w, http.StatusInternalServerError, fmt.Sprintf("ERROR: %v", err))
		return
	}

	analytics, err := engine.BuildDayAnalytics(t0, payload, s.rules.Classifier.Map,
		s.rules.Ignored, s.rules.DeepSet, sleepClock, s.now(), s.loc)
	if err != nil {
		writeText(w, http.StatusInternalServerError, fmt.Sprintf("ERROR: %v", err))
		return
	}
	s.metrics.AnalyticsComputed(r.Context())
	writeJSON(w, http.StatusOK, analytics)
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	form := parseBody(r)
	note := form["note"]
	t := s.now()
	if raw := form["time"]; raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeText(w, http.StatusBadRequest, "Missing or invalid note time")
			return
		}
		t = parsed
	}

	if _, err := s.notes.InsertNote(r.Context(), t, note); err != nil {
		writeText(w, http.StatusInternalServerError, fmt.Sprintf("ERROR: %v", err))
		return
	}
	s.afterWrite(r, t)
	writeText(w, http.StatusOK, "OK")
}

func (s *Server) handleAddCoffee(w http.ResponseWriter, r *http.Request) {
	form := parseBody(r)
	t := s.now()
	if raw := form["time"]; raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeText(w, http.StatusBadRequest, "Missing or invalid coffee time")
			return
		}
		t = parsed
	}
	mg := 0
	if raw := form["mg"]; raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeText(w, http.StatusBadRequest, "Invalid caffeine dose")
			return
		}
		mg = parsed
	}

	err := s.coffee.Add(r.Context(), t, mg)
	if errors.Is(err, turso.ErrDailyCap) {
		writeText(w, http.StatusConflict, "Daily coffee cap reached")
		return
	}
	if err != nil {
		writeText(w, http.StatusInternalServerError, fmt.Sprintf("ERROR: %v", err))
		return
	}
	s.afterWrite(r, t)
	writeText(w, http.StatusOK, "OK")
}

func (s *Server) handleBlog(w http.ResponseWriter, r *http.Request) {
	form := parseBody(r)
	post := form["post"]
	raw := form["time"]
	t, err := strconv.ParseInt(raw, 10, 64)
	if raw == "" || err != nil {
		writeText(w, http.StatusBadRequest, "Missing or invalid blog time")
		return
	}

	dayT0 := domain.RewindTime(t, s.loc)
	if err := s.blog.Upsert(r.Context(), dayT0, post); err != nil {
		writeText(w, http.StatusInternalServerError, fmt.Sprintf("ERROR: %v", err))
		return
	}
	s.afterWrite(r, t)
	writeText(w, http.StatusOK, "OK")
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.refresher != nil {
		if _, err := s.refresher.Run(r.Context(), false); err != nil {
			writeText(w, http.StatusInternalServerError, fmt.Sprintf("ERROR: %v", err))
			return
		}
	}
	if _, err := s.exporter.WriteAll(r.Context()); err != nil {
		writeText(w, http.StatusInternalServerError, fmt.Sprintf("ERROR: %v", err))
		return
	}
	if s.hub != nil {
		s.hub.Broadcast(domain.RewindTime(s.now(), s.loc))
	}
	writeText(w, http.StatusOK, "OK")
}

func (s *Server) handleSetSleep(w http.ResponseWriter, r *http.Request) {
	clock := parseBody(r)["clock"]
	if err := s.settings.SetSleepClock(r.Context(), clock); err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"clock": clock})
}

// afterWrite refreshes the written day's export file and notifies
// websocket clients. Export failures don't fail the original request; the
// data is already in the database.
func (s *Server) afterWrite(r *http.Request, t int64) {
	dayT0 := domain.RewindTime(t, s.loc)
	if err := s.exporter.WriteDay(r.Context(), dayT0); err != nil {
		fmt.Printf("export after write failed: %v\n", err)
	}
	if s.hub != nil {
		s.hub.Broadcast(dayT0)
	}
}
