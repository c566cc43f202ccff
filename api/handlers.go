package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/hookbench/internal/battery"
	"github.com/stellarlinkco/hookbench/internal/hookcfg"
	"github.com/stellarlinkco/hookbench/internal/store"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListConfigs(c *gin.Context) {
	type configInfo struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	out := make([]configInfo, 0)
	for _, id := range hookcfg.IDs() {
		cfg, err := hookcfg.Get(id)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err)
			return
		}
		out = append(out, configInfo{ID: cfg.ID, Label: cfg.Label})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleListBatteries(c *gin.Context) {
	type batteryInfo struct {
		Name  string `json:"name"`
		Cases int    `json:"cases"`
	}
	out := []batteryInfo{}
	for _, bat := range []battery.Battery{battery.Baseline(), battery.Hard()} {
		out = append(out, batteryInfo{Name: bat.Name, Cases: len(bat.Cases)})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleListRuns(c *gin.Context) {
	filter := store.RunFilter{
		Battery: strings.TrimSpace(c.Query("battery")),
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondError(c, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		filter.Limit = limit
	}

	runs, err := s.store.ListRuns(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []*store.RunRecord{}
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) handleGetRun(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing run id"))
		return
	}

	run, err := s.store.GetRun(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, fmt.Errorf("run %q not found", id))
			return
		}
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleGetRunResults(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing run id"))
		return
	}

	results, err := s.store.GetConfigResults(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if results == nil {
		results = []*store.ConfigRecord{}
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) handleGetConfigHistory(c *gin.Context) {
	configID := strings.TrimSpace(c.Param("config"))
	if configID == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing config id"))
		return
	}
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = parsed
	}

	history, err := s.store.GetConfigHistory(c.Request.Context(), configID, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if history == nil {
		history = []*store.ConfigRecord{}
	}
	c.JSON(http.StatusOK, history)
}

func respondError(c *gin.Context, code int, err error) {
	c.JSON(code, gin.H{"error": err.Error()})
}
