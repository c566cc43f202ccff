package api

import (
	"errors"
	"os"
	"strings"
)

func (s *Server) registerRoutes() error {
	if s == nil || s.router == nil {
		return nil
	}

	api := s.router.Group("/api")
	apiKey := strings.TrimSpace(os.Getenv("HOOKBENCH_API_KEY"))
	if apiKey != "" {
		api.Use(apiKeyAuthMiddleware(apiKey))
	} else if strings.EqualFold(strings.TrimSpace(os.Getenv("HOOKBENCH_DISABLE_AUTH")), "true") {
		// Explicitly allow unauthenticated access.
	} else {
		return errors.New("api: missing auth configuration: set HOOKBENCH_API_KEY or set HOOKBENCH_DISABLE_AUTH=true")
	}

	api.GET("/health", s.handleHealth)
	api.GET("/configs", s.handleListConfigs)
	api.GET("/batteries", s.handleListBatteries)

	api.GET("/runs", s.handleListRuns)
	api.GET("/runs/:id", s.handleGetRun)
	api.GET("/runs/:id/results", s.handleGetRunResults)

	api.GET("/history/:config", s.handleGetConfigHistory)

	return nil
}
