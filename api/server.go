// Package api exposes stored experiment results over a read-only HTTP API.
package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/hookbench/internal/store"
)

type Server struct {
	router *gin.Engine
	store  store.Store
}

func NewServer(st store.Store) (*Server, error) {
	if st == nil {
		return nil, errors.New("api: nil store")
	}
	r := gin.New()
	s := &Server{
		router: r,
		store:  st,
	}
	s.registerMiddleware()
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Run(addr string) error {
	if s == nil || s.router == nil {
		return errors.New("api: nil server")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = ":8080"
	}
	return s.router.Run(addr)
}
