package main

import (
	"net/http"

	"github.com/dmitrymomot/restify"
)

type demoHandler struct {
	sessions *restify.SessionManager
}

func (h *demoHandler) Routes(r restify.Router) {
	r.GET("/hello/:name", h.hello)
	r.Group("/api", func(r restify.Router) {
		r.POST("/echo", h.echo)
		r.GET("/visits", h.sessions.Stage(), h.visits)
	})
}

func (h *demoHandler) hello(req *restify.Request, res *restify.Response, next restify.Next) error {
	if err := res.String(http.StatusOK, "Hello, "+req.Param("name")); err != nil {
		return err
	}
	return next()
}

// echo returns the parsed body, path parameters included.
func (h *demoHandler) echo(req *restify.Request, res *restify.Response, next restify.Next) error {
	if err := res.JSON(http.StatusOK, req.Data()); err != nil {
		return err
	}
	return next()
}

func (h *demoHandler) visits(req *restify.Request, res *restify.Response, next restify.Next) error {
	raw, err := h.sessions.Get(req, "visits")
	if err != nil {
		return err
	}
	count := 1
	if n, ok := raw.(int); ok {
		count = n + 1
	}
	if err := h.sessions.Set(req, "visits", count); err != nil {
		return err
	}
	if err := res.JSON(http.StatusOK, map[string]int{"visits": count}); err != nil {
		return err
	}
	return next()
}
