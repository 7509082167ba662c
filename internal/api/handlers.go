package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/grantmcd/prisoners-royale/internal/engine"
	"github.com/grantmcd/prisoners-royale/internal/models"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCompile(c *gin.Context) {
	var req CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	compiled, err := s.compile(req.Name, req.Graph)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CompileResponse{
		Valid:   true,
		Nodes:   len(req.Graph.Nodes),
		Edges:   len(req.Graph.Edges),
		Opening: compiled.Explain(nil),
	})
}

func (s *Server) handleSimulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	players, err := s.participants(req)
	if err != nil {
		s.respondError(c, err)
		return
	}

	runID := uuid.NewString()
	s.logger.Info("simulation requested", "run_id", runID, "participants", len(players))
	result, err := s.engine.Run(players)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SimulateResponse{RunID: runID, Result: result})
}

func (s *Server) handleTestMatch(c *gin.Context) {
	var req TestMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	mine, err := s.compile(req.Name, req.Graph)
	if err != nil {
		s.respondError(c, err)
		return
	}
	opponent, err := s.resolver.Resolve(req.Opponent)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var res engine.MatchResult
	if req.Rounds > 0 {
		res = engine.PlayMatch(mine, opponent, req.Rounds)
	} else {
		res = s.engine.TestMatch(mine, opponent)
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleListStrategies(c *gin.Context) {
	list := StrategyList{Builtins: s.resolver.Registry().Names(), Saved: []string{}}
	if lib := s.resolver.Library(); lib != nil {
		saved, err := lib.List()
		if err != nil {
			s.respondError(c, err)
			return
		}
		list.Saved = saved
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleGetStrategy(c *gin.Context) {
	name := c.Param("name")
	lib := s.resolver.Library()
	if lib == nil {
		s.respondError(c, fmt.Errorf("%w: %q", models.ErrNotFound, name))
		return
	}
	saved, err := lib.Load(name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) handleSaveStrategy(c *gin.Context) {
	name := c.Param("name")
	lib := s.resolver.Library()
	if lib == nil {
		s.respondError(c, fmt.Errorf("strategy library is not configured"))
		return
	}
	if !models.ValidName(name) {
		s.respondError(c, fmt.Errorf("%w: invalid strategy name %q", errBadRequest, name))
		return
	}
	if _, err := s.resolver.Registry().Lookup(name); err == nil {
		s.respondError(c, fmt.Errorf("%w: %q is a built-in strategy", errBadRequest, name))
		return
	}

	var req SaveStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if _, err := s.compile(name, req.Graph); err != nil {
		s.respondError(c, err)
		return
	}

	saved := &models.SavedStrategy{Name: name, Description: req.Description, Graph: req.Graph}
	if err := lib.Save(saved); err != nil {
		s.respondError(c, err)
		return
	}
	s.logger.Info("strategy saved", "name", name, "id", saved.ID)
	c.JSON(http.StatusOK, saved)
}
