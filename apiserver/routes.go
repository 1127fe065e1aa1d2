package apiserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/netrixframework/qengine/quantifiers"
	"github.com/netrixframework/qengine/term"
)

// snapshot writes a 503 and returns nil when the engine has not checked yet
func (a *APIServer) snapshot(c *gin.Context) *quantifiers.Snapshot {
	s := a.source.Snapshot()
	if s == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no round completed"})
	}
	return s
}

// handleQuantifiers is the handler for `/quantifiers`
func (a *APIServer) handleQuantifiers(c *gin.Context) {
	s := a.snapshot(c)
	if s == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"quantifiers": s.Quantifiers,
		"summary":     s.Summary,
	})
}

// handleQuantifierGet is the handler for `/quantifiers/:id`
func (a *APIServer) handleQuantifierGet(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantifier id"})
		return
	}
	s := a.snapshot(c)
	if s == nil {
		return
	}
	info, ok := s.Quantifier(term.ID(id))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such quantifier"})
		return
	}
	c.JSON(http.StatusOK, info)
}

// handleRound is the handler for `/round`
func (a *APIServer) handleRound(c *gin.Context) {
	s := a.snapshot(c)
	if s == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"round":   s.Round,
		"verdict": s.Verdict,
		"lemmas":  s.Lemmas,
	})
}
