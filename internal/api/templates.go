// ABOUTME: Template handlers: create, update, list, fetch and delete.
// ABOUTME: Update reports templates owned by someone else as not found.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harperreed/liftlog/internal/apperr"
	"github.com/harperreed/liftlog/internal/pipeline"
)

// createTemplate handles POST /api/v1/templates/create.
func (s *Server) createTemplate(c *gin.Context) {
	var in pipeline.TemplateInput
	if !bindJSON(c, &in) {
		return
	}
	t, err := s.writes.SaveTemplate(c.Request.Context(), caller(c), in)
	if err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// updateTemplate handles PUT /api/v1/templates/:templateId.
func (s *Server) updateTemplate(c *gin.Context) {
	var in pipeline.TemplateInput
	if !bindJSON(c, &in) {
		return
	}
	t, err := s.writes.UpdateTemplate(c.Request.Context(), caller(c), c.Param("templateId"), in)
	if err != nil {
		respondError(c, err, true)
		return
	}
	c.JSON(http.StatusOK, t)
}

// listTemplates handles GET /api/v1/templates. Pass include_public=true to
// add other users' public templates.
func (s *Server) listTemplates(c *gin.Context) {
	includePublic := false
	if raw := c.Query("include_public"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, apperr.InvalidInput("include_public must be true or false"), false)
			return
		}
		includePublic = v
	}
	list, err := s.reads.Templates(c.Request.Context(), caller(c), includePublic)
	if err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getTemplate(c *gin.Context) {
	t, err := s.reads.Template(c.Request.Context(), caller(c), c.Param("templateId"))
	if err != nil {
		respondError(c, err, true)
		return
	}
	c.JSON(http.StatusOK, t)
}

// deleteTemplate handles DELETE /api/v1/templates/:templateId.
func (s *Server) deleteTemplate(c *gin.Context) {
	id := c.Param("templateId")
	if err := s.writes.DeleteTemplate(c.Request.Context(), caller(c), id); err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "template deleted", ID: id})
}
