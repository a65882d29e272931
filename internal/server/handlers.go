// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdiddy/schema-engine/internal/plan"
	"github.com/pdiddy/schema-engine/pkg/types"
)

// GenerateRequest is the body of POST /api/generate-schema.
type GenerateRequest struct {
	ExamName string          `json:"examName"`
	Options  *OptionsRequest `json:"options,omitempty"`

	// Refresh bypasses the cached schema.
	Refresh bool `json:"refresh,omitempty"`
}

// OptionsRequest overrides the default extraction options. Absent fields
// keep their defaults.
type OptionsRequest struct {
	MaxSearchResults    int   `json:"maxSearchResults,omitempty"`
	TimeoutMs           int   `json:"timeoutMs,omitempty"`
	OfficialSourcesOnly *bool `json:"officialSourcesOnly,omitempty"`
	PreferPDFs          *bool `json:"preferPdfs,omitempty"`
}

// ExtractionOptions merges o over the defaults.
func (o *OptionsRequest) ExtractionOptions() types.ExtractionOptions {
	opts := types.DefaultExtractionOptions()
	if o == nil {
		return opts
	}
	if o.MaxSearchResults > 0 {
		opts.MaxSearchResults = o.MaxSearchResults
	}
	if o.TimeoutMs > 0 {
		opts.Timeout = time.Duration(o.TimeoutMs) * time.Millisecond
	}
	if o.OfficialSourcesOnly != nil {
		opts.OfficialSourcesOnly = *o.OfficialSourcesOnly
	}
	if o.PreferPDFs != nil {
		opts.PreferPDFs = *o.PreferPDFs
	}
	return opts
}

// GenerateResponse is the success body of POST /api/generate-schema.
type GenerateResponse struct {
	Success  bool             `json:"success"`
	Schema   types.ExamSchema `json:"schema"`
	Message  string           `json:"message"`
	Cached   bool             `json:"cached"`
	Fallback bool             `json:"fallback"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) generateSchema(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	name := strings.TrimSpace(req.ExamName)
	if name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Exam name is required"})
		return
	}

	ctx := c.Request.Context()
	examID := plan.ExamID(name)
	log := s.logger.With(zap.String("exam", name), zap.String("exam_id", examID), zap.String("request_id", requestID(c)))

	if s.store != nil && !req.Refresh {
		cached, err := s.store.Load(ctx, examID)
		switch {
		case err == nil:
			log.Debug("serving cached schema")
			c.JSON(http.StatusOK, GenerateResponse{
				Success:  true,
				Schema:   *cached,
				Message:  "Loaded cached schema for " + cached.Exam,
				Cached:   true,
				Fallback: cached.IsFallback(),
			})
			return
		case !errors.Is(err, types.ErrSchemaNotFound):
			log.Warn("schema cache lookup failed", zap.Error(err))
		}
	}

	schema := s.gen.GenerateExamSchema(ctx, name, req.Options.ExtractionOptions())

	// Fallback schemas are not cached so the next request retries discovery.
	if s.store != nil && !schema.IsFallback() {
		if err := s.store.Save(ctx, examID, schema); err != nil {
			log.Warn("caching schema failed", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, GenerateResponse{
		Success:  true,
		Schema:   schema,
		Message:  "Generated schema for " + schema.Exam,
		Fallback: schema.IsFallback(),
	})
}

func (s *Server) getSchema(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Schema store is not configured"})
		return
	}

	examID := c.Param("examId")
	schema, err := s.store.Load(c.Request.Context(), examID)
	if errors.Is(err, types.ErrSchemaNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Schema not found"})
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load schema"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "schema": schema})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": s.now().Format(time.RFC3339),
		"message":   "Schema Extraction Server is running",
	})
}
