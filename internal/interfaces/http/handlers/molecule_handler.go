package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appmol "github.com/turtacn/molgraph/internal/application/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// ParseRequest is the body of POST /molecules/parse.  An empty SMILES is
// valid and yields an empty molecule.
type ParseRequest struct {
	SMILES string `json:"smiles"`
}

// BatchRequest is the body of POST /molecules/batch.
type BatchRequest struct {
	Items []appmol.AnalyzeRequest `json:"items" binding:"required"`
}

// HistoryQuery is the query of GET /analyses.
type HistoryQuery struct {
	SMILES string `form:"smiles" binding:"required"`
	Limit  int    `form:"limit"`
}

// AnalysisList is the response of GET /analyses.
type AnalysisList struct {
	Items []*appmol.AnalysisResult `json:"items"`
	Count int                      `json:"count"`
}

// MoleculeHandler serves parsing and structural analysis.
type MoleculeHandler struct {
	svc appmol.Service
}

func NewMoleculeHandler(svc appmol.Service) *MoleculeHandler {
	return &MoleculeHandler{svc: svc}
}

// Parse handles POST /api/v1/molecules/parse.
func (h *MoleculeHandler) Parse(c *gin.Context) {
	var req ParseRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.svc.Parse(c.Request.Context(), req.SMILES)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, appmol.Describe(req.SMILES, m))
}

// Analyze handles POST /api/v1/molecules/analyze.
func (h *MoleculeHandler) Analyze(c *gin.Context) {
	var req appmol.AnalyzeRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Batch handles POST /api/v1/molecules/batch.  Item failures are reported
// inside the report; only batch-level failures change the status.
func (h *MoleculeHandler) Batch(c *gin.Context) {
	var req BatchRequest
	if !bindJSON(c, &req) {
		return
	}
	report, err := h.svc.AnalyzeBatch(c.Request.Context(), req.Items)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetAnalysis handles GET /api/v1/analyses/:id.
func (h *MoleculeHandler) GetAnalysis(c *gin.Context) {
	res, err := h.svc.GetAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListAnalyses handles GET /api/v1/analyses?smiles=&limit=.
func (h *MoleculeHandler) ListAnalyses(c *gin.Context) {
	var q HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeAppError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid query").WithDetail(err.Error()))
		return
	}
	items, err := h.svc.FindAnalyses(c.Request.Context(), q.SMILES, q.Limit)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, AnalysisList{Items: items, Count: len(items)})
}
