package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/relation-engine/internal/data/repos"
	"github.com/yungbote/relation-engine/internal/http/response"
	extraction "github.com/yungbote/relation-engine/internal/modules/extraction"
	"github.com/yungbote/relation-engine/internal/platform/logger"
	"github.com/yungbote/relation-engine/internal/temporalx"
	"github.com/yungbote/relation-engine/internal/temporalx/extractrun"
)

// ExtractionHandler triggers extraction runs. With a Temporal client the
// run goes through the extract_run workflow; without one it executes
// inline, which is how local and test setups run.
type ExtractionHandler struct {
	log      *logger.Logger
	usecases extraction.Usecases
	temporal temporalsdkclient.Client
}

func NewExtractionHandler(log *logger.Logger, usecases extraction.Usecases, tc temporalsdkclient.Client) *ExtractionHandler {
	return &ExtractionHandler{log: log, usecases: usecases, temporal: tc}
}

// POST /api/documents/:id/extract?version=N
func (h *ExtractionHandler) Extract(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_document_id", err)
		return
	}
	version := parseVersion(c)

	in := extractrun.Input{DocumentID: docID, DocumentVersion: version}
	if h.temporal != nil {
		cfg := temporalx.LoadConfig()
		run, werr := h.temporal.ExecuteWorkflow(c.Request.Context(), temporalsdkclient.StartWorkflowOptions{
			ID:        extractrun.WorkflowID(in),
			TaskQueue: cfg.TaskQueue,
			// Duplicate starts for an in-flight document dedupe on the
			// workflow ID instead of racing two runs.
			WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		}, extractrun.WorkflowName, in)
		if werr != nil {
			response.RespondError(c, http.StatusBadGateway, "workflow_start_failed", werr)
			return
		}
		response.RespondAccepted(c, gin.H{
			"workflow_id": run.GetID(),
			"run_id":      run.GetRunID(),
		})
		return
	}

	processOut, perr := h.usecases.ProcessDocument(c.Request.Context(), extraction.ProcessDocumentInput{
		DocumentID:      docID,
		DocumentVersion: version,
	})
	if perr != nil {
		response.RespondError(c, http.StatusInternalServerError, "extract_failed", perr)
		return
	}
	promoteOut, merr := h.usecases.PromoteDocument(c.Request.Context(), extraction.PromoteDocumentInput{
		DocumentID:      docID,
		DocumentVersion: version,
	})
	if merr != nil {
		response.RespondError(c, http.StatusInternalServerError, "promote_failed", merr)
		return
	}
	response.RespondOK(c, gin.H{
		"extract": processOut,
		"promote": promoteOut,
	})
}

// AuditHandler exposes the bundle audit log: every attempted pair with
// its outcome, queryable by document and summarized by status and reason.
type AuditHandler struct {
	log     *logger.Logger
	bundles repos.EvidenceBundleRepo
}

func NewAuditHandler(log *logger.Logger, bundles repos.EvidenceBundleRepo) *AuditHandler {
	return &AuditHandler{log: log, bundles: bundles}
}

// GET /api/documents/:id/bundles?version=N
func (h *AuditHandler) ListBundles(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_document_id", err)
		return
	}
	version := parseVersion(c)

	bundles, err := h.bundles.GetByDocumentVersion(c.Request.Context(), nil, docID, version)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "bundle_query_failed", err)
		return
	}
	type bundleView struct {
		Bundle     interface{} `json:"bundle"`
		Confidence float64     `json:"confidence"`
	}
	views := make([]bundleView, 0, len(bundles))
	for _, b := range bundles {
		views = append(views, bundleView{Bundle: b, Confidence: b.Confidence()})
	}
	response.RespondOK(c, gin.H{"bundles": views})
}

// GET /api/documents/:id/bundles/summary?version=N
func (h *AuditHandler) BundleSummary(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_document_id", err)
		return
	}
	version := parseVersion(c)

	byStatus, err := h.bundles.CountByStatus(c.Request.Context(), nil, docID, version)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "bundle_query_failed", err)
		return
	}
	byReason, err := h.bundles.CountByRejectionReason(c.Request.Context(), nil, docID, version)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "bundle_query_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"by_status": byStatus,
		"by_reason": byReason,
	})
}

// RelationHandler reads promoted relations with their provenance.
type RelationHandler struct {
	log       *logger.Logger
	relations repos.SemanticRelationRepo
}

func NewRelationHandler(log *logger.Logger, relations repos.SemanticRelationRepo) *RelationHandler {
	return &RelationHandler{log: log, relations: relations}
}

// GET /api/concepts/:id/relations
func (h *RelationHandler) ListByConcept(c *gin.Context) {
	conceptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_concept_id", err)
		return
	}
	rels, err := h.relations.GetByConcept(c.Request.Context(), nil, conceptID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "relation_query_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"relations": rels})
}

func parseVersion(c *gin.Context) int {
	v, err := strconv.Atoi(c.DefaultQuery("version", "1"))
	if err != nil || v < 1 {
		return 1
	}
	return v
}
