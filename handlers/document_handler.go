package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"prd-workspace/helper"
	"prd-workspace/metrics"
	"prd-workspace/middleware"
	"prd-workspace/models"
	"prd-workspace/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DocumentHandler struct {
	documentService services.DocumentService
	Helper          *helper.HTTPHelper
	metrics         *metrics.Metrics
	maxRetries      int
}

func NewDocumentHandler(documentService services.DocumentService, httpHelper *helper.HTTPHelper, m *metrics.Metrics, maxRetries int) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		Helper:          httpHelper,
		metrics:         m,
		maxRetries:      maxRetries,
	}
}

// Register mounts the document routes on an authenticated group.
func (h *DocumentHandler) Register(rg *gin.RouterGroup) {
	documents := rg.Group("/documents")
	{
		documents.POST("", h.CreateDocument)
		documents.GET("", h.GetDocuments)
		documents.GET("/:id", h.GetDocument)
		documents.PUT("/:id", h.EditDocument)
		documents.PATCH("/:id/status", h.UpdateStatus)
		documents.DELETE("/:id", middleware.RequireRole(string(models.RoleEditor), string(models.RoleAdmin)), h.DeleteDocument)

		documents.GET("/:id/versions", h.GetHistory)
		documents.GET("/:id/versions/:version", h.GetVersion)
		documents.POST("/:id/versions/:version/restore", h.RestoreVersion)
		documents.GET("/:id/compare", h.CompareVersions)
	}
}

func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req models.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if err := h.Helper.ValidateStruct(req); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	document, err := h.documentService.Create(c.Request.Context(), req.Title, req.Content, editorOf(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Document created", document)
}

func (h *DocumentHandler) GetDocuments(c *gin.Context) {
	var params models.DocumentListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	// Set defaults
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 10
	}

	documents, total, err := h.documentService.List(c.Request.Context(), params)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", map[string]interface{}{
		"documents": documents,
		"paging":    h.Helper.GeneratePaging(c, params.Limit, params.Page, int(total)),
	})
}

func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id, ok := h.documentID(c)
	if !ok {
		return
	}

	document, err := h.documentService.Get(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", document)
}

// EditDocument commits a new revision. Without base_version the edit is
// reapplied on top of whatever is current when a concurrent commit wins.
func (h *DocumentHandler) EditDocument(c *gin.Context) {
	id, ok := h.documentID(c)
	if !ok {
		return
	}

	var req models.EditDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if err := h.Helper.ValidateStruct(req); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	editor := editorOf(c)
	edit := func(ctx context.Context) (*models.Document, error) {
		return h.documentService.Edit(ctx, id, req, editor)
	}

	var (
		document *models.Document
		err      error
	)
	if req.BaseVersion > 0 {
		document, err = edit(c.Request.Context())
	} else {
		document, err = services.RetryOnConflict(c.Request.Context(), h.maxRetries, h.metrics, edit)
	}
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Document updated", document)
}

func (h *DocumentHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.documentID(c)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if err := h.Helper.ValidateStruct(req); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	document, err := h.documentService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Status updated", document)
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	id, ok := h.documentID(c)
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), id); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Document deleted", h.Helper.EmptyJsonMap())
}

func (h *DocumentHandler) GetHistory(c *gin.Context) {
	id, ok := h.documentID(c)
	if !ok {
		return
	}

	history, err := h.documentService.ListHistory(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", history)
}

func (h *DocumentHandler) GetVersion(c *gin.Context) {
	id, ok := h.documentID(c)
	if !ok {
		return
	}
	versionNumber, ok := h.versionNumber(c)
	if !ok {
		return
	}

	entry, err := h.documentService.GetVersion(c.Request.Context(), id, versionNumber)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", entry)
}

func (h *DocumentHandler) RestoreVersion(c *gin.Context) {
	id, ok := h.documentID(c)
	if !ok {
		return
	}
	versionNumber, ok := h.versionNumber(c)
	if !ok {
		return
	}

	// the body is optional; chunked bodies have no ContentLength
	var req models.RestoreDocumentRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
		if err := h.Helper.ValidateStruct(req); err != nil {
			h.Helper.SendError(c, err)
			return
		}
	}

	editor := editorOf(c)
	document, err := services.RetryOnConflict(c.Request.Context(), h.maxRetries, h.metrics, func(ctx context.Context) (*models.Document, error) {
		return h.documentService.Restore(ctx, id, versionNumber, req.ChangeDescription, editor)
	})
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Document restored", document)
}

func (h *DocumentHandler) CompareVersions(c *gin.Context) {
	id, ok := h.documentID(c)
	if !ok {
		return
	}

	var params models.CompareParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "from and to must be version numbers", h.Helper.EmptyJsonMap())
		return
	}

	comparison, err := h.documentService.Compare(c.Request.Context(), id, params.From, params.To)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "", comparison)
}

func (h *DocumentHandler) documentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid document ID", h.Helper.EmptyJsonMap())
		return uuid.Nil, false
	}
	return id, true
}

func (h *DocumentHandler) versionNumber(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid version number", h.Helper.EmptyJsonMap())
		return 0, false
	}
	return n, true
}

func editorOf(c *gin.Context) string {
	return c.GetString(middleware.ContextUsername)
}
