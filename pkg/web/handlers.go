// Package web provides the REST surface over document storage and the
// structural validator.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/nodeloom/nodeloom/pkg/document"
	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/registry"
	"github.com/nodeloom/nodeloom/pkg/services"
	"github.com/nodeloom/nodeloom/pkg/validation"
)

// APIHandlers carries the services behind the HTTP handlers.
type APIHandlers struct {
	documents *services.Documents
	validator *validator.Validate
	registry  *registry.Registry
}

// NewAPIHandlers creates the handler set.
func NewAPIHandlers(
	documents *services.Documents,
	validate *validator.Validate,
	reg *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		documents: documents,
		validator: validate,
		registry:  reg,
	}
}

// HealthCheck reports repository health.
func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, ok := h.documents.HealthCheck(c.Context())

	status := "unhealthy"
	httpStatus := http.StatusInternalServerError

	if ok {
		status = "healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// GetNodeTypes returns the registered node-type definitions.
func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"node_types": h.registry.Definitions(),
	})
}

// GetDocuments lists stored documents.
func (h *APIHandlers) GetDocuments(c fiber.Ctx) error {
	docs, err := h.documents.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"documents":   docs,
		"total_count": len(docs),
	})
}

// GetDocument returns one document by id.
func (h *APIHandlers) GetDocument(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Document ID is required")
	}

	doc, err := h.documents.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(doc)
}

// CreateDocument stores a new empty document.
func (h *APIHandlers) CreateDocument(c fiber.Ctx) error {
	var req CreateDocumentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	doc := newDocumentFromRequest(req)

	created, err := h.documents.Create(c.Context(), doc)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateDocument applies a partial update to a stored document.
func (h *APIHandlers) UpdateDocument(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Document ID is required")
	}

	var req UpdateDocumentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	existing, err := h.documents.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}

	if req.Nodes != nil {
		existing.Nodes = req.Nodes
	}

	if req.Edges != nil {
		existing.Edges = req.Edges
	}

	if req.Settings != nil {
		existing.Settings = req.Settings
	}

	updated, err := h.documents.Update(c.Context(), id, existing)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

// DeleteDocument removes a stored document.
func (h *APIHandlers) DeleteDocument(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Document ID is required")
	}

	if err := h.documents.Delete(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ValidateDocument runs the structural validator over a stored
// document.
func (h *APIHandlers) ValidateDocument(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Document ID is required")
	}

	doc, err := h.documents.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(validation.Validate(doc.Nodes, doc.Edges, h.registry))
}

// ValidatePayload runs the validator over a document supplied in the
// request body, without storing it.
func (h *APIHandlers) ValidatePayload(c fiber.Ctx) error {
	doc, err := document.Import(c.Body())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(validation.Validate(doc.Nodes, doc.Edges, h.registry))
}

// ImportDocument parses a serialized document and stores it, keeping
// its ids.
func (h *APIHandlers) ImportDocument(c fiber.Ctx) error {
	doc, err := document.Import(c.Body())
	if err != nil {
		return handleServiceError(c, err)
	}

	stored, err := h.documents.Import(c.Context(), doc)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(stored)
}

func newDocumentFromRequest(req CreateDocumentRequest) *models.WorkflowDocument {
	return &models.WorkflowDocument{
		Name:        req.Name,
		Description: req.Description,
		Metadata: models.DocumentMetadata{
			Author: req.Author,
			Tags:   req.Tags,
		},
	}
}

// ExportDocument returns a stored document in its transportable form.
func (h *APIHandlers) ExportDocument(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Document ID is required")
	}

	doc, err := h.documents.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	data, err := document.Export(doc)
	if err != nil {
		return internalError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.Send(data)
}
