package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hrkey/referencehub/internal/service"
	"hrkey/referencehub/pkg/response"
)

type ReferenceHandler struct {
	referenceService service.ReferenceService
}

func NewReferenceHandler(referenceService service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

func (h *ReferenceHandler) List(c *gin.Context) {
	requesterID, err := getRequesterIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid requester context")
		return
	}

	refs, err := h.referenceService.ListByOwner(c.Request.Context(), requesterID)
	if err != nil {
		response.InternalError(c, "failed to list references")
		return
	}

	response.Success(c, refs)
}

func (h *ReferenceHandler) Get(c *gin.Context) {
	requesterID, err := getRequesterIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid requester context")
		return
	}

	referenceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid reference id")
		return
	}

	ref, err := h.referenceService.Get(c.Request.Context(), requesterID, referenceID)
	if err != nil {
		if errors.Is(err, service.ErrReferenceNotFound) {
			response.NotFound(c, "reference not found")
			return
		}
		response.InternalError(c, "failed to load reference")
		return
	}

	response.Success(c, ref)
}
