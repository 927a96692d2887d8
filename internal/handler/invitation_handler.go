package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"hrkey/referencehub/internal/model"
	"hrkey/referencehub/internal/service"
	"hrkey/referencehub/pkg/response"
)

type InvitationHandler struct {
	invitationService service.InvitationService
}

func NewInvitationHandler(invitationService service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

type CreateInvitationRequest struct {
	RefereeEmail string         `json:"referee_email" binding:"required"`
	RefereeName  string         `json:"referee_name" binding:"required"`
	Metadata     model.Metadata `json:"metadata"`
}

type SubmitReferenceRequest struct {
	Referee  service.RefereeData `json:"referee"`
	Ratings  map[string]float64  `json:"ratings" binding:"required"`
	Comments map[string]string   `json:"comments"`
}

// Create opens a new invitation on behalf of the authenticated requester.
func (h *InvitationHandler) Create(c *gin.Context) {
	requesterID, err := getRequesterIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid requester context")
		return
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	created, err := h.invitationService.Create(c.Request.Context(), requesterID, req.RefereeEmail, req.RefereeName, req.Metadata)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrQuotaExceeded):
			response.TooManyRequests(c, err.Error())
		case errors.Is(err, service.ErrStoreUnavailable):
			response.ServiceUnavailable(c, "store unavailable, retry later")
		default:
			response.InternalError(c, "failed to create invitation")
		}
		return
	}

	response.Success(c, gin.H{
		"invitation_id": created.Invitation.ID,
		"token":         created.Token,
		"share_link":    created.ShareLink,
	})
}

// List returns the authenticated requester's invitations.
func (h *InvitationHandler) List(c *gin.Context) {
	requesterID, err := getRequesterIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid requester context")
		return
	}

	invitations, err := h.invitationService.ListByRequester(c.Request.Context(), requesterID)
	if err != nil {
		response.InternalError(c, "failed to list invitations")
		return
	}

	response.Success(c, invitations)
}

// View is the public, token-authorized read of an invitation. The error
// messages deliberately distinguish "never existed" from "expired" from
// "already used" so the referee sees what actually happened.
func (h *InvitationHandler) View(c *gin.Context) {
	view, err := h.invitationService.Lookup(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeLookupError(c, err)
		return
	}

	response.Success(c, view)
}

// Submit ingests the referee's reference for a pending invitation.
func (h *InvitationHandler) Submit(c *gin.Context) {
	var req SubmitReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ref, err := h.invitationService.Submit(c.Request.Context(), c.Param("token"), req.Referee, req.Ratings, req.Comments)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvitationNotFound):
			response.NotFound(c, "invitation not found")
		case errors.Is(err, service.ErrInvitationCompleted):
			response.Conflict(c, "this reference has already been submitted")
		case errors.Is(err, service.ErrInvitationExpired):
			response.Gone(c, "this invitation has expired")
		case errors.Is(err, service.ErrValidation):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrStoreUnavailable):
			response.ServiceUnavailable(c, "store unavailable, retry later")
		default:
			response.InternalError(c, "failed to submit reference")
		}
		return
	}

	response.Success(c, gin.H{
		"reference_id":   ref.ID,
		"overall_rating": ref.OverallRating,
	})
}

func writeLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvitationNotFound):
		response.NotFound(c, "invitation not found")
	case errors.Is(err, service.ErrStoreUnavailable):
		response.ServiceUnavailable(c, "store unavailable, retry later")
	default:
		response.InternalError(c, "failed to load invitation")
	}
}
