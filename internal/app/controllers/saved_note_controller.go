package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nicole-tabby/study-share-oasis/internal/app/models/dto"
	"github.com/Nicole-tabby/study-share-oasis/internal/app/services"
	"github.com/Nicole-tabby/study-share-oasis/internal/middleware"
)

// SavedNoteController handles saved-note operations
type SavedNoteController struct {
	savedNoteService services.SavedNoteService
}

// NewSavedNoteController creates a new SavedNoteController
func NewSavedNoteController(savedNoteService services.SavedNoteService) *SavedNoteController {
	return &SavedNoteController{savedNoteService: savedNoteService}
}

// ListSavedNotes godoc
// @Summary List saved notes
// @Description Get the authenticated user's saved notes, newest first. Entries whose note was deleted carry a null note.
// @Tags saved-notes
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse{data=dto.SavedNoteListResponse}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /saved-notes [get]
func (c *SavedNoteController) ListSavedNotes(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.savedNoteService.ListSavedNotes(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// SaveNote godoc
// @Summary Save a note
// @Description Save a note for the authenticated user; saving twice is a no-op
// @Tags saved-notes
// @Produce json
// @Security ApiKeyAuth
// @Param noteId path int true "Note ID"
// @Success 201 {object} dto.APIResponse{data=dto.SavedNoteResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /saved-notes/{noteId} [post]
func (c *SavedNoteController) SaveNote(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	noteID, ok := parseIDParam(ctx, "noteId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid note ID"),
		})
		return
	}

	resp, err := c.savedNoteService.SaveNote(ctx, userID, noteID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp})
}

// UnsaveNote godoc
// @Summary Unsave a note
// @Description Remove a saved note for the authenticated user; removing an absent entry succeeds
// @Tags saved-notes
// @Produce json
// @Security ApiKeyAuth
// @Param noteId path int true "Note ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /saved-notes/{noteId} [delete]
func (c *SavedNoteController) UnsaveNote(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	noteID, ok := parseIDParam(ctx, "noteId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid note ID"),
		})
		return
	}

	if err := c.savedNoteService.UnsaveNote(ctx, userID, noteID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Note removed from saved notes"},
	})
}

// GetSavedStatus godoc
// @Summary Check saved status
// @Description Report whether the authenticated user has saved the note
// @Tags saved-notes
// @Produce json
// @Security ApiKeyAuth
// @Param noteId path int true "Note ID"
// @Success 200 {object} dto.APIResponse{data=dto.SavedStatusResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /saved-notes/{noteId}/status [get]
func (c *SavedNoteController) GetSavedStatus(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	noteID, ok := parseIDParam(ctx, "noteId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid note ID"),
		})
		return
	}

	resp, err := c.savedNoteService.IsNoteSaved(ctx, userID, noteID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
