package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nicole-tabby/study-share-oasis/internal/app/models/dto"
	"github.com/Nicole-tabby/study-share-oasis/internal/app/services"
	"github.com/Nicole-tabby/study-share-oasis/internal/middleware"
)

// parseIDParam parses a positive integer path parameter
func parseIDParam(ctx *gin.Context, paramName string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// requireUserID pulls the authenticated user ID or aborts with 401
func requireUserID(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
		})
	}
	return userID, ok
}

// NoteController handles note operations
type NoteController struct {
	noteService services.NoteService
}

// NewNoteController creates a new NoteController
func NewNoteController(noteService services.NoteService) *NoteController {
	return &NoteController{noteService: noteService}
}

// ListPublicNotes godoc
// @Summary List public notes
// @Description Get every public note, newest first
// @Tags notes
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse{data=dto.NoteListResponse}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /notes [get]
func (c *NoteController) ListPublicNotes(ctx *gin.Context) {
	notes, err := c.noteService.ListPublicNotes(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: notes})
}

// ListOwnNotes godoc
// @Summary List own notes
// @Description Get every note owned by the authenticated user, private ones included
// @Tags notes
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse{data=dto.NoteListResponse}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /notes/mine [get]
func (c *NoteController) ListOwnNotes(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	notes, err := c.noteService.ListOwnNotes(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: notes})
}

// GetNote godoc
// @Summary Get a note
// @Description Get a single note by ID; bumps the view counter in the background
// @Tags notes
// @Produce json
// @Security ApiKeyAuth
// @Param noteId path int true "Note ID"
// @Success 200 {object} dto.APIResponse{data=dto.NoteResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /notes/{noteId} [get]
func (c *NoteController) GetNote(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "noteId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid note ID"),
		})
		return
	}

	note, err := c.noteService.GetNote(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: note})
}

// CreateNote godoc
// @Summary Create a note
// @Description Create a note with an attached document
// @Tags notes
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param title formData string true "Title"
// @Param course formData string true "Course"
// @Param semester formData string true "Semester"
// @Param description formData string false "Description"
// @Param public formData bool false "Visibility (default true)"
// @Param file formData file true "Document to upload"
// @Success 201 {object} dto.APIResponse{data=dto.NoteResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /notes [post]
func (c *NoteController) CreateNote(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateNoteRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid request format"),
		})
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid or missing file").WithField("file"),
		})
		return
	}

	note, err := c.noteService.CreateNote(ctx, userID, &req, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: note})
}

// UpdateNote godoc
// @Summary Update a note
// @Description Apply a partial metadata update to an owned note
// @Tags notes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param noteId path int true "Note ID"
// @Param request body dto.UpdateNoteRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.NoteResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /notes/{noteId} [put]
func (c *NoteController) UpdateNote(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "noteId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid note ID"),
		})
		return
	}

	var req dto.UpdateNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid request format"),
		})
		return
	}
	if err := validate.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{Error: dto.HandleValidationError(err)})
		return
	}

	note, err := c.noteService.UpdateNote(ctx, userID, id, &req, nil)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: note})
}

// DeleteNote godoc
// @Summary Delete a note
// @Description Delete an owned note together with its stored document
// @Tags notes
// @Produce json
// @Security ApiKeyAuth
// @Param noteId path int true "Note ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /notes/{noteId} [delete]
func (c *NoteController) DeleteNote(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "noteId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid note ID"),
		})
		return
	}

	if err := c.noteService.DeleteNote(ctx, userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Note deleted successfully"},
	})
}

// DownloadNote godoc
// @Summary Download a note's document
// @Description Bump the download counter and return a short-lived file URL
// @Tags notes
// @Produce json
// @Security ApiKeyAuth
// @Param noteId path int true "Note ID"
// @Success 200 {object} dto.APIResponse{data=dto.DownloadResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /notes/{noteId}/download [post]
func (c *NoteController) DownloadNote(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "noteId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid note ID"),
		})
		return
	}

	resp, err := c.noteService.DownloadNote(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
