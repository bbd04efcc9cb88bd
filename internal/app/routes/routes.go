package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Nicole-tabby/study-share-oasis/internal/app/controllers"
	"github.com/Nicole-tabby/study-share-oasis/internal/app/models/dto"
	"github.com/Nicole-tabby/study-share-oasis/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	noteController *controllers.NoteController,
	savedNoteController *controllers.SavedNoteController,
	profileController *controllers.ProfileController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
		auth.POST("/logout", authController.Logout)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		notes := authenticated.Group("/notes")
		{
			notes.GET("", noteController.ListPublicNotes)
			notes.GET("/mine", noteController.ListOwnNotes)
			notes.POST("", noteController.CreateNote)
			notes.GET("/:noteId", noteController.GetNote)
			notes.PUT("/:noteId", noteController.UpdateNote)
			notes.DELETE("/:noteId", noteController.DeleteNote)
			notes.POST("/:noteId/download", noteController.DownloadNote)
		}

		savedNotes := authenticated.Group("/saved-notes")
		{
			savedNotes.GET("", savedNoteController.ListSavedNotes)
			savedNotes.POST("/:noteId", savedNoteController.SaveNote)
			savedNotes.DELETE("/:noteId", savedNoteController.UnsaveNote)
			savedNotes.GET("/:noteId/status", savedNoteController.GetSavedStatus)
		}

		profiles := authenticated.Group("/profiles")
		{
			profiles.PUT("", profileController.UpdateProfile)
			profiles.POST("/avatar", profileController.UploadAvatar)
			profiles.GET("/:userId", profileController.GetProfile)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
