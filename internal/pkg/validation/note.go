package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/apperrors"
)

// Field length limits enforced before any write reaches the database.
const (
	TitleMaxLength       = 200
	CourseMaxLength      = 100
	SemesterMaxLength    = 50
	DescriptionMaxLength = 2000
	FileNameMaxLength    = 255

	// MaxFileSize is the upload ceiling for note documents, in bytes.
	MaxFileSize = 10 << 20 // 10 MB

	// MaxAvatarSize is the upload ceiling for profile avatars, in bytes.
	MaxAvatarSize = 2 << 20 // 2 MB
)

// allowedNoteExtensions is the document/presentation/text allow-list for note
// uploads.
var allowedNoteExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".ppt":  true,
	".pptx": true,
	".txt":  true,
	".md":   true,
}

// allowedAvatarExtensions is the image allow-list for avatar uploads.
var allowedAvatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// NoteMetadata holds the user-supplied note fields checked at the boundary.
type NoteMetadata struct {
	Title       string
	Course      string
	Semester    string
	Description string
	FileName    string
}

// ValidateNoteMetadata checks the required/length constraints for note
// creation. Returns a field-level validation error for the first violation.
func ValidateNoteMetadata(m NoteMetadata) error {
	if strings.TrimSpace(m.Title) == "" {
		return apperrors.NewValidationError("title", "Title is required")
	}
	if len(m.Title) > TitleMaxLength {
		return apperrors.NewValidationError("title", fmt.Sprintf("Title must be under %d characters", TitleMaxLength))
	}
	if strings.TrimSpace(m.Course) == "" {
		return apperrors.NewValidationError("course", "Course is required")
	}
	if len(m.Course) > CourseMaxLength {
		return apperrors.NewValidationError("course", fmt.Sprintf("Course must be under %d characters", CourseMaxLength))
	}
	if strings.TrimSpace(m.Semester) == "" {
		return apperrors.NewValidationError("semester", "Semester is required")
	}
	if len(m.Semester) > SemesterMaxLength {
		return apperrors.NewValidationError("semester", fmt.Sprintf("Semester must be under %d characters", SemesterMaxLength))
	}
	if len(m.Description) > DescriptionMaxLength {
		return apperrors.NewValidationError("description", fmt.Sprintf("Description must be under %d characters", DescriptionMaxLength))
	}
	if m.FileName == "" {
		return apperrors.NewValidationError("file", "Please select a file to upload")
	}
	if len(m.FileName) > FileNameMaxLength {
		return apperrors.NewValidationError("file", fmt.Sprintf("File name must be under %d characters", FileNameMaxLength))
	}
	return nil
}

// ValidateNoteFile checks the upload allow-list and size ceiling for a note
// document before the blob store is touched.
func ValidateNoteFile(fileName string, size int64) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedNoteExtensions[ext] {
		return apperrors.NewValidationError("file", "File type not allowed; use pdf, doc, docx, ppt, pptx, txt or md")
	}
	if size > MaxFileSize {
		return apperrors.NewValidationError("file", "File exceeds the 10 MB size limit")
	}
	return nil
}

// ValidateAvatarFile checks the image allow-list and size ceiling for an
// avatar upload.
func ValidateAvatarFile(fileName string, size int64) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedAvatarExtensions[ext] {
		return apperrors.NewValidationError("avatar", "Avatar must be a jpg, jpeg, png, gif or webp image")
	}
	if size > MaxAvatarSize {
		return apperrors.NewValidationError("avatar", "Avatar exceeds the 2 MB size limit")
	}
	return nil
}

// ProfileFields holds the user-supplied profile fields checked at the boundary.
type ProfileFields struct {
	FullName   *string
	Bio        *string
	University *string
	Course     *string
	Year       *string
}

// ValidateProfileFields checks the length constraints for a profile update.
// Nil fields are skipped: they are not part of the partial update.
func ValidateProfileFields(p ProfileFields) error {
	if p.FullName != nil && len(*p.FullName) > 100 {
		return apperrors.NewValidationError("fullName", "Name must be under 100 characters")
	}
	if p.Bio != nil && len(*p.Bio) > 500 {
		return apperrors.NewValidationError("bio", "Bio must be under 500 characters")
	}
	if p.University != nil && len(*p.University) > 200 {
		return apperrors.NewValidationError("university", "University must be under 200 characters")
	}
	if p.Course != nil && len(*p.Course) > 100 {
		return apperrors.NewValidationError("course", "Course must be under 100 characters")
	}
	if p.Year != nil && len(*p.Year) > 20 {
		return apperrors.NewValidationError("year", "Year must be under 20 characters")
	}
	return nil
}
