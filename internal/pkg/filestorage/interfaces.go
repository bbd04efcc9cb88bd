package filestorage

import (
	"context"
	"mime/multipart"
	"time"
)

// FileStorage defines the blob-store operations the application needs: upload
// under a path (random or fixed name), public URL resolution, signed URL
// resolution with expiry, and deletion.
type FileStorage interface {
	// SaveFileWithPath stores a file under subPath with a generated unique
	// name and returns its publicly fetchable URL.
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// SaveFileAs stores a file under subPath with a fixed name, overwriting
	// any previous blob at the same path, and returns its publicly fetchable
	// URL.
	SaveFileAs(fileHeader *multipart.FileHeader, subPath, filename string) (string, error)

	// SignedURL resolves a time-limited URL for the stored file. Backends
	// without signing return the public URL.
	SignedURL(ctx context.Context, fileURL string, expiry time.Duration) (string, error)

	// DeleteFile removes a file from storage. Deleting an absent file is not
	// an error.
	DeleteFile(filePath string) error
}
