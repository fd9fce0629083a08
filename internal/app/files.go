package app

import (
	"context"
	"io"

	"wasata/internal/common"
	"wasata/internal/storage"
)

type FileUpload struct {
	Body io.Reader
	Size int64
}

// storeFile sniffs the upload against allowed content types before handing it to the uploader.
func storeFile(ctx context.Context, uploader storage.Uploader, folder string, allowed []string, file FileUpload) (string, error) {
	if uploader == nil {
		return "", common.NewError(common.CodeInternal, "storage is not configured", nil)
	}
	if file.Body == nil {
		return "", common.NewValidationError("invalid file", map[string]string{"file": "file is required"})
	}
	detected, err := storage.Detect(file.Body, allowed)
	if err != nil {
		return "", err
	}
	return uploader.Upload(ctx, storage.Object{
		Folder:      folder,
		Extension:   detected.Extension,
		ContentType: detected.ContentType,
		Size:        file.Size,
		Body:        detected.Body,
	})
}
