package storage

import (
	"context"
	"io"
)

type Object struct {
	Folder      string
	Extension   string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Uploader interface {
	// Upload stores the object and returns its public URL.
	Upload(ctx context.Context, obj Object) (string, error)
}

const (
	FolderCVs   = "cvs"
	FolderLogos = "logos"
)

var (
	DocumentTypes = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	ImageTypes = []string{"image/png", "image/jpeg", "image/webp"}
)
