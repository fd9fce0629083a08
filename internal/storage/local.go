package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"wasata/internal/common"
)

// LocalUploader writes files below dir; the router serves them under baseURL.
type LocalUploader struct {
	dir     string
	baseURL string
}

func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalUploader{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (u *LocalUploader) Dir() string {
	return u.dir
}

func (u *LocalUploader) Upload(ctx context.Context, obj Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	folder := filepath.Base(filepath.Clean("/" + obj.Folder))
	if folder == "/" || folder == "." {
		folder = "misc"
	}
	target := filepath.Join(u.dir, folder)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", common.NewError(common.CodeInternal, "upload failed", err)
	}
	name := common.NewUUID().String() + obj.Extension
	file, err := os.OpenFile(filepath.Join(target, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", common.NewError(common.CodeInternal, "upload failed", err)
	}
	if _, err := io.Copy(file, obj.Body); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return "", common.NewError(common.CodeInternal, "upload failed", err)
	}
	if err := file.Close(); err != nil {
		return "", common.NewError(common.CodeInternal, "upload failed", err)
	}
	return u.baseURL + "/" + path.Join(folder, name), nil
}
