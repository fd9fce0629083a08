package storage

import (
	"bytes"
	"errors"
	"io"

	"github.com/gabriel-vasile/mimetype"

	"wasata/internal/common"
)

const sniffLen = 3072

type Detected struct {
	ContentType string
	Extension   string
	Body        io.Reader
}

// Detect sniffs the leading bytes of r and rejects anything outside allowed.
// The returned Body replays the sniffed bytes followed by the rest of r.
func Detect(r io.Reader, allowed []string) (*Detected, error) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, common.NewError(common.CodeInternal, "failed to read upload", err)
	}
	header = header[:n]
	if n == 0 {
		return nil, common.NewValidationError("invalid file", map[string]string{"file": "file is empty"})
	}
	mtype := mimetype.Detect(header)
	if !matches(mtype, allowed) {
		return nil, common.NewError(common.CodeUnsupportedMedia, "unsupported file type", nil)
	}
	return &Detected{
		ContentType: mtype.String(),
		Extension:   mtype.Extension(),
		Body:        io.MultiReader(bytes.NewReader(header), r),
	}, nil
}

func matches(mtype *mimetype.MIME, allowed []string) bool {
	for m := mtype; m != nil; m = m.Parent() {
		for _, candidate := range allowed {
			if m.Is(candidate) {
				return true
			}
		}
	}
	return false
}
