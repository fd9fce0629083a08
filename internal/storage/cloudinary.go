package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"wasata/internal/common"
)

const cloudinaryAPI = "https://api.cloudinary.com/v1_1"

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// CloudinaryUploader posts signed uploads to the Cloudinary REST API.
type CloudinaryUploader struct {
	cfg     CloudinaryConfig
	client  *http.Client
	baseURL string
	now     func() time.Time
}

func NewCloudinaryUploader(cfg CloudinaryConfig, client *http.Client) *CloudinaryUploader {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &CloudinaryUploader{cfg: cfg, client: client, baseURL: cloudinaryAPI, now: time.Now}
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (u *CloudinaryUploader) Upload(ctx context.Context, obj Object) (string, error) {
	folder := obj.Folder
	if u.cfg.Folder != "" {
		folder = strings.Trim(u.cfg.Folder, "/") + "/" + obj.Folder
	}
	params := map[string]string{
		"folder":    folder,
		"timestamp": strconv.FormatInt(u.now().Unix(), 10),
	}
	signature := sign(params, u.cfg.APISecret)

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	endpoint := fmt.Sprintf("%s/%s/auto/upload", u.baseURL, u.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return "", common.NewError(common.CodeInternal, "upload failed", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	go u.writeMultipart(pw, writer, obj, params, signature)

	resp, err := u.client.Do(req)
	if err != nil {
		return "", common.NewError(common.CodeInternal, "upload failed", err)
	}
	defer resp.Body.Close()

	var payload cloudinaryResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		cause := fmt.Errorf("cloudinary status %d", resp.StatusCode)
		if decodeErr == nil && payload.Error != nil {
			cause = fmt.Errorf("cloudinary status %d: %s", resp.StatusCode, payload.Error.Message)
		}
		return "", common.NewError(common.CodeInternal, "upload failed", cause)
	}
	if decodeErr != nil || payload.SecureURL == "" {
		return "", common.NewError(common.CodeInternal, "upload failed", decodeErr)
	}
	return payload.SecureURL, nil
}

// writeMultipart streams the form into the request pipe so large files are
// not buffered. It runs only once the request exists to drain the pipe.
func (u *CloudinaryUploader) writeMultipart(pw *io.PipeWriter, writer *multipart.Writer, obj Object, params map[string]string, signature string) {
	fields := map[string]string{"api_key": u.cfg.APIKey, "signature": signature}
	for k, v := range params {
		fields[k] = v
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
	}
	part, err := writer.CreateFormFile("file", "upload"+obj.Extension)
	if err != nil {
		_ = pw.CloseWithError(err)
		return
	}
	if _, err := io.Copy(part, obj.Body); err != nil {
		_ = pw.CloseWithError(err)
		return
	}
	_ = pw.CloseWithError(writer.Close())
}

// sign computes the Cloudinary request signature: SHA-1 over the
// alphabetically sorted params joined as k=v&k=v with the secret appended.
func sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
