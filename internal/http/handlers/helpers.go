package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"wasata/internal/app"
	"wasata/internal/common"
	"wasata/internal/http/middleware"
	"wasata/internal/http/response"
)

const multipartMemory = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "missing bearer token", nil)
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return common.NewError(common.CodePayloadTooLarge, "request body too large", err)
		}
		return common.NewError(common.CodeValidation, "invalid json body", err)
	}
	if decoder.More() {
		return common.NewError(common.CodeValidation, "invalid json body", nil)
	}
	return nil
}

// decodeAndValidate decodes the JSON body and checks its `validate` tags.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := decodeJSON(r, dst); err != nil {
		return err
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return common.NewError(common.CodeInternal, "internal error", err)
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return common.NewValidationError("invalid request", fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "value is too long"
	case "min":
		return "value is too short"
	case "oneof":
		return "value is not allowed"
	default:
		return "value is invalid"
	}
}

func pathID(r *http.Request, name string) (common.UUID, error) {
	id, err := common.ParseUUID(mux.Vars(r)[name])
	if err != nil {
		return "", common.NewValidationError("invalid id", map[string]string{name: "invalid uuid"})
	}
	return id, nil
}

func pageFromQuery(r *http.Request) (common.Page, error) {
	query := r.URL.Query()
	limit, offset := 0, 0
	fields := map[string]string{}
	if value := strings.TrimSpace(query.Get("limit")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			fields["limit"] = "limit must be a positive number"
		}
		limit = parsed
	}
	if value := strings.TrimSpace(query.Get("offset")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			fields["offset"] = "offset must not be negative"
		}
		offset = parsed
	}
	if len(fields) > 0 {
		return common.Page{}, common.NewValidationError("invalid pagination", fields)
	}
	return common.NormalizePage(limit, offset), nil
}

func currentUser(r *http.Request) (common.UUID, error) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return "", errUnauthorized()
	}
	return userID, nil
}

func currentActor(r *http.Request) (app.Actor, error) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return app.Actor{}, errUnauthorized()
	}
	role, _ := middleware.RoleFromContext(r.Context())
	return app.Actor{ID: userID, Role: role}, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// upload is an opened multipart file; Close releases temp files.
type upload struct {
	file app.FileUpload
	form *multipart.Form
	body io.Closer
}

func (u *upload) Close() {
	if u == nil {
		return
	}
	if u.body != nil {
		_ = u.body.Close()
	}
	if u.form != nil {
		_ = u.form.RemoveAll()
	}
}

// readUpload parses a multipart body capped at maxBytes and opens field.
// A missing field yields a nil upload and no error when optional is set.
func readUpload(w http.ResponseWriter, r *http.Request, field string, maxBytes int64, optional bool) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, common.NewError(common.CodePayloadTooLarge, "request body too large", err)
		}
		return nil, common.NewValidationError("invalid request", map[string]string{field: "file is required"})
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		_ = r.MultipartForm.RemoveAll()
		if errors.Is(err, http.ErrMissingFile) && optional {
			return nil, nil
		}
		return nil, common.NewValidationError("invalid file", map[string]string{field: "file is required"})
	}
	if header.Size > maxBytes {
		_ = file.Close()
		_ = r.MultipartForm.RemoveAll()
		return nil, common.NewError(common.CodePayloadTooLarge, "request body too large", nil)
	}
	return &upload{
		file: app.FileUpload{Body: file, Size: header.Size},
		form: r.MultipartForm,
		body: file,
	}, nil
}

// listAll renders an unpaginated collection in the list envelope.
func listAll[T any](w http.ResponseWriter, items []T) {
	response.List(w, items, common.Page{Limit: len(items)})
}
