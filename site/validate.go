package site

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"reflect"
	"solara/constants"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gosimple/slug"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// badRequest carries a message that is safe to show the client.
type badRequest struct{ msg string }

func (e *badRequest) Error() string { return e.msg }

func validateStruct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &badRequest{msg: err.Error()}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &badRequest{msg: strings.Join(msgs, "; ")}
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), strings.Split(fe.Namespace(), ".")[0]+".")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s long", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "email":
		return field + " must be a valid email"
	case "latitude", "longitude":
		return fmt.Sprintf("%s must be a valid %s", field, fe.Tag())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// resolveSlug returns sent when it is already a URL-safe slug, or one
// derived from source when nothing was sent. Anything that would not
// round-trip through a single path segment is a bad request.
func resolveSlug(sent, source, sourceField string) (string, error) {
	if sent != "" {
		if !slug.IsSlug(sent) {
			return "", &badRequest{msg: "slug must be lowercase letters and digits separated by hyphens"}
		}
		return sent, nil
	}

	derived := slug.Make(source)
	if derived == "" {
		return "", &badRequest{msg: sourceField + " must contain a letter or digit to derive a slug"}
	}
	return derived, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func parseMultipart(r *http.Request) (*multipart.Form, error) {
	if err := r.ParseMultipartForm(constants.MAX_MULTIPART_MEMORY); err != nil {
		return nil, &badRequest{msg: "invalid multipart body: " + err.Error()}
	}
	return r.MultipartForm, nil
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &badRequest{msg: "invalid JSON body: " + err.Error()}
	}
	return nil
}

// decodeJSONFields decodes the body into dst and also returns its top-level
// fields, so callers can tell an explicit null from an absent key.
func decodeJSONFields(r *http.Request, dst any) (map[string]json.RawMessage, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, &badRequest{msg: "invalid JSON body: " + err.Error()}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return nil, &badRequest{msg: "invalid JSON body: " + err.Error()}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &badRequest{msg: "JSON body must be an object"}
	}
	return fields, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return raw != nil && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// formValue returns nil when key is absent so callers can tell "not sent"
// from "sent empty".
func formValue(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}
