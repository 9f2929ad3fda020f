package site

import (
	"mime/multipart"
	"net/http"
	"solara/response"
	"sort"
	"strings"
)

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload handles POST /uploads. It stores the first file part of the form,
// preferring a part named "file", and answers with its public path.
func (s *Site) Upload(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		response.Error(w, http.StatusBadRequest, "Expected a multipart/form-data body")
		return
	}

	form, err := parseMultipart(r)
	if err != nil {
		writeError(w, r, err, "upload")
		return
	}
	defer form.RemoveAll()

	field, fh := firstFile(form)
	if fh == nil {
		response.Error(w, http.StatusBadRequest, "No file was uploaded")
		return
	}

	path, err := s.storeUpload(r, field, fh)
	if err != nil {
		writeError(w, r, err, "upload")
		return
	}

	response.JSON(w, http.StatusCreated, uploadResponse{URL: path})
}

func firstFile(form *multipart.Form) (string, *multipart.FileHeader) {
	if files := form.File["file"]; len(files) > 0 {
		return "file", files[0]
	}

	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		if files := form.File[field]; len(files) > 0 {
			return field, files[0]
		}
	}
	return "", nil
}

// UploadsServer serves stored media under /uploads/ without directory listings.
func UploadsServer(dir string) http.Handler {
	files := http.StripPrefix("/uploads", http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
