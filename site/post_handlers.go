package site

import (
	"mime/multipart"
	"net/http"
	"solara/auth"
	"solara/database"
	"solara/logging"
	"solara/metrics"
	"solara/response"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// postPayload is what PUT accepts: every field optional, absent fields untouched.
type postPayload struct {
	Title    *string `json:"title" validate:"omitnil,min=1,max=255"`
	Slug     *string `json:"slug" validate:"omitnil,max=255"`
	Category *string `json:"category" validate:"omitnil,min=1,max=100"`
	Content  *string `json:"content" validate:"omitnil,min=1"`
	Excerpt  *string `json:"excerpt"`
	Image    *string `json:"image" validate:"omitnil,max=512"`

	// set when a JSON body carries an explicit null
	clearExcerpt bool
	clearImage   bool
}

type createPostRequest struct {
	Title    string  `json:"title" validate:"required,max=255"`
	Slug     string  `json:"slug" validate:"max=255"`
	Category string  `json:"category" validate:"required,max=100"`
	Content  string  `json:"content" validate:"required"`
	Excerpt  *string `json:"excerpt"`
	Image    *string `json:"image" validate:"omitnil,max=512"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// readPostPayload accepts either a JSON body or a multipart form with an
// optional "image" file part.
func readPostPayload(r *http.Request) (postPayload, *multipart.FileHeader, error) {
	var payload postPayload

	if !isMultipart(r) {
		fields, err := decodeJSONFields(r, &payload)
		if err != nil {
			return payload, nil, err
		}
		payload.clearExcerpt = isJSONNull(fields["excerpt"])
		payload.clearImage = isJSONNull(fields["image"])
		return payload, nil, nil
	}

	form, err := parseMultipart(r)
	if err != nil {
		return payload, nil, err
	}

	payload = postPayload{
		Title:    formValue(form, "title"),
		Slug:     formValue(form, "slug"),
		Category: formValue(form, "category"),
		Content:  formValue(form, "content"),
		Excerpt:  formValue(form, "excerpt"),
		Image:    formValue(form, "image"),
	}

	var file *multipart.FileHeader
	if files := form.File["image"]; len(files) > 0 {
		file = files[0]
	}
	return payload, file, nil
}

func (s *Site) storeUpload(r *http.Request, field string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path, written, err := s.media.Save(field, fh.Filename, src)
	if err != nil {
		return "", err
	}

	metrics.RecordUpload(written)
	logging.Ctx(r.Context()).Info().Str("path", path).Int64("bytes", written).Msg("file stored")
	return path, nil
}

// discardUpload removes a file stored for a write that then failed.
func (s *Site) discardUpload(r *http.Request, path string) {
	if err := s.media.Remove(path); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("path", path).Msg("failed to remove orphaned upload")
	}
}

func actor(r *http.Request) string {
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		return claims.Subject
	}
	return ""
}

func (s *Site) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.List(r.Context())
	if err != nil {
		writeError(w, r, err, "post")
		return
	}
	response.JSON(w, http.StatusOK, posts)
}

// GetPost resolves {postID} as a numeric id first and as a slug otherwise.
func (s *Site) GetPost(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "postID")

	var (
		post *database.Post
		err  error
	)
	if id, parseErr := strconv.ParseUint(key, 10, 64); parseErr == nil {
		post, err = s.posts.GetByID(r.Context(), uint(id))
	} else {
		post, err = s.posts.GetBySlug(r.Context(), key)
	}
	if err != nil {
		writeError(w, r, err, "post")
		return
	}

	response.JSON(w, http.StatusOK, post)
}

func (s *Site) CreatePost(w http.ResponseWriter, r *http.Request) {
	payload, file, err := readPostPayload(r)
	if err != nil {
		writeError(w, r, err, "post")
		return
	}

	req := createPostRequest{
		Title:    deref(payload.Title),
		Slug:     deref(payload.Slug),
		Category: deref(payload.Category),
		Content:  deref(payload.Content),
		Excerpt:  payload.Excerpt,
		Image:    payload.Image,
	}
	if err := validateStruct(req); err != nil {
		writeError(w, r, err, "post")
		return
	}

	if req.Slug, err = resolveSlug(req.Slug, req.Title, "title"); err != nil {
		writeError(w, r, err, "post")
		return
	}
	if err := s.posts.EnsureSlugAvailable(r.Context(), req.Slug, 0); err != nil {
		writeError(w, r, err, "post")
		return
	}

	post := database.Post{
		Title:    req.Title,
		Slug:     req.Slug,
		Category: req.Category,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		Image:    req.Image,
	}

	if file != nil {
		path, err := s.storeUpload(r, "image", file)
		if err != nil {
			writeError(w, r, err, "post")
			return
		}
		post.Image = &path
	}

	if err := s.posts.Create(r.Context(), &post); err != nil {
		if file != nil {
			s.discardUpload(r, *post.Image)
		}
		writeError(w, r, err, "post")
		return
	}

	logging.Ctx(r.Context()).Info().Uint("post_id", post.ID).Str("slug", post.Slug).Str("by", actor(r)).Msg("post created")
	response.JSON(w, http.StatusCreated, post)
}

func (s *Site) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "postID")
	if err != nil {
		writeError(w, r, err, "post")
		return
	}

	existing, err := s.posts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "post")
		return
	}

	payload, file, err := readPostPayload(r)
	if err != nil {
		writeError(w, r, err, "post")
		return
	}
	if err := validateStruct(payload); err != nil {
		writeError(w, r, err, "post")
		return
	}

	changes := map[string]any{}
	if payload.Title != nil {
		changes["title"] = *payload.Title
	}
	if payload.Slug != nil {
		title := existing.Title
		if payload.Title != nil {
			title = *payload.Title
		}
		newSlug, err := resolveSlug(*payload.Slug, title, "title")
		if err != nil {
			writeError(w, r, err, "post")
			return
		}
		if err := s.posts.EnsureSlugAvailable(r.Context(), newSlug, id); err != nil {
			writeError(w, r, err, "post")
			return
		}
		changes["slug"] = newSlug
	}
	if payload.Category != nil {
		changes["category"] = *payload.Category
	}
	if payload.Content != nil {
		changes["content"] = *payload.Content
	}
	switch {
	case payload.Excerpt != nil:
		changes["excerpt"] = *payload.Excerpt
	case payload.clearExcerpt:
		changes["excerpt"] = nil
	}
	switch {
	case payload.Image != nil:
		changes["image"] = *payload.Image
	case payload.clearImage:
		changes["image"] = nil
	}

	var stored string
	if file != nil {
		stored, err = s.storeUpload(r, "image", file)
		if err != nil {
			writeError(w, r, err, "post")
			return
		}
		changes["image"] = stored
	}

	post, err := s.posts.Update(r.Context(), id, changes)
	if err != nil {
		if stored != "" {
			s.discardUpload(r, stored)
		}
		writeError(w, r, err, "post")
		return
	}

	logging.Ctx(r.Context()).Info().Uint("post_id", id).Int("fields", len(changes)).Str("by", actor(r)).Msg("post updated")
	response.JSON(w, http.StatusOK, post)
}

func (s *Site) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "postID")
	if err != nil {
		writeError(w, r, err, "post")
		return
	}

	if err := s.posts.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "post")
		return
	}

	logging.Ctx(r.Context()).Info().Uint("post_id", id).Str("by", actor(r)).Msg("post deleted")
	response.NoContent(w)
}
