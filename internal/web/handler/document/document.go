// Package document serves document upload, listing and deletion.
package document

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler"
	"github.com/salarkhan2003/OLTECH-AI/internal/workspace"
)

const (
	// Path of the document collection below the API router.
	Path = "/documents"

	// FileField is the multipart field carrying the file.
	FileField = "file"
)

// Service is the document handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the document handler.
var Handler = Service{} //nolint:gochecknoglobals

type uploadForm struct {
	Description string `form:"description" validate:"max=5000"`
	ProjectID   string `form:"projectId" validate:"omitempty,uuid"`
	TaskID      string `form:"taskId" validate:"omitempty,uuid"`
}

// Init initializes the document handler.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.deps = deps

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RootPath, s.List)
		r.Post(handler.RootPath, s.Upload)
		r.Get("/:id", s.Get)
		r.Delete("/:id", s.Delete)
	})

	return nil
}

// List returns the documents of the current group.
func (s *Service) List(c *fiber.Ctx) error {
	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	docs, err := s.deps.Workspace.ListDocuments(c.UserContext(), handler.UID(c), groupID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(docs)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}

	return &v
}

// Upload stores the multipart file of the request.
func (s *Service) Upload(c *fiber.Ctx) error {
	form := new(uploadForm)
	if err := handler.Bind(c, form); err != nil {
		return handler.Error(c, err)
	}

	fh, err := c.FormFile(FileField)
	if err != nil {
		return handler.Error(c, fiber.NewError(fiber.StatusBadRequest, "missing file"))
	}

	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	f, err := fh.Open()
	if err != nil {
		return handler.Error(c, err)
	}
	defer f.Close()

	uid := handler.UID(c)
	in := workspace.UploadInput{
		GroupID:     groupID,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Description: form.Description,
		Size:        fh.Size,
		Body:        f,
		ProjectID:   optional(form.ProjectID),
		TaskID:      optional(form.TaskID),
	}

	doc, err := s.deps.Workspace.UploadDocument(c.UserContext(), uid, in, func(percent int) {
		log.Debug().Str("uid", uid).Str("file", fh.Filename).Int("percent", percent).Msg("upload progress")
	})
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(doc)
}

// Get returns one document.
func (s *Service) Get(c *fiber.Ctx) error {
	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	doc, err := s.deps.Workspace.GetDocument(c.UserContext(), handler.UID(c), groupID, c.Params("id"))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(doc)
}

// Delete removes a document and its file.
func (s *Service) Delete(c *fiber.Ctx) error {
	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	if err = s.deps.Workspace.DeleteDocument(c.UserContext(), handler.UID(c), groupID, c.Params("id")); err != nil {
		return handler.Error(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
