package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/salarkhan2003/OLTECH-AI/internal/blob"
	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
	"github.com/salarkhan2003/OLTECH-AI/internal/realtime"
)

const unknownFileType = "unknown"

// UploadInput describes a file to store for a group.
type UploadInput struct {
	GroupID     string
	FileName    string
	ContentType string
	Description string
	// Size is the announced length of Body in bytes.
	Size      int64
	Body      io.Reader
	ProjectID *string
	TaskID    *string
}

func fileType(in UploadInput) string {
	if ct := strings.TrimSpace(in.ContentType); ct != "" {
		return ct
	}

	if ct := mime.TypeByExtension(path.Ext(in.FileName)); ct != "" {
		return ct
	}

	return unknownFileType
}

// UploadDocument stores the file in the blob store and then records it.
// When recording fails the stored file is deleted again, so a failed upload
// leaves neither a record nor a file behind. progress may be nil.
func (s *Service) UploadDocument(
	ctx context.Context,
	uid string,
	in UploadInput,
	progress blob.ProgressFunc,
) (*models.Document, error) {
	name := strings.TrimSpace(in.FileName)
	if name == "" {
		return nil, ErrEmptyName
	}

	if in.Size < 0 || in.Size > s.maxUploadSize {
		return nil, ErrFileTooLarge
	}

	db := s.db.WithContext(ctx)

	uploader, err := membership(db, in.GroupID, uid)
	if err != nil {
		return nil, err
	}

	if in.ProjectID != nil {
		if _, err = findProject(db, in.GroupID, *in.ProjectID); err != nil {
			return nil, err
		}
	}

	if in.TaskID != nil {
		if _, err = findTask(db, in.GroupID, *in.TaskID); err != nil {
			return nil, err
		}
	}

	doc := &models.Document{
		ID:               s.newID(),
		GroupID:          in.GroupID,
		Name:             name,
		FileType:         fileType(in),
		UploadedBy:       uid,
		UploaderName:     uploader.DisplayName,
		UploaderPhotoURL: uploader.PhotoURL,
		Description:      s.sanitize(in.Description),
		ProjectID:        in.ProjectID,
		TaskID:           in.TaskID,
	}
	doc.Path = blob.DocumentKey(in.GroupID, doc.ID, name)

	doc.Size, err = s.blobs.Put(ctx, doc.Path, in.Body, in.Size, doc.FileType, progress)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	doc.URL, err = s.blobs.URL(ctx, doc.Path)
	if err == nil {
		doc.UploadedAt = s.now()
		err = db.Create(doc).Error
	}

	if err != nil {
		s.compensateUpload(ctx, doc.Path, err)

		return nil, fmt.Errorf("record document: %w", err)
	}

	documentsUploaded.Inc()
	s.publish(in.GroupID, realtime.Documents)

	log.Info().Str("group_id", in.GroupID).Str("document_id", doc.ID).Int64("size", doc.Size).Msg("document uploaded")

	return doc, nil
}

// compensateUpload deletes a stored file whose record could not be written.
func (s *Service) compensateUpload(ctx context.Context, key string, cause error) {
	compensations.WithLabelValues("upload").Inc()

	if err := s.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		log.Error().Err(err).AnErr("cause", cause).Str("path", key).Msg("orphaned document file")
		return
	}

	log.Warn().Err(cause).Str("path", key).Msg("document upload rolled back")
}

func findDocument(tx *gorm.DB, groupID, documentID string) (*models.Document, error) {
	var d models.Document

	err := tx.Where("group_id = ? AND id = ? AND deletion_pending = ?", groupID, documentID, false).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &d, nil
}

// GetDocument returns one document of groupID.
func (s *Service) GetDocument(ctx context.Context, uid, groupID, documentID string) (*models.Document, error) {
	if _, err := s.requireMember(ctx, groupID, uid); err != nil {
		return nil, err
	}

	doc, err := findDocument(s.db.WithContext(ctx), groupID, documentID)
	if err != nil {
		return nil, err
	}

	s.refreshURL(ctx, doc)

	return doc, nil
}

// refreshURL replaces the stored download URL with a fresh one, presigned
// URLs expire. The stored URL is kept when the blob store fails.
func (s *Service) refreshURL(ctx context.Context, doc *models.Document) {
	u, err := s.blobs.URL(ctx, doc.Path)
	if err != nil {
		log.Warn().Err(err).Str("document_id", doc.ID).Msg("keeping stored download url")
		return
	}

	doc.URL = u
}

// DeleteDocument removes a document and its file. Only the uploader or a
// group admin may do this.
//
// The record is first marked as pending deletion, which hides it from lists.
// When the file delete fails the record stays pending and
// PurgePendingDocuments finishes the job later.
func (s *Service) DeleteDocument(ctx context.Context, uid, groupID, documentID string) error {
	var doc *models.Document

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := membership(tx, groupID, uid)
		if err != nil {
			return err
		}

		doc, err = findDocument(forUpdate(tx), groupID, documentID)
		if err != nil {
			return err
		}

		if doc.UploadedBy != uid && actor.Role != models.RoleAdmin {
			return ErrNotUploader
		}

		return tx.Model(doc).Update("deletion_pending", true).Error
	})
	if err != nil {
		return err
	}

	s.publish(groupID, realtime.Documents)

	if err = s.purge(ctx, doc); err != nil {
		compensations.WithLabelValues("delete").Inc()
		log.Warn().Err(err).Str("document_id", doc.ID).Msg("document deletion left pending")

		return err
	}

	return nil
}

// purge deletes the file of doc and then its record.
func (s *Service) purge(ctx context.Context, doc *models.Document) error {
	if err := s.blobs.Delete(ctx, doc.Path); err != nil {
		return fmt.Errorf("delete file of document %s: %w", doc.ID, err)
	}

	if err := s.db.WithContext(ctx).Delete(&models.Document{}, "id = ?", doc.ID).Error; err != nil {
		return fmt.Errorf("delete document %s: %w", doc.ID, err)
	}

	return nil
}

// PurgePendingDocuments retries every deletion left pending and returns how
// many documents were removed.
func (s *Service) PurgePendingDocuments(ctx context.Context) (int, error) {
	var pending []models.Document

	if err := s.db.WithContext(ctx).Where("deletion_pending = ?", true).Find(&pending).Error; err != nil {
		return 0, fmt.Errorf("list pending documents: %w", err)
	}

	var (
		purged int
		errs   []error
	)

	for i := range pending {
		if err := s.purge(ctx, &pending[i]); err != nil {
			errs = append(errs, err)
			continue
		}

		purged++
	}

	if purged > 0 {
		log.Info().Int("purged", purged).Msg("pending documents removed")
	}

	return purged, errors.Join(errs...)
}

// ListDocuments returns the documents of groupID, newest first.
func (s *Service) ListDocuments(ctx context.Context, uid, groupID string) ([]models.Document, error) {
	if _, err := s.requireMember(ctx, groupID, uid); err != nil {
		return nil, err
	}

	var docs []models.Document

	err := s.db.WithContext(ctx).
		Where("group_id = ? AND deletion_pending = ?", groupID, false).
		Order("uploaded_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	for i := range docs {
		s.refreshURL(ctx, &docs[i])
	}

	return docs, nil
}
