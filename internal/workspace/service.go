// Package workspace implements groups, membership and the records a group shares.
//
// All multi-record writes run in one database transaction so they either all
// apply or none do. Display fields of a user are copied into their membership
// when they join and kept in sync by PropagateProfileChange. Tasks and documents
// keep the copy taken when they were created.
//
// Every mutation publishes the changed collection on the realtime hub after
// its transaction committed.
package workspace

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/salarkhan2003/OLTECH-AI/internal/blob"
	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
	"github.com/salarkhan2003/OLTECH-AI/internal/joincode"
	"github.com/salarkhan2003/OLTECH-AI/internal/realtime"
)

const (
	defaultJoinCodeAttempts = 5
	defaultMaxUploadSize    = 50 << 20
	maxGroupNameLen         = 100
)

// Service is the workspace API used by the web handlers.
type Service struct {
	db            *gorm.DB
	blobs         blob.Store
	hub           *realtime.Hub
	codes         *joincode.Generator
	codeAttempts  int
	maxUploadSize int64
	richText      *bluemonday.Policy
	now           func() time.Time
	newID         func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs replaces the uuid generator for new records.
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithJoinCodes replaces the join code generator.
func WithJoinCodes(g *joincode.Generator) Option {
	return func(s *Service) { s.codes = g }
}

// WithJoinCodeAttempts sets how many codes are tried before CreateGroup gives up.
func WithJoinCodeAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.codeAttempts = n
		}
	}
}

// WithMaxUploadSize limits document uploads to n bytes.
func WithMaxUploadSize(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxUploadSize = n
		}
	}
}

// New returns a Service. hub may be nil when nobody subscribes.
func New(db *gorm.DB, blobs blob.Store, hub *realtime.Hub, opts ...Option) *Service {
	if hub == nil {
		hub = realtime.NewHub()
	}

	s := &Service{
		db:            db,
		blobs:         blobs,
		hub:           hub,
		codes:         joincode.NewGenerator(nil),
		codeAttempts:  defaultJoinCodeAttempts,
		maxUploadSize: defaultMaxUploadSize,
		richText:      bluemonday.UGCPolicy(),
		now:           time.Now,
		newID:         uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Hub returns the hub mutations are published on.
func (s *Service) Hub() *realtime.Hub {
	return s.hub
}

// publish notifies subscribers of the given collections of groupID.
func (s *Service) publish(groupID string, collections ...string) {
	for _, c := range collections {
		s.hub.Publish(realtime.Topic(groupID, c))
	}
}

// sanitize cleans user supplied rich text.
func (s *Service) sanitize(text string) string {
	return strings.TrimSpace(s.richText.Sanitize(text))
}

// forUpdate locks the selected rows on engines that support it.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// loadProfile reads a profile, optionally locking it.
func loadProfile(tx *gorm.DB, uid string, lock bool) (*models.UserProfile, error) {
	var p models.UserProfile

	q := tx
	if lock {
		q = forUpdate(tx)
	}

	err := q.Where("uid = ?", uid).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}

	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &p, nil
}

// membership returns the member record of uid in groupID.
func membership(tx *gorm.DB, groupID, uid string) (*models.GroupMember, error) {
	var m models.GroupMember

	err := tx.Where("group_id = ? AND uid = ?", groupID, uid).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotMember
	}

	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &m, nil
}

// requireMember fails with ErrNotMember unless uid belongs to groupID.
func (s *Service) requireMember(ctx context.Context, groupID, uid string) (*models.GroupMember, error) {
	return membership(s.db.WithContext(ctx), groupID, uid)
}
