package workspace

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/salarkhan2003/OLTECH-AI/internal/auth"
	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
	"github.com/salarkhan2003/OLTECH-AI/internal/realtime"
)

// ProfilePatch lists profile fields to change. Nil fields stay untouched.
type ProfilePatch struct {
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
	Title       *string `json:"title"`
	Department  *string `json:"department"`
	Phone       *string `json:"phone"`
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
	Timezone    *string `json:"timezone"`
}

// snapshotColumns are the profile columns copied into group_members.
func (p ProfilePatch) snapshotColumns() map[string]any {
	cols := make(map[string]any)

	setIf(cols, "display_name", p.DisplayName)
	setIf(cols, "photo_url", p.PhotoURL)
	setIf(cols, "title", p.Title)
	setIf(cols, "department", p.Department)

	return cols
}

// profileColumns are all changed users columns.
func (p ProfilePatch) profileColumns(sanitize func(string) string) map[string]any {
	cols := p.snapshotColumns()

	setIf(cols, "phone", p.Phone)
	setIf(cols, "location", p.Location)
	setIf(cols, "timezone", p.Timezone)

	if p.Bio != nil {
		cols["bio"] = sanitize(*p.Bio)
	}

	return cols
}

func setIf(cols map[string]any, column string, v *string) {
	if v != nil {
		cols[column] = strings.TrimSpace(*v)
	}
}

// EnsureProfile returns the profile of id.UID, creating it on first sign in.
// Existing profiles are returned unchanged.
func (s *Service) EnsureProfile(ctx context.Context, id auth.Identity) (*models.UserProfile, error) {
	if id.UID == "" {
		return nil, newError(ErrInvalidInput, "missing user id")
	}

	name := id.DisplayName
	if name == "" {
		name, _, _ = strings.Cut(id.Email, "@")
	}

	p := models.UserProfile{
		UID:         id.UID,
		Email:       id.Email,
		DisplayName: name,
		PhotoURL:    id.PhotoURL,
	}

	db := s.db.WithContext(ctx)

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	return loadProfile(db, id.UID, false)
}

// GetProfile returns the profile of uid.
func (s *Service) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	return loadProfile(s.db.WithContext(ctx), uid, false)
}

// UpdateProfile applies patch to the profile of uid. When the user belongs to a
// group, changed display fields reach the membership in the same transaction.
func (s *Service) UpdateProfile(ctx context.Context, uid string, patch ProfilePatch) (*models.UserProfile, error) {
	var (
		profile    *models.UserProfile
		propagated bool
	)

	if patch.DisplayName != nil && strings.TrimSpace(*patch.DisplayName) == "" {
		return nil, newError(ErrInvalidInput, "display name can not be empty")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error

		if profile, err = loadProfile(tx, uid, true); err != nil {
			return err
		}

		cols := patch.profileColumns(s.sanitize)
		if len(cols) == 0 {
			return nil
		}

		if err = tx.Model(&models.UserProfile{}).Where("uid = ?", uid).Updates(cols).Error; err != nil {
			return fmt.Errorf("update profile: %w", err)
		}

		if propagated, err = PropagateProfileChange(tx, profile, patch); err != nil {
			return err
		}

		profile, err = loadProfile(tx, uid, false)

		return err
	})
	if err != nil {
		return nil, err
	}

	if propagated {
		s.publish(*profile.GroupID, realtime.Members)
	}

	return profile, nil
}

// PropagateProfileChange copies the display fields in patch to the group
// membership of profile. It must run inside the transaction that updates the
// profile. Tasks and documents are left alone: their assignee and uploader
// fields record who it was at the time.
// It reports whether a membership was written.
func PropagateProfileChange(tx *gorm.DB, profile *models.UserProfile, patch ProfilePatch) (bool, error) {
	if !profile.InGroup() {
		return false, nil
	}

	cols := patch.snapshotColumns()
	if len(cols) == 0 {
		return false, nil
	}

	err := tx.Model(&models.GroupMember{}).
		Where("group_id = ? AND uid = ?", *profile.GroupID, profile.UID).
		Updates(cols).Error
	if err != nil {
		return false, fmt.Errorf("propagate profile to membership: %w", err)
	}

	return true, nil
}
