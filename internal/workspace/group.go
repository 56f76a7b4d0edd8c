package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
	"github.com/salarkhan2003/OLTECH-AI/internal/joincode"
	"github.com/salarkhan2003/OLTECH-AI/internal/realtime"
)

// CreateGroup founds a group named name with founderUID as its only admin.
// The group, the founder's membership and the founder's group reference are
// written in one transaction.
func (s *Service) CreateGroup(ctx context.Context, founderUID, name string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxGroupNameLen {
		return nil, ErrInvalidGroupName
	}

	for attempt := 0; attempt < s.codeAttempts; attempt++ {
		code, err := s.unusedJoinCode(ctx)
		if err != nil {
			return nil, err
		}

		group, err := s.createGroup(ctx, founderUID, name, code)
		if errors.Is(err, gorm.ErrDuplicatedKey) && s.joinCodeTaken(ctx, code) {
			// lost a race for the code, draw another one
			log.Warn().Str("join_code", code).Msg("join code taken concurrently, retrying")
			continue
		}

		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInGroup
		}

		if err != nil {
			return nil, err
		}

		groupsCreated.Inc()
		s.publish(group.ID, realtime.Members)

		log.Info().Str("group_id", group.ID).Str("uid", founderUID).Msg("group created")

		return group, nil
	}

	return nil, ErrJoinCodeExhausted
}

func (s *Service) createGroup(ctx context.Context, founderUID, name, code string) (*models.Group, error) {
	var group *models.Group

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		founder, err := loadProfile(tx, founderUID, true)
		if err != nil {
			return err
		}

		if founder.InGroup() {
			return ErrAlreadyInGroup
		}

		now := s.now()
		group = &models.Group{
			ID:        s.newID(),
			Name:      name,
			JoinCode:  code,
			CreatedAt: now,
			CreatedBy: founderUID,
		}

		if err = tx.Create(group).Error; err != nil {
			return fmt.Errorf("create group: %w", err)
		}

		member := models.NewGroupMember(group.ID, founder, models.RoleAdmin, now)
		if err = tx.Create(&member).Error; err != nil {
			return fmt.Errorf("create founder membership: %w", err)
		}

		return setGroupRef(tx, founderUID, &group.ID)
	})
	if err != nil {
		return nil, err
	}

	return group, nil
}

// unusedJoinCode draws codes until one is not assigned to any group.
func (s *Service) unusedJoinCode(ctx context.Context) (string, error) {
	for range s.codeAttempts {
		code, err := s.codes.Next()
		if err != nil {
			return "", fmt.Errorf("generate join code: %w", err)
		}

		if !s.joinCodeTaken(ctx, code) {
			return code, nil
		}
	}

	return "", ErrJoinCodeExhausted
}

func (s *Service) joinCodeTaken(ctx context.Context, code string) bool {
	var n int64

	if err := s.db.WithContext(ctx).Model(&models.Group{}).Where("join_code = ?", code).Count(&n).Error; err != nil {
		log.Error().Err(err).Msg("failed to check join code")
		// treat as taken, the caller draws another code
		return true
	}

	return n > 0
}

// setGroupRef points the profile of uid at groupID, nil detaches it.
func setGroupRef(tx *gorm.DB, uid string, groupID *string) error {
	res := tx.Model(&models.UserProfile{}).Where("uid = ?", uid).Update("group_id", groupID)
	if res.Error != nil {
		return fmt.Errorf("update group reference: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// findByJoinCode resolves a normalized code.
func findByJoinCode(tx *gorm.DB, code string) (*models.Group, error) {
	var g models.Group

	err := tx.Where("join_code = ?", code).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJoinCodeNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("look up join code: %w", err)
	}

	return &g, nil
}

// LookupJoinCode resolves user input to a group without joining it.
// Used by invite links to show the group name.
func (s *Service) LookupJoinCode(ctx context.Context, input string) (*models.Group, error) {
	code, err := joincode.Parse(input)
	if err != nil {
		return nil, ErrInvalidJoinCode
	}

	return findByJoinCode(s.db.WithContext(ctx), code)
}

// JoinGroup adds uid as member to the group whose join code matches input,
// ignoring case. Malformed codes are rejected before the store is touched and
// unknown codes write nothing. Users already in a group are refused.
func (s *Service) JoinGroup(ctx context.Context, uid, input string) (*models.Group, error) {
	code, err := joincode.Parse(input)
	if err != nil {
		return nil, ErrInvalidJoinCode
	}

	var group *models.Group

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error

		if group, txErr = findByJoinCode(tx, code); txErr != nil {
			return txErr
		}

		profile, txErr := loadProfile(tx, uid, true)
		if txErr != nil {
			return txErr
		}

		if profile.InGroup() {
			return ErrAlreadyInGroup
		}

		member := models.NewGroupMember(group.ID, profile, models.RoleMember, s.now())
		if txErr = tx.Create(&member).Error; txErr != nil {
			if errors.Is(txErr, gorm.ErrDuplicatedKey) {
				return ErrAlreadyInGroup
			}

			return fmt.Errorf("create membership: %w", txErr)
		}

		return setGroupRef(tx, uid, &group.ID)
	})
	if err != nil {
		return nil, err
	}

	groupJoins.Inc()
	s.publish(group.ID, realtime.Members)

	log.Info().Str("group_id", group.ID).Str("uid", uid).Msg("member joined group")

	return group, nil
}

// GetGroup returns groupID if uid is a member of it.
func (s *Service) GetGroup(ctx context.Context, uid, groupID string) (*models.Group, error) {
	if _, err := s.requireMember(ctx, groupID, uid); err != nil {
		return nil, err
	}

	var g models.Group

	err := s.db.WithContext(ctx).Where("id = ?", groupID).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGroupNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}

	return &g, nil
}

// CurrentGroup returns the group of uid and uid's membership in it.
func (s *Service) CurrentGroup(ctx context.Context, uid string) (*models.Group, *models.GroupMember, error) {
	profile, err := s.GetProfile(ctx, uid)
	if err != nil {
		return nil, nil, err
	}

	if !profile.InGroup() {
		return nil, nil, ErrNotInGroup
	}

	group, err := s.GetGroup(ctx, uid, *profile.GroupID)
	if err != nil {
		return nil, nil, err
	}

	member, err := s.requireMember(ctx, group.ID, uid)
	if err != nil {
		return nil, nil, err
	}

	return group, member, nil
}
