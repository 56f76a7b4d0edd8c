package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
	"github.com/salarkhan2003/OLTECH-AI/internal/realtime"
)

// ListMembers returns the members of groupID in join order.
func (s *Service) ListMembers(ctx context.Context, uid, groupID string) ([]models.GroupMember, error) {
	if _, err := s.requireMember(ctx, groupID, uid); err != nil {
		return nil, err
	}

	return listMembers(s.db.WithContext(ctx), groupID)
}

func listMembers(tx *gorm.DB, groupID string) ([]models.GroupMember, error) {
	var members []models.GroupMember

	err := tx.Where("group_id = ?", groupID).Order("joined_at ASC, uid ASC").Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	return members, nil
}

// lockAdmins reads and locks the admin rows of groupID. Concurrent role
// changes and removals in the same group queue up behind this lock, so two
// of them can not both see a second admin that the other one is about to remove.
func lockAdmins(tx *gorm.DB, groupID string) ([]models.GroupMember, error) {
	var admins []models.GroupMember

	err := forUpdate(tx).Where("group_id = ? AND role = ?", groupID, models.RoleAdmin).Find(&admins).Error
	if err != nil {
		return nil, fmt.Errorf("lock admins: %w", err)
	}

	return admins, nil
}

// memberTarget loads the member an admin operation addresses.
func memberTarget(tx *gorm.DB, groupID, uid string) (*models.GroupMember, error) {
	m, err := membership(tx, groupID, uid)
	if errors.Is(err, ErrNotMember) {
		return nil, ErrMemberNotFound
	}

	return m, err
}

// UpdateMemberRole sets the role of memberUID. Only admins may change roles,
// including their own. Demoting the only admin fails with *LastAdminError.
func (s *Service) UpdateMemberRole(
	ctx context.Context,
	actorUID, groupID, memberUID string,
	role models.Role,
) (*models.GroupMember, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	var (
		target  *models.GroupMember
		changed bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admins, err := lockAdmins(tx, groupID)
		if err != nil {
			return err
		}

		if !containsUID(admins, actorUID) {
			if _, err = membership(tx, groupID, actorUID); err != nil {
				return err
			}

			return ErrNotAdmin
		}

		if target, err = memberTarget(tx, groupID, memberUID); err != nil {
			return err
		}

		if target.Role == role {
			return nil
		}

		if target.Role == models.RoleAdmin && len(admins) <= 1 {
			return &LastAdminError{GroupID: groupID, UID: memberUID, Action: "demote"}
		}

		err = tx.Model(&models.GroupMember{}).
			Where("group_id = ? AND uid = ?", groupID, memberUID).
			Update("role", role).Error
		if err != nil {
			return fmt.Errorf("update role: %w", err)
		}

		target.Role = role
		changed = true

		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publish(groupID, realtime.Members)

		log.Info().Str("group_id", groupID).Str("actor", actorUID).Str("uid", memberUID).
			Str("role", string(role)).Msg("member role changed")
	}

	return target, nil
}

// RemoveMember deletes the membership of memberUID and clears the removed
// user's group reference in one transaction. Admins may remove anyone,
// members only themselves. Removing the only admin fails with *LastAdminError.
func (s *Service) RemoveMember(ctx context.Context, actorUID, groupID, memberUID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admins, err := lockAdmins(tx, groupID)
		if err != nil {
			return err
		}

		if actorUID != memberUID && !containsUID(admins, actorUID) {
			if _, err = membership(tx, groupID, actorUID); err != nil {
				return err
			}

			return ErrNotAdmin
		}

		target, err := memberTarget(tx, groupID, memberUID)
		if err != nil {
			if actorUID == memberUID && errors.Is(err, ErrMemberNotFound) {
				return ErrNotMember
			}

			return err
		}

		if target.Role == models.RoleAdmin && len(admins) <= 1 {
			return &LastAdminError{GroupID: groupID, UID: memberUID, Action: "remove"}
		}

		if err = tx.Where("group_id = ? AND uid = ?", groupID, memberUID).Delete(&models.GroupMember{}).Error; err != nil {
			return fmt.Errorf("delete membership: %w", err)
		}

		return setGroupRef(tx, memberUID, nil)
	})
	if err != nil {
		return err
	}

	s.publish(groupID, realtime.Members)

	log.Info().Str("group_id", groupID).Str("actor", actorUID).Str("uid", memberUID).Msg("member removed")

	return nil
}

// LeaveGroup removes uid from its current group.
func (s *Service) LeaveGroup(ctx context.Context, uid string) error {
	profile, err := s.GetProfile(ctx, uid)
	if err != nil {
		return err
	}

	if !profile.InGroup() {
		return ErrNotInGroup
	}

	return s.RemoveMember(ctx, uid, *profile.GroupID, uid)
}

func containsUID(members []models.GroupMember, uid string) bool {
	for i := range members {
		if members[i].UID == uid {
			return true
		}
	}

	return false
}
