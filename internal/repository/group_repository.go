package repository

import (
	"errors"

	"github.com/aisyah-bit/studyally-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

func (r *GroupRepository) FindByID(id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.Preload("Members").First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) FindAll() ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Preload("Members").Order("created_at ASC").Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) Update(group *models.Group) error {
	return r.db.Save(group).Error
}

func (r *GroupRepository) Delete(id uint) error {
	// Membership rows go with the group; the chat log is intentionally left
	// behind (it becomes unreachable once the group id stops resolving).
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.GroupMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, id).Error
	})
}

// AddJoinedWithCapacity serializes concurrent joins on a FOR UPDATE lock of
// the group row, so two joiners can never both pass the capacity check. The
// upsert replaces an invited row in place instead of duplicating it.
func (r *GroupRepository) AddJoinedWithCapacity(groupID uint, email string) (bool, error) {
	admitted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&group, groupID).Error; err != nil {
			return err
		}

		// The creator is a member by construction and never gets a row.
		if email == group.CreatorEmail {
			admitted = true
			return nil
		}

		var existing models.GroupMembership
		err := tx.Where("group_id = ? AND email = ?", groupID, email).First(&existing).Error
		if err == nil && existing.Role == models.RoleJoined {
			admitted = true
			return nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var joined int64
		if err := tx.Model(&models.GroupMembership{}).
			Where("group_id = ? AND role = ?", groupID, models.RoleJoined).
			Count(&joined).Error; err != nil {
			return err
		}
		if int(joined)+1 >= group.GroupSize {
			return nil
		}

		member := models.GroupMembership{GroupID: groupID, Email: email, Role: models.RoleJoined}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}, {Name: "email"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"role": models.RoleJoined}),
		}).Create(&member).Error; err != nil {
			return err
		}
		admitted = true
		return nil
	})
	return admitted, err
}

func (r *GroupRepository) RemoveJoined(groupID uint, email string) error {
	return r.db.Where("group_id = ? AND email = ? AND role = ?", groupID, email, models.RoleJoined).
		Delete(&models.GroupMembership{}).Error
}

func (r *GroupRepository) CountJoined(groupID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.GroupMembership{}).
		Where("group_id = ? AND role = ?", groupID, models.RoleJoined).
		Count(&count).Error
	return count, err
}

// ReplaceInvites rewrites the invite list without touching joined rows.
func (r *GroupRepository) ReplaceInvites(groupID uint, emails []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ? AND role = ?", groupID, models.RoleInvited).
			Delete(&models.GroupMembership{}).Error; err != nil {
			return err
		}
		for _, email := range emails {
			member := models.GroupMembership{GroupID: groupID, Email: email, Role: models.RoleInvited}
			// Already-joined identities keep their joined role.
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GroupsFor is the membership index query: groups where email is the creator
// or has a membership row of either role.
func (r *GroupRepository) GroupsFor(email string) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.
		Distinct("groups.*").
		Joins("LEFT JOIN group_memberships ON group_memberships.group_id = groups.id").
		Where("groups.creator_email = ? OR group_memberships.email = ?", email, email).
		Preload("Members").
		Order("groups.created_at ASC").
		Find(&groups).Error
	return groups, err
}

// FirstChatGroupFor returns the oldest group where email is creator or
// joined; invited-only groups do not qualify as a chat destination.
func (r *GroupRepository) FirstChatGroupFor(email string) (*models.Group, error) {
	var group models.Group
	err := r.db.
		Joins("LEFT JOIN group_memberships ON group_memberships.group_id = groups.id AND group_memberships.role = ?", models.RoleJoined).
		Where("groups.creator_email = ? OR group_memberships.email = ?", email, email).
		Order("groups.created_at ASC").
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}
