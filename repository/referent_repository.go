package repository

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/wndmngr/farmregistry/database"
	"github.com/wndmngr/farmregistry/models"
)

// GormReferentRepository handles persons, companies, their roles and farm_referents rows
type GormReferentRepository struct {
	DB *gorm.DB
}

func NewReferentRepository(db *gorm.DB) *GormReferentRepository {
	return &GormReferentRepository{DB: db}
}

// RoleIDByName resolves a role name in the role table matching kind
func (r *GormReferentRepository) RoleIDByName(kind models.TargetKind, roleName string) (uint, error) {
	var id uint
	var err error
	switch kind {
	case models.TargetPerson:
		var role models.PersonRole
		err = r.DB.Where("role_name = ?", roleName).First(&role).Error
		id = role.ID
	case models.TargetCompany:
		var role models.CompanyRole
		err = r.DB.Where("role_name = ?", roleName).First(&role).Error
		id = role.ID
	default:
		return 0, fmt.Errorf("unknown target kind %q", kind)
	}
	if err != nil {
		return 0, dbError(err, "Role "+roleName)
	}
	return id, nil
}

func (r *GormReferentRepository) ListPersonRoles() ([]models.PersonRole, error) {
	var roles []models.PersonRole
	if err := r.DB.Order("role_name ASC").Find(&roles).Error; err != nil {
		return nil, dbError(err, "person roles")
	}
	return roles, nil
}

func (r *GormReferentRepository) ListCompanyRoles() ([]models.CompanyRole, error) {
	var roles []models.CompanyRole
	if err := r.DB.Order("role_name ASC").Find(&roles).Error; err != nil {
		return nil, dbError(err, "company roles")
	}
	return roles, nil
}

func (r *GormReferentRepository) CreatePerson(person *models.Person) error {
	if err := r.DB.Create(person).Error; err != nil {
		return dbError(err, "Person")
	}
	return nil
}

func (r *GormReferentRepository) CreateCompany(company *models.Company) error {
	if err := r.DB.Create(company).Error; err != nil {
		return dbError(err, "Company")
	}
	return nil
}

// ListPersons retrieves all persons ordered by last name, for referent pickers
func (r *GormReferentRepository) ListPersons() ([]models.Person, error) {
	var persons []models.Person
	if err := r.DB.Order("last_name ASC").Order("first_name ASC").Find(&persons).Error; err != nil {
		return nil, dbError(err, "persons")
	}
	return persons, nil
}

func (r *GormReferentRepository) ListCompanies() ([]models.Company, error) {
	var companies []models.Company
	if err := r.DB.Order("name ASC").Find(&companies).Error; err != nil {
		return nil, dbError(err, "companies")
	}
	return companies, nil
}

// TargetExists checks the person or company table depending on the target kind
func (r *GormReferentRepository) TargetExists(target models.Target) (bool, error) {
	var model interface{}
	switch target.Kind {
	case models.TargetPerson:
		model = &models.Person{}
	case models.TargetCompany:
		model = &models.Company{}
	default:
		return false, fmt.Errorf("unknown target kind %q", target.Kind)
	}
	var n int64
	if err := r.DB.Model(model).Where("uuid = ?", target.UUID).Count(&n).Error; err != nil {
		return false, dbError(err, string(target.Kind))
	}
	return n > 0, nil
}

// FindAssignment returns the farm's assignment for (kind, role); a NotFound error when there is none
func (r *GormReferentRepository) FindAssignment(farmUUID string, kind models.TargetKind, roleID uint) (*models.FarmReferent, error) {
	var assignment models.FarmReferent
	err := r.DB.
		Where("farm_uuid = ? AND target_kind = ? AND role_id = ?", farmUUID, kind, roleID).
		First(&assignment).Error
	if err != nil {
		return nil, dbError(err, "Assignment")
	}
	return &assignment, nil
}

func (r *GormReferentRepository) CreateAssignment(assignment *models.FarmReferent) error {
	if err := r.DB.Create(assignment).Error; err != nil {
		return dbError(err, "Assignment")
	}
	return nil
}

func (r *GormReferentRepository) UpdateAssignmentTarget(assignmentUUID, targetUUID string) error {
	err := r.DB.Model(&models.FarmReferent{}).
		Where("uuid = ?", assignmentUUID).
		Update("target_uuid", targetUUID).Error
	if err != nil {
		return dbError(err, "Assignment")
	}
	return nil
}

func (r *GormReferentRepository) DeleteAssignment(assignmentUUID string) error {
	if err := r.DB.Where("uuid = ?", assignmentUUID).Delete(&models.FarmReferent{}).Error; err != nil {
		return dbError(err, "Assignment")
	}
	return nil
}

type referentDisplayRow struct {
	RoleID      uint
	TargetKind  models.TargetKind
	TargetUUID  string
	FirstName   *string
	LastName    *string
	CompanyName *string
	PersonRole  *string
	CompanyRole *string
}

// ListDisplayByFarm joins each assignment with its target's name and role name
func (r *GormReferentRepository) ListDisplayByFarm(farmUUID string) ([]models.ReferentDisplay, error) {
	query, args, err := database.StatementBuilder(r.DB).
		Select(
			"fr.role_id", "fr.target_kind", "fr.target_uuid",
			"p.first_name", "p.last_name", "c.name AS company_name",
			"pr.role_name AS person_role", "cr.role_name AS company_role",
		).
		From("farm_referents fr").
		LeftJoin("persons p ON fr.target_kind = 'person' AND p.uuid = fr.target_uuid").
		LeftJoin("companies c ON fr.target_kind = 'company' AND c.uuid = fr.target_uuid").
		LeftJoin("person_roles pr ON fr.target_kind = 'person' AND pr.id = fr.role_id").
		LeftJoin("company_roles cr ON fr.target_kind = 'company' AND cr.id = fr.role_id").
		Where(sq.Eq{"fr.farm_uuid": farmUUID}).
		OrderBy("fr.target_kind ASC", "fr.role_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListDisplayByFarm: %w", err)
	}

	var rows []referentDisplayRow
	if err := r.DB.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, dbError(err, "farm referents")
	}

	out := make([]models.ReferentDisplay, 0, len(rows))
	for _, row := range rows {
		d := models.ReferentDisplay{
			ReferentName: "N/A",
			Role:         "N/A",
			RoleID:       row.RoleID,
			Kind:         row.TargetKind,
			TargetUUID:   row.TargetUUID,
		}
		switch row.TargetKind {
		case models.TargetPerson:
			if row.FirstName != nil || row.LastName != nil {
				d.ReferentName = models.Person{FirstName: deref(row.FirstName), LastName: deref(row.LastName)}.FullName()
			}
			if row.PersonRole != nil {
				d.Role = *row.PersonRole
			}
		case models.TargetCompany:
			if row.CompanyName != nil {
				d.ReferentName = *row.CompanyName
			}
			if row.CompanyRole != nil {
				d.Role = *row.CompanyRole
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
