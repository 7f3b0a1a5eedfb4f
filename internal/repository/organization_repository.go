package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// ErrOrganizationNotFound is returned when an organization lookup
// yields no row.
var ErrOrganizationNotFound = errors.New("organization not found")

// OrganizationRepo provides access to organizations, membership tiers,
// members and staff.
type OrganizationRepo struct {
	db *sql.DB
}

// NewOrganizationRepo returns a new OrganizationRepo bound to the
// given database.
func NewOrganizationRepo(db *sql.DB) *OrganizationRepo { return &OrganizationRepo{db: db} }

// Create inserts an organization.  On success the ID is populated.
func (r *OrganizationRepo) Create(ctx context.Context, org *model.Organization) error {
	const q = `INSERT INTO organizations (owner_user_id, name) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, org.OwnerUserID, org.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	org.ID = uint64(id)
	return nil
}

// GetByID retrieves an organization by id.
func (r *OrganizationRepo) GetByID(ctx context.Context, id uint64) (*model.Organization, error) {
	const q = `SELECT id, owner_user_id, name, created_at, updated_at
               FROM organizations WHERE id = ?`
	var org model.Organization
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&org.ID, &org.OwnerUserID, &org.Name, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

// ListByOwner returns the organizations owned by the user.
func (r *OrganizationRepo) ListByOwner(ctx context.Context, userID uint64) ([]model.Organization, error) {
	const q = `SELECT id, owner_user_id, name, created_at, updated_at
               FROM organizations WHERE owner_user_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orgs := make([]model.Organization, 0)
	for rows.Next() {
		var org model.Organization
		if err := rows.Scan(&org.ID, &org.OwnerUserID, &org.Name, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

// IsOrganizer reports whether the user owns or staffs the organization.
func (r *OrganizationRepo) IsOrganizer(ctx context.Context, orgID, userID uint64) (bool, error) {
	const q = `SELECT EXISTS(
                   SELECT 1 FROM organizations WHERE id = ? AND owner_user_id = ?
               ) OR EXISTS(
                   SELECT 1 FROM organization_staff WHERE organization_id = ? AND user_id = ?
               )`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, orgID, userID, orgID, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// CreateMembershipTier inserts a membership tier.  On success the ID
// is populated.
func (r *OrganizationRepo) CreateMembershipTier(ctx context.Context, mt *model.MembershipTier) error {
	const q = `INSERT INTO membership_tiers (organization_id, name) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, mt.OrganizationID, mt.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	mt.ID = uint64(id)
	return nil
}

// AddMember enrolls a user in the organization, optionally placing
// them in a membership tier.  Re-adding updates the tier.
func (r *OrganizationRepo) AddMember(ctx context.Context, orgID, userID uint64, membershipTierID *uint64) error {
	const q = `INSERT INTO organization_members (organization_id, user_id, membership_tier_id)
               VALUES (?, ?, ?)
               ON DUPLICATE KEY UPDATE membership_tier_id = VALUES(membership_tier_id)`
	_, err := r.db.ExecContext(ctx, q, orgID, userID, nullableUint64(membershipTierID))
	return err
}

// AddStaff grants a user staff rights on the organization.
func (r *OrganizationRepo) AddStaff(ctx context.Context, orgID, userID uint64) error {
	const q = `INSERT IGNORE INTO organization_staff (organization_id, user_id) VALUES (?, ?)`
	_, err := r.db.ExecContext(ctx, q, orgID, userID)
	return err
}
