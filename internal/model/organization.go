package model

import "time"

// Organization represents a row in the `organizations` table.  Events
// and venues are owned by organizations; membership and staff records
// hang off them.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the organization.
//  OwnerUserID – user who owns the organization.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Organization struct {
    ID          uint64    // organizations.id
    Name        string    // organizations.name
    OwnerUserID uint64    // organizations.owner_user_id
    CreatedAt   time.Time // organizations.created_at
    UpdatedAt   time.Time // organizations.updated_at
}

// MembershipTier represents a row in the `membership_tiers` table.
// Ticket tiers may be restricted to a set of membership tiers.
//
// Fields:
//  ID             – primary key identifier.
//  OrganizationID – owning organization.
//  Name           – tier name (e.g. "Gold").
type MembershipTier struct {
    ID             uint64 // membership_tiers.id
    OrganizationID uint64 // membership_tiers.organization_id
    Name           string // membership_tiers.name
}

// OrganizationMember represents a row in the `organization_members`
// table.  Membership may carry a membership tier used for
// tier-restricted ticket purchasing.
//
// Fields:
//  ID               – primary key identifier.
//  OrganizationID   – organization the user belongs to.
//  UserID           – member user.
//  MembershipTierID – optional membership tier (nullable).
//  JoinedAt         – when the membership began.
type OrganizationMember struct {
    ID               uint64    // organization_members.id
    OrganizationID   uint64    // organization_members.organization_id
    UserID           uint64    // organization_members.user_id
    MembershipTierID *uint64   // organization_members.membership_tier_id (nullable)
    JoinedAt         time.Time // organization_members.joined_at
}

// OrganizationStaff represents a row in the `organization_staff` table.
// Staff bypass the eligibility gate chain for the organization's events.
//
// Fields:
//  ID             – primary key identifier.
//  OrganizationID – organization the user works for.
//  UserID         – staff user.
type OrganizationStaff struct {
    ID             uint64 // organization_staff.id
    OrganizationID uint64 // organization_staff.organization_id
    UserID         uint64 // organization_staff.user_id
}
