package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
)

// Relationship ...
type Relationship interface {
	InsertRelationship(ctx context.Context, rel model.Relationship) (model.Relationship, error)
	GetRelationship(ctx context.Context, relationshipID int64) (model.Relationship, error)
	DeleteRelationship(ctx context.Context, relationshipID int64) error
	ListOutgoing(ctx context.Context, contactID int64) ([]model.Relationship, error)
	ListOutgoingForContacts(ctx context.Context, contactIDs []int64) (map[int64][]model.Relationship, error)
	ListIncoming(ctx context.Context, contactID int64) ([]model.Relationship, error)
	CountIncoming(ctx context.Context, contactID int64) (int64, error)
	CountIncomingForContacts(ctx context.Context, contactIDs []int64) (map[int64]int64, error)
}

type relationshipImpl struct {
}

// NewRelationship ...
func NewRelationship() Relationship {
	return &relationshipImpl{}
}

const relationshipColumns = `id, from_contact_id, to_contact_id, relationship_type, created_at`

// InsertRelationship inserts a directed edge. The unique key on
// (from_contact_id, to_contact_id) rejects a duplicate ordered pair
// regardless of type, closing the check-then-insert race at the store.
func (r *relationshipImpl) InsertRelationship(ctx context.Context, rel model.Relationship) (model.Relationship, error) {
	query := `
INSERT INTO relationships (from_contact_id, to_contact_id, relationship_type, created_at)
VALUES (:from_contact_id, :to_contact_id, :relationship_type, :created_at)
`
	result, err := GetTx(ctx).NamedExecContext(ctx, query, rel)
	if isDuplicateEntry(err) {
		return model.Relationship{}, errcode.Conflictf(
			"relationship from contact %d to contact %d already exists",
			rel.FromContactID, rel.ToContactID)
	}
	if err != nil {
		return model.Relationship{}, err
	}
	rel.ID, err = result.LastInsertId()
	return rel, err
}

// GetRelationship ...
func (r *relationshipImpl) GetRelationship(ctx context.Context, relationshipID int64) (model.Relationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM relationships WHERE id = ?`
	var rel model.Relationship
	err := GetReadonly(ctx).GetContext(ctx, &rel, query, relationshipID)
	if isNoRows(err) {
		return model.Relationship{}, errcode.NotFoundf("relationship %d not found", relationshipID)
	}
	return rel, err
}

// DeleteRelationship ...
func (r *relationshipImpl) DeleteRelationship(ctx context.Context, relationshipID int64) error {
	query := `DELETE FROM relationships WHERE id = ?`
	result, err := GetTx(ctx).ExecContext(ctx, query, relationshipID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errcode.NotFoundf("relationship %d not found", relationshipID)
	}
	return nil
}

// ListOutgoing returns edges where the contact is the subject.
func (r *relationshipImpl) ListOutgoing(ctx context.Context, contactID int64) ([]model.Relationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM relationships WHERE from_contact_id = ? ORDER BY id`
	var rels []model.Relationship
	err := GetReadonly(ctx).SelectContext(ctx, &rels, query, contactID)
	return rels, err
}

// ListOutgoingForContacts returns outbound edges grouped by source contact,
// avoiding per-contact round trips when composing summaries.
func (r *relationshipImpl) ListOutgoingForContacts(ctx context.Context, contactIDs []int64) (map[int64][]model.Relationship, error) {
	if len(contactIDs) == 0 {
		return map[int64][]model.Relationship{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+relationshipColumns+` FROM relationships WHERE from_contact_id IN (?) ORDER BY id`, contactIDs)
	if err != nil {
		return nil, err
	}

	var rels []model.Relationship
	if err := GetReadonly(ctx).SelectContext(ctx, &rels, query, args...); err != nil {
		return nil, err
	}

	result := make(map[int64][]model.Relationship)
	for _, rel := range rels {
		result[rel.FromContactID] = append(result[rel.FromContactID], rel)
	}
	return result, nil
}

// ListIncoming returns edges where the contact is the object.
func (r *relationshipImpl) ListIncoming(ctx context.Context, contactID int64) ([]model.Relationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM relationships WHERE to_contact_id = ? ORDER BY id`
	var rels []model.Relationship
	err := GetReadonly(ctx).SelectContext(ctx, &rels, query, contactID)
	return rels, err
}

// CountIncoming ...
func (r *relationshipImpl) CountIncoming(ctx context.Context, contactID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM relationships WHERE to_contact_id = ?`
	var count int64
	err := GetReadonly(ctx).GetContext(ctx, &count, query, contactID)
	return count, err
}

// CountIncomingForContacts counts inbound edges per contact without
// materializing the linked records.
func (r *relationshipImpl) CountIncomingForContacts(ctx context.Context, contactIDs []int64) (map[int64]int64, error) {
	if len(contactIDs) == 0 {
		return map[int64]int64{}, nil
	}

	query, args, err := sqlx.In(`
SELECT to_contact_id, COUNT(*) AS total
FROM relationships
WHERE to_contact_id IN (?)
GROUP BY to_contact_id`, contactIDs)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ToContactID int64 `db:"to_contact_id"`
		Total       int64 `db:"total"`
	}
	if err := GetReadonly(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	result := make(map[int64]int64, len(rows))
	for _, row := range rows {
		result[row.ToContactID] = row.Total
	}
	return result, nil
}
