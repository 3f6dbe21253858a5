package repository

import (
	"context"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
)

// Contact ...
type Contact interface {
	InsertContact(ctx context.Context, contact model.Contact) (model.Contact, error)
	GetContact(ctx context.Context, contactID int64) (model.Contact, error)
	GetContactsByIDs(ctx context.Context, contactIDs []int64) (map[int64]model.Contact, error)
	LockContact(ctx context.Context, contactID int64) error
	UpdateContact(ctx context.Context, contactID int64, patch model.ContactPatch) error
	DeleteContact(ctx context.Context, contactID int64) error
	ListContacts(ctx context.Context) ([]model.Contact, error)
	ListContactsByTypes(ctx context.Context, types ...model.ContactType) ([]model.Contact, error)
	SearchContacts(ctx context.Context, query string, limit int) ([]model.Contact, error)
	CountContactsByType(ctx context.Context) (map[model.ContactType]int64, error)
}

type contactImpl struct {
}

// NewContact ...
func NewContact() Contact {
	return &contactImpl{}
}

const contactColumns = `id, full_name, contact_type, email, phone, company_name, notes, created_at`

// InsertContact ...
func (c *contactImpl) InsertContact(ctx context.Context, contact model.Contact) (model.Contact, error) {
	query := `
INSERT INTO contacts (full_name, contact_type, email, phone, company_name, notes, created_at)
VALUES (:full_name, :contact_type, :email, :phone, :company_name, :notes, :created_at)
`
	result, err := GetTx(ctx).NamedExecContext(ctx, query, contact)
	if err != nil {
		return model.Contact{}, err
	}
	contact.ID, err = result.LastInsertId()
	return contact, err
}

// GetContact ...
func (c *contactImpl) GetContact(ctx context.Context, contactID int64) (model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = ?`
	var contact model.Contact
	err := GetReadonly(ctx).GetContext(ctx, &contact, query, contactID)
	if isNoRows(err) {
		return model.Contact{}, errcode.NotFoundf("contact %d not found", contactID)
	}
	return contact, err
}

// GetContactsByIDs returns the contacts that resolve, keyed by id. Missing
// ids are simply absent from the result.
func (c *contactImpl) GetContactsByIDs(ctx context.Context, contactIDs []int64) (map[int64]model.Contact, error) {
	if len(contactIDs) == 0 {
		return map[int64]model.Contact{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+contactColumns+` FROM contacts WHERE id IN (?)`, contactIDs)
	if err != nil {
		return nil, err
	}

	var contacts []model.Contact
	if err := GetReadonly(ctx).SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, err
	}

	result := make(map[int64]model.Contact, len(contacts))
	for _, contact := range contacts {
		result[contact.ID] = contact
	}
	return result, nil
}

// LockContact ...
func (c *contactImpl) LockContact(ctx context.Context, contactID int64) error {
	query := `SELECT id FROM contacts WHERE id = ? FOR UPDATE`
	var id int64
	err := GetTx(ctx).GetContext(ctx, &id, query, contactID)
	if isNoRows(err) {
		return errcode.NotFoundf("contact %d not found", contactID)
	}
	return err
}

// UpdateContact applies the non-nil patch fields. The caller must have
// locked the row in the same transaction.
func (c *contactImpl) UpdateContact(ctx context.Context, contactID int64, patch model.ContactPatch) error {
	ub := sqlbuilder.MySQL.NewUpdateBuilder()
	ub.Update("contacts")

	var assigns []string
	if patch.FullName != nil {
		assigns = append(assigns, ub.Assign("full_name", *patch.FullName))
	}
	if patch.ContactType != nil {
		assigns = append(assigns, ub.Assign("contact_type", *patch.ContactType))
	}
	if patch.Email != nil {
		assigns = append(assigns, ub.Assign("email", *patch.Email))
	}
	if patch.Phone != nil {
		assigns = append(assigns, ub.Assign("phone", *patch.Phone))
	}
	if patch.CompanyName != nil {
		assigns = append(assigns, ub.Assign("company_name", *patch.CompanyName))
	}
	if patch.Notes != nil {
		assigns = append(assigns, ub.Assign("notes", *patch.Notes))
	}
	if len(assigns) == 0 {
		return nil
	}

	ub.Set(assigns...)
	ub.Where(ub.Equal("id", contactID))

	query, args := ub.Build()
	_, err := GetTx(ctx).ExecContext(ctx, query, args...)
	return err
}

// DeleteContact removes the row. Dependent relationships, campaign responses
// and subscriptions are left in place; composed reads skip unresolved ids.
func (c *contactImpl) DeleteContact(ctx context.Context, contactID int64) error {
	query := `DELETE FROM contacts WHERE id = ?`
	result, err := GetTx(ctx).ExecContext(ctx, query, contactID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errcode.NotFoundf("contact %d not found", contactID)
	}
	return nil
}

// ListContacts returns all contacts in insertion order.
func (c *contactImpl) ListContacts(ctx context.Context) ([]model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY id`
	var contacts []model.Contact
	err := GetReadonly(ctx).SelectContext(ctx, &contacts, query)
	return contacts, err
}

// ListContactsByTypes ...
func (c *contactImpl) ListContactsByTypes(ctx context.Context, types ...model.ContactType) ([]model.Contact, error) {
	if len(types) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT `+contactColumns+` FROM contacts WHERE contact_type IN (?) ORDER BY id`, types)
	if err != nil {
		return nil, err
	}

	var contacts []model.Contact
	err = GetReadonly(ctx).SelectContext(ctx, &contacts, query, args...)
	return contacts, err
}

// SearchContacts performs a case-insensitive substring match over full_name,
// email and company_name.
func (c *contactImpl) SearchContacts(ctx context.Context, query string, limit int) ([]model.Contact, error) {
	pattern := "%" + escapeLike(query) + "%"
	stmt := `
SELECT ` + contactColumns + `
FROM contacts
WHERE LOWER(full_name) LIKE LOWER(?)
	OR LOWER(email) LIKE LOWER(?)
	OR LOWER(company_name) LIKE LOWER(?)
ORDER BY id
LIMIT ?
`
	var contacts []model.Contact
	err := GetReadonly(ctx).SelectContext(ctx, &contacts, stmt, pattern, pattern, pattern, limit)
	return contacts, err
}

// CountContactsByType ...
func (c *contactImpl) CountContactsByType(ctx context.Context) (map[model.ContactType]int64, error) {
	query := `SELECT contact_type, COUNT(*) AS total FROM contacts GROUP BY contact_type`

	var rows []struct {
		ContactType model.ContactType `db:"contact_type"`
		Total       int64             `db:"total"`
	}
	if err := GetReadonly(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	result := make(map[model.ContactType]int64, len(rows))
	for _, row := range rows {
		result[row.ContactType] = row.Total
	}
	return result, nil
}
