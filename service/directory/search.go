package directory

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/clientdesk/crm-core/model"
)

// searchLimit caps global search results.
const searchLimit = 10

// SearchResult ...
type SearchResult struct {
	Contact model.Contact
	// Organisations holds outbound relationship summaries; only populated
	// for individual contacts.
	Organisations []model.RelationshipSummary
}

// Search performs a case-insensitive substring match over full_name, email
// and company_name. Matching individuals are enriched with the organisations
// they are linked to. An empty match set is an empty slice, not an error.
func (s *Service) Search(ctx context.Context, query string) ([]SearchResult, error) {
	ctx = s.provider.Readonly(ctx)

	contacts, err := s.contacts.SearchContacts(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}

	individualIDs := make([]int64, 0, len(contacts))
	for _, contact := range contacts {
		if contact.ContactType == model.ContactTypeIndividual {
			individualIDs = append(individualIDs, contact.ID)
		}
	}

	outgoing, err := s.relationships.ListOutgoingForContacts(ctx, individualIDs)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(contacts))
	for _, contact := range contacts {
		result := SearchResult{Contact: contact}
		if contact.ContactType == model.ContactTypeIndividual {
			result.Organisations, err = summarizeOutgoing(ctx, s.contacts, outgoing[contact.ID])
			if err != nil {
				return nil, err
			}
		}
		results = append(results, result)
	}
	return results, nil
}

// csvHeader is the fixed export column order.
var csvHeader = []string{"Full Name", "Contact Type", "Email", "Phone", "Company", "Notes"}

// ExportContactsCSV writes all contacts as CSV in insertion order. Optional
// fields render as empty strings. With no contacts only the header row is
// produced.
func (s *Service) ExportContactsCSV(ctx context.Context, w io.Writer) error {
	contacts, err := s.ListContacts(ctx)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, contact := range contacts {
		record := []string{
			contact.FullName,
			string(contact.ContactType),
			contact.Email.String,
			contact.Phone.String,
			contact.CompanyName.String,
			contact.Notes.String,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
