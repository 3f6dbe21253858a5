package api

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
	"github.com/clientdesk/crm-core/service/directory"
)

// patchNullString maps an optional request field to a nullable column
// update. Absent means keep, empty string means clear.
func patchNullString(s *string) *sql.NullString {
	if s == nil {
		return nil
	}
	v := sql.NullString{String: *s, Valid: *s != ""}
	return &v
}

type createContactRequest struct {
	FullName    string  `json:"full_name" validate:"required"`
	ContactType string  `json:"contact_type" validate:"required"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
	CompanyName *string `json:"company_name"`
	Notes       *string `json:"notes"`
}

func (s *Server) createContact(c echo.Context) error {
	var req createContactRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("invalid request body"))
	}
	if err := validate.Struct(req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("%s", err.Error()))
	}

	contact, err := s.directory.CreateContact(c.Request().Context(), directory.CreateContactInput{
		FullName:    req.FullName,
		ContactType: model.ContactType(req.ContactType),
		Email:       toNullString(req.Email),
		Phone:       toNullString(req.Phone),
		CompanyName: toNullString(req.CompanyName),
		Notes:       toNullString(req.Notes),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, newContactView(contact))
}

func (s *Server) listContacts(c echo.Context) error {
	contacts, err := s.directory.ListContacts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newContactViews(contacts))
}

func (s *Server) getContact(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	contact, err := s.directory.GetContact(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newContactView(contact))
}

type updateContactRequest struct {
	FullName    *string `json:"full_name"`
	ContactType *string `json:"contact_type"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
	CompanyName *string `json:"company_name"`
	Notes       *string `json:"notes"`
}

func (s *Server) updateContact(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req updateContactRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("invalid request body"))
	}
	if err := validate.Struct(req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("%s", err.Error()))
	}

	patch := model.ContactPatch{
		FullName:    req.FullName,
		Email:       patchNullString(req.Email),
		Phone:       patchNullString(req.Phone),
		CompanyName: patchNullString(req.CompanyName),
		Notes:       patchNullString(req.Notes),
	}
	if req.ContactType != nil {
		contactType, ok := model.ParseContactType(*req.ContactType)
		if !ok {
			return writeError(c, errcode.InvalidArgumentf("unknown contact type %q", *req.ContactType))
		}
		patch.ContactType = &contactType
	}

	contact, err := s.directory.UpdateContact(c.Request().Context(), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newContactView(contact))
}

func (s *Server) deleteContact(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := s.directory.DeleteContact(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type contactRelationshipsResponse struct {
	Outgoing []relatedContactView `json:"outgoing"`
	Incoming []relatedContactView `json:"incoming"`
}

func (s *Server) getContactRelationships(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	ctx := c.Request().Context()
	outgoing, err := s.directory.Outgoing(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	incoming, err := s.directory.Incoming(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, contactRelationshipsResponse{
		Outgoing: newRelatedContactViews(outgoing),
		Incoming: newRelatedContactViews(incoming),
	})
}

func (s *Server) getContactOrganisations(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	summaries, err := s.directory.ContactOrganisations(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newRelationshipSummaryViews(summaries))
}

func (s *Server) getContactSubscriptions(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	subs, err := s.catalog.ContactSubscriptions(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newContactSubscriptionViews(subs))
}

func (s *Server) exportContactsCSV(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="contacts.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return s.directory.ExportContactsCSV(c.Request().Context(), c.Response())
}

func (s *Server) search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return writeError(c, errcode.InvalidArgumentf("query parameter q is required"))
	}
	results, err := s.directory.Search(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newSearchResultViews(results))
}

func (s *Server) getStats(c echo.Context) error {
	stats, err := s.directory.GetStats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newFirmStatsView(stats))
}
