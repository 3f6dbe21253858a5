package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clientdesk/crm-core/pkg/errcode"
)

type createRelationshipRequest struct {
	FromContactID    int64  `json:"from_contact_id" validate:"required"`
	ToContactID      int64  `json:"to_contact_id" validate:"required"`
	RelationshipType string `json:"relationship_type" validate:"required"`
}

func (s *Server) createRelationship(c echo.Context) error {
	var req createRelationshipRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("invalid request body"))
	}
	if err := validate.Struct(req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("%s", err.Error()))
	}

	rel, err := s.directory.CreateRelationship(
		c.Request().Context(), req.FromContactID, req.ToContactID, req.RelationshipType)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, newRelationshipView(rel))
}

func (s *Server) deleteRelationship(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := s.directory.DeleteRelationship(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listOrganisations(c echo.Context) error {
	orgs, err := s.directory.ListOrganisations(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	views := make([]organisationSummaryView, 0, len(orgs))
	for _, org := range orgs {
		views = append(views, organisationSummaryView{
			contactView:       newContactView(org.Contact),
			LinkedPeopleCount: org.LinkedPeopleCount,
		})
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) getOrganisationDetail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	detail, err := s.directory.GetOrganisationDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, organisationDetailView{
		contactView:  newContactView(detail.Organisation),
		LinkedPeople: newRelatedContactViews(detail.LinkedPeople),
	})
}
