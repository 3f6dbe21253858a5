package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
	"github.com/clientdesk/crm-core/repository"
	"github.com/clientdesk/crm-core/service/engagement"
)

type createCampaignRequest struct {
	Name        string    `json:"name" validate:"required"`
	Description *string   `json:"description"`
	Channel     string    `json:"channel" validate:"required"`
	SendDate    time.Time `json:"send_date" validate:"required"`
	Status      string    `json:"status"`
}

func (s *Server) createCampaign(c echo.Context) error {
	var req createCampaignRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("invalid request body"))
	}
	if err := validate.Struct(req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("%s", err.Error()))
	}

	campaign, err := s.engagement.CreateCampaign(c.Request().Context(), engagement.CreateCampaignInput{
		Name:        req.Name,
		Description: toNullString(req.Description),
		Channel:     model.CampaignChannel(req.Channel),
		SendDate:    req.SendDate,
		Status:      model.CampaignStatus(req.Status),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, newCampaignView(campaign))
}

func (s *Server) listCampaigns(c echo.Context) error {
	campaigns, err := s.engagement.ListCampaigns(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	views := make([]campaignView, 0, len(campaigns))
	for _, campaign := range campaigns {
		views = append(views, newCampaignView(campaign))
	}
	return c.JSON(http.StatusOK, views)
}

type campaignDetailView struct {
	campaignView
	Stats statsView `json:"stats"`
}

func (s *Server) getCampaignDetail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	detail, err := s.engagement.GetCampaignDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, campaignDetailView{
		campaignView: newCampaignView(detail.Campaign),
		Stats:        newStatsView(detail.Stats),
	})
}

type updateCampaignRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Channel     *string    `json:"channel"`
	SendDate    *time.Time `json:"send_date"`
	Status      *string    `json:"status"`
}

func (s *Server) updateCampaign(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req updateCampaignRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("invalid request body"))
	}

	patch := model.CampaignPatch{
		Name:        req.Name,
		Description: patchNullString(req.Description),
		SendDate:    req.SendDate,
	}
	if req.Channel != nil {
		channel, ok := model.ParseCampaignChannel(*req.Channel)
		if !ok {
			return writeError(c, errcode.InvalidArgumentf("unknown campaign channel %q", *req.Channel))
		}
		patch.Channel = &channel
	}
	if req.Status != nil {
		status, ok := model.ParseCampaignStatus(*req.Status)
		if !ok {
			return writeError(c, errcode.InvalidArgumentf("unknown campaign status %q", *req.Status))
		}
		patch.Status = &status
	}

	campaign, err := s.engagement.UpdateCampaign(c.Request().Context(), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newCampaignView(campaign))
}

func (s *Server) deleteCampaign(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := s.engagement.DeleteCampaign(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// parseIDList parses a comma separated list of numeric ids.
func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, errcode.InvalidArgumentf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Server) getCampaignOverview(c echo.Context) error {
	ids, err := parseIDList(c.QueryParam("campaign_ids"))
	if err != nil {
		return writeError(c, err)
	}
	stats, err := s.engagement.Overview(c.Request().Context(), ids)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newStatsView(stats))
}

func (s *Server) getCampaignContacts(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	filter := repository.ResponseFilter{CampaignIDs: []int64{id}}
	if raw := c.QueryParam("status"); raw != "" {
		status, ok := model.ParseResponseStatus(raw)
		if !ok {
			return writeError(c, errcode.InvalidArgumentf("unknown response status %q", raw))
		}
		filter.Status = &status
	}

	contacts, err := s.engagement.ListCampaignContacts(c.Request().Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newCampaignContactViews(contacts))
}

type addResponseRequest struct {
	ContactID      int64   `json:"contact_id" validate:"required"`
	ResponseStatus string  `json:"response_status"`
	Notes          *string `json:"notes"`
}

func (s *Server) addCampaignResponse(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req addResponseRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("invalid request body"))
	}
	if err := validate.Struct(req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("%s", err.Error()))
	}

	response, err := s.engagement.AddResponse(c.Request().Context(), engagement.AddResponseInput{
		CampaignID:     id,
		ContactID:      req.ContactID,
		ResponseStatus: model.ResponseStatus(req.ResponseStatus),
		Notes:          toNullString(req.Notes),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, newResponseView(response))
}

type updateResponseRequest struct {
	ResponseStatus *string `json:"response_status"`
	Notes          *string `json:"notes"`
}

func (s *Server) updateCampaignResponse(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req updateResponseRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("invalid request body"))
	}

	patch := model.CampaignResponsePatch{
		Notes: patchNullString(req.Notes),
	}
	if req.ResponseStatus != nil {
		status, ok := model.ParseResponseStatus(*req.ResponseStatus)
		if !ok {
			return writeError(c, errcode.InvalidArgumentf("unknown response status %q", *req.ResponseStatus))
		}
		patch.ResponseStatus = &status
	}

	response, err := s.engagement.UpdateResponse(c.Request().Context(), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newResponseView(response))
}
