package api

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/service/catalog"
	"github.com/clientdesk/crm-core/service/directory"
	"github.com/clientdesk/crm-core/service/engagement"
)

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func fromNullDecimal(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.StringFixed(2)
	return &s
}

func sqlNullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Valid: true, Time: t}
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{Valid: true, String: *s}
}

type contactView struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"full_name"`
	ContactType string    `json:"contact_type"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	CompanyName *string   `json:"company_name"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

func newContactView(contact model.Contact) contactView {
	return contactView{
		ID:          contact.ID,
		FullName:    contact.FullName,
		ContactType: string(contact.ContactType),
		Email:       fromNullString(contact.Email),
		Phone:       fromNullString(contact.Phone),
		CompanyName: fromNullString(contact.CompanyName),
		Notes:       fromNullString(contact.Notes),
		CreatedAt:   contact.CreatedAt,
	}
}

func newContactViews(contacts []model.Contact) []contactView {
	views := make([]contactView, 0, len(contacts))
	for _, contact := range contacts {
		views = append(views, newContactView(contact))
	}
	return views
}

type relationshipView struct {
	ID               int64     `json:"id"`
	FromContactID    int64     `json:"from_contact_id"`
	ToContactID      int64     `json:"to_contact_id"`
	RelationshipType string    `json:"relationship_type"`
	CreatedAt        time.Time `json:"created_at"`
}

func newRelationshipView(rel model.Relationship) relationshipView {
	return relationshipView{
		ID:               rel.ID,
		FromContactID:    rel.FromContactID,
		ToContactID:      rel.ToContactID,
		RelationshipType: rel.RelationshipType,
		CreatedAt:        rel.CreatedAt,
	}
}

type relatedContactView struct {
	RelationshipID   int64       `json:"relationship_id"`
	RelationshipType string      `json:"relationship_type"`
	Contact          contactView `json:"contact"`
	CreatedAt        time.Time   `json:"created_at"`
}

func newRelatedContactViews(related []model.RelatedContact) []relatedContactView {
	views := make([]relatedContactView, 0, len(related))
	for _, r := range related {
		views = append(views, relatedContactView{
			RelationshipID:   r.Relationship.ID,
			RelationshipType: r.Relationship.RelationshipType,
			Contact:          newContactView(r.Contact),
			CreatedAt:        r.Relationship.CreatedAt,
		})
	}
	return views
}

type relationshipSummaryView struct {
	RelationshipID   int64  `json:"relationship_id"`
	RelationshipType string `json:"type"`
	ContactID        int64  `json:"contact_id"`
	FullName         string `json:"organisation"`
}

func newRelationshipSummaryViews(summaries []model.RelationshipSummary) []relationshipSummaryView {
	views := make([]relationshipSummaryView, 0, len(summaries))
	for _, summary := range summaries {
		views = append(views, relationshipSummaryView{
			RelationshipID:   summary.RelationshipID,
			RelationshipType: summary.RelationshipType,
			ContactID:        summary.ContactID,
			FullName:         summary.FullName,
		})
	}
	return views
}

type campaignView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Channel     string    `json:"channel"`
	SendDate    time.Time `json:"send_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func newCampaignView(campaign model.Campaign) campaignView {
	return campaignView{
		ID:          campaign.ID,
		Name:        campaign.Name,
		Description: fromNullString(campaign.Description),
		Channel:     string(campaign.Channel),
		SendDate:    campaign.SendDate,
		Status:      string(campaign.Status),
		CreatedAt:   campaign.CreatedAt,
	}
}

type statsView struct {
	TotalSent     int64   `json:"total_sent"`
	Pending       int64   `json:"pending"`
	Responded     int64   `json:"responded"`
	Converted     int64   `json:"converted"`
	NotInterested int64   `json:"not_interested"`
	ResponseRate  float64 `json:"response_rate"`
}

func newStatsView(stats engagement.Stats) statsView {
	return statsView{
		TotalSent:     stats.Total,
		Pending:       stats.Pending,
		Responded:     stats.Responded,
		Converted:     stats.Converted,
		NotInterested: stats.NotInterested,
		ResponseRate:  stats.ResponseRate,
	}
}

type responseView struct {
	ID             int64      `json:"id"`
	CampaignID     int64      `json:"campaign_id"`
	ContactID      int64      `json:"contact_id"`
	ResponseStatus string     `json:"response_status"`
	ResponseDate   *time.Time `json:"response_date"`
	Notes          *string    `json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
}

func newResponseView(response model.CampaignResponse) responseView {
	return responseView{
		ID:             response.ID,
		CampaignID:     response.CampaignID,
		ContactID:      response.ContactID,
		ResponseStatus: string(response.ResponseStatus),
		ResponseDate:   fromNullTime(response.ResponseDate),
		Notes:          fromNullString(response.Notes),
		CreatedAt:      response.CreatedAt,
	}
}

type campaignContactView struct {
	Contact        contactView               `json:"contact"`
	ResponseStatus string                    `json:"response_status"`
	ResponseDate   *time.Time                `json:"response_date"`
	Relationships  []relationshipSummaryView `json:"relationships"`
}

func newCampaignContactViews(contacts []engagement.CampaignContact) []campaignContactView {
	views := make([]campaignContactView, 0, len(contacts))
	for _, cc := range contacts {
		views = append(views, campaignContactView{
			Contact:        newContactView(cc.Contact),
			ResponseStatus: string(cc.Response.ResponseStatus),
			ResponseDate:   fromNullTime(cc.Response.ResponseDate),
			Relationships:  newRelationshipSummaryViews(cc.Relationships),
		})
	}
	return views
}

type productView struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      *string   `json:"description"`
	Status           string    `json:"status"`
	ProductType      string    `json:"product_type"`
	Version          int64     `json:"version"`
	ParentProductID  *int64    `json:"parent_product_id"`
	EffectiveDate    time.Time `json:"effective_date"`
	BasePrice        string    `json:"base_price"`
	Currency         string    `json:"currency"`
	BillingFrequency string    `json:"billing_frequency"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newProductView(product model.Product) productView {
	var parentID *int64
	if product.ParentProductID.Valid {
		parentID = &product.ParentProductID.Int64
	}
	return productView{
		ID:               product.ID,
		Name:             product.Name,
		Description:      fromNullString(product.Description),
		Status:           string(product.Status),
		ProductType:      product.ProductType,
		Version:          product.Version,
		ParentProductID:  parentID,
		EffectiveDate:    product.EffectiveDate,
		BasePrice:        product.BasePrice.StringFixed(2),
		Currency:         product.Currency,
		BillingFrequency: product.BillingFrequency,
		CreatedAt:        product.CreatedAt,
		UpdatedAt:        product.UpdatedAt,
	}
}

type productSummaryView struct {
	productView
	ActiveSubscriberCount int64 `json:"active_subscriber_count"`
}

func newProductSummaryViews(products []catalog.ProductSummary) []productSummaryView {
	views := make([]productSummaryView, 0, len(products))
	for _, p := range products {
		views = append(views, productSummaryView{
			productView:           newProductView(p.Product),
			ActiveSubscriberCount: p.ActiveSubscriberCount,
		})
	}
	return views
}

type subscriptionView struct {
	ID          int64      `json:"id"`
	ContactID   int64      `json:"contact_id"`
	ProductID   int64      `json:"product_id"`
	Status      string     `json:"status"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	ActualPrice *string    `json:"actual_price"`
	Notes       *string    `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newSubscriptionView(sub model.Subscription) subscriptionView {
	return subscriptionView{
		ID:          sub.ID,
		ContactID:   sub.ContactID,
		ProductID:   sub.ProductID,
		Status:      string(sub.Status),
		StartDate:   sub.StartDate,
		EndDate:     fromNullTime(sub.EndDate),
		ActualPrice: fromNullDecimal(sub.ActualPrice),
		Notes:       fromNullString(sub.Notes),
		CreatedAt:   sub.CreatedAt,
		UpdatedAt:   sub.UpdatedAt,
	}
}

type contactSubscriptionView struct {
	Subscription subscriptionView `json:"subscription"`
	Product      productView      `json:"product"`
}

func newContactSubscriptionViews(subs []catalog.ContactSubscription) []contactSubscriptionView {
	views := make([]contactSubscriptionView, 0, len(subs))
	for _, cs := range subs {
		views = append(views, contactSubscriptionView{
			Subscription: newSubscriptionView(cs.Subscription),
			Product:      newProductView(cs.Product),
		})
	}
	return views
}

type organisationSummaryView struct {
	contactView
	LinkedPeopleCount int64 `json:"linked_people_count"`
}

type organisationDetailView struct {
	contactView
	LinkedPeople []relatedContactView `json:"linked_people"`
}

type searchResultView struct {
	Contact       contactView               `json:"contact"`
	Organisations []relationshipSummaryView `json:"organisations,omitempty"`
}

func newSearchResultViews(results []directory.SearchResult) []searchResultView {
	views := make([]searchResultView, 0, len(results))
	for _, result := range results {
		views = append(views, searchResultView{
			Contact:       newContactView(result.Contact),
			Organisations: newRelationshipSummaryViews(result.Organisations),
		})
	}
	return views
}

type firmStatsView struct {
	TotalContacts  int64            `json:"total_contacts"`
	TotalCampaigns int64            `json:"total_campaigns"`
	ByType         map[string]int64 `json:"by_type"`
}

func newFirmStatsView(stats directory.Stats) firmStatsView {
	return firmStatsView{
		TotalContacts:  stats.TotalContacts,
		TotalCampaigns: stats.TotalCampaigns,
		ByType: map[string]int64{
			string(model.ContactTypeIndividual): stats.Individuals,
			string(model.ContactTypeBusiness):   stats.Businesses,
			string(model.ContactTypeEstate):     stats.Estates,
		},
	}
}
