package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/clientdesk/crm-core/service/catalog"
	"github.com/clientdesk/crm-core/service/directory"
	"github.com/clientdesk/crm-core/service/engagement"
)

var validate = validator.New()

// Server exposes the core services over REST.
type Server struct {
	directory  *directory.Service
	engagement *engagement.Service
	catalog    *catalog.Service
}

// NewServer ...
func NewServer(
	directoryService *directory.Service,
	engagementService *engagement.Service,
	catalogService *catalog.Service,
) *Server {
	return &Server{
		directory:  directoryService,
		engagement: engagementService,
		catalog:    catalogService,
	}
}

// Register mounts all routes under /api.
func (s *Server) Register(e *echo.Echo) {
	g := e.Group("/api")

	g.GET("/stats", s.getStats)
	g.GET("/search", s.search)

	g.GET("/contacts", s.listContacts)
	g.POST("/contacts", s.createContact)
	g.GET("/contacts/export/csv", s.exportContactsCSV)
	g.GET("/contacts/:id", s.getContact)
	g.PUT("/contacts/:id", s.updateContact)
	g.DELETE("/contacts/:id", s.deleteContact)
	g.GET("/contacts/:id/relationships", s.getContactRelationships)
	g.GET("/contacts/:id/organisations", s.getContactOrganisations)
	g.GET("/contacts/:id/subscriptions", s.getContactSubscriptions)

	g.POST("/relationships", s.createRelationship)
	g.DELETE("/relationships/:id", s.deleteRelationship)

	g.GET("/organisations", s.listOrganisations)
	g.GET("/organisations/:id", s.getOrganisationDetail)

	g.GET("/campaigns", s.listCampaigns)
	g.POST("/campaigns", s.createCampaign)
	g.GET("/campaigns/overview", s.getCampaignOverview)
	g.GET("/campaigns/:id", s.getCampaignDetail)
	g.PUT("/campaigns/:id", s.updateCampaign)
	g.DELETE("/campaigns/:id", s.deleteCampaign)
	g.GET("/campaigns/:id/contacts", s.getCampaignContacts)
	g.POST("/campaigns/:id/responses", s.addCampaignResponse)
	g.PUT("/responses/:id", s.updateCampaignResponse)

	g.GET("/products", s.listProducts)
	g.POST("/products", s.createProduct)
	g.GET("/products/:id", s.getProduct)
	g.PUT("/products/:id", s.updateProduct)
	g.GET("/products/:id/versions", s.getProductVersionChain)
	g.POST("/subscriptions", s.subscribe)
	g.PUT("/subscriptions/:id", s.updateSubscription)
}
