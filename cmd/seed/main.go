package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	_ "github.com/go-sql-driver/mysql"

	"github.com/clientdesk/crm-core/config"
	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/repository"
	"github.com/clientdesk/crm-core/service/catalog"
	"github.com/clientdesk/crm-core/service/directory"
	"github.com/clientdesk/crm-core/service/engagement"
)

var firstNames = []string{
	"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda",
	"William", "Elizabeth", "David", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Thomas", "Sarah", "Christopher", "Karen", "Daniel", "Lisa", "Matthew", "Margaret",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Wilson", "Anderson", "Taylor", "Moore", "Jackson", "Martin", "Lee", "Thompson",
	"White", "Harris", "Clark", "Lewis", "Robinson", "Walker", "Young", "Allen",
}

var businessNames = []string{
	"Ace Accounting Ltd", "Premier Financial Services", "Summit Consulting Group",
	"Heritage Property Management", "Crown Estate Services", "Sterling Investments",
	"Riverside Business Solutions", "Oakwood Financial Advisors", "Pinnacle Wealth Management",
	"Beacon Trust Services", "Horizon Capital Partners", "Atlas Property Holdings",
}

var estateNames = []string{
	"The Morrison Family Trust", "Ashworth Estate", "Pemberton Family Holdings",
	"The Blackwood Trust", "Hartley Estate Management", "Wellington Family Trust",
	"The Fairfax Estate", "Thornbury Family Holdings", "Kensington Trust",
}

var emailDomains = []string{"gmail.com", "outlook.com", "yahoo.co.uk", "btinternet.com"}

type campaignSeed struct {
	name        string
	description string
}

var campaignSeeds = []campaignSeed{
	{"Tax Year End Planning", "Annual tax planning services reminder"},
	{"Estate Planning Workshop Invitation", "Invitation to our quarterly estate planning seminar"},
	{"New Wealth Management Services", "Introduction to our expanded wealth management offerings"},
	{"Year-End Financial Review", "Annual portfolio review and planning session"},
	{"Trust Administration Update", "Important updates to trust administration services"},
}

type productSeed struct {
	name             string
	description      string
	productType      string
	basePrice        string
	billingFrequency string
}

var productSeeds = []productSeed{
	{"Annual Tax Return Preparation", "Complete tax return preparation service", "Tax Services", "500.00", "annual"},
	{"Quarterly Bookkeeping", "Professional bookkeeping services on a quarterly basis", "Bookkeeping", "750.00", "quarterly"},
	{"VAT Returns", "VAT return filing and compliance services", "Tax Services", "300.00", "quarterly"},
	{"Estate Planning Consultation", "Comprehensive estate planning and structuring advice", "Estate Planning", "1200.00", "one-time"},
	{"Payroll Management", "Full payroll processing and compliance", "Payroll Services", "400.00", "monthly"},
	{"Financial Statement Audit", "Independent audit of annual financial statements", "Audit Services", "2500.00", "annual"},
	{"Trust Administration", "Ongoing trust administration and compliance services", "Trust Services", "1500.00", "annual"},
	{"Business Advisory Services", "Strategic business planning and financial advisory", "Advisory", "1000.00", "monthly"},
}

func main() {
	rootCmd := cobra.Command{
		Use: "seed",
	}
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "all",
			Short: "populate the database with sample data",
			Run: func(cmd *cobra.Command, args []string) {
				seedAll()
			},
		},
	)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(err)
	}
}

type seeder struct {
	rand *rand.Rand

	directory  *directory.Service
	engagement *engagement.Service
	catalog    *catalog.Service
}

func seedAll() {
	conf := config.Load()

	db := conf.MySQL.MustConnect()
	provider := repository.NewProvider(db)

	contactRepo := repository.NewContact()
	relationshipRepo := repository.NewRelationship()
	campaignRepo := repository.NewCampaign()
	responseRepo := repository.NewCampaignResponse()
	productRepo := repository.NewProduct()
	subscriptionRepo := repository.NewSubscription()

	now := time.Now

	s := &seeder{
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		directory:  directory.NewService(provider, contactRepo, relationshipRepo, campaignRepo, now),
		engagement: engagement.NewService(provider, campaignRepo, responseRepo, contactRepo, relationshipRepo, now),
		catalog:    catalog.NewService(provider, productRepo, subscriptionRepo, contactRepo, now),
	}

	ctx := context.Background()

	individuals, organisations := s.seedContacts(ctx)
	s.seedRelationships(ctx, individuals, organisations)
	s.seedCampaigns(ctx, individuals)
	s.seedProducts(ctx, individuals, organisations)

	fmt.Println("seeding completed")
}

func nullStr(s string) sql.NullString {
	return sql.NullString{Valid: true, String: s}
}

func (s *seeder) phone() string {
	return fmt.Sprintf("07%03d %06d", s.rand.Intn(1000), s.rand.Intn(1000000))
}

func (s *seeder) seedContacts(ctx context.Context) (individuals, organisations []model.Contact) {
	for i := 0; i < 30; i++ {
		first := firstNames[s.rand.Intn(len(firstNames))]
		last := lastNames[s.rand.Intn(len(lastNames))]

		input := directory.CreateContactInput{
			FullName:    first + " " + last,
			ContactType: model.ContactTypeIndividual,
			Phone:       nullStr(s.phone()),
		}
		if s.rand.Float64() < 0.8 {
			domain := emailDomains[s.rand.Intn(len(emailDomains))]
			input.Email = nullStr(fmt.Sprintf("%s.%s%d@%s", first, last, i, domain))
		}

		contact, err := s.directory.CreateContact(ctx, input)
		if err != nil {
			panic(err)
		}
		individuals = append(individuals, contact)
	}

	for _, name := range businessNames {
		contact, err := s.directory.CreateContact(ctx, directory.CreateContactInput{
			FullName:    name,
			ContactType: model.ContactTypeBusiness,
			CompanyName: nullStr(name),
			Phone:       nullStr(s.phone()),
		})
		if err != nil {
			panic(err)
		}
		organisations = append(organisations, contact)
	}

	for _, name := range estateNames {
		contact, err := s.directory.CreateContact(ctx, directory.CreateContactInput{
			FullName:    name,
			ContactType: model.ContactTypeEstate,
		})
		if err != nil {
			panic(err)
		}
		organisations = append(organisations, contact)
	}

	fmt.Printf("created %d individuals, %d organisations\n", len(individuals), len(organisations))
	return individuals, organisations
}

func (s *seeder) seedRelationships(ctx context.Context, individuals, organisations []model.Contact) {
	created := 0
	for _, org := range organisations {
		relType := "works_for"
		if org.ContactType == model.ContactTypeEstate {
			relType = "member_of"
		}

		linked := map[int64]bool{}
		for i := 0; i < 2+s.rand.Intn(3); i++ {
			person := individuals[s.rand.Intn(len(individuals))]
			if linked[person.ID] {
				continue
			}
			linked[person.ID] = true

			_, err := s.directory.CreateRelationship(ctx, person.ID, org.ID, relType)
			if err != nil {
				panic(err)
			}
			created++
		}
	}
	fmt.Printf("created %d relationships\n", created)
}

func (s *seeder) seedCampaigns(ctx context.Context, individuals []model.Contact) {
	statuses := []model.ResponseStatus{
		model.ResponseStatusPending,
		model.ResponseStatusResponded,
		model.ResponseStatusConverted,
		model.ResponseStatusNotInterested,
	}
	channels := []model.CampaignChannel{
		model.CampaignChannelEmail,
		model.CampaignChannelMail,
		model.CampaignChannelPhone,
	}

	for _, seed := range campaignSeeds {
		sendDate := time.Now().AddDate(0, 0, -30-s.rand.Intn(150))

		campaign, err := s.engagement.CreateCampaign(ctx, engagement.CreateCampaignInput{
			Name:        seed.name,
			Description: nullStr(seed.description),
			Channel:     channels[s.rand.Intn(len(channels))],
			SendDate:    sendDate,
			Status:      model.CampaignStatusSent,
		})
		if err != nil {
			panic(err)
		}

		recipients := map[int64]bool{}
		for i := 0; i < 10+s.rand.Intn(10); i++ {
			person := individuals[s.rand.Intn(len(individuals))]
			if recipients[person.ID] {
				continue
			}
			recipients[person.ID] = true

			_, err := s.engagement.AddResponse(ctx, engagement.AddResponseInput{
				CampaignID:     campaign.ID,
				ContactID:      person.ID,
				ResponseStatus: statuses[s.rand.Intn(len(statuses))],
			})
			if err != nil {
				panic(err)
			}
		}
	}
	fmt.Printf("created %d campaigns\n", len(campaignSeeds))
}

func (s *seeder) seedProducts(ctx context.Context, individuals, organisations []model.Contact) {
	products := make([]model.Product, 0, len(productSeeds))
	for _, seed := range productSeeds {
		basePrice, err := decimal.NewFromString(seed.basePrice)
		if err != nil {
			panic(err)
		}

		product, err := s.catalog.CreateProduct(ctx, catalog.CreateProductInput{
			Name:             seed.name,
			Description:      nullStr(seed.description),
			Status:           model.ProductStatusActive,
			ProductType:      seed.productType,
			EffectiveDate:    time.Now().AddDate(-1, 0, 0),
			BasePrice:        basePrice,
			Currency:         "GBP",
			BillingFrequency: seed.billingFrequency,
		})
		if err != nil {
			panic(err)
		}
		products = append(products, product)
	}

	contacts := append(append([]model.Contact{}, individuals...), organisations...)
	created := 0
	for _, contact := range contacts {
		if s.rand.Float64() < 0.4 {
			continue
		}
		product := products[s.rand.Intn(len(products))]

		input := catalog.SubscribeInput{
			ContactID: contact.ID,
			ProductID: product.ID,
			Status:    model.SubscriptionStatusActive,
			StartDate: time.Now().AddDate(0, -s.rand.Intn(12), 0),
		}
		// around half the subscriptions carry a negotiated price
		if s.rand.Float64() < 0.5 {
			discount := decimal.NewFromFloat(0.8 + s.rand.Float64()*0.2)
			input.ActualPrice = decimal.NullDecimal{
				Decimal: product.BasePrice.Mul(discount).Round(2),
				Valid:   true,
			}
		}

		_, err := s.catalog.Subscribe(ctx, input)
		if err != nil {
			panic(err)
		}
		created++
	}
	fmt.Printf("created %d products, %d subscriptions\n", len(products), created)
}
