package handlers

import (
	"context"
	"io"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockContactService struct{ mock.Mock }

func (m *mockContactService) ListContacts(ctx context.Context, filter models.ContactFilter, page, limit int) ([]*models.Contact, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	contacts, _ := args.Get(0).([]*models.Contact)
	return contacts, args.Get(1).(int64), args.Error(2)
}

func (m *mockContactService) GetContact(ctx context.Context, id primitive.ObjectID) (*models.ContactDetail, error) {
	args := m.Called(ctx, id)
	detail, _ := args.Get(0).(*models.ContactDetail)
	return detail, args.Error(1)
}

func (m *mockContactService) CreateContact(ctx context.Context, input *models.ContactInput) (*models.Contact, error) {
	args := m.Called(ctx, input)
	contact, _ := args.Get(0).(*models.Contact)
	return contact, args.Error(1)
}

func (m *mockContactService) UpdateContact(ctx context.Context, id primitive.ObjectID, patch models.ContactPatch) (*models.Contact, error) {
	args := m.Called(ctx, id, patch)
	contact, _ := args.Get(0).(*models.Contact)
	return contact, args.Error(1)
}

func (m *mockContactService) DeleteContact(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockContactService) BulkTag(ctx context.Context, req *models.BulkTagRequest) (*models.BulkResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*models.BulkResult)
	return result, args.Error(1)
}

func (m *mockContactService) SendEmail(ctx context.Context, req *models.SendEmailRequest) (*models.DispatchReport, error) {
	args := m.Called(ctx, req)
	report, _ := args.Get(0).(*models.DispatchReport)
	return report, args.Error(1)
}

func (m *mockContactService) ImportContacts(ctx context.Context, r io.Reader) (*models.ImportReport, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, string(body))
	report, _ := args.Get(0).(*models.ImportReport)
	return report, args.Error(1)
}

type mockCampaignService struct{ mock.Mock }

func (m *mockCampaignService) ListCampaigns(ctx context.Context, status models.CampaignStatus, page, limit int) ([]*models.Campaign, int64, error) {
	args := m.Called(ctx, status, page, limit)
	campaigns, _ := args.Get(0).([]*models.Campaign)
	return campaigns, args.Get(1).(int64), args.Error(2)
}

func (m *mockCampaignService) GetCampaign(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	args := m.Called(ctx, id)
	campaign, _ := args.Get(0).(*models.Campaign)
	return campaign, args.Error(1)
}

func (m *mockCampaignService) CreateCampaign(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	args := m.Called(ctx, campaign)
	created, _ := args.Get(0).(*models.Campaign)
	return created, args.Error(1)
}

func (m *mockCampaignService) UpdateCampaign(ctx context.Context, id primitive.ObjectID, campaign *models.Campaign) (*models.Campaign, error) {
	args := m.Called(ctx, id, campaign)
	updated, _ := args.Get(0).(*models.Campaign)
	return updated, args.Error(1)
}

func (m *mockCampaignService) DeleteCampaign(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCampaignService) SendCampaign(ctx context.Context, id primitive.ObjectID) (*models.DispatchReport, error) {
	args := m.Called(ctx, id)
	report, _ := args.Get(0).(*models.DispatchReport)
	return report, args.Error(1)
}

func (m *mockCampaignService) TestSend(ctx context.Context, req *models.TestSendRequest) (*models.DispatchReport, error) {
	args := m.Called(ctx, req)
	report, _ := args.Get(0).(*models.DispatchReport)
	return report, args.Error(1)
}

func (m *mockCampaignService) CampaignStats(ctx context.Context, id primitive.ObjectID) (*models.CampaignStatsView, error) {
	args := m.Called(ctx, id)
	view, _ := args.Get(0).(*models.CampaignStatsView)
	return view, args.Error(1)
}

type mockLandingPageService struct{ mock.Mock }

func (m *mockLandingPageService) ListPages(ctx context.Context, status models.LandingPageStatus, page, limit int) ([]*models.LandingPage, int64, error) {
	args := m.Called(ctx, status, page, limit)
	pages, _ := args.Get(0).([]*models.LandingPage)
	return pages, args.Get(1).(int64), args.Error(2)
}

func (m *mockLandingPageService) GetPage(ctx context.Context, id primitive.ObjectID) (*models.LandingPage, error) {
	args := m.Called(ctx, id)
	page, _ := args.Get(0).(*models.LandingPage)
	return page, args.Error(1)
}

func (m *mockLandingPageService) CreatePage(ctx context.Context, page *models.LandingPage) (*models.LandingPage, error) {
	args := m.Called(ctx, page)
	created, _ := args.Get(0).(*models.LandingPage)
	return created, args.Error(1)
}

func (m *mockLandingPageService) UpdatePage(ctx context.Context, id primitive.ObjectID, page *models.LandingPage) (*models.LandingPage, error) {
	args := m.Called(ctx, id, page)
	updated, _ := args.Get(0).(*models.LandingPage)
	return updated, args.Error(1)
}

func (m *mockLandingPageService) DeletePage(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockLandingPageService) ViewPublished(ctx context.Context, slug string, meta models.RequestMeta) (*models.LandingPage, error) {
	args := m.Called(ctx, slug, meta)
	page, _ := args.Get(0).(*models.LandingPage)
	return page, args.Error(1)
}

func (m *mockLandingPageService) Submit(ctx context.Context, id primitive.ObjectID, sub *models.Submission, meta models.RequestMeta) (*models.SubmissionResult, error) {
	args := m.Called(ctx, id, sub, meta)
	result, _ := args.Get(0).(*models.SubmissionResult)
	return result, args.Error(1)
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.LoginResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) Me(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.AdminUser)
	return user, args.Error(1)
}

func (m *mockAuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	args := m.Called(ctx, email, password)
	return args.Bool(0), args.Error(1)
}
