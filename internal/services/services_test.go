package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/services"
	"github.com/javajoker/gearguard-backend/internal/store"
	"github.com/javajoker/gearguard-backend/internal/store/gormstore"
	"github.com/javajoker/gearguard-backend/internal/testutil"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

type fakeProvider struct {
	mu        sync.Mutex
	sessions  map[string]*services.CheckoutSession
	created   []*services.CheckoutSessionParams
	createErr error
	event     *services.WebhookEvent
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{sessions: map[string]*services.CheckoutSession{}}
}

func (p *fakeProvider) CreateCheckoutSession(ctx context.Context, params *services.CheckoutSessionParams) (*services.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.created = append(p.created, params)
	return &services.CheckoutSession{ID: "cs_test_new", URL: "https://checkout.test/cs_test_new"}, nil
}

func (p *fakeProvider) RetrieveSession(ctx context.Context, id string) (*services.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	session, ok := p.sessions[id]
	if !ok {
		return nil, errors.New("no such checkout session")
	}
	return session, nil
}

func (p *fakeProvider) ParseWebhook(payload []byte, signature string) (*services.WebhookEvent, error) {
	if signature != "valid" {
		return nil, errors.New("signature mismatch")
	}
	return p.event, nil
}

type fakeUploader struct {
	err error
}

func (u *fakeUploader) UploadImage(ctx context.Context, data []byte, filename string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	return "https://img.test/" + filename, nil
}

func (u *fakeUploader) UploadBase64(ctx context.Context, encoded string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	return "https://img.test/base64", nil
}

// sequentialStore runs "transactions" as plain sequences of writes, like
// mongostore on a standalone server.
type sequentialStore struct {
	store.Store
}

func (s sequentialStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	return fn(ctx, s)
}

type ServicesTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *gormstore.Store
	provider *fakeProvider
	uploader *fakeUploader

	users         *services.UserService
	assets        *services.AssetService
	requests      *services.RequestService
	assignments   *services.AssignmentService
	employees     *services.EmployeeService
	subscriptions *services.SubscriptionService
	analytics     *services.AnalyticsService
}

func (suite *ServicesTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = testutil.NewSQLiteStore(suite.T())
	suite.provider = newFakeProvider()
	suite.uploader = &fakeUploader{}

	suite.users = services.NewUserService(suite.store)
	suite.assets = services.NewAssetService(suite.store, suite.uploader)
	suite.requests = services.NewRequestService(suite.store, services.RequestConfig{})
	suite.assignments = services.NewAssignmentService(suite.store)
	suite.employees = services.NewEmployeeService(suite.store, "https://avatar.test/default.png")
	suite.subscriptions = services.NewSubscriptionService(suite.store, suite.provider, services.SubscriptionConfig{
		Currency:   "usd",
		SiteDomain: "https://app.test/",
	})
	suite.analytics = services.NewAnalyticsService(suite.store)

	require.NoError(suite.T(), suite.store.Packages().Replace(suite.ctx, []models.Package{
		{Name: "Basic", EmployeeLimit: 5, Price: 5},
		{Name: "Standard", EmployeeLimit: 10, Price: 8},
		{Name: "Premium", EmployeeLimit: 20, Price: 15},
	}))
}

func (suite *ServicesTestSuite) createUser(email, role, company string) *models.User {
	user, err := suite.users.CreateUser(suite.ctx, &services.CreateUserRequest{
		Name:        "User " + email,
		Email:       email,
		Role:        role,
		CompanyName: company,
	})
	require.NoError(suite.T(), err)
	return user
}

func (suite *ServicesTestSuite) createAsset(hr *models.User, name string, quantity int) *models.Asset {
	asset, err := suite.assets.CreateAsset(suite.ctx, hr, &services.CreateAssetRequest{
		ProductName:     name,
		ProductType:     string(models.ProductTypeReturnable),
		ProductQuantity: services.Quantity(quantity),
	}, nil)
	require.NoError(suite.T(), err)
	return asset
}

func (suite *ServicesTestSuite) submit(employee *models.User, asset *models.Asset) *models.Request {
	request, err := suite.requests.SubmitRequest(suite.ctx, employee, &services.SubmitRequestRequest{AssetID: asset.ID})
	require.NoError(suite.T(), err)
	return request
}

func (suite *ServicesTestSuite) approve(hr *models.User, request *models.Request) {
	result, err := suite.requests.ApproveRequest(suite.ctx, hr, request.ID, &services.ApproveRequestRequest{})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(1), result.ModifiedCount)
}

func (suite *ServicesTestSuite) available(id string) int {
	asset, err := suite.store.Assets().FindByID(suite.ctx, id)
	require.NoError(suite.T(), err)
	return asset.AvailableQuantity
}

func (suite *ServicesTestSuite) myAssets(email string) []models.AssignedAsset {
	assigned, _, err := suite.assignments.ListMyAssets(suite.ctx, email, utils.PaginationParams{Page: 1, Limit: 100})
	require.NoError(suite.T(), err)
	return assigned
}

func (suite *ServicesTestSuite) TestCreateUserAppliesRoleDefaults() {
	hr := suite.createUser("HR@Acme.io", "hr", "Acme")
	assert.Equal(suite.T(), "hr@acme.io", hr.Email)
	assert.Equal(suite.T(), models.RoleHR, hr.Role)
	assert.Equal(suite.T(), models.DefaultPackageLimit, hr.PackageLimit)

	_, err := suite.users.CreateUser(suite.ctx, &services.CreateUserRequest{Email: "hr@acme.io", Role: "Hr"})
	assert.ErrorIs(suite.T(), err, services.ErrUserExists)
	assert.ErrorIs(suite.T(), err, services.ErrConflict)

	role, err := suite.users.GetRole(suite.ctx, "nobody@acme.io")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), services.RoleGuest, role)

	_, err = suite.users.CreateUser(suite.ctx, &services.CreateUserRequest{Email: "x@acme.io", Role: "admin"})
	assert.ErrorIs(suite.T(), err, services.ErrInvalidInput)
}

func (suite *ServicesTestSuite) TestCreateAsset() {
	hr := suite.createUser("hr@acme.io", "Hr", "Acme")

	asset, err := suite.assets.CreateAsset(suite.ctx, hr, &services.CreateAssetRequest{
		ProductName:     "<b>Laptop</b>",
		ProductType:     "Returnable",
		ProductQuantity: 3,
	}, &services.ImageFile{Filename: "laptop.png", Data: []byte("png")})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Laptop", asset.ProductName)
	assert.Equal(suite.T(), 3, asset.AvailableQuantity)
	assert.Equal(suite.T(), "Acme", asset.CompanyName)
	assert.Equal(suite.T(), "https://img.test/laptop.png", asset.ProductImage)

	suite.uploader.err = errors.New("bucket unavailable")
	_, err = suite.assets.CreateAsset(suite.ctx, hr, &services.CreateAssetRequest{
		ProductName:     "Monitor",
		ProductType:     "Returnable",
		ProductQuantity: 1,
	}, &services.ImageFile{Filename: "monitor.png", Data: []byte("png")})
	assert.ErrorIs(suite.T(), err, services.ErrUpload)

	_, err = suite.assets.CreateAsset(suite.ctx, hr, &services.CreateAssetRequest{
		ProductName:     "Pens",
		ProductType:     "Consumable",
		ProductQuantity: 1,
	}, nil)
	assert.ErrorIs(suite.T(), err, services.ErrInvalidInput)
}

func (suite *ServicesTestSuite) TestDeleteAssetChecksOwner() {
	hr := suite.createUser("hr@acme.io", "Hr", "Acme")
	other := suite.createUser("hr@globex.io", "Hr", "Globex")
	asset := suite.createAsset(hr, "Laptop", 1)

	assert.ErrorIs(suite.T(), suite.assets.DeleteAsset(suite.ctx, other.Email, asset.ID), services.ErrForbidden)
	assert.NoError(suite.T(), suite.assets.DeleteAsset(suite.ctx, hr.Email, asset.ID))
	assert.ErrorIs(suite.T(), suite.assets.DeleteAsset(suite.ctx, hr.Email, asset.ID), services.ErrAssetNotFound)
}

func (suite *ServicesTestSuite) TestDuplicateRequestIsConflict() {
	hr := suite.createUser("hr@acme.io", "Hr", "Acme")
	employee := suite.createUser("e1@acme.io", "Employee", "")
	asset := suite.createAsset(hr, "Laptop", 2)

	request := suite.submit(employee, asset)
	assert.Equal(suite.T(), models.RequestStatusPending, request.RequestStatus)
	assert.Equal(suite.T(), hr.Email, request.HREmail)
	assert.Equal(suite.T(), "Laptop", request.AssetName)

	_, err := suite.requests.SubmitRequest(suite.ctx, employee, &services.SubmitRequestRequest{AssetID: asset.ID})
	assert.ErrorIs(suite.T(), err, services.ErrAlreadyRequested)
	assert.ErrorIs(suite.T(), err, services.ErrConflict)

	_, total, err := suite.requests.ListMyRequests(suite.ctx, employee.Email, utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)

	_, err = suite.requests.SubmitRequest(suite.ctx, employee, &services.SubmitRequestRequest{AssetID: models.NewID()})
	assert.ErrorIs(suite.T(), err, services.ErrAssetNotFound)
}

func (suite *ServicesTestSuite) TestApproveAssignsAndAffiliates() {
	hr := suite.createUser("hr@acme.io", "Hr", "Acme")
	employee := suite.createUser("e1@acme.io", "Employee", "")
	asset := suite.createAsset(hr, "Laptop", 2)
	request := suite.submit(employee, asset)

	suite.approve(hr, request)

	assert.Equal(suite.T(), 1, suite.available(asset.ID))
	assigned := suite.myAssets(employee.Email)
	require.Len(suite.T(), assigned, 1)
	assert.Equal(suite.T(), models.AssignmentStatusAssigned, assigned[0].Status)
	assert.Equal(suite.T(), request.ID, assigned[0].RequestID)

	_, err := suite.store.Affiliations().FindActive(suite.ctx, employee.Email, hr.Email)
	assert.NoError(suite.T(), err)

	_, err = suite.requests.ApproveRequest(suite.ctx, hr, request.ID, &services.ApproveRequestRequest{})
	assert.ErrorIs(suite.T(), err, services.ErrAlreadyProcessed)
	assert.Equal(suite.T(), 1, suite.available(asset.ID))
}

func (suite *ServicesTestSuite) TestApproveRequiresOwner() {
	hr := suite.createUser("hr@acme.io", "Hr", "Acme")
	other := suite.createUser("hr@globex.io", "Hr", "Globex")
	employee := suite.createUser("e1@acme.io", "Employee", "")
	request := suite.submit(employee, suite.createAsset(hr, "Laptop", 1))

	_, err := suite.requests.ApproveRequest(suite.ctx, other, request.ID, &services.ApproveRequestRequest{})
	assert.ErrorIs(suite.T(), err, services.ErrForbidden)

	_, err = suite.requests.ApproveRequest(suite.ctx, hr, models.NewID(), &services.ApproveRequestRequest{})
	assert.ErrorIs(suite.T(), err, services.ErrRequestNotFound)
}

func (suite *ServicesTestSuite) TestRejectLeavesStockUntouched() {
	hr := suite.createUser("hr@acme.io", "Hr", "Acme")
	employee := suite.createUser("e1@acme.io", "Employee", "")
	asset := suite.createAsset(hr, "Laptop", 1)
	request := suite.submit(employee, asset)

	result, err := suite.requests.RejectRequest(suite.ctx, hr.Email, request.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), result.ModifiedCount)
	assert.Equal(suite.T(), 1, suite.available(asset.ID))
	assert.Empty(suite.T(), suite.myAssets(employee.Email))

	_, err = suite.requests.RejectRequest(suite.ctx, hr.Email, request.ID)
	assert.ErrorIs(suite.T(), err, services.ErrAlreadyProcessed)

	_, err = suite.requests.SubmitRequest(suite.ctx, employee, &services.SubmitRequestRequest{AssetID: asset.ID})
	assert.ErrorIs(suite.T(), err, services.ErrAlreadyRequested)
}

func (suite *ServicesTestSuite) TestApproveBeyondPackageLimitByDefault() {
	hr := suite.createUser("hr@acme.io", "Hr", "Acme")
	asset := suite.createAsset(hr, "Badge", 10)

	for _, email := range []string{"e1@acme.io", "e2@acme.io", "e3@acme.io", "e4@acme.io", "e5@acme.io", "e6@acme.io"} {
		suite.approve(hr, suite.submit(suite.createUser(email, "Employee", ""), asset))
	}

	assert.Equal(suite.T(), 4, suite.available(asset.ID))
	stats, err := suite.employees.Stats(suite.ctx, hr.Email)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(6), stats.Used)
	assert.Equal(suite.T(), 5, stats.Limit)
}

func (suite *ServicesTestSuite) TestSeatLimitRefusesBeforeWriting() {
	cases := []struct {
		name  string
		store store.Store
	}{
		{name: "transactional", store: suite.store},
		{name: "sequential", store: sequentialStore{Store: suite.store}},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			requests := services.NewRequestService(tc.store, services.RequestConfig{EnforceSeatLimit: true})
			hr := suite.createUser(tc.name+"-hr@acme.io", "Hr", "Acme")
			asset := suite.createAsset(hr, "Badge", 10)

			for i := 1; i <= 5; i++ {
				employee := suite.createUser(fmt.Sprintf("%s-e%d@acme.io", tc.name, i), "Employee", "")
				_, err := requests.ApproveRequest(suite.ctx, hr, suite.submit(employee, asset).ID, &services.ApproveRequestRequest{})
				require.NoError(suite.T(), err)
			}

			sixth := suite.createUser(tc.name+"-e6@acme.io", "Employee", "")
			request := suite.submit(sixth, asset)
			_, err := requests.ApproveRequest(suite.ctx, hr, request.ID, &services.ApproveRequestRequest{})
			assert.ErrorIs(suite.T(), err, services.ErrSeatLimitReached)

			assert.Equal(suite.T(), 5, suite.available(asset.ID))
			assert.Empty(suite.T(), suite.myAssets(sixth.Email))
			stored, err := suite.store.Requests().FindByID(suite.ctx, request.ID)
			require.NoError(suite.T(), err)
			assert.Equal(suite.T(), models.RequestStatusPending, stored.RequestStatus)

			stats, err := suite.employees.Stats(suite.ctx, hr.Email)
			require.NoError(suite.T(), err)
			assert.Equal(suite.T(), int64(5), stats.Used)

			// Still pending, so a freed seat lets the same request through.
			require.NoError(suite.T(), suite.store.Users().AddPackageLimit(suite.ctx, hr.Email, 1, "Upgraded"))
			_, err = requests.ApproveRequest(suite.ctx, hr, request.ID, &services.ApproveRequestRequest{})
			require.NoError(suite.T(), err)
			assert.Equal(suite.T(), 4, suite.available(asset.ID))
		})
	}
}

func (suite *ServicesTestSuite) TestReturnAsset() {
	hr := suite.createUser("hr@acme.io", "Hr", "Acme")
	employee := suite.createUser("e1@acme.io", "Employee", "")
	other := suite.createUser("e2@acme.io", "Employee", "")
	asset := suite.createAsset(hr, "Laptop", 1)
	suite.approve(hr, suite.submit(employee, asset))
	assert.Equal(suite.T(), 0, suite.available(asset.ID))

	assignment := suite.myAssets(employee.Email)[0]

	_, err := suite.assignments.ReturnAsset(suite.ctx, other.Email, assignment.ID)
	assert.ErrorIs(suite.T(), err, services.ErrForbidden)

	returned, err := suite.assignments.ReturnAsset(suite.ctx, employee.Email, assignment.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.AssignmentStatusReturned, returned.Status)
	assert.NotNil(suite.T(), returned.ReturnDate)
	assert.Equal(suite.T(), 1, suite.available(asset.ID))

	_, err = suite.assignments.ReturnAsset(suite.ctx, employee.Email, assignment.ID)
	assert.ErrorIs(suite.T(), err, services.ErrAlreadyReturned)
	assert.Equal(suite.T(), 1, suite.available(asset.ID))

	_, err = suite.assignments.ReturnAsset(suite.ctx, employee.Email, models.NewID())
	assert.ErrorIs(suite.T(), err, services.ErrAssignmentNotFound)
}

func (suite *ServicesTestSuite) TestRemoveEmployeeReturnsEverything() {
	hr := suite.createUser("h1@acme.io", "Hr", "Acme")
	e1 := suite.createUser("e1@acme.io", "Employee", "")
	e2 := suite.createUser("e2@acme.io", "Employee", "")
	laptop := suite.createAsset(hr, "Laptop", 2)
	phone := suite.createAsset(hr, "Phone", 2)

	suite.approve(hr, suite.submit(e1, laptop))
	suite.approve(hr, suite.submit(e1, phone))
	suite.approve(hr, suite.submit(e2, laptop))

	employees, err := suite.employees.ListEmployees(suite.ctx, hr.Email)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), employees, 2)

	var affiliationID string
	for _, e := range employees {
		if e.Email == e1.Email {
			affiliationID = e.ID
			assert.Equal(suite.T(), int64(2), e.AssetsCount)
		}
	}
	require.NotEmpty(suite.T(), affiliationID)

	result, err := suite.employees.RemoveEmployee(suite.ctx, hr.Email, affiliationID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), result.ReturnedAssets)

	for _, a := range suite.myAssets(e1.Email) {
		assert.Equal(suite.T(), models.AssignmentStatusReturned, a.Status)
	}
	assert.Equal(suite.T(), 1, suite.available(laptop.ID))
	assert.Equal(suite.T(), 2, suite.available(phone.ID))

	team, err := suite.employees.ListTeam(suite.ctx, e2.Email, "Acme")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), team, 1)
	assert.Equal(suite.T(), e2.Email, team[0].Email)

	_, err = suite.employees.RemoveEmployee(suite.ctx, hr.Email, affiliationID)
	assert.ErrorIs(suite.T(), err, services.ErrAlreadyRemoved)
}

func (suite *ServicesTestSuite) TestTeamDirectory() {
	hr := suite.createUser("h1@acme.io", "Hr", "Acme")
	e1 := suite.createUser("e1@acme.io", "Employee", "")
	e2 := suite.createUser("e2@acme.io", "Employee", "")
	e3 := &models.User{Name: "Imported", Email: "e3@acme.io", Role: models.RoleEmployee}
	require.NoError(suite.T(), suite.store.Users().Create(suite.ctx, e3))
	asset := suite.createAsset(hr, "Laptop", 5)
	suite.approve(hr, suite.submit(e1, asset))
	suite.approve(hr, suite.submit(e2, asset))
	suite.approve(hr, suite.submit(e3, asset))

	position := "Engineer"
	_, err := suite.users.UpdateProfile(suite.ctx, e2.Email, &services.UpdateUserProfileRequest{Position: &position})
	require.NoError(suite.T(), err)

	companies, err := suite.employees.ListTeamCompanies(suite.ctx, e1.Email)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"Acme"}, companies)

	team, err := suite.employees.ListTeam(suite.ctx, e1.Email, "")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), team, 3)
	positions := map[string]string{}
	for _, m := range team {
		positions[m.Email] = m.Position
	}
	assert.Equal(suite.T(), models.DefaultPosition, positions[e1.Email])
	assert.Equal(suite.T(), "Engineer", positions[e2.Email])
	assert.Equal(suite.T(), "Employee", positions[e3.Email])

	team, err = suite.employees.ListTeam(suite.ctx, e1.Email, "Globex")
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), team)
}

func (suite *ServicesTestSuite) TestStartCheckoutUsesCatalog() {
	hr := suite.createUser("hr@acme.io", "Hr", "Acme")

	resp, err := suite.subscriptions.StartCheckout(suite.ctx, hr.Email, &services.CheckoutRequest{PackageName: "Standard", RequestID: "r-1"})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "https://checkout.test/cs_test_new", resp.URL)

	_, err = suite.subscriptions.StartCheckout(suite.ctx, hr.Email, &services.CheckoutRequest{PackageName: "Standard", RequestID: "r-1"})
	require.NoError(suite.T(), err)

	require.Len(suite.T(), suite.provider.created, 2)
	first := suite.provider.created[0]
	assert.Equal(suite.T(), int64(800), first.AmountCents)
	assert.Equal(suite.T(), "10", first.Metadata[services.MetadataEmployeeLimit])
	assert.Equal(suite.T(), "https://app.test/payment/payment-cancel", first.CancelURL)
	assert.Equal(suite.T(), first.IdempotencyKey, suite.provider.created[1].IdempotencyKey)

	_, err = suite.subscriptions.StartCheckout(suite.ctx, hr.Email, &services.CheckoutRequest{PackageName: "Gold"})
	assert.ErrorIs(suite.T(), err, services.ErrPackageNotFound)

	suite.provider.createErr = errors.New("stripe down")
	_, err = suite.subscriptions.StartCheckout(suite.ctx, hr.Email, &services.CheckoutRequest{PackageName: "Basic"})
	assert.ErrorIs(suite.T(), err, services.ErrPaymentProvider)
}

func (suite *ServicesTestSuite) paidSession(id, email string) *services.CheckoutSession {
	session := &services.CheckoutSession{
		ID:              id,
		CustomerEmail:   email,
		Paid:            true,
		PaymentIntentID: "pi_" + id,
		AmountTotal:     800,
		Metadata: map[string]string{
			services.MetadataPackageName:   "Standard",
			services.MetadataEmployeeLimit: "10",
		},
	}
	suite.provider.sessions[id] = session
	return session
}

func (suite *ServicesTestSuite) TestVerifySessionCreditsOnce() {
	hr := suite.createUser("hr@acme.io", "Hr", "Acme")
	suite.paidSession("cs_1", hr.Email)

	result, err := suite.subscriptions.VerifySession(suite.ctx, hr.Email, "cs_1")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), result.Success)
	assert.True(suite.T(), result.Credited)
	assert.Equal(suite.T(), 10, result.Payment.EmployeeLimit)
	assert.Equal(suite.T(), "pi_cs_1", result.Payment.TransactionID)

	result, err = suite.subscriptions.VerifySession(suite.ctx, hr.Email, "cs_1")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), result.Success)
	assert.False(suite.T(), result.Credited)

	user, err := suite.users.GetUser(suite.ctx, hr.Email)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 15, user.PackageLimit)
	assert.Equal(suite.T(), "Standard", user.Subscription)

	_, total, err := suite.subscriptions.ListPayments(suite.ctx, hr.Email, utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)
}

func (suite *ServicesTestSuite) TestVerifySessionRejectsForeignSession() {
	hr := suite.createUser("hr@acme.io", "Hr", "Acme")
	suite.createUser("hr@globex.io", "Hr", "Globex")
	suite.paidSession("cs_2", "hr@globex.io")

	_, err := suite.subscriptions.VerifySession(suite.ctx, hr.Email, "cs_2")
	assert.ErrorIs(suite.T(), err, services.ErrForbidden)

	_, err = suite.store.Payments().FindByTransactionID(suite.ctx, "pi_cs_2")
	assert.Error(suite.T(), err)

	user, err := suite.users.GetUser(suite.ctx, "hr@globex.io")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 5, user.PackageLimit)
}

func (suite *ServicesTestSuite) TestVerifySessionUnpaidAndProviderFailure() {
	hr := suite.createUser("hr@acme.io", "Hr", "Acme")
	session := suite.paidSession("cs_3", hr.Email)
	session.Paid = false

	result, err := suite.subscriptions.VerifySession(suite.ctx, hr.Email, "cs_3")
	require.NoError(suite.T(), err)
	assert.False(suite.T(), result.Success)

	_, err = suite.subscriptions.VerifySession(suite.ctx, hr.Email, "cs_missing")
	assert.ErrorIs(suite.T(), err, services.ErrPaymentProvider)
}

func (suite *ServicesTestSuite) TestWebhookSharesReconciliation() {
	hr := suite.createUser("hr@acme.io", "Hr", "Acme")
	session := suite.paidSession("cs_4", hr.Email)
	suite.provider.event = &services.WebhookEvent{
		ID:      "evt_1",
		Type:    services.EventCheckoutSessionCompleted,
		Session: session,
	}

	_, err := suite.subscriptions.HandleWebhook(suite.ctx, []byte("{}"), "forged")
	assert.ErrorIs(suite.T(), err, services.ErrInvalidSignature)

	result, err := suite.subscriptions.HandleWebhook(suite.ctx, []byte("{}"), "valid")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), result.Credited)

	result, err = suite.subscriptions.VerifySession(suite.ctx, hr.Email, "cs_4")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), result.Success)
	assert.False(suite.T(), result.Credited)

	user, err := suite.users.GetUser(suite.ctx, hr.Email)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 15, user.PackageLimit)
}

func (suite *ServicesTestSuite) TestAnalytics() {
	hr := suite.createUser("hr@acme.io", "Hr", "Acme")
	e1 := suite.createUser("e1@acme.io", "Employee", "")
	e2 := suite.createUser("e2@acme.io", "Employee", "")
	laptop := suite.createAsset(hr, "Laptop", 5)
	phone := suite.createAsset(hr, "Phone", 5)
	_, err := suite.assets.CreateAsset(suite.ctx, hr, &services.CreateAssetRequest{
		ProductName:     "Paper",
		ProductType:     string(models.ProductTypeNonReturnable),
		ProductQuantity: 100,
	}, nil)
	require.NoError(suite.T(), err)

	suite.submit(e1, laptop)
	suite.submit(e2, laptop)
	suite.submit(e1, phone)

	split, err := suite.analytics.AssetTypeSplit(suite.ctx, hr.Email)
	require.NoError(suite.T(), err)
	counts := map[models.ProductType]int64{}
	for _, c := range split {
		counts[c.ProductType] = c.Count
	}
	assert.Equal(suite.T(), int64(2), counts[models.ProductTypeReturnable])
	assert.Equal(suite.T(), int64(1), counts[models.ProductTypeNonReturnable])

	top, err := suite.analytics.TopRequested(suite.ctx, hr.Email, 0)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), top, 2)
	assert.Equal(suite.T(), laptop.ID, top[0].AssetID)
	assert.Equal(suite.T(), int64(2), top[0].Count)
}

func TestServicesTestSuite(t *testing.T) {
	suite.Run(t, new(ServicesTestSuite))
}

func TestQuantityAcceptsStrings(t *testing.T) {
	var q services.Quantity
	require.NoError(t, q.UnmarshalJSON([]byte(`"12"`)))
	assert.Equal(t, services.Quantity(12), q)
	require.NoError(t, q.UnmarshalJSON([]byte(`7`)))
	assert.Equal(t, services.Quantity(7), q)
	assert.Error(t, q.UnmarshalJSON([]byte(`"many"`)))
}
