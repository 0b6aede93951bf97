package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/store"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

// Checkout session metadata keys.
const (
	MetadataPackageName   = "packageName"
	MetadataEmployeeLimit = "employeeLimit"
)

const EventCheckoutSessionCompleted = "checkout.session.completed"

// PaymentProvider is the hosted checkout used to sell packages.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, params *CheckoutSessionParams) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

type CheckoutSessionParams struct {
	CustomerEmail  string
	ProductName    string
	AmountCents    int64
	Currency       string
	SuccessURL     string
	CancelURL      string
	Metadata       map[string]string
	IdempotencyKey string
}

// CheckoutSession is the provider-neutral view of a checkout.
type CheckoutSession struct {
	ID              string
	URL             string
	CustomerEmail   string
	Paid            bool
	PaymentIntentID string
	AmountTotal     int64
	Metadata        map[string]string
}

// TransactionID identifies the money movement behind the session.
func (s *CheckoutSession) TransactionID() string {
	if s.PaymentIntentID != "" {
		return s.PaymentIntentID
	}
	return s.ID
}

type WebhookEvent struct {
	ID      string
	Type    string
	Session *CheckoutSession
}

type SubscriptionConfig struct {
	Currency   string
	SiteDomain string
}

// SubscriptionService sells seat packages and credits them once paid.
type SubscriptionService struct {
	store    store.Store
	provider PaymentProvider
	config   SubscriptionConfig
}

type CheckoutRequest struct {
	PackageName string `json:"packageName" validate:"required,max=100"`
	// RequestID makes retries of the same checkout reuse one provider session.
	RequestID string `json:"requestId,omitempty" validate:"max=128"`
}

type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type VerifyResult struct {
	Success  bool            `json:"success"`
	Credited bool            `json:"credited"`
	Payment  *models.Payment `json:"payment,omitempty"`
}

func NewSubscriptionService(s store.Store, provider PaymentProvider, cfg SubscriptionConfig) *SubscriptionService {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	return &SubscriptionService{
		store:    s,
		provider: provider,
		config:   cfg,
	}
}

func (s *SubscriptionService) ListPackages(ctx context.Context) ([]models.Package, error) {
	packages, err := s.store.Packages().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return packages, nil
}

// StartCheckout opens a hosted checkout for a catalog package. Price and
// seat count always come from the catalog.
func (s *SubscriptionService) StartCheckout(ctx context.Context, hrEmail string, req *CheckoutRequest) (*CheckoutResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	pkg, err := s.store.Packages().FindByName(ctx, strings.TrimSpace(req.PackageName))
	if err != nil {
		return nil, notFound(err, ErrPackageNotFound)
	}

	key, err := s.idempotencyKey(hrEmail, pkg.Name, req.RequestID)
	if err != nil {
		return nil, err
	}

	base := strings.TrimRight(s.config.SiteDomain, "/")
	session, err := s.provider.CreateCheckoutSession(ctx, &CheckoutSessionParams{
		CustomerEmail: hrEmail,
		ProductName:   pkg.Name,
		AmountCents:   pkg.AmountCents(),
		Currency:      s.config.Currency,
		SuccessURL:    base + "/payment/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     base + "/payment/payment-cancel",
		Metadata: map[string]string{
			MetadataPackageName:   pkg.Name,
			MetadataEmployeeLimit: strconv.Itoa(pkg.EmployeeLimit),
		},
		IdempotencyKey: key,
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"hr_email": hrEmail,
			"package":  pkg.Name,
		}).Error("Checkout session creation failed")
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	logrus.WithFields(logrus.Fields{
		"hr_email":   hrEmail,
		"package":    pkg.Name,
		"session_id": session.ID,
	}).Info("Checkout session created")
	return &CheckoutResponse{SessionID: session.ID, URL: session.URL}, nil
}

func (s *SubscriptionService) idempotencyKey(email, pkg, requestID string) (string, error) {
	if requestID != "" {
		return utils.IdempotencyKey(email, pkg, requestID), nil
	}
	random, err := utils.GenerateRandomString(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate idempotency key: %w", err)
	}
	return random, nil
}

// VerifySession credits hrEmail for a paid checkout. A session whose
// transaction is already recorded reports success without a second credit.
func (s *SubscriptionService) VerifySession(ctx context.Context, hrEmail, sessionID string) (*VerifyResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: session_id is required", ErrInvalidInput)
	}

	session, err := s.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("Checkout session lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	if !strings.EqualFold(session.CustomerEmail, hrEmail) {
		logrus.WithFields(logrus.Fields{
			"session_id": sessionID,
			"hr_email":   hrEmail,
		}).Warn("Checkout session verified by another user")
		return nil, ErrForbidden
	}
	if !session.Paid {
		return &VerifyResult{Success: false}, nil
	}

	return s.reconcile(ctx, models.NormalizeEmail(hrEmail), session)
}

// HandleWebhook reconciles completed checkouts pushed by the provider.
// Other event types are acknowledged and ignored.
func (s *SubscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*VerifyResult, error) {
	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		logrus.WithError(err).Warn("Rejected webhook")
		return nil, ErrInvalidSignature
	}

	if event.Type != EventCheckoutSessionCompleted || event.Session == nil {
		logrus.WithFields(logrus.Fields{"event_id": event.ID, "type": event.Type}).Debug("Ignoring webhook event")
		return &VerifyResult{Success: true}, nil
	}
	if !event.Session.Paid || event.Session.CustomerEmail == "" {
		return &VerifyResult{Success: false}, nil
	}

	return s.reconcile(ctx, models.NormalizeEmail(event.Session.CustomerEmail), event.Session)
}

func (s *SubscriptionService) reconcile(ctx context.Context, hrEmail string, session *CheckoutSession) (*VerifyResult, error) {
	transactionID := session.TransactionID()

	existing, err := s.store.Payments().FindByTransactionID(ctx, transactionID)
	if err == nil {
		return &VerifyResult{Success: true, Payment: existing}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up payment: %w", err)
	}

	payment, err := s.paymentFor(ctx, hrEmail, session)
	if err != nil {
		return nil, err
	}

	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return err
		}
		if err := tx.Users().AddPackageLimit(ctx, hrEmail, payment.EmployeeLimit, payment.PackageName); err != nil {
			return notFound(err, ErrUserNotFound)
		}
		return nil
	})
	if errors.Is(err, store.ErrDuplicate) {
		// Another verify or webhook credited this transaction first.
		existing, findErr := s.store.Payments().FindByTransactionID(ctx, transactionID)
		if findErr != nil {
			return nil, fmt.Errorf("failed to look up payment: %w", findErr)
		}
		return &VerifyResult{Success: true, Payment: existing}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"hr_email":       hrEmail,
		"package":        payment.PackageName,
		"employee_limit": payment.EmployeeLimit,
		"transaction_id": transactionID,
	}).Info("Subscription credited")
	return &VerifyResult{Success: true, Credited: true, Payment: payment}, nil
}

func (s *SubscriptionService) paymentFor(ctx context.Context, hrEmail string, session *CheckoutSession) (*models.Payment, error) {
	packageName := session.Metadata[MetadataPackageName]
	limit, err := strconv.Atoi(session.Metadata[MetadataEmployeeLimit])
	if err != nil || limit <= 0 {
		pkg, findErr := s.store.Packages().FindByName(ctx, packageName)
		if findErr != nil {
			return nil, notFound(findErr, ErrPackageNotFound)
		}
		packageName = pkg.Name
		limit = pkg.EmployeeLimit
	}

	return &models.Payment{
		HREmail:       hrEmail,
		PackageName:   packageName,
		EmployeeLimit: limit,
		Amount:        float64(session.AmountTotal) / 100,
		TransactionID: session.TransactionID(),
		SessionID:     session.ID,
		PaymentDate:   time.Now().UTC(),
		Status:        models.PaymentStatusCompleted,
	}, nil
}

func (s *SubscriptionService) ListPayments(ctx context.Context, hrEmail string, params utils.PaginationParams) ([]models.Payment, int64, error) {
	payments, total, err := s.store.Payments().ListByHR(ctx, hrEmail, params.StorePage())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, total, nil
}
