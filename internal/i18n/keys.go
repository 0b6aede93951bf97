// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess       = "success"
	KeyInternalError = "error.internal"
	KeyRateLimited   = "error.rate_limited"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"
	KeyAuthUserNotFound = "auth.user_not_found"
	KeyAuthUserExists   = "auth.user_exists"
	KeyAuthForbidden    = "auth.forbidden"
	KeyAuthRoleRequired = "auth.role_required"

	// User Management
	KeyUserCreated        = "user.created"
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"

	// Assets
	KeyAssetCreated  = "asset.created"
	KeyAssetDeleted  = "asset.deleted"
	KeyAssetNotFound = "asset.not_found"
	KeyAssetReturned = "asset.returned"

	// Requests
	KeyRequestCreated          = "request.created"
	KeyRequestApproved         = "request.approved"
	KeyRequestRejected         = "request.rejected"
	KeyRequestNotFound         = "request.not_found"
	KeyRequestAlreadyRequested = "request.already_requested"
	KeyRequestAlreadyProcessed = "request.already_processed"

	// Assignments
	KeyAssignmentNotFound        = "assignment.not_found"
	KeyAssignmentAlreadyReturned = "assignment.already_returned"

	// Employees
	KeyEmployeeRemoved          = "employee.removed"
	KeyEmployeeNotFound         = "employee.not_found"
	KeyEmployeeAlreadyRemoved   = "employee.already_removed"
	KeyEmployeeSeatLimitReached = "employee.seat_limit_reached"

	// Payments
	KeyPaymentSuccess          = "payment.success"
	KeyPaymentNotPaid          = "payment.not_paid"
	KeyPaymentProviderFailed   = "payment.provider_failed"
	KeyPackageNotFound         = "package.not_found"
	KeyWebhookInvalidSignature = "webhook.invalid_signature"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadFailed = "file.upload_failed"
	KeyFileInvalidType  = "file.invalid_type"
	KeyFileTooLarge     = "file.too_large"

	// Generic resource
	KeyResourceNotFound = "resource.not_found"
	KeyConflict         = "resource.conflict"
)
