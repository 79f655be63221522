package response

// Business codes.
const (
	CodeSuccess = 0

	// user module 100xx
	ErrUserExists   = 10001
	ErrUserNotFound = 10002
	ErrAuthFailed   = 10003
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005

	// coupon module 200xx
	ErrCouponNotFound = 20001
	ErrCouponRejected = 20002

	// payment module 300xx
	ErrOrderNotFound      = 30001
	ErrGatewayUnavailable = 30002
	ErrSignatureInvalid   = 30003
	ErrPlanNotFound       = 30004

	// system 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
