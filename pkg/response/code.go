package response

// 비즈니스 상태 코드
const (
	CodeSuccess = 0
	CodeError   = 1

	// 공통 도메인 에러 100xx
	ErrNotFound         = 10001
	ErrInvalidOperation = 10002
	ErrInvalidState     = 10003
	ErrConflict         = 10004
	ErrForbidden        = 10005

	// 인증 에러 110xx
	ErrAuthFailed   = 11001
	ErrTokenInvalid = 11002
	ErrNoPermission = 11003

	// 파트너십 에러 200xx
	ErrPartnershipNotFound = 20001
	ErrPartnershipExists   = 20002
	ErrSelfPartnership     = 20003

	// 토큰/쿠폰 에러 300xx
	ErrTokenNotFound     = 30001
	ErrTokenUsed         = 30002
	ErrTokenExpired      = 30003
	ErrDailyLimitReached = 30004

	// 시스템 에러 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
