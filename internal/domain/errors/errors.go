package errors

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidInput       = errors.New("invalid request data")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrValidationFailed   = errors.New("validation failed")
	ErrDatabaseConnection = errors.New("database connection error")
	ErrInternalServer     = errors.New("internal server error")
	ErrRateLimited        = errors.New("too many requests, please try again later")

	ErrNoToken        = errors.New("no authentication token provided")
	ErrTokenMalformed = errors.New("invalid authentication token")
	ErrTokenExpired   = errors.New("authentication token expired, please login again")

	ErrInvalidName          = errors.New("name is required and must be at most 50 characters")
	ErrInvalidEmail         = errors.New("please provide a valid email")
	ErrInvalidPassword      = errors.New("password must be at least 6 characters")
	ErrInvalidAvatar        = errors.New("avatar must be a valid URL")
	ErrInvalidTheme         = errors.New("theme must be dark or light")
	ErrInvalidTitle         = errors.New("invalid title")
	ErrInvalidDescription   = errors.New("description cannot be more than 1000 characters")
	ErrInvalidContent       = errors.New("please provide note content")
	ErrInvalidPriority      = errors.New("priority must be one of low, medium, high")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidColor         = errors.New("color must be a hex string")
	ErrInvalidTime          = errors.New("time values must be non-negative")
	ErrInvalidDuration      = errors.New("please provide a valid duration")
	ErrInvalidMode          = errors.New("mode must be one of pomodoro, short_break, long_break, custom")
	ErrInvalidNotes         = errors.New("notes cannot be more than 500 characters")
	ErrInvalidInterruptions = errors.New("interruptions must be non-negative")
	ErrInvalidIDs           = errors.New("ids must be a non-empty list")
	ErrInvalidPagination    = errors.New("page and limit must be positive integers")
	ErrInvalidDate          = errors.New("dates must be RFC3339 or YYYY-MM-DD")
	ErrInvalidSort          = errors.New("unsupported sort field")
	ErrInvalidTimezone      = errors.New("unknown timezone")

	ErrConfigFileReadFailed = errors.New("failed to read config file")
	ErrConfigParseFailed    = errors.New("failed to parse config file")
	ErrConfigInvalidFormat  = errors.New("invalid config value")
	ErrMissingSigningKey    = errors.New("token signing key is not configured (set JWT_SECRET, jwt_secret or store it with `zenith secret set`)")
	ErrUnknownDriver        = errors.New("unknown storage driver")

	ErrInvalidGzipRequest    = errors.New("invalid gzip request body")
	ErrGzipCompressionFailed = errors.New("gzip compression failed")
)
