package routes

var (
	RegisterDurationSecondsBuckets   = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	LoginDurationSecondsBuckets      = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	PostCreateDurationSecondsBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
)

const (
	// API route constants
	MetricsRouteAPI   = "/metrics"
	PingRouteAPI      = "GET /api/ping"
	RegisterRouteAPI  = "POST /api/auth/register"
	LoginRouteAPI     = "POST /api/auth/login"
	FeedRouteAPI      = "GET /api/posts"
	CreatePostAPI     = "POST /api/posts"
	ListUsersRouteAPI = "GET /api/users"
	GetUserRouteAPI   = "GET /api/users/{userId}"
	UserPostsRouteAPI = "GET /api/users/{userId}/posts"

	// Content-Type constants
	ContentType     = "Content-Type"
	ContentTypeJson = "application/json"

	// message constants
	MsgUserCreated   = "User created successfully"
	MsgLoginOK       = "Login successful"
	MsgPostCreated   = "Post created successfully"
	MsgDefaultPing   = "ping"
	MsgValidation    = "Validation error"
	MsgEmailTaken    = "User already exists with this email"
	MsgBadCreds      = "Invalid email or password"
	MsgUserNotFound  = "User not found"
	MsgInternalError = "Internal server error"
	MsgBadBody       = "Invalid request body"
	MsgBadContent    = "Request Content-Type must be application/json"

	// metrics constants
	RegisterRequestsTotal       = "register_requests_total"
	RegisterRequestsTotalHelp   = "Total number of registration requests received"
	RegisterSuccessTotal        = "register_success_total"
	RegisterSuccessTotalHelp    = "Total number of successful registrations"
	RegisterErrorsTotal         = "register_errors_total"
	RegisterErrorsTotalHelp     = "Total number of failed registration requests"
	RegisterDurationSeconds     = "register_duration_seconds"
	RegisterDurationSecondsHelp = "Duration of registration requests in seconds"

	LoginRequestsTotal       = "login_requests_total"
	LoginRequestsTotalHelp   = "Total number of login requests received"
	LoginSuccessTotal        = "login_success_total"
	LoginSuccessTotalHelp    = "Total number of successful login requests"
	LoginFailedTotal         = "login_failed_total"
	LoginFailedTotalHelp     = "Total number of failed login requests"
	LoginDurationSeconds     = "login_duration_seconds"
	LoginDurationSecondsHelp = "Duration of login requests in seconds"

	PostCreateRequestsTotal       = "post_create_requests_total"
	PostCreateRequestsTotalHelp   = "Total number of post creation requests received"
	PostCreateSuccessTotal        = "post_create_success_total"
	PostCreateSuccessTotalHelp    = "Total number of posts created"
	PostCreateErrorsTotal         = "post_create_errors_total"
	PostCreateErrorsTotalHelp     = "Total number of failed post creation requests"
	PostCreateDurationSeconds     = "post_create_duration_seconds"
	PostCreateDurationSecondsHelp = "Duration of post creation requests in seconds"

	FeedRequestsTotal     = "feed_requests_total"
	FeedRequestsTotalHelp = "Total number of feed requests received"
)
