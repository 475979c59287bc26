package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/haguru/connectpro/internal/auth"
	"github.com/haguru/connectpro/internal/interfaces"
	"github.com/haguru/connectpro/internal/middleware"
	"github.com/haguru/connectpro/internal/models"
	"github.com/haguru/connectpro/internal/models/dto"
	"github.com/haguru/connectpro/internal/postservice"
	"github.com/haguru/connectpro/internal/userservice"

	structValidator "github.com/go-playground/validator/v10"
)

type Route struct {
	Metrics     interfaces.Metrics
	UserService *userservice.UserService
	PostService *postservice.PostService
	Tokens      *auth.TokenService
	Logger      interfaces.Logger
	PingMessage string
	validator   *structValidator.Validate
}

// NewRoute creates a new Route instance.
func NewRoute(metrics interfaces.Metrics, users *userservice.UserService, posts *postservice.PostService,
	tokens *auth.TokenService, logger interfaces.Logger, pingMessage string, validator *structValidator.Validate,
) *Route {
	if pingMessage == "" {
		pingMessage = MsgDefaultPing
	}
	return &Route{
		Metrics:     metrics,
		UserService: users,
		PostService: posts,
		Tokens:      tokens,
		Logger:      logger,
		PingMessage: pingMessage,
		validator:   validator,
	}
}

// Ping is the public liveness route.
func (r *Route) Ping(w http.ResponseWriter, req *http.Request) {
	r.writeJSON(w, http.StatusOK, dto.PingResponseDTO{Message: r.PingMessage})
}

// Register handles user registration requests.
func (r *Route) Register(w http.ResponseWriter, req *http.Request) {
	if r.Metrics != nil {
		r.Metrics.IncCounter(RegisterRequestsTotal)
	}

	registerRequest := &dto.RegisterRequestDTO{}
	if !r.decodeBody(w, req, registerRequest, RegisterErrorsTotal) {
		return
	}

	var startTime time.Time
	if r.Metrics != nil {
		startTime = time.Now()
	}

	user, err := r.UserService.Register(req.Context(), models.NewUser{
		Name:     registerRequest.Name,
		Email:    registerRequest.Email,
		Password: registerRequest.Password,
		Bio:      registerRequest.Bio,
	})
	if err != nil {
		if r.Metrics != nil {
			r.Metrics.IncCounter(RegisterErrorsTotal)
		}
		if errors.Is(err, interfaces.ErrEmailExists) {
			r.errorResponse(w, http.StatusBadRequest, MsgEmailTaken)
			return
		}
		r.errorResponse(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	token, err := r.Tokens.Issue(user.ID)
	if err != nil {
		r.Logger.Error("Failed to issue token", "userID", user.ID, "error", err)
		if r.Metrics != nil {
			r.Metrics.IncCounter(RegisterErrorsTotal)
		}
		r.errorResponse(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(RegisterSuccessTotal)
		r.Metrics.ObserveHistogram(RegisterDurationSeconds, time.Since(startTime).Seconds())
	}

	r.writeJSON(w, http.StatusCreated, dto.AuthResponseDTO{
		Message: MsgUserCreated,
		User:    user,
		Token:   token,
	})
}

// Login handles user login requests.
func (r *Route) Login(w http.ResponseWriter, req *http.Request) {
	if r.Metrics != nil {
		r.Metrics.IncCounter(LoginRequestsTotal)
	}

	loginRequest := &dto.LoginRequestDTO{}
	if !r.decodeBody(w, req, loginRequest, LoginFailedTotal) {
		return
	}

	var startTime time.Time
	if r.Metrics != nil {
		startTime = time.Now()
	}

	user, err := r.UserService.Authenticate(req.Context(), loginRequest.Email, loginRequest.Password)
	if err != nil {
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
			r.Metrics.ObserveHistogram(LoginDurationSeconds, time.Since(startTime).Seconds())
		}
		if errors.Is(err, userservice.ErrInvalidCredentials) {
			r.errorResponse(w, http.StatusUnauthorized, MsgBadCreds)
			return
		}
		r.errorResponse(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	token, err := r.Tokens.Issue(user.ID)
	if err != nil {
		r.Logger.Error("Failed to issue token", "userID", user.ID, "error", err)
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		r.errorResponse(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(LoginSuccessTotal)
		r.Metrics.ObserveHistogram(LoginDurationSeconds, time.Since(startTime).Seconds())
	}

	r.writeJSON(w, http.StatusOK, dto.AuthResponseDTO{
		Message: MsgLoginOK,
		User:    user,
		Token:   token,
	})
}

// Feed returns the newest posts across all authors.
func (r *Route) Feed(w http.ResponseWriter, req *http.Request) {
	if r.Metrics != nil {
		r.Metrics.IncCounter(FeedRequestsTotal)
	}

	posts, err := r.PostService.Feed(req.Context())
	if err != nil {
		r.errorResponse(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	r.writeJSON(w, http.StatusOK, dto.PostsResponseDTO{Posts: posts})
}

// CreatePost creates a post authored by the authenticated user.
func (r *Route) CreatePost(w http.ResponseWriter, req *http.Request) {
	if r.Metrics != nil {
		r.Metrics.IncCounter(PostCreateRequestsTotal)
	}

	user, ok := middleware.UserFromContext(req.Context())
	if !ok {
		r.errorResponse(w, http.StatusUnauthorized, middleware.MsgNoToken)
		return
	}

	postRequest := &dto.CreatePostRequestDTO{}
	if !r.decodeBody(w, req, postRequest, PostCreateErrorsTotal) {
		return
	}

	var startTime time.Time
	if r.Metrics != nil {
		startTime = time.Now()
	}

	post, err := r.PostService.Create(req.Context(), user.ID, postRequest.Content)
	if err != nil {
		if r.Metrics != nil {
			r.Metrics.IncCounter(PostCreateErrorsTotal)
		}
		r.errorResponse(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(PostCreateSuccessTotal)
		r.Metrics.ObserveHistogram(PostCreateDurationSeconds, time.Since(startTime).Seconds())
	}

	r.writeJSON(w, http.StatusCreated, dto.PostResponseDTO{
		Message: MsgPostCreated,
		Post:    post,
	})
}

// ListUsers returns the most recently joined users.
func (r *Route) ListUsers(w http.ResponseWriter, req *http.Request) {
	users, err := r.UserService.ListUsers(req.Context())
	if err != nil {
		r.errorResponse(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	r.writeJSON(w, http.StatusOK, dto.UsersResponseDTO{Users: users})
}

// GetUser returns a single user's profile.
func (r *Route) GetUser(w http.ResponseWriter, req *http.Request) {
	user, err := r.UserService.GetUser(req.Context(), req.PathValue("userId"))
	if err != nil {
		r.errorResponse(w, http.StatusInternalServerError, MsgInternalError)
		return
	}
	if user == nil {
		r.errorResponse(w, http.StatusNotFound, MsgUserNotFound)
		return
	}

	r.writeJSON(w, http.StatusOK, dto.UserResponseDTO{User: user})
}

// UserPosts returns the posts authored by the user in the path.
func (r *Route) UserPosts(w http.ResponseWriter, req *http.Request) {
	posts, err := r.PostService.ByAuthor(req.Context(), req.PathValue("userId"))
	if err != nil {
		r.errorResponse(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	r.writeJSON(w, http.StatusOK, dto.PostsResponseDTO{Posts: posts})
}

// decodeBody enforces the JSON content type, decodes the body into target and
// validates it, writing the 400 response itself on failure. The bool reports
// whether the caller may proceed.
func (r *Route) decodeBody(w http.ResponseWriter, req *http.Request, target interface{}, errCounter string) bool {
	if req.Header.Get(ContentType) != ContentTypeJson {
		if r.Metrics != nil {
			r.Metrics.IncCounter(errCounter)
		}
		r.errorResponse(w, http.StatusBadRequest, MsgBadContent)
		return false
	}

	if err := json.NewDecoder(req.Body).Decode(target); err != nil {
		if r.Metrics != nil {
			r.Metrics.IncCounter(errCounter)
		}
		r.errorResponse(w, http.StatusBadRequest, MsgBadBody)
		return false
	}

	if err := r.validator.Struct(target); err != nil {
		if r.Metrics != nil {
			r.Metrics.IncCounter(errCounter)
		}
		var validationErrors structValidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			r.validationResponse(w, validationErrors)
		} else {
			r.errorResponse(w, http.StatusBadRequest, MsgValidation)
		}
		return false
	}

	return true
}

// validationResponse maps validator failures to structured per-field errors.
func (r *Route) validationResponse(w http.ResponseWriter, errs structValidator.ValidationErrors) {
	fieldErrors := make([]dto.FieldError, 0, len(errs))
	for _, fe := range errs {
		fieldErrors = append(fieldErrors, dto.FieldError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	r.writeJSON(w, http.StatusBadRequest, dto.ErrorResponseDTO{
		Message: MsgValidation,
		Errors:  fieldErrors,
	})
}

func validationMessage(fe structValidator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

func (r *Route) errorResponse(w http.ResponseWriter, status int, message string) {
	r.writeJSON(w, status, dto.ErrorResponseDTO{Message: message})
}

func (r *Route) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		r.Logger.Error("Failed to encode response", "error", err)
	}
}
