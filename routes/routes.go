package routes

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/addwise/authapi/middlewares"
	"github.com/addwise/authapi/services"
	"github.com/addwise/authapi/utils"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

var validate = newValidator()

// newValidator reports fields by their JSON names so messages match the
// request the client sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type RequestBody interface {
	RegisterRequest | LoginRequest | GoogleRequest | ForgotPasswordRequest |
		VerifyOTPRequest | ResetPasswordRequest | UpdateProfileRequest
}

// Handler serves the JSON API on top of the auth service.
type Handler struct {
	auth   *services.Auth
	logger *slog.Logger
}

func NewHandler(auth *services.Auth, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

type Options struct {
	AuthRateLimit float64
	// RateLimitIPLookups orders the sources tollbooth keys clients by.
	RateLimitIPLookups []string
	CORSOrigins        []string
}

// NewRouter wires every route and the cross-cutting middleware into a single
// http.Handler.
func NewRouter(h *Handler, guard *middlewares.Guard, opts Options) http.Handler {
	r := mux.NewRouter()
	r.StrictSlash(true)
	CreateRoutes(r, h, guard, opts)

	var handler http.Handler = r
	handler = middlewares.WithRecover(h.logger)(handler)
	handler = middlewares.WithLogging(h.logger)(handler)
	handler = middlewares.WithRequestID(handler)
	handler = cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})(handler)
	return handler
}

func CreateRoutes(r *mux.Router, h *Handler, guard *middlewares.Guard, opts Options) {
	r.HandleFunc("/", h.Home).Methods("GET")
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	s := r.PathPrefix("/api/auth").Subrouter()
	s.Use(middlewares.RateLimit(opts.AuthRateLimit, opts.RateLimitIPLookups))
	AuthRouter(s, h)

	u := r.PathPrefix("/api/users").Subrouter()
	u.Use(guard.Protect)
	UserRouter(u, h)
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "Welcome to the API")
}

// DecodeValidBody decodes the JSON body into B and runs its validate tags.
// The returned message is safe to show to the client.
func DecodeValidBody[B RequestBody](r *http.Request) (B, string, error) {
	decoder := json.NewDecoder(r.Body)
	var requestBody B
	err := decoder.Decode(&requestBody)
	if err != nil {
		return requestBody, utils.INVALID_REQUEST_ERROR, err
	}
	err = validate.Struct(requestBody)
	if err != nil {
		return requestBody, validationMessage(err), err
	}
	return requestBody, "", nil
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return utils.INVALID_REQUEST_ERROR
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
