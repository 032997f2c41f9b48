package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/internal/service"
	"github.com/avolkhin/tripmate/internal/utils"
	"github.com/avolkhin/tripmate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- Helpers ----

// injectNopLogger puts a nop logger into the request context.
func injectNopLogger(r *http.Request) *http.Request {
	nop := logger.Nop()
	ctx := nop.Logger.WithContext(r.Context())
	return r.WithContext(ctx)
}

func executeAuth(h *Handler, authHeader string, next http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	req = injectNopLogger(req)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	h.auth(next).ServeHTTP(rr, req)
	return rr
}

// parseTokenMustNotRun builds an auth service whose ParseToken fails the test
// when called. Used for requests rejected before token verification.
func parseTokenMustNotRun(t *testing.T) service.AuthService {
	t.Helper()
	return &mockAuthService{parseTokenFn: func(_ context.Context, _ string) (models.Token, error) {
		t.Fatal("ParseToken should not be called")
		return models.Token{}, nil
	}}
}

// ---- getTokenFromAuthHeader ----

func TestGetTokenFromAuthHeader_TableTest(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   error
	}{
		{
			name:      "well-formed bearer header",
			header:    "Bearer my-jwt-token",
			wantToken: "my-jwt-token",
		},
		{
			name:    "scheme without a token",
			header:  "Bearer",
			wantErr: ErrInvalidAuthorizationHeader,
		},
		{
			name:    "blank header value",
			header:  "",
			wantErr: ErrInvalidAuthorizationHeader,
		},
		{
			name:      "scheme name is not checked",
			header:    "Basic dXNlcjpwYXNz",
			wantToken: "dXNlcjpwYXNz",
		},
		{
			name:    "space followed by nothing",
			header:  " ",
			wantErr: ErrEmptyToken,
		},
		{
			name:      "trailing parts past the token are ignored",
			header:    "Bearer token extra-part",
			wantToken: "token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

// ---- auth middleware ----

func TestAuth_RejectsBeforeTokenVerification(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		wantBody   string
	}{
		{
			name:       "no Authorization header",
			authHeader: "",
			wantBody:   ErrEmptyAuthorizationHeader.Error(),
		},
		{
			name:       "header with no separating space",
			authHeader: "BearerTokenWithoutSpace",
			wantBody:   ErrInvalidAuthorizationHeader.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandlerWithAuthService(parseTokenMustNotRun(t))

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler should not be reached")
			})

			rr := executeAuth(h, tt.authHeader, next)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
		})
	}
}

func TestAuth_TokenVerificationOutcomes(t *testing.T) {
	tests := []struct {
		name           string
		parseTokenErr  error
		expectedStatus int
		wantNextCalled bool
		wantBody       string
	}{
		{
			name:           "valid token passes through",
			expectedStatus: http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "expired token reports its reason",
			parseTokenErr:  service.ErrTokenIsExpired,
			expectedStatus: http.StatusUnauthorized,
			wantBody:       service.ErrTokenIsExpired.Error(),
		},
		{
			name:           "any other parse failure is a generic 401",
			parseTokenErr:  service.ErrTokenIsExpiredOrInvalid,
			expectedStatus: http.StatusUnauthorized,
			wantBody:       http.StatusText(http.StatusUnauthorized),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandlerWithAuthService(&mockAuthService{
				parseTokenFn: func(_ context.Context, _ string) (models.Token, error) {
					if tt.parseTokenErr != nil {
						return models.Token{}, tt.parseTokenErr
					}
					return models.Token{UserID: 42}, nil
				},
			})

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			rr := executeAuth(h, "Bearer some-token", next)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
			if tt.wantBody != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestAuth_UserIDInContext(t *testing.T) {
	const expectedUserID int64 = 99

	h := newHandlerWithAuthService(&mockAuthService{
		parseTokenFn: func(_ context.Context, _ string) (models.Token, error) {
			return models.Token{UserID: expectedUserID}, nil
		},
	})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := utils.GetUserIDFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, expectedUserID, userID)
		w.WriteHeader(http.StatusOK)
	})

	rr := executeAuth(h, "Bearer some-token", next)
	assert.Equal(t, http.StatusOK, rr.Code)
}
