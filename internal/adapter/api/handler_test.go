package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/burenotti/go_diet_backend/internal/adapter/storage"
	"github.com/burenotti/go_diet_backend/internal/app/authapp"
	goalapp "github.com/burenotti/go_diet_backend/internal/app/goal"
	mealapp "github.com/burenotti/go_diet_backend/internal/app/meal"
	profileapp "github.com/burenotti/go_diet_backend/internal/app/profile"
	"github.com/burenotti/go_diet_backend/internal/domain"
	"github.com/burenotti/go_diet_backend/internal/domain/meal"
	"github.com/burenotti/go_diet_backend/internal/domain/nutrition"
	"github.com/burenotti/go_diet_backend/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type nopBus struct{}

func (nopBus) PublishEvents(...domain.Event) error { return nil }

type testServer struct {
	*Server
	mock       sqlmock.Sqlmock
	authorizer *authapp.Authorizer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authorizer := &authapp.Authorizer{
		Cost:           bcrypt.MinCost,
		Secret:         "test-secret",
		AccessTokenTTL: time.Hour,
		SessionTTL:     time.Hour,
	}

	s := NewServer(
		Logger(logger),
		Database(&storage.DB{DB: db}),
		MessageBus(nopBus{}),
		AuthService(authapp.NewService(authorizer, logger)),
		ProfileService(profileapp.New(logger)),
		GoalService(goalapp.New(logger, nutrition.DefaultProteinPerKg)),
		MealService(mealapp.New(logger, 200, meal.Lunch)),
	)
	return &testServer{Server: s, mock: mock, authorizer: authorizer}
}

func (ts *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := ts.authorizer.GenerateAccessToken(&user.User{UserID: userID}, &user.Session{SessionID: "s-" + userID})
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(method, target, body, token string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestLoginRequired(t *testing.T) {
	ts := newTestServer(t)

	expired := *ts.authorizer
	expired.AccessTokenTTL = -time.Minute
	expiredToken, err := expired.GenerateAccessToken(&user.User{UserID: "u"}, &user.Session{SessionID: "s"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"no header", "", "invalid Authorization header"},
		{"wrong scheme", "Basic abc", "invalid Authorization header"},
		{"garbage token", "Bearer abc", "invalid access token"},
		{"expired token", "Bearer " + expiredToken, "access token expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/goals/me/targets", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			ts.handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.message, decode(t, rec)["message"])
		})
	}
}

func TestValidation(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, "u-1")

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"unknown goal type", http.MethodPut, "/goals/me", `{"goal_type":"bulk"}`},
		{"missing goal type", http.MethodPut, "/goals/me", `{"weight_kg":80}`},
		{"negative weight", http.MethodPut, "/goals/me", `{"goal_type":"lose","weight_kg":-80}`},
		{"unknown gender", http.MethodPut, "/profiles/me", `{"gender":"robot"}`},
		{"bad birth date", http.MethodPut, "/profiles/me", `{"birth_date":"15/06/1994"}`},
		{"unknown activity", http.MethodPut, "/profiles/me", `{"activity_level":"couch"}`},
		{"zero quantity", http.MethodPost, "/meals/m-1/items", `{"food_id":"apple","quantity_g":0}`},
		{"missing food", http.MethodPost, "/meals/m-1/items", `{"quantity_g":100}`},
		{"unknown meal type", http.MethodGet, "/meals/today?meal_type=brunch", ""},
		{"bad sign up", http.MethodPost, "/auth/sign-up", `{"user_id":"nope","email":"a@b.c","password":"12345678"}`},
		{"short password", http.MethodPost, "/auth/login", `{"email":"a@b.c","password":"123"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(tt.method, tt.target, tt.body, token)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestGetFood(t *testing.T) {
	ts := newTestServer(t)

	ts.mock.ExpectBegin()
	ts.mock.ExpectQuery("FROM foods").
		WillReturnRows(sqlmock.NewRows([]string{"food_id", "name", "kcal_per_100g", "protein", "carbs", "fat"}).
			AddRow("apple", "Apple", 52.4, 0.25, 13.81, nil))
	ts.mock.ExpectRollback()

	rec := ts.do(http.MethodGet, "/foods/apple", "", ts.token(t, "u-1"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "Apple", body["name"])
	assert.Equal(t, map[string]any{
		"kcal_per_100g":    52.0,
		"protein_per_100g": 0.3,
		"carbs_per_100g":   13.8,
		"fat_per_100g":     0.0,
	}, body["density"])
}

func TestGetFood_NotFound(t *testing.T) {
	ts := newTestServer(t)

	ts.mock.ExpectBegin()
	ts.mock.ExpectQuery("FROM foods").WillReturnRows(sqlmock.NewRows([]string{"food_id"}))
	ts.mock.ExpectRollback()

	rec := ts.do(http.MethodGet, "/foods/durian", "", ts.token(t, "u-1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "food not found", decode(t, rec)["message"])
}

func TestGetMyTargets_PartialData(t *testing.T) {
	ts := newTestServer(t)

	ts.mock.ExpectBegin()
	ts.mock.ExpectQuery("FROM profiles").WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	ts.mock.ExpectQuery("FROM goals").WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	ts.mock.ExpectRollback()

	rec := ts.do(http.MethodGet, "/goals/me/targets", "", ts.token(t, "u-1"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"complete": false}`, rec.Body.String())
}

func TestFail_HidesInternalErrors(t *testing.T) {
	ts := newTestServer(t)

	ts.mock.ExpectBegin()
	ts.mock.ExpectQuery("FROM foods").WillReturnError(assert.AnError)
	ts.mock.ExpectRollback()

	rec := ts.do(http.MethodGet, "/foods", "", ts.token(t, "u-1"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decode(t, rec)["message"])
}
