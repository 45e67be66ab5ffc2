package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"energytrack/internal/domain"
	"energytrack/internal/dto"
	impl "energytrack/internal/service/impl"
	"energytrack/internal/store"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Appliance{}, &domain.EnergySummary{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	st := store.New(db)
	pw := impl.NewPasswordServiceBcrypt()
	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     "energytrack-test",
		TTL:        time.Hour,
		SigningKey: []byte("router-test-key"),
	})
	as := impl.NewAuthServiceImpl(st, pw, ts, &stubMail{}, time.Hour)
	es := impl.NewEnergyServiceImpl(st)

	srv := httptest.NewServer(NewRouter(as, es, ts))
	t.Cleanup(srv.Close)
	return srv
}

type stubMail struct{}

func (stubMail) SendPasswordReset(ctx context.Context, to, token string) error { return nil }

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func getJSON(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestRegisterLoginAndEnergyFlow(t *testing.T) {
	srv := setupServer(t)

	// register
	resp := postJSON(t, srv.URL+"/api/auth/register", "", dto.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "hunter22",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}
	reg := decode[dto.AuthResponse](t, resp)
	if reg.Token == "" || reg.User.Username != "alice" {
		t.Fatalf("unexpected register response: %+v", reg)
	}

	// login with username
	resp = postJSON(t, srv.URL+"/api/auth/login", "", dto.LoginRequest{
		Identifier: "alice",
		Password:   "hunter22",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	login := decode[dto.AuthResponse](t, resp)

	// submit appliances
	resp = postJSON(t, srv.URL+"/api/energy/appliances", login.Token, dto.SubmitAppliancesRequest{
		Appliances: []dto.ApplianceInput{
			{Name: "Fridge", PowerConsumption: 100, Hours: 5},
			{Name: "TV", PowerConsumption: 60, Hours: 10},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d", resp.StatusCode)
	}
	submitted := decode[dto.SubmitAppliancesResponse](t, resp)
	if submitted.Summary.DailyConsumption != 1.1 || submitted.Summary.MonthlyConsumption != 33.0 {
		t.Fatalf("unexpected summary: %+v", submitted.Summary)
	}

	// summary round-trips
	resp = getJSON(t, srv.URL+"/api/energy/summary", login.Token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d", resp.StatusCode)
	}
	sum := decode[dto.SummaryResponse](t, resp)
	if sum.Summary.DailyConsumption != 1.1 {
		t.Fatalf("unexpected stored summary: %+v", sum.Summary)
	}

	// leaderboard contains the single user
	resp = getJSON(t, srv.URL+"/api/energy/leaderboard", login.Token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("leaderboard: expected 200, got %d", resp.StatusCode)
	}
	board := decode[dto.LeaderboardResponse](t, resp)
	if len(board.Leaderboard) != 1 || board.Leaderboard[0].Badge != "Energy Champion" {
		t.Fatalf("unexpected leaderboard: %+v", board)
	}
}

func TestDuplicateRegistrationConflict(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/register", "", dto.RegisterRequest{
		Email: "bob@example.com", Username: "bob", Password: "secret-pw",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed register: expected 201, got %d", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/api/auth/register", "", dto.RegisterRequest{
		Email: "bob@example.com", Username: "bob2", Password: "secret-pw",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate email: expected 400, got %d", resp.StatusCode)
	}
}

func TestEnergyEndpointsRequireAuth(t *testing.T) {
	srv := setupServer(t)

	resp := getJSON(t, srv.URL+"/api/energy/summary", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestRefreshToken(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/register", "", dto.RegisterRequest{
		Email: "carol@example.com", Username: "carol", Password: "secret-pw",
	})
	reg := decode[dto.AuthResponse](t, resp)

	resp = postJSON(t, srv.URL+"/api/auth/refresh-token", reg.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d", resp.StatusCode)
	}
	refreshed := decode[dto.TokenResponse](t, resp)
	if refreshed.Token == "" {
		t.Fatalf("expected a fresh token")
	}

	resp = getJSON(t, srv.URL+"/api/auth/verify", refreshed.Token)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify refreshed token: expected 200, got %d", resp.StatusCode)
	}
}
