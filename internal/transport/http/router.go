package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"energytrack/internal/domain"
	"energytrack/internal/dto"
	obsmw "energytrack/internal/observability/middleware"
	"energytrack/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(auth service.AuthService, energy service.EnergyService, tokens service.TokenService) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(obsmw.WithRequestID)
	r.Use(obsmw.WithMetrics)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Accept", "x-auth-token", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		// Credential endpoints take the brunt of abuse; cap them per IP.
		r.Use(httprate.LimitByIP(30, 1*time.Minute))

		r.Post("/register", func(w http.ResponseWriter, req *http.Request) {
			var body dto.RegisterRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, domain.ErrMissingFields)
				return
			}
			res, err := auth.Register(req.Context(), body)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, res)
		})

		r.Post("/login", func(w http.ResponseWriter, req *http.Request) {
			var body dto.LoginRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, domain.ErrMissingFields)
				return
			}
			res, err := auth.Login(req.Context(), body)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, res)
		})

		r.Post("/forgot-password", func(w http.ResponseWriter, req *http.Request) {
			var body dto.ForgotPasswordRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, domain.ErrMissingFields)
				return
			}
			if err := auth.RequestPasswordReset(req.Context(), body.Email); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Password reset email sent"})
		})

		r.Post("/reset-password", func(w http.ResponseWriter, req *http.Request) {
			var body dto.ResetPasswordRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, domain.ErrMissingFields)
				return
			}
			if err := auth.ConfirmPasswordReset(req.Context(), body.Token, body.NewPassword); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Password has been reset"})
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(tokens))

			r.Get("/verify", func(w http.ResponseWriter, req *http.Request) {
				id, ok := identityFrom(req.Context())
				if !ok {
					writeError(w, domain.ErrTokenInvalid)
					return
				}
				writeJSON(w, http.StatusOK, map[string]any{
					"message": "Token is valid",
					"user": map[string]string{
						"id":       id.UserID.String(),
						"username": id.Username,
					},
				})
			})

			r.Post("/refresh-token", func(w http.ResponseWriter, req *http.Request) {
				tok, err := tokens.Refresh(tokenFromRequest(req))
				if err != nil {
					writeError(w, err)
					return
				}
				writeJSON(w, http.StatusOK, dto.TokenResponse{Token: tok})
			})

			r.Get("/user", func(w http.ResponseWriter, req *http.Request) {
				id, _ := identityFrom(req.Context())
				profile, err := auth.GetProfile(req.Context(), id.UserID)
				if err != nil {
					writeError(w, err)
					return
				}
				writeJSON(w, http.StatusOK, map[string]any{"user": profile})
			})
		})
	})

	r.Route("/api/energy", func(r chi.Router) {
		r.Use(RequireAuth(tokens))

		r.Get("/appliances", func(w http.ResponseWriter, req *http.Request) {
			id, _ := identityFrom(req.Context())
			items, err := energy.ListAppliances(req.Context(), id.UserID)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, dto.AppliancesResponse{Appliances: items})
		})

		r.Post("/appliances", func(w http.ResponseWriter, req *http.Request) {
			id, _ := identityFrom(req.Context())
			var body dto.SubmitAppliancesRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, domain.ErrInvalidAppliances)
				return
			}
			summary, err := energy.SubmitAppliances(req.Context(), id.UserID, body.Appliances)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, dto.SubmitAppliancesResponse{
				Success: true,
				Message: "Appliance data saved successfully",
				Summary: *summary,
			})
		})

		r.Get("/summary", func(w http.ResponseWriter, req *http.Request) {
			id, _ := identityFrom(req.Context())
			summary, err := energy.GetSummary(req.Context(), id.UserID)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, dto.SummaryResponse{Summary: *summary})
		})

		r.Get("/leaderboard", func(w http.ResponseWriter, req *http.Request) {
			board, err := energy.Leaderboard(req.Context())
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, board)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError translates domain errors to responses. Unexpected failures are
// logged and returned as a generic 500 so storage internals never leak.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingFields),
		errors.Is(err, domain.ErrInvalidAppliances),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidResetToken):
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, dto.MessageResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrNoToken):
		writeJSON(w, http.StatusUnauthorized, dto.MessageResponse{Message: "No token, authorization denied"})
	case errors.Is(err, domain.ErrTokenExpired):
		writeJSON(w, http.StatusUnauthorized, dto.MessageResponse{Message: "Token has expired"})
	case errors.Is(err, domain.ErrTokenInvalid):
		writeJSON(w, http.StatusUnauthorized, dto.MessageResponse{Message: "Invalid token"})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.MessageResponse{Message: "Server error"})
	}
}
