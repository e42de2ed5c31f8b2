package mfa

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/skillbridge/stepup/pkg/identity"
	"github.com/skillbridge/stepup/pkg/throttle"
	mfasvc "github.com/skillbridge/stepup/svc/mfa"
)

// Module bundles the step-up login and MFA management endpoints.
type Module struct {
	svc      *mfasvc.Service
	verifier identity.Verifier
	limiter  *throttle.Limiter
	log      *slog.Logger
}

// Option configures the module.
type Option func(*Module)

// WithVerificationThrottle rate limits the code verification endpoints.
// Without it, guessing protection is left to an upstream proxy.
func WithVerificationThrottle(limiter *throttle.Limiter) Option {
	return func(m *Module) {
		m.limiter = limiter
	}
}

// New creates the HTTP module for the MFA subsystem.
func New(svc *mfasvc.Service, verifier identity.Verifier, log *slog.Logger, opts ...Option) *Module {
	if log == nil {
		log = slog.Default()
	}
	m := &Module{svc: svc, verifier: verifier, log: log}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Router mounts the module's routes.
//
// Login step two and setup verification authenticate with the challenge
// token carried in the body, not with the identity token: at that point
// in the flow the client does not hold an established session yet.
func (m *Module) Router() chi.Router {
	r := chi.NewRouter()

	guard := ThrottleCodeGuesses(m.limiter)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", m.handleLogin)
		r.With(guard).Post("/login/mfa", m.handleVerify)
	})

	r.Route("/mfa", func(r chi.Router) {
		r.With(guard).Post("/verify-setup", m.handleVerifySetup)
		r.With(guard).Post("/verify", m.handleVerify)

		r.Group(func(r chi.Router) {
			r.Use(RequireIdentity(m.verifier))
			r.Post("/setup", m.handleSetup)
			r.Get("/status", m.handleStatus)
			r.Post("/disable", m.handleDisable)
			r.Post("/recovery-codes/regenerate", m.handleRegenerateCodes)
		})
	})

	return r
}
