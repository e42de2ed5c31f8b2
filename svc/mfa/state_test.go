package mfa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skillbridge/stepup/svc/mfa"
)

func TestCanTransitionTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from mfa.LoginState
		to   mfa.LoginState
		want bool
	}{
		{name: "unverified to identity verified", from: mfa.StateUnverified, to: mfa.StateIdentityVerified, want: true},
		{name: "identity verified to session", from: mfa.StateIdentityVerified, to: mfa.StateSessionEstablished, want: true},
		{name: "identity verified to mfa pending", from: mfa.StateIdentityVerified, to: mfa.StateMFAPending, want: true},
		{name: "failed attempt stays pending", from: mfa.StateMFAPending, to: mfa.StateMFAPending, want: true},
		{name: "mfa pending to mfa verified", from: mfa.StateMFAPending, to: mfa.StateMFAVerified, want: true},
		{name: "mfa verified to session", from: mfa.StateMFAVerified, to: mfa.StateSessionEstablished, want: true},

		// No shortcut around the second factor.
		{name: "mfa pending cannot skip to session", from: mfa.StateMFAPending, to: mfa.StateSessionEstablished, want: false},
		{name: "unverified cannot skip to session", from: mfa.StateUnverified, to: mfa.StateSessionEstablished, want: false},
		{name: "session is terminal", from: mfa.StateSessionEstablished, to: mfa.StateIdentityVerified, want: false},
		{name: "no backwards transition", from: mfa.StateMFAVerified, to: mfa.StateMFAPending, want: false},
		{name: "unknown state has no transitions", from: mfa.LoginState("BOGUS"), to: mfa.StateSessionEstablished, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}
