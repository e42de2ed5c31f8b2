package mfa

// LoginState models the step-up login state machine:
//
//	UNVERIFIED → IDENTITY_VERIFIED → {SESSION_ESTABLISHED | MFA_PENDING}
//	MFA_PENDING → MFA_VERIFIED → SESSION_ESTABLISHED
//
// A failed second-factor verification stays in MFA_PENDING. No transition
// reaches SESSION_ESTABLISHED from MFA_PENDING without passing through
// MFA_VERIFIED.
type LoginState string

const (
	StateUnverified         LoginState = "UNVERIFIED"
	StateIdentityVerified   LoginState = "IDENTITY_VERIFIED"
	StateMFAPending         LoginState = "MFA_PENDING"
	StateMFAVerified        LoginState = "MFA_VERIFIED"
	StateSessionEstablished LoginState = "SESSION_ESTABLISHED"
)

var loginTransitions = map[LoginState][]LoginState{
	StateUnverified:         {StateIdentityVerified},
	StateIdentityVerified:   {StateSessionEstablished, StateMFAPending},
	StateMFAPending:         {StateMFAPending, StateMFAVerified},
	StateMFAVerified:        {StateSessionEstablished},
	StateSessionEstablished: nil,
}

// CanTransitionTo reports whether the transition from s to next is allowed.
func (s LoginState) CanTransitionTo(next LoginState) bool {
	for _, allowed := range loginTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// advance moves from s to next, guarding against transitions the state
// machine does not permit.
func (s LoginState) advance(next LoginState) (LoginState, error) {
	if !s.CanTransitionTo(next) {
		return s, ErrInvalidStateTransition
	}
	return next, nil
}
