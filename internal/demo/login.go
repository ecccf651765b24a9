package demo

import (
	"context"
	"time"

	"github.com/nextlevelbuilder/actomaton/actid"
	"github.com/nextlevelbuilder/actomaton/effect"
	"github.com/nextlevelbuilder/actomaton/reducer"
)

// LoginPhase is one of the four phases the "Login/force-logout" scenario
// moves through.
type LoginPhase int

const (
	LoggedOut LoginPhase = iota
	LoggingIn
	LoggedIn
	LoggingOut
	loginPhaseCount
)

func (p LoginPhase) String() string {
	names := [...]string{"LoggedOut", "LoggingIn", "LoggedIn", "LoggingOut"}
	if int(p) < len(names) {
		return names[p]
	}
	return "Unknown"
}

// LoginAction drives the session scenario.
type LoginAction struct {
	Kind  LoginActionKind
	Token string
}

// LoginActionKind tags a LoginAction.
type LoginActionKind int

const (
	Login LoginActionKind = iota
	LoginOk
	ForceLogout
	LogoutDone
)

// LoginState is just the current phase.
type LoginState struct {
	Phase LoginPhase
}

var sessionQueue = actid.NewQueue("session", actid.Newest1(), actid.NoDelay())

// LoginReducer implements the "Login/force-logout with newest-1 queue"
// scenario. A Login submits a Single effect on a Newest1 queue; a
// ForceLogout submitted to the same queue while that effect is still in
// flight cancels it (§4.4.2's "cancel the oldest" rule resolves to the
// single in-flight login here, since it is both oldest and only).
func LoginReducer() reducer.Reducer[LoginAction, LoginState, struct{}] {
	return reducer.New(func(a LoginAction, s *LoginState, _ struct{}) effect.Effect[LoginAction] {
		switch a.Kind {
		case Login:
			s.Phase = LoggingIn
			return effect.Effect[LoginAction]{effect.Single[LoginAction]{
				Queue: &sessionQueue,
				Run: func(ctx context.Context) (*LoginAction, error) {
					select {
					case <-time.After(100 * time.Millisecond):
					case <-ctx.Done():
						return nil, ctx.Err()
					}
					v := LoginAction{Kind: LoginOk}
					return &v, nil
				},
			}}
		case LoginOk:
			s.Phase = LoggedIn
			return effect.Empty[LoginAction]()
		case ForceLogout:
			s.Phase = LoggingOut
			return effect.Effect[LoginAction]{effect.Single[LoginAction]{
				Queue: &sessionQueue,
				Run: func(ctx context.Context) (*LoginAction, error) {
					v := LoginAction{Kind: LogoutDone}
					return &v, nil
				},
			}}
		case LogoutDone:
			s.Phase = LoggedOut
			return effect.Empty[LoginAction]()
		}
		return effect.Empty[LoginAction]()
	})
}
