package demo

import (
	"github.com/fsnotify/fsnotify"

	"github.com/nextlevelbuilder/actomaton/effect"
	"github.com/nextlevelbuilder/actomaton/internal/integrations/watch"
	"github.com/nextlevelbuilder/actomaton/reducer"
)

// WatchAction drives the filesystem-watch scenario: Start begins watching a
// directory; Changed folds one observed event's description into state.
type WatchAction struct {
	Start   string
	Changed *string
}

// WatchState accumulates a description of every filesystem event observed
// so far, in arrival order.
type WatchState struct {
	Changed []string
}

// WatchReducer starts a Sequence effect over fsnotify events under Start
// and appends each translated event to Changed.
func WatchReducer() reducer.Reducer[WatchAction, WatchState, struct{}] {
	return reducer.New(func(a WatchAction, s *WatchState, _ struct{}) effect.Effect[WatchAction] {
		if a.Changed != nil {
			s.Changed = append(s.Changed, *a.Changed)
			return effect.Empty[WatchAction]()
		}
		if a.Start == "" {
			return effect.Empty[WatchAction]()
		}
		return watch.EffectFor[WatchAction](nil, nil, a.Start, func(ev fsnotify.Event) WatchAction {
			name := ev.String()
			return WatchAction{Changed: &name}
		})
	})
}
