package core

// Behaviour is a per-player component the state machine switches on and off.
// Enable and Disable are idempotent; hooks run only on an actual change.
type Behaviour interface {
	Enable()
	Disable()
	Enabled() bool
}

// switchable implements Behaviour for embedding. onEnable and onDisable run
// after the flag has changed.
type switchable struct {
	enabled   bool
	onEnable  func()
	onDisable func()
}

func (s *switchable) Enabled() bool {
	return s.enabled
}

func (s *switchable) Enable() {
	if s.enabled {
		return
	}
	s.enabled = true
	if s.onEnable != nil {
		s.onEnable()
	}
}

func (s *switchable) Disable() {
	if !s.enabled {
		return
	}
	s.enabled = false
	if s.onDisable != nil {
		s.onDisable()
	}
}

// Toggle is a standalone Behaviour with callbacks, used for flags such as the
// replicated follow mode.
type Toggle struct {
	switchable
}

func NewToggle(onEnable, onDisable func()) *Toggle {
	return &Toggle{switchable{onEnable: onEnable, onDisable: onDisable}}
}
