package canvas

// Observer is notified synchronously, on the goroutine that drove the
// change, before the triggering call returns.
type Observer interface {
	// ImageLoaded fires after a new base image replaced the previous one.
	ImageLoaded(s *Session)
	// StoreChanged fires after any change that needs a repaint.
	StoreChanged(s *Session)
	// ModeChanged fires after the armed tool changed.
	ModeChanged(m Mode)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnImageLoaded  func(*Session)
	OnStoreChanged func(*Session)
	OnModeChanged  func(Mode)
}

func (o ObserverFuncs) ImageLoaded(s *Session) {
	if o.OnImageLoaded != nil {
		o.OnImageLoaded(s)
	}
}

func (o ObserverFuncs) StoreChanged(s *Session) {
	if o.OnStoreChanged != nil {
		o.OnStoreChanged(s)
	}
}

func (o ObserverFuncs) ModeChanged(m Mode) {
	if o.OnModeChanged != nil {
		o.OnModeChanged(m)
	}
}
