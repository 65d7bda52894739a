package document

// Observer receives view and handle lifecycle events
type Observer interface {
	HandleCreated()
	HandleReleased()
	ViewOpened()
	ViewClosed()
	ObserveRender(format string)
}

type nopObserver struct{}

func (nopObserver) HandleCreated()       {}
func (nopObserver) HandleReleased()      {}
func (nopObserver) ViewOpened()          {}
func (nopObserver) ViewClosed()          {}
func (nopObserver) ObserveRender(string) {}

func observerOrNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}
