package cart

// SidebarState is the open/closed state of the cart sidebar. The state machine
// is binary: any input source (explicit close, click outside the panel,
// checkout success) may request SidebarClosed; only the open control requests
// SidebarOpen. No other transitions exist.
type SidebarState int

const (
	SidebarClosed SidebarState = iota
	SidebarOpen
)

func (s SidebarState) String() string {
	if s == SidebarOpen {
		return "open"
	}
	return "closed"
}
