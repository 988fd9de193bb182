package mux

// DomainKind distinguishes where a Domain's panes actually run.
type DomainKind int

const (
	DomainLocal  DomainKind = iota // panes run as child processes of this mux
	DomainRemote                   // panes run in a different vtmux-server, reached over the codec/transport stack
)

// Domain is a source of panes: the local machine, or a remote
// vtmux-server reached over a transport connection. Every Pane and Tab
// belongs to exactly one domain, recorded at creation and unchanged for
// its lifetime.
type Domain struct {
	Id    DomainId
	Kind  DomainKind
	Label string

	// Attached is false for a DomainRemote whose transport connection has
	// dropped; its panes are retained (so reattaching resumes the same
	// session) but cannot accept input until reattached.
	Attached bool
}

// NewLocalDomain returns the domain representing processes spawned on
// this machine.
func NewLocalDomain(label string) *Domain {
	return &Domain{Id: NewDomainId(), Kind: DomainLocal, Label: label, Attached: true}
}

// NewRemoteDomain returns a domain representing panes owned by a remote
// vtmux-server.
func NewRemoteDomain(label string) *Domain {
	return &Domain{Id: NewDomainId(), Kind: DomainRemote, Label: label}
}
