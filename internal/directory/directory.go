// Package directory holds the static agent roster used to decide call direction
// and who a summary is attributed to.
package directory

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"call-digest-go/internal/types"
)

var ErrNoAgents = errors.New("agent directory is empty")

// Directory is read-only after construction.
type Directory struct {
	agents  map[string]types.Agent
	primary types.Agent
}

// New builds a directory. The first agent is the primary one: it answers
// inbound calls that don't hit any other listed number.
func New(agents ...types.Agent) (*Directory, error) {
	if len(agents) == 0 {
		return nil, ErrNoAgents
	}
	d := &Directory{agents: make(map[string]types.Agent, len(agents))}
	for i, a := range agents {
		key := Canonical(a.Phone)
		if key == "" {
			return nil, fmt.Errorf("agent %q has no phone number", a.Name)
		}
		if a.FullName == "" {
			a.FullName = a.Name
		}
		if _, dup := d.agents[key]; dup {
			return nil, fmt.Errorf("duplicate agent phone %s", a.Phone)
		}
		d.agents[key] = a
		if i == 0 {
			d.primary = a
		}
	}
	return d, nil
}

// Load reads a roster file, choosing the format by extension.
func Load(path string) (*Directory, error) {
	var (
		agents []types.Agent
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		agents, err = LoadYAML(path)
	case ".xlsx":
		agents, err = LoadSpreadsheet(path)
	default:
		return nil, fmt.Errorf("unsupported agent directory format: %s", path)
	}
	if err != nil {
		return nil, err
	}
	return New(agents...)
}

func (d *Directory) Lookup(phone string) (types.Agent, bool) {
	a, ok := d.agents[Canonical(phone)]
	return a, ok
}

func (d *Directory) Primary() types.Agent {
	return d.primary
}

func (d *Directory) Len() int {
	return len(d.agents)
}

// Attribution describes who was on which side of a call.
type Attribution struct {
	Direction      types.Direction
	SupportNumber  string
	CustomerNumber string
	Agent          types.Agent
}

// Resolve decides direction: a call placed from an agent number is outbound,
// everything else is inbound to the agent dialled (or the primary agent).
func (d *Directory) Resolve(from, to string) Attribution {
	if a, ok := d.Lookup(from); ok {
		return Attribution{Direction: types.DirectionOutbound, SupportNumber: from, CustomerNumber: to, Agent: a}
	}
	if a, ok := d.Lookup(to); ok {
		return Attribution{Direction: types.DirectionInbound, SupportNumber: a.Phone, CustomerNumber: from, Agent: a}
	}
	return Attribution{Direction: types.DirectionInbound, SupportNumber: d.primary.Phone, CustomerNumber: from, Agent: d.primary}
}

// Canonical reduces a phone number to its last ten digits so that "+91 96310
// 84471", "096310-84471" and "+919631084471" compare equal.
func Canonical(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}
