// Package inventory defines the entities vaultvars resolves variables for.
//
// An inventory is an ordered sequence of entities, either groups or hosts.
// The order is the precedence order: variables resolved for later entities
// override variables resolved for earlier ones.
package inventory

// Entity is either a *Group or a *Host. The interface is sealed so the
// resolution engine can match exhaustively.
type Entity interface {
	// EntityName returns the group name or host name.
	EntityName() string

	sealed()
}

// Group names a group of hosts. Groups have a single flat secret lookup and
// no domain decomposition, regardless of dots in the name.
type Group struct {
	Name string
}

// EntityName returns the group name.
func (g *Group) EntityName() string { return g.Name }

func (g *Group) sealed() {}

// Host names a single host together with its pre-existing variables. Vars may
// already carry connection overrides (ansible_port, ansible_connection); the
// engine never mutates it.
type Host struct {
	Name string
	Vars map[string]any
}

// EntityName returns the host name.
func (h *Host) EntityName() string { return h.Name }

func (h *Host) sealed() {}
