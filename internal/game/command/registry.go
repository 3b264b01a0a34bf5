package command

import "fmt"

// Registry resolves typed verbs to commands. Canonical names and aliases
// share one namespace.
type Registry struct {
	verbs map[string]*Command
	order []*Command
}

// NewRegistry indexes cmds by name and alias.
//
// Precondition: Every command has a name and a handler.
// Postcondition: Returns an error if any word is claimed twice.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{verbs: make(map[string]*Command)}
	for i := range cmds {
		cmd := &cmds[i]
		if cmd.Name == "" || cmd.Handler == "" {
			return nil, fmt.Errorf("command %d: name and handler are required", i)
		}
		for _, word := range append([]string{cmd.Name}, cmd.Aliases...) {
			if owner, taken := r.verbs[word]; taken {
				return nil, fmt.Errorf("word %q claimed by both %q and %q", word, owner.Name, cmd.Name)
			}
			r.verbs[word] = cmd
		}
		r.order = append(r.order, cmd)
	}
	return r, nil
}

func mustRegistry(cmds []Command) *Registry {
	r, err := NewRegistry(cmds)
	if err != nil {
		panic(fmt.Sprintf("command: building registry: %v", err))
	}
	return r
}

// CastleRegistry returns the castle vocabulary.
func CastleRegistry() *Registry {
	return mustRegistry(CastleCommands())
}

// HorrorRegistry returns the horror vocabulary, a superset of the castle's.
func HorrorRegistry() *Registry {
	return mustRegistry(HorrorCommands())
}

// Resolve looks up a verb or alias.
func (r *Registry) Resolve(verb string) (*Command, bool) {
	cmd, ok := r.verbs[verb]
	return cmd, ok
}

// Commands returns every command in declaration order.
func (r *Registry) Commands() []*Command {
	return append([]*Command(nil), r.order...)
}

// CommandsByCategory groups commands by help category, each group in
// declaration order.
func (r *Registry) CommandsByCategory() map[string][]*Command {
	out := make(map[string][]*Command)
	for _, cmd := range r.order {
		out[cmd.Category] = append(out[cmd.Category], cmd)
	}
	return out
}
