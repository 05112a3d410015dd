package command

var (
	registry = map[string]*Command{}
	ordered  []*Command
)

// Register adds a command to the registry. Later registrations with the
// same name replace earlier ones.
func Register(c *Command) {
	if _, exists := registry[c.Name]; !exists {
		ordered = append(ordered, c)
	} else {
		for i, old := range ordered {
			if old.Name == c.Name {
				ordered[i] = c
				break
			}
		}
	}
	registry[c.Name] = c
}

// Lookup returns the command with the given name.
func Lookup(name string) (*Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// All returns every registered command in registration order.
func All() []*Command {
	out := make([]*Command, len(ordered))
	copy(out, ordered)
	return out
}
