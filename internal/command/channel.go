package command

// Channel restriction management. Admin-only, checked here rather than
// in the guard chain so non-admins get a targeted refusal instead of a
// silent drop.

func runSetChannel(c *Context) error {
	if !c.Intent.ActorIsAdmin {
		return preconditionErrf("You need administrator permissions to use this command.")
	}
	if err := c.Deps.Store.SetCommandChannel(c.Intent.GuildID, c.Intent.ChannelID); err != nil {
		return &CollaboratorError{Err: err}
	}
	return c.Public(SuccessView("Commands are now restricted to " + channelMention(c.Intent.ChannelID) + "."))
}

func runClearChannel(c *Context) error {
	if !c.Intent.ActorIsAdmin {
		return preconditionErrf("You need administrator permissions to use this command.")
	}
	if err := c.Deps.Store.ClearCommandChannel(c.Intent.GuildID); err != nil {
		return &CollaboratorError{Err: err}
	}
	return c.Public(SuccessView("Command channel restriction removed. Commands work everywhere again."))
}
