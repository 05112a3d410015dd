package command

func runNowPlaying(c *Context) error {
	_, t, err := requireCurrent(c)
	if err != nil {
		return err
	}
	return c.Public(NowPlayingView(t, c.Deps.Comments.For(t.URI)))
}

func runStatus(c *Context) error {
	s, err := requireSession(c)
	if err != nil {
		return err
	}
	return c.Public(StatusView(s))
}

func runHelp(c *Context) error {
	return c.Public(HelpView(c.Deps.Prefix, All()))
}
