package command

import (
	"strings"
	"unicode/utf8"

	"tunebard/internal/comments"
)

const maxCommentLength = 50

func runComment(c *Context) error {
	_, t, err := requireCurrent(c)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(c.Intent.Args, " "))
	if text == "" {
		return inputErrf("Provide a comment to add.")
	}
	if utf8.RuneCountInString(text) > maxCommentLength {
		return inputErrf("Comments are limited to %d characters.", maxCommentLength)
	}
	c.Deps.Comments.Add(t.URI, comments.Comment{
		Username: c.Intent.ActorName,
		Message:  text,
	})
	return c.Public(SuccessView("Comment added to **" + t.Title + "**."))
}

// runComments hands a snapshot to the pager, which owns the listing
// message and its navigation from here on. The intent's own reply slot
// is closed with a short ack.
func runComments(c *Context) error {
	_, t, err := requireCurrent(c)
	if err != nil {
		return err
	}
	snapshot := c.Deps.Comments.For(t.URI)
	if err := c.Deps.Pager.Show(c.Intent.ChannelID, t.Title, snapshot); err != nil {
		return &CollaboratorError{Err: err}
	}
	return c.Ack("Opening comments…")
}
