package command

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"tunebard/internal/storage"
)

const guildQueueDepth = 64

// Dispatcher serializes all work for one guild: intents and engine
// events targeting the same guild execute strictly in arrival order, to
// completion, on that guild's worker. Different guilds run fully
// concurrently. This closes the interleaving races a shared event loop
// would allow (a stop racing a play still resolving, double skips).
type Dispatcher struct {
	Deps   *Deps
	Guards *GuardChain

	mu     sync.Mutex
	guilds map[string]chan func()
}

func NewDispatcher(deps *Deps) *Dispatcher {
	return &Dispatcher{
		Deps:   deps,
		Guards: &GuardChain{Store: deps.Store},
		guilds: make(map[string]chan func()),
	}
}

// Enqueue schedules fn on the guild's serial worker.
func (d *Dispatcher) Enqueue(guildID string, fn func()) {
	d.mu.Lock()
	ch, ok := d.guilds[guildID]
	if !ok {
		ch = make(chan func(), guildQueueDepth)
		d.guilds[guildID] = ch
		go func() {
			for task := range ch {
				task()
			}
		}()
	}
	d.mu.Unlock()
	ch <- fn
}

// Execute queues an intent for its guild and returns immediately.
func (d *Dispatcher) Execute(in *Intent, r Responder) {
	d.Enqueue(in.GuildID, func() { d.run(in, r) })
}

// run is the outermost per-intent boundary: guards, execution, error
// classification, and the guarantee that no fault escapes or leaves the
// responder without a terminal reply.
func (d *Dispatcher) run(in *Intent, r Responder) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[ERR] [%s] Panic in %q: %v", in.GuildID, in.Name, rec)
			_ = r.Ephemeral(ErrorView("An error occurred while processing the command."))
		}
	}()

	cmd, ok := Lookup(in.Name)
	if !ok {
		_ = r.Ephemeral(ErrorView("Unknown command."))
		return
	}

	if err := d.Guards.Check(cmd, in); err != nil {
		d.replyError(in, r, err)
		return
	}

	ctx := &Context{
		Ctx:       context.Background(),
		Intent:    in,
		Responder: r,
		Deps:      d.Deps,
	}
	if err := cmd.Run(ctx); err != nil {
		d.replyError(in, r, err)
	}

	d.logCommand(in)
}

// replyError maps the error taxonomy to user-facing replies. Input and
// precondition failures surface their reason; collaborator and
// unexpected faults are logged in full and answered generically.
func (d *Dispatcher) replyError(in *Intent, r Responder, err error) {
	var (
		userErr *UserInputError
		preErr  *PreconditionError
		colErr  *CollaboratorError
	)
	switch {
	case errors.As(err, &userErr):
		_ = r.Ephemeral(ErrorView(userErr.Reason))
	case errors.As(err, &preErr):
		_ = r.Ephemeral(ErrorView(preErr.Reason))
	case errors.As(err, &colErr):
		log.Printf("[ERR] [%s] Collaborator failure in %q: %v", in.GuildID, in.Name, colErr.Err)
		_ = r.Ephemeral(ErrorView("An error occurred. Try again later."))
	default:
		log.Printf("[ERR] [%s] Command %q failed: %v", in.GuildID, in.Name, err)
		_ = r.Ephemeral(ErrorView("An error occurred while processing the command."))
	}
}

func (d *Dispatcher) logCommand(in *Intent) {
	if d.Deps.Store == nil {
		return
	}
	rec := storage.CommandRecord{
		ChannelID: in.ChannelID,
		UserID:    in.ActorID,
		Username:  in.ActorName,
		Command:   in.Name,
		Param:     strings.Join(in.Args, " "),
		Datetime:  time.Now(),
	}
	if err := d.Deps.Store.AppendCommandHistory(in.GuildID, rec); err != nil {
		log.Printf("[WARN] Failed to log command %q: %v", in.Name, err)
	}
}
