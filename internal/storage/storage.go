// Package storage persists per-guild settings in a JSON key-value store.
// Mutations land in memory immediately; the backing file is flushed on a
// short autosave interval and once more on Close.
package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/keshon/datastore"
)

const (
	commandHistoryLimit = 20
	// saveInterval bounds how long a mutation can sit in memory before
	// the autosave goroutine writes it out.
	saveInterval = 2 * time.Second
)

// Storage wraps the datastore with guild-keyed records. A single mutex
// serializes mutations process-wide; restriction changes are rare enough
// that contention is a non-issue.
type Storage struct {
	mu     sync.Mutex
	ds     *datastore.DataStore
	cancel context.CancelFunc
}

// CommandRecord is one logged command invocation.
type CommandRecord struct {
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Param     string    `json:"param,omitempty"`
	Datetime  time.Time `json:"datetime"`
}

// Record is everything stored for one guild.
type Record struct {
	CommandChannelID string          `json:"command_channel_id,omitempty"`
	CommandHistory   []CommandRecord `json:"cmd_history,omitempty"`
}

// New opens (or creates) the store file. A malformed file is moved aside
// and replaced with an empty store instead of failing startup.
func New(filePath string) (*Storage, error) {
	ctx, cancel := context.WithCancel(context.Background())
	ds, err := datastore.New(ctx, filePath, datastore.WithSaveInterval(saveInterval))
	if err != nil {
		log.Printf("[WARN] Store file %s unreadable (%v), starting empty", filePath, err)
		_ = os.Rename(filePath, filePath+".corrupt")
		ds, err = datastore.New(ctx, filePath, datastore.WithSaveInterval(saveInterval))
		if err != nil {
			cancel()
			return nil, fmt.Errorf("reinitialize store: %w", err)
		}
	}
	return &Storage{ds: ds, cancel: cancel}, nil
}

// Close stops the autosave goroutine and performs a final flush. Safe to
// call more than once.
func (s *Storage) Close() error {
	// The datastore's Close waits for autosave to exit, which only
	// happens once its context is cancelled.
	s.cancel()
	return s.ds.Close()
}

// SetCommandChannel restricts a guild's commands to one channel.
func (s *Storage) SetCommandChannel(guildID, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.guildRecord(guildID)
	if err != nil {
		return err
	}
	rec.CommandChannelID = channelID
	return s.put(guildID, rec)
}

// ClearCommandChannel removes a guild's channel restriction.
func (s *Storage) ClearCommandChannel(guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.guildRecord(guildID)
	if err != nil {
		return err
	}
	rec.CommandChannelID = ""
	return s.put(guildID, rec)
}

// CommandChannel returns the guild's allowed command channel, if set.
func (s *Storage) CommandChannel(guildID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.guildRecord(guildID)
	if err != nil || rec.CommandChannelID == "" {
		return "", false
	}
	return rec.CommandChannelID, true
}

// AppendCommandHistory logs a command invocation, keeping the most
// recent commandHistoryLimit entries.
func (s *Storage) AppendCommandHistory(guildID string, cr CommandRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.guildRecord(guildID)
	if err != nil {
		return err
	}
	rec.CommandHistory = append(rec.CommandHistory, cr)
	if len(rec.CommandHistory) > commandHistoryLimit {
		rec.CommandHistory = rec.CommandHistory[len(rec.CommandHistory)-commandHistoryLimit:]
	}
	return s.put(guildID, rec)
}

// CommandHistory returns the guild's logged invocations, oldest first.
func (s *Storage) CommandHistory(guildID string) ([]CommandRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.guildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return rec.CommandHistory, nil
}

// guildRecord loads the guild's record, returning an empty one for
// unseen guilds.
func (s *Storage) guildRecord(guildID string) (*Record, error) {
	var rec Record
	found, err := s.ds.Get(guildID, &rec)
	if err != nil {
		return nil, fmt.Errorf("load guild record: %w", err)
	}
	if !found {
		return &Record{}, nil
	}
	return &rec, nil
}

func (s *Storage) put(guildID string, rec *Record) error {
	if err := s.ds.Set(guildID, rec); err != nil {
		return fmt.Errorf("store guild record: %w", err)
	}
	return nil
}
