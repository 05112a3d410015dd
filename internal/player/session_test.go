package player

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopResolver struct{}

func (nopResolver) Resolve(ctx context.Context, query string) (*Resolution, error) {
	return &Resolution{LoadType: LoadTypeNoMatch}, nil
}

func testTrack(title string, durationMs int64) Track {
	return Track{URI: "https://radio.example/" + title, Title: title, Duration: durationMs}
}

// eventLog captures engine events in order.
type eventLog struct {
	mu       sync.Mutex
	starts   []string
	queueEnd chan struct{}
}

func newEventLog(e *Engine) *eventLog {
	l := &eventLog{queueEnd: make(chan struct{}, 1)}
	e.OnTrackStart(func(_ *Session, t Track) {
		l.mu.Lock()
		l.starts = append(l.starts, t.Title)
		l.mu.Unlock()
	})
	e.OnQueueEnd(func(*Session) {
		select {
		case l.queueEnd <- struct{}{}:
		default:
		}
	})
	return l
}

func (l *eventLog) startedTitles() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.starts))
	copy(out, l.starts)
	return out
}

func TestPlayPopsQueueHead(t *testing.T) {
	e := NewEngine(nopResolver{})
	log := newEventLog(e)
	s := e.CreateSession("g1", "vc", "tc", true)
	defer s.Destroy()

	s.Queue().Add(testTrack("a", 300000))
	s.Queue().Add(testTrack("b", 300000))

	require.NoError(t, s.Play())
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur.Title)
	assert.Equal(t, 1, s.Queue().Len())
	assert.Equal(t, []string{"a"}, log.startedTitles())

	// A second Play while busy is a no-op.
	require.NoError(t, s.Play())
	assert.Equal(t, 1, s.Queue().Len())
	assert.Equal(t, []string{"a"}, log.startedTitles())
}

func TestPlayEmptyQueue(t *testing.T) {
	e := NewEngine(nopResolver{})
	s := e.CreateSession("g1", "vc", "tc", true)
	defer s.Destroy()

	assert.ErrorIs(t, s.Play(), ErrNoCurrentTrack)
}

func TestPauseAccountsElapsed(t *testing.T) {
	e := NewEngine(nopResolver{})
	s := e.CreateSession("g1", "vc", "tc", true)
	defer s.Destroy()

	s.Queue().Add(testTrack("a", 300000))
	require.NoError(t, s.Play())

	require.NoError(t, s.Pause(true))
	assert.True(t, s.Paused())
	assert.False(t, s.Playing())
	frozen := s.Position()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, frozen, s.Position(), "position must not advance while paused")

	require.NoError(t, s.Pause(false))
	assert.True(t, s.Playing())
}

func TestPauseWithoutTrack(t *testing.T) {
	e := NewEngine(nopResolver{})
	s := e.CreateSession("g1", "vc", "tc", true)
	defer s.Destroy()

	assert.ErrorIs(t, s.Pause(true), ErrNoCurrentTrack)
}

func TestStopAdvancesToNext(t *testing.T) {
	e := NewEngine(nopResolver{})
	log := newEventLog(e)
	s := e.CreateSession("g1", "vc", "tc", true)
	defer s.Destroy()

	s.Queue().Add(testTrack("a", 300000))
	s.Queue().Add(testTrack("b", 300000))
	require.NoError(t, s.Play())
	require.NoError(t, s.Stop())

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "b", cur.Title)
	assert.Equal(t, []string{"a", "b"}, log.startedTitles())
}

func TestStopOnLastTrackEndsQueue(t *testing.T) {
	e := NewEngine(nopResolver{})
	log := newEventLog(e)
	s := e.CreateSession("g1", "vc", "tc", true)

	s.Queue().Add(testTrack("a", 300000))
	require.NoError(t, s.Play())
	require.NoError(t, s.Stop())

	select {
	case <-log.queueEnd:
	case <-time.After(time.Second):
		t.Fatal("queue end never fired")
	}
	_, ok := s.Current()
	assert.False(t, ok)
	assert.False(t, s.Playing())
}

func TestLoopQueueReappendsFinishedTrack(t *testing.T) {
	e := NewEngine(nopResolver{})
	log := newEventLog(e)
	s := e.CreateSession("g1", "vc", "tc", true)
	defer s.Destroy()

	s.SetLoop(LoopQueue)
	s.Queue().Add(testTrack("a", 300000))
	s.Queue().Add(testTrack("b", 300000))
	require.NoError(t, s.Play())
	require.NoError(t, s.Stop())

	cur, _ := s.Current()
	assert.Equal(t, "b", cur.Title)
	queued := s.Queue().Tracks()
	require.Len(t, queued, 1)
	assert.Equal(t, "a", queued[0].Title, "finished track must rejoin the queue")

	// Loop with a single remaining track keeps cycling it.
	require.NoError(t, s.Stop())
	cur, _ = s.Current()
	assert.Equal(t, "a", cur.Title)
	assert.Equal(t, []string{"a", "b", "a"}, log.startedTitles())
}

func TestNaturalAdvanceOnTimer(t *testing.T) {
	e := NewEngine(nopResolver{})
	log := newEventLog(e)
	s := e.CreateSession("g1", "vc", "tc", true)

	s.Queue().Add(testTrack("short", 30)) // 30ms
	require.NoError(t, s.Play())

	select {
	case <-log.queueEnd:
	case <-time.After(2 * time.Second):
		t.Fatal("track never ended on its own")
	}
}

func TestStreamsNeverAutoAdvance(t *testing.T) {
	e := NewEngine(nopResolver{})
	log := newEventLog(e)
	s := e.CreateSession("g1", "vc", "tc", true)
	defer s.Destroy()

	stream := Track{URI: "https://radio.example/live", Title: "live", IsStream: true}
	s.Queue().Add(stream)
	require.NoError(t, s.Play())

	select {
	case <-log.queueEnd:
		t.Fatal("stream ended by itself")
	case <-time.After(100 * time.Millisecond):
	}
	assert.True(t, s.Playing())
}

func TestSeekMovesPosition(t *testing.T) {
	e := NewEngine(nopResolver{})
	s := e.CreateSession("g1", "vc", "tc", true)
	defer s.Destroy()

	s.Queue().Add(testTrack("a", 300000))
	require.NoError(t, s.Play())
	require.NoError(t, s.Seek(90000))

	pos := s.Position()
	assert.GreaterOrEqual(t, pos, int64(90000))
	assert.Less(t, pos, int64(91000))
}

func TestDestroyRemovesSessionFromEngine(t *testing.T) {
	e := NewEngine(nopResolver{})
	s := e.CreateSession("g1", "vc", "tc", true)

	s.Queue().Add(testTrack("a", 300000))
	require.NoError(t, s.Play())
	s.Destroy()

	_, ok := e.Session("g1")
	assert.False(t, ok)
	assert.ErrorIs(t, s.Play(), ErrSessionDone)
	assert.ErrorIs(t, s.Pause(true), ErrSessionDone)

	// Destroy is idempotent.
	s.Destroy()
}

func TestDestroyIfIdle(t *testing.T) {
	e := NewEngine(nopResolver{})
	s := e.CreateSession("g1", "vc", "tc", true)

	s.Queue().Add(testTrack("a", 300000))
	require.NoError(t, s.Play())

	assert.False(t, s.DestroyIfIdle(), "a playing session must not be torn down")
	_, ok := e.Session("g1")
	assert.True(t, ok, "session must stay registered")
	assert.True(t, s.Playing())

	require.NoError(t, s.Stop()) // empty queue: session goes idle
	assert.True(t, s.DestroyIfIdle())
	_, ok = e.Session("g1")
	assert.False(t, ok)

	assert.False(t, s.DestroyIfIdle(), "already destroyed")
}

func TestCreateSessionIdempotent(t *testing.T) {
	e := NewEngine(nopResolver{})
	a := e.CreateSession("g1", "vc", "tc", true)
	b := e.CreateSession("g1", "other-vc", "other-tc", false)
	defer a.Destroy()

	assert.Same(t, a, b)
	assert.Equal(t, "vc", b.VoiceChannelID)
}

func TestEngineResolveStampsRequester(t *testing.T) {
	e := NewEngine(resolverFunc(func(ctx context.Context, query string) (*Resolution, error) {
		return &Resolution{
			LoadType: LoadTypeTrack,
			Tracks:   []Track{testTrack("a", 1000), testTrack("b", 1000)},
		}, nil
	}))

	res, err := e.Resolve(context.Background(), "q", "u1", "alice")
	require.NoError(t, err)
	for _, tr := range res.Tracks {
		assert.Equal(t, "u1", tr.RequesterID)
		assert.Equal(t, "alice", tr.RequesterName)
	}
}

type resolverFunc func(ctx context.Context, query string) (*Resolution, error)

func (f resolverFunc) Resolve(ctx context.Context, query string) (*Resolution, error) {
	return f(ctx, query)
}

func TestQueueOperations(t *testing.T) {
	q := &Queue{}
	q.Add(testTrack("a", 1))
	q.Add(testTrack("b", 1))
	q.Add(testTrack("c", 1))

	_, ok := q.Remove(3)
	assert.False(t, ok)
	_, ok = q.Remove(-1)
	assert.False(t, ok)

	removed, ok := q.Remove(1)
	require.True(t, ok)
	assert.Equal(t, "b", removed.Title)
	assert.Equal(t, 2, q.Len())

	snapshot := q.Tracks()
	snapshot[0].Title = "mutated"
	assert.Equal(t, "a", q.Tracks()[0].Title, "Tracks must return a copy")

	q.Clear()
	assert.Equal(t, 0, q.Len())
}
