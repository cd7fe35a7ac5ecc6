package tile

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/pixil98/go-tileworld/internal/ident"
)

// ErrEntityStopped is returned when a message is sent to an entity whose
// mailbox loop has exited.
var ErrEntityStopped = errors.New("tile entity stopped")

const mailboxSize = 32

// Entity is the concurrent unit of state for one occupied map cell. Each
// entity owns its DataMap outright and processes its mailbox sequentially,
// so messages from a single sender are applied in send order and no lock
// ever guards the data itself.
type Entity struct {
	instanceId uuid.UUID
	tileType   ident.Id
	modifier   Modifier

	mailbox chan message
	quit    chan struct{}
	done    chan struct{}

	stopOnce sync.Once
}

// NewEntity starts the mailbox goroutine for a tile of the given type and
// modifier. The entity runs until Stop is called.
func NewEntity(tileType ident.Id, modifier Modifier) *Entity {
	e := &Entity{
		instanceId: uuid.New(),
		tileType:   tileType,
		modifier:   modifier,
		mailbox:    make(chan message, mailboxSize),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}

	go e.run()

	return e
}

// InstanceId identifies this spawned entity in logs. It is never persisted;
// a reloaded tile gets a fresh instance id.
func (e *Entity) InstanceId() uuid.UUID {
	return e.instanceId
}

// Type returns the tile type this entity was spawned with.
func (e *Entity) Type() ident.Id {
	return e.tileType
}

// Modifier returns the tile modifier this entity was spawned with.
func (e *Entity) Modifier() Modifier {
	return e.modifier
}

// GetData returns a copy of the entity's full data map. It blocks until
// the entity replies, the entity stops, or ctx is done.
func (e *Entity) GetData(ctx context.Context) (DataMap, error) {
	reply := make(chan DataMap, 1)
	if err := e.send(getData{reply: reply}); err != nil {
		return nil, err
	}

	select {
	case d := <-reply:
		return d, nil
	case <-e.done:
		// The reply may have been posted just before the loop exited.
		select {
		case d := <-reply:
			return d, nil
		default:
			return nil, ErrEntityStopped
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetDataValue returns a single value from the entity's data map. The
// second return reports whether the key was present.
func (e *Entity) GetDataValue(ctx context.Context, key ident.Id) (Data, bool, error) {
	reply := make(chan valueReply, 1)
	if err := e.send(getDataValue{key: key, reply: reply}); err != nil {
		return nil, false, err
	}

	select {
	case r := <-reply:
		return r.value, r.ok, nil
	case <-e.done:
		select {
		case r := <-reply:
			return r.value, r.ok, nil
		default:
			return nil, false, ErrEntityStopped
		}
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// SetData stores a value under key. Fire-and-forget: the write is applied
// in mailbox order, last writer wins per key.
func (e *Entity) SetData(key ident.Id, value Data) error {
	return e.send(setData{key: key, value: value})
}

// RemoveData deletes a key from the entity's data map.
func (e *Entity) RemoveData(key ident.Id) error {
	return e.send(removeData{key: key})
}

// Stop terminates the mailbox loop. Messages still queued when the loop
// exits are discarded; senders blocked on a reply get ErrEntityStopped.
// Safe to call multiple times.
func (e *Entity) Stop() {
	e.stopOnce.Do(func() {
		close(e.quit)
	})
}

// Done returns the channel that is closed once the mailbox loop has exited.
func (e *Entity) Done() <-chan struct{} {
	return e.done
}

func (e *Entity) send(m message) error {
	select {
	case <-e.done:
		return ErrEntityStopped
	case e.mailbox <- m:
		return nil
	}
}

func (e *Entity) run() {
	defer close(e.done)

	data := DataMap{}
	for {
		select {
		case <-e.quit:
			return
		case m := <-e.mailbox:
			switch m := m.(type) {
			case getData:
				m.reply <- data.Clone()
			case getDataValue:
				v, ok := data[m.key]
				m.reply <- valueReply{value: v, ok: ok}
			case setData:
				data[m.key] = m.value
			case removeData:
				delete(data, m.key)
			}
		}
	}
}

// message is the closed set of requests an entity processes.
type message interface {
	isMessage()
}

type getData struct {
	reply chan DataMap
}

type getDataValue struct {
	key   ident.Id
	reply chan valueReply
}

type valueReply struct {
	value Data
	ok    bool
}

type setData struct {
	key   ident.Id
	value Data
}

type removeData struct {
	key ident.Id
}

func (getData) isMessage()      {}
func (getDataValue) isMessage() {}
func (setData) isMessage()      {}
func (removeData) isMessage()   {}
