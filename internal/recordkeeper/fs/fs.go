// Package fs implements recordkeeper.RecordKeeper backed by the filesystem.
//
// Events are stored in a depth-3 prefix-tree directory structure keyed by
// UUID: "96f76903-7b92-44d1-8e53-fc47a520684c" lives under rk/events/9/6/f/.
// The log's forward order is maintained with head/tail pointer files plus a
// "next" field embedded in each event's stored JSON, rewritten on every
// append to link the previous tail to the new event.
package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	"github.com/kvshepherd-labs/ledgerkeep/internal/pkg/errors"
	"github.com/kvshepherd-labs/ledgerkeep/internal/recordkeeper"
)

// RecordKeeper is a filesystem-backed recordkeeper.RecordKeeper.
type RecordKeeper struct {
	mu sync.Mutex

	rootDir  string
	eventDir string
	headPath string
	tailPath string
}

var _ recordkeeper.RecordKeeper = (*RecordKeeper)(nil)

// New constructs a RecordKeeper rooted at parentDir/rk. parentDir must
// already exist.
func New(parentDir string) (*RecordKeeper, error) {
	if _, err := os.Stat(parentDir); err != nil {
		return nil, errors.WrapStorage(errors.StorageIO, "parent directory does not exist", err)
	}

	root := filepath.Join(parentDir, "rk")
	eventDir := filepath.Join(root, "events")

	if err := os.MkdirAll(eventDir, 0o755); err != nil {
		return nil, errors.WrapStorage(errors.StorageIO, "create event directory", err)
	}

	return &RecordKeeper{
		rootDir:  root,
		eventDir: eventDir,
		headPath: filepath.Join(root, "head"),
		tailPath: filepath.Join(root, "tail"),
	}, nil
}

func (rk *RecordKeeper) recordDir(key string) string {
	return filepath.Join(rk.eventDir, key[0:1], key[1:2], key[2:3])
}

func (rk *RecordKeeper) recordPath(key string) string {
	return filepath.Join(rk.recordDir(key), key)
}

type nextProbe struct {
	Next *string `json:"next"`
}

func encodeRecord(event ledger.Event, next *string) ([]byte, error) {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(eventJSON, &fields); err != nil {
		return nil, err
	}

	nextJSON, err := json.Marshal(next)
	if err != nil {
		return nil, err
	}
	fields["next"] = nextJSON

	return json.Marshal(fields)
}

// Add implements recordkeeper.RecordKeeper.
func (rk *RecordKeeper) Add(event ledger.Event) error {
	rk.mu.Lock()
	defer rk.mu.Unlock()

	key := event.Base().UUID.String()

	data, err := encodeRecord(event, nil)
	if err != nil {
		return errors.WrapStorage(errors.StorageIO, "encode event", err)
	}

	if err := os.MkdirAll(rk.recordDir(key), 0o755); err != nil {
		return errors.WrapStorage(errors.StorageIO, "create record directory", err)
	}

	if err := os.WriteFile(rk.recordPath(key), data, 0o644); err != nil {
		return errors.WrapStorage(errors.StorageIO, "write event", err)
	}

	if _, err := os.Stat(rk.headPath); os.IsNotExist(err) {
		if err := os.WriteFile(rk.headPath, []byte(key), 0o644); err != nil {
			return errors.WrapStorage(errors.StorageIO, "write head pointer", err)
		}
	}

	if err := rk.linkTail(key); err != nil {
		return err
	}

	if err := os.WriteFile(rk.tailPath, []byte(key), 0o644); err != nil {
		return errors.WrapStorage(errors.StorageIO, "write tail pointer", err)
	}

	return nil
}

// linkTail rewrites the current tail event's "next" field to point at key.
func (rk *RecordKeeper) linkTail(key string) error {
	tailBytes, err := os.ReadFile(rk.tailPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.WrapStorage(errors.StorageIO, "read tail pointer", err)
	}

	tail := string(tailBytes)
	if len(tail) != 36 {
		return errors.NewStorage(errors.StorageIO, "invalid data for tail pointer")
	}

	path := rk.recordPath(tail)
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapStorage(errors.StorageIO, "read tail event", err)
	}

	var probe nextProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return errors.WrapStorage(errors.StorageIO, "decode tail event", err)
	}
	if probe.Next != nil {
		return errors.NewStorage(errors.StorageIO, "tail event already has a successor")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return errors.WrapStorage(errors.StorageIO, "decode tail event", err)
	}
	nextJSON, err := json.Marshal(key)
	if err != nil {
		return err
	}
	fields["next"] = nextJSON

	data, err = json.Marshal(fields)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapStorage(errors.StorageIO, "relink tail event", err)
	}

	return nil
}

// Read implements recordkeeper.RecordKeeper.
func (rk *RecordKeeper) Read(id uuid.UUID) (ledger.Event, error) {
	key := id.String()
	data, err := os.ReadFile(rk.recordPath(key))
	if os.IsNotExist(err) {
		return nil, errors.NewStorage(errors.StorageNotFound, "event does not exist")
	}
	if err != nil {
		return nil, errors.WrapStorage(errors.StorageIO, "read event", err)
	}

	event, err := ledger.DecodeEvent(data)
	if err != nil {
		return nil, errors.WrapStorage(errors.StorageIO, "decode event", err)
	}
	return event, nil
}

// Exists implements recordkeeper.RecordKeeper.
func (rk *RecordKeeper) Exists(id uuid.UUID) (bool, error) {
	_, err := os.Stat(rk.recordPath(id.String()))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.WrapStorage(errors.StorageIO, "stat event", err)
}

func (rk *RecordKeeper) readPointer(path string) (uuid.UUID, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, errors.WrapStorage(errors.StorageIO, "read pointer", err)
	}

	id, err := uuid.Parse(string(data))
	if err != nil {
		return uuid.Nil, false, errors.WrapStorage(errors.StorageIO, "invalid data for pointer", err)
	}
	return id, true, nil
}

// Head implements recordkeeper.RecordKeeper.
func (rk *RecordKeeper) Head() (uuid.UUID, bool, error) {
	return rk.readPointer(rk.headPath)
}

// Tail implements recordkeeper.RecordKeeper.
func (rk *RecordKeeper) Tail() (uuid.UUID, bool, error) {
	return rk.readPointer(rk.tailPath)
}

// Next implements recordkeeper.RecordKeeper.
func (rk *RecordKeeper) Next(id uuid.UUID) (uuid.UUID, bool, error) {
	key := id.String()
	data, err := os.ReadFile(rk.recordPath(key))
	if os.IsNotExist(err) {
		return uuid.Nil, false, errors.NewStorage(errors.StorageNotFound, "event does not exist")
	}
	if err != nil {
		return uuid.Nil, false, errors.WrapStorage(errors.StorageIO, "read event", err)
	}

	var probe nextProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return uuid.Nil, false, errors.WrapStorage(errors.StorageIO, "decode event", err)
	}
	if probe.Next == nil {
		return uuid.Nil, false, nil
	}

	next, err := uuid.Parse(*probe.Next)
	if err != nil {
		return uuid.Nil, false, errors.WrapStorage(errors.StorageIO, "invalid next pointer", err)
	}
	return next, true, nil
}

// ReadIntegrity implements integrity.TailReader.
func (rk *RecordKeeper) ReadIntegrity(id uuid.UUID) ([]byte, error) {
	event, err := rk.Read(id)
	if err != nil {
		return nil, err
	}
	return event.Base().Integrity, nil
}
