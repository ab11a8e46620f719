// Package snapshot saves reflected objects as YAML documents and loads them
// back into existing values.
package snapshot

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/quasilyte/gdata/v2"

	"github.com/sugawarayuuta/mirror"
)

type (
	// Backend stores properties of named objects.
	Backend interface {
		SaveObjectProp(objectKey, propKey string, data []byte) error
		LoadObjectProp(objectKey, propKey string) ([]byte, error)
		ObjectPropExists(objectKey, propKey string) bool
	}
	// Store keeps snapshots in a Backend, one object per reflected type and
	// one property per snapshot id.
	Store struct {
		backend Backend
	}
)

// ErrNotFound is returned by Load for an unknown id.
var ErrNotFound = errors.New("snapshot: not found")

// Open returns a Store in the per-user data directory of appName.
func Open(appName string) (*Store, error) {
	mgr, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, errors.Wrapf(err, "open data directory of %s", appName)
	}
	return New(mgr), nil
}

func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// objectKey names the object holding the snapshots of the type of ref: its
// permanent name if registered, its RTTI name otherwise.
func objectKey(ref mirror.Reflection) (string, error) {
	rt := ref.GetReflectedType()
	if rt == nil {
		return "", errors.WithStack(mirror.ErrInvalid)
	}
	name := rt.PermanentName()
	if name == "" {
		name = rt.RttiName()
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		}
		return '_'
	}, name), nil
}

// Save stores ref under a new id.
func (st *Store) Save(ref mirror.Reflection) (string, error) {
	id := uuid.NewString()
	if err := st.SaveAs(ref, id); err != nil {
		return "", err
	}
	return id, nil
}

// SaveAs stores ref under id, replacing what was there.
func (st *Store) SaveAs(ref mirror.Reflection, id string) error {
	key, err := objectKey(ref)
	if err != nil {
		return err
	}
	data, err := Encode(ref)
	if err != nil {
		return err
	}
	if err := st.backend.SaveObjectProp(key, id, data); err != nil {
		return errors.Wrapf(err, "save %s/%s", key, id)
	}
	return nil
}

// Load decodes the snapshot id into ref.
func (st *Store) Load(id string, ref mirror.Reflection) error {
	key, err := objectKey(ref)
	if err != nil {
		return err
	}
	if !st.backend.ObjectPropExists(key, id) {
		return errors.Wrapf(ErrNotFound, "%s/%s", key, id)
	}
	data, err := st.backend.LoadObjectProp(key, id)
	if err != nil {
		return errors.Wrapf(err, "load %s/%s", key, id)
	}
	return errors.Wrapf(Decode(data, ref), "decode %s/%s", key, id)
}

// Exists reports whether a snapshot id of the type of ref exists.
func (st *Store) Exists(ref mirror.Reflection, id string) bool {
	key, err := objectKey(ref)
	return err == nil && st.backend.ObjectPropExists(key, id)
}
