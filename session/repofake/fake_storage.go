package fakestorage

import (
	"errors"
	"sync"

	"github.com/jrsteele09/go-news-portal/session"
)

var _ session.Storage = (*FakeStorage)(nil)

// ErrInjected is returned by operations switched to fail.
var ErrInjected = errors.New("injected storage failure")

// FakeStorage is an in-memory session.Storage with switchable failures.
type FakeStorage struct {
	values map[string]string
	lock   sync.RWMutex

	FailGet    bool
	FailPut    bool
	FailDelete bool
	PanicGet   bool
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		values: make(map[string]string),
	}
}

func (fs *FakeStorage) Get(key string) (string, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	if fs.PanicGet {
		panic("fake storage: get")
	}
	if fs.FailGet {
		return "", ErrInjected
	}
	value, ok := fs.values[key]
	if !ok {
		return "", session.ErrNotFound
	}
	return value, nil
}

func (fs *FakeStorage) Put(values map[string]string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.FailPut {
		return ErrInjected
	}
	for k, v := range values {
		fs.values[k] = v
	}
	return nil
}

func (fs *FakeStorage) Delete(keys ...string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.FailDelete {
		return ErrInjected
	}
	for _, k := range keys {
		delete(fs.values, k)
	}
	return nil
}

// Set writes a single raw value, bypassing failure switches.
func (fs *FakeStorage) Set(key, value string) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.values[key] = value
}

// Len returns the number of stored keys.
func (fs *FakeStorage) Len() int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return len(fs.values)
}
