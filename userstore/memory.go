package userstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
)

type (
	// Memory is a non-durable Directory for tests and --in-memory serve
	// mode. Records live in a bigcache keyed by id, with secondary index
	// entries for email, session id and reset token.
	//
	// Records vanish when the process exits or the life window passes,
	// which is fine for the development loop and useless for production.
	Memory struct {
		mu     sync.Mutex
		nextID int64
		cache  *bigcache.BigCache
	}
)

func InMemory() *Memory {
	cache, _ := bigcache.NewBigCache(bigcache.Config{
		Shards:             64,
		LifeWindow:         24 * time.Hour,
		MaxEntriesInWindow: 1000,
		MaxEntrySize:       1024,
	})
	return &Memory{cache: cache}
}

func (m *Memory) FindOne(ctx context.Context, f Filter) (User, error) {
	if !f.valid() {
		return User{}, UserNotFound{Filter: f}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findOne(f)
}

func (m *Memory) Create(ctx context.Context, email string, hashedPassword []byte) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.findOne(Filter{Email: email})
	if err == nil {
		return User{}, EmailTaken{Email: email}
	}
	m.nextID++
	u := User{ID: m.nextID, Email: email, HashedPassword: hashedPassword}
	err = m.put(u)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (m *Memory) Update(ctx context.Context, id int64, ch Changes) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.load(id)
	if err != nil {
		return err
	}
	m.dropIndexes(u)
	if ch.HashedPassword != nil {
		u.HashedPassword = *ch.HashedPassword
	}
	if ch.SessionID != nil {
		u.SessionID = *ch.SessionID
	}
	if ch.ResetToken != nil {
		u.ResetToken = *ch.ResetToken
	}
	return m.put(u)
}

func (m *Memory) findOne(f Filter) (User, error) {
	var key string
	switch {
	case f.Email != "":
		key = "email/" + f.Email
	case f.SessionID != "":
		key = "session/" + f.SessionID
	case f.ResetToken != "":
		key = "reset/" + f.ResetToken
	}
	buf, err := m.cache.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return User{}, UserNotFound{Filter: f}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to read index entry, cause %w", err)
	}
	id, err := strconv.ParseInt(string(buf), 10, 64)
	if err != nil {
		return User{}, fmt.Errorf("corrupted index entry %v, cause %w", key, err)
	}
	u, err := m.load(id)
	if err != nil {
		return User{}, UserNotFound{Filter: f}
	}
	return u, nil
}

func (m *Memory) load(id int64) (User, error) {
	buf, err := m.cache.Get(idKey(id))
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return User{}, UserNotFound{}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to read user record, cause %w", err)
	}
	var u User
	err = json.Unmarshal(buf, &u)
	if err != nil {
		return User{}, fmt.Errorf("corrupted user record %v, cause %w", id, err)
	}
	return u, nil
}

func (m *Memory) put(u User) error {
	buf, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("unable to encode user record, cause %w", err)
	}
	err = m.cache.Set(idKey(u.ID), buf)
	if err != nil {
		return fmt.Errorf("unable to store user record, cause %w", err)
	}
	id := []byte(strconv.FormatInt(u.ID, 10))
	m.cache.Set("email/"+u.Email, id)
	if u.SessionID != "" {
		m.cache.Set("session/"+u.SessionID, id)
	}
	if u.ResetToken != "" {
		m.cache.Set("reset/"+u.ResetToken, id)
	}
	return nil
}

func (m *Memory) dropIndexes(u User) {
	if u.SessionID != "" {
		m.cache.Delete("session/" + u.SessionID)
	}
	if u.ResetToken != "" {
		m.cache.Delete("reset/" + u.ResetToken)
	}
}

func idKey(id int64) string {
	return "id/" + strconv.FormatInt(id, 10)
}
