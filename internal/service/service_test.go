package service

import (
	"context"
	"errors"
	"sync"

	"private_chat/internal/domain"
	pkgerrors "private_chat/pkg/errors"
	"private_chat/pkg/logger"
)

// Фейки для тестов сервисного слоя

type fakeBindingRepo struct {
	mu       sync.Mutex
	bindings map[string]string
	setErr   error
}

func newFakeBindingRepo() *fakeBindingRepo {
	return &fakeBindingRepo{bindings: map[string]string{}}
}

func (f *fakeBindingRepo) Register(_ context.Context, userID, connectionID string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bindings[userID] = connectionID
	return nil
}

func (f *fakeBindingRepo) Lookup(_ context.Context, userID string) (*domain.UserConnectionBinding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	connectionID, ok := f.bindings[userID]
	if !ok {
		return nil, pkgerrors.ErrBindingNotFound
	}
	return &domain.UserConnectionBinding{UserID: userID, ConnectionID: connectionID}, nil
}

type fakeMessageRepo struct {
	mu        sync.Mutex
	stored    []*domain.Message
	appendErr error
	nextID    int64
}

func (f *fakeMessageRepo) Append(_ context.Context, message *domain.Message) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	message.ID = f.nextID
	f.stored = append(f.stored, message)
	return nil
}

func (f *fakeMessageRepo) Recent(_ context.Context, limit int) ([]*domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.stored) {
		limit = len(f.stored)
	}
	return f.stored[:limit], nil
}

type broadcastCall struct {
	group   string
	payload any
}

type fakeGroups struct {
	mu         sync.Mutex
	members    map[string]map[string]bool
	broadcasts []broadcastCall
}

func newFakeGroups() *fakeGroups {
	return &fakeGroups{members: map[string]map[string]bool{}}
}

func (f *fakeGroups) Add(connectionID, groupID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.members[groupID] == nil {
		f.members[groupID] = map[string]bool{}
	}
	f.members[groupID][connectionID] = true
}

func (f *fakeGroups) Broadcast(groupID string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, broadcastCall{group: groupID, payload: payload})
}

func (f *fakeGroups) group(groupID string) map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members[groupID]
}

var testLog = logger.New("error")

var errBoom = errors.New("boom")
