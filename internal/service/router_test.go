package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"private_chat/internal/domain"
)

type routerFixture struct {
	bindings *fakeBindingRepo
	messages *fakeMessageRepo
	groups   *fakeGroups
	router   RouterService
}

func newRouterFixture() *routerFixture {
	bindings := newFakeBindingRepo()
	messages := &fakeMessageRepo{}
	groups := newFakeGroups()

	registry := NewRegistryService(bindings, testLog)
	rooms := NewRoomService(registry, groups, "_", testLog)
	router := NewRouterService(registry, rooms, messages, groups, 100, testLog)

	return &routerFixture{
		bindings: bindings,
		messages: messages,
		groups:   groups,
		router:   router,
	}
}

func frame(event string, data any) []byte {
	raw, _ := json.Marshal(data)
	out, _ := json.Marshal(domain.Envelope{Event: event, Data: raw})
	return out
}

func TestRouter_Register(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture()
	ctx := context.Background()

	out := f.router.Dispatch(ctx, "c1", frame(domain.EventRegister, domain.RegisterPayload{UserID: "alice"}))

	req.NotNil(out)
	req.Equal(domain.EventRegistered, out.Event)
	req.Equal(domain.RegisteredPayload{Success: true, UserID: "alice"}, out.Data)
	req.Equal("c1", f.bindings.bindings["alice"])
}

func TestRouter_RegisterFailure(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture()
	f.bindings.setErr = errBoom

	out := f.router.Dispatch(context.Background(), "c1", frame(domain.EventRegister, domain.RegisterPayload{UserID: "alice"}))

	req.NotNil(out)
	req.Equal(domain.EventRegistered, out.Event)
	payload := out.Data.(domain.RegisteredPayload)
	req.False(payload.Success)
	req.NotEmpty(payload.Error)
}

func TestRouter_JoinRoom(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture()
	ctx := context.Background()

	f.router.Dispatch(ctx, "c1", frame(domain.EventRegister, domain.RegisterPayload{UserID: "alice"}))
	f.router.Dispatch(ctx, "c2", frame(domain.EventRegister, domain.RegisterPayload{UserID: "bob"}))

	out := f.router.Dispatch(ctx, "c1", frame(domain.EventJoin, domain.JoinPayload{Users: []string{"alice", "bob"}}))

	req.NotNil(out)
	req.Equal(domain.EventRoomJoined, out.Event)
	req.Equal(domain.RoomJoinedPayload{Room: "alice_bob", Users: []string{"alice", "bob"}}, out.Data)
	req.True(f.groups.group("alice_bob")["c1"])
	req.True(f.groups.group("alice_bob")["c2"])
}

func TestRouter_JoinSelfRejected(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture()

	out := f.router.Dispatch(context.Background(), "c1", frame(domain.EventJoin, domain.JoinPayload{Users: []string{"alice", "alice"}}))

	req.NotNil(out)
	req.Equal(domain.EventRoomError, out.Event)
}

func TestRouter_SendPersistsAndBroadcasts(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture()
	ctx := context.Background()

	f.router.Dispatch(ctx, "c1", frame(domain.EventRegister, domain.RegisterPayload{UserID: "alice"}))
	f.router.Dispatch(ctx, "c2", frame(domain.EventRegister, domain.RegisterPayload{UserID: "bob"}))

	// join явно не вызывался: send подразумевает join
	out := f.router.Dispatch(ctx, "c1", frame(domain.EventMessage, domain.SendPayload{From: "alice", To: "bob", Message: "hi"}))
	req.Nil(out)

	req.Len(f.messages.stored, 1)
	stored := f.messages.stored[0]
	req.Equal("alice", stored.From)
	req.Equal("bob", stored.To)
	req.Equal("hi", stored.Content)
	req.Equal("alice_bob", stored.Room)
	req.False(stored.CreatedAt.IsZero())

	req.Len(f.groups.broadcasts, 1)
	req.Equal("alice_bob", f.groups.broadcasts[0].group)
	delivered := f.groups.broadcasts[0].payload.(domain.Outbound)
	req.Equal(domain.EventPrivateMessage, delivered.Event)
	req.Equal(stored, delivered.Data)

	// Обе стороны, включая соединение отправителя, в группе доставки
	req.True(f.groups.group("alice_bob")["c1"])
	req.True(f.groups.group("alice_bob")["c2"])
}

func TestRouter_SendFailedPersistenceNeverBroadcasts(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture()
	ctx := context.Background()

	f.router.Dispatch(ctx, "c1", frame(domain.EventRegister, domain.RegisterPayload{UserID: "alice"}))
	f.messages.appendErr = errBoom

	out := f.router.Dispatch(ctx, "c1", frame(domain.EventMessage, domain.SendPayload{From: "alice", To: "bob", Message: "hi"}))

	req.NotNil(out)
	req.Equal(domain.EventMessageError, out.Event)
	req.Empty(f.groups.broadcasts)
	req.Empty(f.messages.stored)
}

func TestRouter_SendToOfflineUserStillPersists(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture()
	ctx := context.Background()

	f.router.Dispatch(ctx, "c1", frame(domain.EventRegister, domain.RegisterPayload{UserID: "alice"}))

	// bob оффлайн: сообщение сохраняется, ошибки доставки нет
	out := f.router.Dispatch(ctx, "c1", frame(domain.EventMessage, domain.SendPayload{From: "alice", To: "bob", Message: "hi"}))
	req.Nil(out)
	req.Len(f.messages.stored, 1)

	recent, err := f.router.History(ctx, 10)
	req.NoError(err)
	req.Len(recent, 1)
	req.Equal("hi", recent[0].Content)
}

func TestRouter_SendToSelfRejected(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture()

	out := f.router.Dispatch(context.Background(), "c1", frame(domain.EventMessage, domain.SendPayload{From: "alice", To: "alice", Message: "hi"}))

	req.NotNil(out)
	req.Equal(domain.EventMessageError, out.Event)
	req.Empty(f.messages.stored)
}

func TestRouter_MalformedFrame(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture()

	for _, raw := range [][]byte{
		[]byte("not json"),
		frame("unknown:event", nil),
		frame(domain.EventRegister, map[string]string{}),
		frame(domain.EventJoin, domain.JoinPayload{Users: []string{"alice"}}),
		frame(domain.EventMessage, domain.SendPayload{From: "alice", To: "bob"}),
	} {
		out := f.router.Dispatch(context.Background(), "c1", raw)
		req.NotNil(out)
		req.Equal(domain.EventMessageError, out.Event)
	}

	req.Empty(f.messages.stored)
	req.Empty(f.groups.broadcasts)
}

func TestRouter_ConcurrentCrossSends(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture()
	ctx := context.Background()

	f.router.Dispatch(ctx, "c1", frame(domain.EventRegister, domain.RegisterPayload{UserID: "alice"}))
	f.router.Dispatch(ctx, "c2", frame(domain.EventRegister, domain.RegisterPayload{UserID: "bob"}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			f.router.Dispatch(ctx, "c1", frame(domain.EventMessage, domain.SendPayload{From: "alice", To: "bob", Message: fmt.Sprintf("a%d", i)}))
		}(i)
		go func(i int) {
			defer wg.Done()
			f.router.Dispatch(ctx, "c2", frame(domain.EventMessage, domain.SendPayload{From: "bob", To: "alice", Message: fmt.Sprintf("b%d", i)}))
		}(i)
	}
	wg.Wait()

	// Порядок между отправителями не гарантируется, но все сообщения
	// сохранены и разосланы
	req.Len(f.messages.stored, 20)
	req.Len(f.groups.broadcasts, 20)
	for _, b := range f.groups.broadcasts {
		req.Equal("alice_bob", b.group)
	}
}

func TestRouter_HistoryClampsLimit(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		f.router.Dispatch(ctx, "c1", frame(domain.EventMessage, domain.SendPayload{From: "alice", To: "bob", Message: fmt.Sprintf("m%d", i)}))
	}

	recent, err := f.router.History(ctx, 2)
	req.NoError(err)
	req.Len(recent, 2)

	// Невалидный limit заменяется настроенным максимумом
	recent, err = f.router.History(ctx, -1)
	req.NoError(err)
	req.Len(recent, 5)
}
