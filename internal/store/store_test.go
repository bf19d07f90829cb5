package store_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"etymap/internal/store"
	"etymap/internal/testsupport"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return testsupport.MustOpenStore(t, testsupport.NewConfig(t))
}

func TestSaveAndListWords(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	first, err := st.SaveWord(ctx, "alice", "human", `{"current":{"word":"human"}}`)
	if err != nil {
		t.Fatalf("SaveWord: %v", err)
	}
	if first.ID == "" || first.Word != "human" || first.UserID != "alice" {
		t.Errorf("saved word = %+v", first)
	}
	if first.RecordJSON == "" {
		t.Error("record json not persisted")
	}

	if _, err := st.SaveWord(ctx, "alice", "water", ""); err != nil {
		t.Fatalf("SaveWord second: %v", err)
	}

	words, err := st.ListSavedWords(ctx, "alice")
	if err != nil {
		t.Fatalf("ListSavedWords: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("collection size = %d, want 2", len(words))
	}

	// Another user's collection is separate.
	others, err := st.ListSavedWords(ctx, "bob")
	if err != nil {
		t.Fatalf("ListSavedWords bob: %v", err)
	}
	if len(others) != 0 {
		t.Errorf("bob's collection = %d entries, want 0", len(others))
	}
}

func TestSaveWordDuplicate(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	if _, err := st.SaveWord(ctx, "alice", "human", ""); err != nil {
		t.Fatalf("SaveWord: %v", err)
	}
	_, err := st.SaveWord(ctx, "alice", "human", "")
	if !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}

	// Same word under a different user is fine.
	if _, err := st.SaveWord(ctx, "bob", "human", ""); err != nil {
		t.Errorf("SaveWord other user: %v", err)
	}
}

func TestSaveWordRejectsEmpty(t *testing.T) {
	st := newStore(t)
	if _, err := st.SaveWord(context.Background(), "alice", "   ", ""); err == nil {
		t.Error("blank word accepted")
	}
}

func TestRemoveSavedWordIsUserScoped(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	saved, err := st.SaveWord(ctx, "alice", "human", "")
	if err != nil {
		t.Fatalf("SaveWord: %v", err)
	}

	if err := st.RemoveSavedWord(ctx, "bob", saved.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("cross-user remove err = %v, want ErrNotFound", err)
	}
	if err := st.RemoveSavedWord(ctx, "alice", saved.ID); err != nil {
		t.Fatalf("RemoveSavedWord: %v", err)
	}
	if err := st.RemoveSavedWord(ctx, "alice", saved.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second remove err = %v, want ErrNotFound", err)
	}
}

func TestCreateGroupEnrollsCreator(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	group, err := st.CreateGroup(ctx, "etymology club", "alice")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if len(group.JoinCode) != 6 {
		t.Errorf("join code = %q, want 6 characters", group.JoinCode)
	}
	if strings.ContainsAny(group.JoinCode, "01IO") {
		t.Errorf("join code %q uses a confusable character", group.JoinCode)
	}

	member, err := st.IsMember(ctx, group.ID, "alice")
	if err != nil {
		t.Fatalf("IsMember: %v", err)
	}
	if !member {
		t.Error("creator not enrolled")
	}

	groups, err := st.GroupsForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("GroupsForUser: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != group.ID {
		t.Errorf("groups = %+v", groups)
	}
}

func TestJoinGroupByCode(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	group, err := st.CreateGroup(ctx, "etymology club", "alice")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	// Join codes are case-insensitive on input.
	joined, err := st.JoinGroup(ctx, strings.ToLower(group.JoinCode), "bob")
	if err != nil {
		t.Fatalf("JoinGroup: %v", err)
	}
	if joined.ID != group.ID {
		t.Errorf("joined group %s, want %s", joined.ID, group.ID)
	}

	if _, err := st.JoinGroup(ctx, group.JoinCode, "bob"); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("rejoin err = %v, want ErrDuplicate", err)
	}
	if _, err := st.JoinGroup(ctx, "XXXXXX", "carol"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("bad code err = %v, want ErrNotFound", err)
	}

	members, err := st.GroupMembers(ctx, group.ID)
	if err != nil {
		t.Fatalf("GroupMembers: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("members = %d, want 2", len(members))
	}
}

func TestLeaveGroup(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	group, err := st.CreateGroup(ctx, "etymology club", "alice")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if err := st.LeaveGroup(ctx, group.ID, "alice"); err != nil {
		t.Fatalf("LeaveGroup: %v", err)
	}
	if err := st.LeaveGroup(ctx, group.ID, "alice"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second leave err = %v, want ErrNotFound", err)
	}
}

func TestMessagesRequireMembership(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	group, err := st.CreateGroup(ctx, "etymology club", "alice")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	if _, err := st.AppendMessage(ctx, group.ID, "mallory", "hello"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("non-member post err = %v, want ErrNotFound", err)
	}

	msg, err := st.AppendMessage(ctx, group.ID, "alice", "hello")
	if err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if msg.IsSharedWord || msg.Content != "hello" {
		t.Errorf("message = %+v", msg)
	}

	if _, err := st.AppendMessage(ctx, group.ID, "alice", "  "); err == nil {
		t.Error("blank message accepted")
	}
}

func TestShareWord(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	group, err := st.CreateGroup(ctx, "etymology club", "alice")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	msg, err := st.ShareWord(ctx, group.ID, "alice", "human", `{"current":{"word":"human"}}`)
	if err != nil {
		t.Fatalf("ShareWord: %v", err)
	}
	if !msg.IsSharedWord {
		t.Error("shared flag not set")
	}
	if msg.Content != "human" || msg.WordJSON == "" {
		t.Errorf("message = %+v", msg)
	}
}

func TestMessagesLimitKeepsMostRecentInSendOrder(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	group, err := st.CreateGroup(ctx, "etymology club", "alice")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	for _, content := range []string{"one", "two", "three", "four"} {
		if _, err := st.AppendMessage(ctx, group.ID, "alice", content); err != nil {
			t.Fatalf("AppendMessage %q: %v", content, err)
		}
	}

	all, err := st.Messages(ctx, group.ID, 0)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(all) != 4 || all[0].Content != "one" || all[3].Content != "four" {
		t.Errorf("full history out of order: %+v", all)
	}

	recent, err := st.Messages(ctx, group.ID, 2)
	if err != nil {
		t.Fatalf("Messages limited: %v", err)
	}
	if len(recent) != 2 || recent[0].Content != "three" || recent[1].Content != "four" {
		got := make([]string, len(recent))
		for i, m := range recent {
			got[i] = m.Content
		}
		t.Errorf("limited history = %v, want [three four]", got)
	}
}

func TestTranslationCache(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	cache := st.Translations()

	if _, ok, err := cache.Get(ctx, "fr", "earth"); err != nil || ok {
		t.Fatalf("empty cache Get = ok=%v err=%v", ok, err)
	}

	if err := cache.Put(ctx, "fr", "earth", "terre"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := cache.Get(ctx, "fr", "earth")
	if err != nil || !ok || got != "terre" {
		t.Fatalf("Get = %q ok=%v err=%v", got, ok, err)
	}

	// Upsert replaces the prior entry.
	if err := cache.Put(ctx, "fr", "earth", "la terre"); err != nil {
		t.Fatalf("Put upsert: %v", err)
	}
	got, _, _ = cache.Get(ctx, "fr", "earth")
	if got != "la terre" {
		t.Errorf("after upsert = %q", got)
	}

	// Locale is part of the key.
	if _, ok, _ := cache.Get(ctx, "uk", "earth"); ok {
		t.Error("translation leaked across locales")
	}
}

func TestStoreHealth(t *testing.T) {
	st := newStore(t)
	health, err := st.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.IntegrityCheck {
		t.Errorf("health = %+v", health)
	}
	if st.Path() == "" {
		t.Error("empty store path")
	}
}
