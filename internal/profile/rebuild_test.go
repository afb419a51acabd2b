package profile_test

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/renatkhugaev-eng/guildbot/internal/database"
	"github.com/renatkhugaev-eng/guildbot/internal/profile"
)

// fakeStore is an in-memory database.Store for exercising the service and
// rebuilder without SQLite.
type fakeStore struct {
	mu           sync.Mutex
	messages     []*database.Message
	profiles     map[string]*database.Profile
	interests    map[string]*database.Interest
	interactions map[string]*database.Interaction
	nextID       uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:     make(map[string]*database.Profile),
		interests:    make(map[string]*database.Interest),
		interactions: make(map[string]*database.Interaction),
	}
}

func profileKey(userID, chatID int64) string {
	return fmt.Sprintf("%d:%d", userID, chatID)
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) SaveMessage(_ context.Context, m *database.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	clone := *m
	clone.ID = f.nextID
	f.messages = append(f.messages, &clone)
	return nil
}

func (f *fakeStore) GetRecentMessagesInChat(_ context.Context, chatID int64, limit int) ([]*database.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*database.Message
	for i := len(f.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if f.messages[i].ChatID == chatID {
			out = append(out, f.messages[i])
		}
	}
	return out, nil
}

func (f *fakeStore) GetUserMessages(_ context.Context, chatID, userID int64, limit int) ([]*database.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*database.Message
	for _, m := range f.messages {
		if m.ChatID == chatID && m.UserID == userID && m.Content != "" {
			out = append(out, m)
		}
	}
	// Newest first, mirroring the SQL implementation.
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) GetChatUserIDs(_ context.Context, chatID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[int64]struct{})
	var ids []int64
	for _, m := range f.messages {
		if m.ChatID != chatID || m.Content == "" {
			continue
		}
		if _, ok := seen[m.UserID]; !ok {
			seen[m.UserID] = struct{}{}
			ids = append(ids, m.UserID)
		}
	}
	return ids, nil
}

func (f *fakeStore) GetChatIDs(context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[int64]struct{})
	var ids []int64
	for _, m := range f.messages {
		if _, ok := seen[m.ChatID]; !ok {
			seen[m.ChatID] = struct{}{}
			ids = append(ids, m.ChatID)
		}
	}
	return ids, nil
}

func (f *fakeStore) DeleteOldMessages(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*database.Message
	var deleted int64
	for _, m := range f.messages {
		if m.CreatedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	f.messages = kept
	return deleted, nil
}

func (f *fakeStore) RunSQLMaintenance(context.Context) error { return nil }

func (f *fakeStore) GetProfile(_ context.Context, userID, chatID int64) (*database.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[profileKey(userID, chatID)]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (f *fakeStore) SaveProfile(_ context.Context, p *database.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[profileKey(p.UserID, p.ChatID)] = p.Clone()
	return nil
}

func (f *fakeStore) DeleteChatProfileData(_ context.Context, chatID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, p := range f.profiles {
		if p.ChatID == chatID {
			delete(f.profiles, key)
		}
	}
	for key, in := range f.interests {
		if in.ChatID == chatID {
			delete(f.interests, key)
		}
	}
	for key, ia := range f.interactions {
		if ia.ChatID == chatID {
			delete(f.interactions, key)
		}
	}
	return nil
}

func (f *fakeStore) GetInterests(_ context.Context, userID, chatID int64) ([]*database.Interest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*database.Interest
	for _, in := range f.interests {
		if in.UserID == userID && in.ChatID == chatID {
			out = append(out, in)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (f *fakeStore) UpsertInterest(_ context.Context, userID, chatID int64, topic string, scoreDelta float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%d:%d:%s", userID, chatID, topic)
	in, ok := f.interests[key]
	if !ok {
		in = &database.Interest{UserID: userID, ChatID: chatID, Topic: topic}
		f.interests[key] = in
	}
	in.Score += scoreDelta
	in.MessageCount++
	return nil
}

func (f *fakeStore) UpsertInteraction(_ context.Context, chatID, userID, targetUserID int64, interactionType string, sentiment float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%d:%d:%d:%s", chatID, userID, targetUserID, interactionType)
	ia, ok := f.interactions[key]
	if !ok {
		ia = &database.Interaction{ChatID: chatID, UserID: userID, TargetUserID: targetUserID, InteractionType: interactionType}
		f.interactions[key] = ia
	}
	n := float64(ia.InteractionCount)
	ia.SentimentAvg = (ia.SentimentAvg*n + sentiment) / (n + 1)
	ia.InteractionCount++
	return nil
}

func (f *fakeStore) GetOrCreatePlayer(context.Context, int64, int64, string, string) (*database.Player, error) {
	return &database.Player{}, nil
}

func (f *fakeStore) ApplyPlayerDeltas(context.Context, int64, int64, []database.PlayerDelta) error {
	return nil
}

func (f *fakeStore) GetTopPlayers(context.Context, int64, int) ([]*database.Player, error) {
	return nil, nil
}

func (f *fakeStore) AddToTreasury(context.Context, int64, int64) error { return nil }

func (f *fakeStore) GetTreasury(context.Context, int64) (int64, error) { return 0, nil }

var _ database.Store = (*fakeStore)(nil)

func seedMessages(t *testing.T, store *fakeStore, svc *profile.Service, chatID int64) {
	t.Helper()

	texts := []string{
		"Ненавижу понедельники, бесит всё",
		"Спасибо, это круто и супер!",
		"Кто идёт завтра на футбол?",
		"Ну такое... опять дождь",
		"Отлично сыграли, люблю эту команду!",
	}
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for i, text := range texts {
		msg := &database.Message{
			ChatID:      chatID,
			UserID:      42,
			Username:    "vasya",
			FirstName:   "Вася",
			Content:     text,
			MessageType: "text",
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.SaveMessage(context.Background(), msg); err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
		if err := svc.HandleMessage(context.Background(), msg); err != nil {
			t.Fatalf("HandleMessage: %v", err)
		}
	}
}

func TestRebuildMatchesIncremental(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := profile.NewService(store, profile.DefaultLexicon(), nil)
	rebuilder := profile.NewRebuilder(store, svc, nil)

	const chatID = int64(100)
	seedMessages(t, store, svc, chatID)

	live, err := store.GetProfile(context.Background(), 42, chatID)
	if err != nil || live == nil {
		t.Fatalf("GetProfile after live updates: %v, %v", live, err)
	}

	stats, err := rebuilder.RebuildChat(context.Background(), chatID, 100)
	if err != nil {
		t.Fatalf("RebuildChat: %v", err)
	}
	if stats.UsersProcessed != 1 || stats.MessagesAnalyzed != 5 || len(stats.Errors) != 0 {
		t.Fatalf("stats = %+v, want 1 user, 5 messages, no errors", stats)
	}

	rebuilt, err := store.GetProfile(context.Background(), 42, chatID)
	if err != nil || rebuilt == nil {
		t.Fatalf("GetProfile after rebuild: %v, %v", rebuilt, err)
	}

	if rebuilt.TotalMessages != live.TotalMessages {
		t.Errorf("TotalMessages = %d, want %d", rebuilt.TotalMessages, live.TotalMessages)
	}
	floatFields := []struct {
		name       string
		live, redo float64
	}{
		{"SentimentScore", live.SentimentScore, rebuilt.SentimentScore},
		{"AvgMessageLength", live.AvgMessageLength, rebuilt.AvgMessageLength},
		{"QuestionRate", live.QuestionRate, rebuilt.QuestionRate},
		{"ExclamationRate", live.ExclamationRate, rebuilt.ExclamationRate},
		{"VocabularyRichness", live.VocabularyRichness, rebuilt.VocabularyRichness},
		{"FemaleScore", live.FemaleScore, rebuilt.FemaleScore},
	}
	for _, f := range floatFields {
		if math.Abs(f.live-f.redo) > 1e-9 {
			t.Errorf("%s: rebuilt %v, live %v", f.name, f.redo, f.live)
		}
	}
	if rebuilt.ActivityLevel != live.ActivityLevel {
		t.Errorf("ActivityLevel = %q, want %q", rebuilt.ActivityLevel, live.ActivityLevel)
	}
	if rebuilt.CommunicationStyle != live.CommunicationStyle {
		t.Errorf("CommunicationStyle = %q, want %q", rebuilt.CommunicationStyle, live.CommunicationStyle)
	}
}

func TestRebuildAllAccumulates(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := profile.NewService(store, profile.DefaultLexicon(), nil)
	rebuilder := profile.NewRebuilder(store, svc, nil)

	seedMessages(t, store, svc, 100)
	seedMessages(t, store, svc, 200)

	stats, err := rebuilder.RebuildAll(context.Background(), 100)
	if err != nil {
		t.Fatalf("RebuildAll: %v", err)
	}
	if stats.UsersProcessed != 2 {
		t.Errorf("UsersProcessed = %d, want 2", stats.UsersProcessed)
	}
	if stats.MessagesAnalyzed != 10 {
		t.Errorf("MessagesAnalyzed = %d, want 10", stats.MessagesAnalyzed)
	}
	if stats.ProfilesCreated != 2 {
		t.Errorf("ProfilesCreated = %d, want 2", stats.ProfilesCreated)
	}
}

func TestHandleMessageSkipsNonTextForUnknownUser(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := profile.NewService(store, profile.DefaultLexicon(), nil)

	msg := &database.Message{
		ChatID:      100,
		UserID:      7,
		MessageType: "sticker",
		CreatedAt:   time.Now(),
	}
	if err := svc.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	p, err := store.GetProfile(context.Background(), 7, 100)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p != nil {
		t.Errorf("profile created for non-text first message: %+v", p)
	}
}

func TestHandleMessageRecordsInterestsAndInteractions(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := profile.NewService(store, profile.DefaultLexicon(), nil)

	msg := &database.Message{
		ChatID:        100,
		UserID:        7,
		FirstName:     "Петя",
		Content:       "Отлично сыграли в футбол, люблю этот спорт!",
		MessageType:   "text",
		ReplyToUserID: 8,
		CreatedAt:     time.Now(),
	}
	if err := svc.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	interests, err := store.GetInterests(context.Background(), 7, 100)
	if err != nil {
		t.Fatalf("GetInterests: %v", err)
	}
	if len(interests) == 0 {
		t.Fatal("expected at least one interest for sport-themed message")
	}

	if len(store.interactions) != 1 {
		t.Fatalf("interactions = %d, want 1", len(store.interactions))
	}
	for _, ia := range store.interactions {
		if ia.TargetUserID != 8 || ia.InteractionCount != 1 {
			t.Errorf("interaction = %+v, want target 8 count 1", ia)
		}
	}
}
