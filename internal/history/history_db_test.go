package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/omrstudio/pilotctl/internal/api"
	"github.com/omrstudio/pilotctl/internal/types"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "pilotctl.db"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestRecordAndLoadCalls(t *testing.T) {
	m := newManager(t)

	base := time.Now().Add(-time.Minute)
	records := []api.CallRecord{
		{TS: base, RequestID: "r1", Action: "auth.login", Status: 200, DurationMS: 120},
		{TS: base.Add(time.Second), RequestID: "r2", Action: "dados.save", Status: 0, ErrorCode: api.CodeRequestTimeout, DurationMS: 20000},
	}
	for _, rec := range records {
		if err := m.RecordCall(rec); err != nil {
			t.Fatalf("RecordCall: %v", err)
		}
	}

	got, err := m.RecentCalls(10)
	if err != nil {
		t.Fatalf("RecentCalls: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	// Newest first.
	if got[0].RequestID != "r2" || got[0].ErrorCode != api.CodeRequestTimeout {
		t.Errorf("unexpected first record %+v", got[0])
	}
	if got[1].Action != "auth.login" || got[1].Status != 200 {
		t.Errorf("unexpected second record %+v", got[1])
	}

	count, err := m.CallCount()
	if err != nil || count != 2 {
		t.Errorf("CallCount = %d, %v", count, err)
	}

	if err := m.ClearCalls(); err != nil {
		t.Fatalf("ClearCalls: %v", err)
	}
	if count, _ := m.CallCount(); count != 0 {
		t.Errorf("expected empty call log, got %d", count)
	}
}

func TestRecentCallsLimit(t *testing.T) {
	m := newManager(t)
	for i := 0; i < 5; i++ {
		rec := api.CallRecord{TS: time.Now(), RequestID: "r", Action: "sim.chat"}
		if err := m.RecordCall(rec); err != nil {
			t.Fatalf("RecordCall: %v", err)
		}
	}
	got, err := m.RecentCalls(3)
	if err != nil {
		t.Fatalf("RecentCalls: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected limit to apply, got %d", len(got))
	}
}

func TestChatTranscriptPerUser(t *testing.T) {
	m := newManager(t)

	msgs := []types.ChatMessage{
		types.NewChatMessage("Você", types.ChatRoleUser, "tem pão?"),
		types.NewChatMessage("Josi", types.ChatRoleAgent, "Temos sim!"),
	}
	for _, msg := range msgs {
		if err := m.SaveChatMessage("u1", msg); err != nil {
			t.Fatalf("SaveChatMessage: %v", err)
		}
	}
	if err := m.SaveChatMessage("u2", types.NewChatMessage("Você", types.ChatRoleUser, "oi")); err != nil {
		t.Fatalf("SaveChatMessage: %v", err)
	}

	got, err := m.LoadChat("u1")
	if err != nil {
		t.Fatalf("LoadChat: %v", err)
	}
	if len(got) != 2 || got[0].Message != "tem pão?" || got[1].Role != types.ChatRoleAgent {
		t.Errorf("unexpected transcript %+v", got)
	}

	if err := m.ClearChat("u1"); err != nil {
		t.Fatalf("ClearChat: %v", err)
	}
	if got, _ := m.LoadChat("u1"); len(got) != 0 {
		t.Errorf("expected cleared transcript, got %+v", got)
	}
	if got, _ := m.LoadChat("u2"); len(got) != 1 {
		t.Errorf("other user's transcript must survive, got %+v", got)
	}
}

func TestSaveChatMessageIdempotentOnID(t *testing.T) {
	m := newManager(t)
	msg := types.NewChatMessage("Você", types.ChatRoleUser, "oi")
	if err := m.SaveChatMessage("u1", msg); err != nil {
		t.Fatalf("SaveChatMessage: %v", err)
	}
	if err := m.SaveChatMessage("u1", msg); err != nil {
		t.Fatalf("second SaveChatMessage: %v", err)
	}
	got, err := m.LoadChat("u1")
	if err != nil {
		t.Fatalf("LoadChat: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected deduplicated message, got %d", len(got))
	}
}
