package auditlog

import (
	"path/filepath"
	"testing"
)

func TestFileLog_Read(t *testing.T) {
	N := 10
	var offset uint64 = 5

	dir := t.TempDir()
	fl, err := InitFileLog(filepath.Join(dir, "audit.log"), filepath.Join(dir, "audit.lock"))
	if err != nil {
		t.Error(err)
	}
	defer fl.Close()

	kinds := []string{KindWorkflowOpened, KindPreviewGenerated, KindConsentSubmitted}
	for i := 0; i < N; i++ {
		event := Event{
			Kind:          kinds[i%len(kinds)],
			ApplicationID: "app-1",
		}
		saved, err := fl.Append(event)
		if err != nil {
			t.Error(err)
		}
		if saved.ID == "" {
			t.Error("expected event to be assigned an id")
		}
		if saved.Offset != uint64(i) {
			t.Errorf("expected offset %d, actual offset %d", i, saved.Offset)
		}
	}

	events, err := fl.Read(offset)
	if err != nil {
		t.Error(err)
	}
	if len(events) != N-int(offset) {
		t.Errorf("expected %d events, actual %d", N-int(offset), len(events))
	}
	for i, event := range events {
		if event.Offset != offset+uint64(i) {
			t.Errorf("expected offset %d, actual offset %d", offset+uint64(i), event.Offset)
		}
		if event.ApplicationID != "app-1" {
			t.Errorf("unexpected application id %q", event.ApplicationID)
		}
	}
}
