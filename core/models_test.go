package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewNoteID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewNoteID()
		if id == "" {
			t.Fatal("NewNoteID() returned empty id")
		}
		if seen[id] {
			t.Fatalf("NewNoteID() returned duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestNewBlobID(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := NewBlobID("note-1", 2, createdAt)

	if !strings.HasPrefix(string(id), "note-1_2_") {
		t.Errorf("NewBlobID() = %q, want prefix note-1_2_", id)
	}

	// Same note and index at different instants must differ, down to a
	// single nanosecond apart.
	other := NewBlobID("note-1", 2, createdAt.Add(time.Nanosecond))
	if id == other {
		t.Errorf("NewBlobID() collided across timestamps: %q", id)
	}
}

func TestFingerprint(t *testing.T) {
	t.Run("same pair produces same fingerprint", func(t *testing.T) {
		if Fingerprint("title", "https://a.example") != Fingerprint("title", "https://a.example") {
			t.Error("Fingerprint() not deterministic")
		}
	})

	t.Run("different pairs differ", func(t *testing.T) {
		a := Fingerprint("title", "https://a.example")
		b := Fingerprint("title", "https://b.example")
		if a == b {
			t.Error("Fingerprint() collided on different urls")
		}
	})

	t.Run("boundary is unambiguous", func(t *testing.T) {
		// ("ab", "c") and ("a", "bc") must not hash identically.
		if Fingerprint("ab", "c") == Fingerprint("a", "bc") {
			t.Error("Fingerprint() ambiguous across the title/url boundary")
		}
	})
}

func TestBackupFrequency_RoundTrip(t *testing.T) {
	for _, f := range []BackupFrequency{
		FrequencyManual, FrequencyEverySave, FrequencyDaily, FrequencyWeekly,
	} {
		parsed, err := ParseBackupFrequency(f.String())
		if err != nil {
			t.Fatalf("ParseBackupFrequency(%q) failed: %v", f.String(), err)
		}
		if parsed != f {
			t.Errorf("ParseBackupFrequency(%q) = %v, want %v", f.String(), parsed, f)
		}
	}
}

func TestParseBackupFrequency_Invalid(t *testing.T) {
	if _, err := ParseBackupFrequency("hourly"); !errors.Is(err, ErrInvalidFrequency) {
		t.Errorf("ParseBackupFrequency(hourly) error = %v, want ErrInvalidFrequency", err)
	}
}

func TestDefaultBackupSettings(t *testing.T) {
	cfg := DefaultBackupSettings()
	if cfg.AutoBackup {
		t.Error("default settings should not enable auto backup")
	}
	if cfg.Frequency != FrequencyEverySave {
		t.Errorf("default frequency = %v, want FrequencyEverySave", cfg.Frequency)
	}
	if !cfg.LastBackupAt.IsZero() {
		t.Error("default settings should carry a zero LastBackupAt")
	}
}
