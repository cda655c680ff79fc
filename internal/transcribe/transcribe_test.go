package transcribe

import (
	"encoding/json"
	"testing"
)

func strptr(s string) *string { return &s }

func TestMergeSpeakers(t *testing.T) {
	words := []Word{
		{Start: 0.0, End: 1.0, Text: "hello"},
		{Start: 1.0, End: 2.0, Text: "there"},
		{Start: 5.0, End: 6.0, Text: "stranded"},
	}
	segments := []SpeakerSegment{
		{Speaker: "SPEAKER_00", Start: 0.0, End: 1.2},
		{Speaker: "SPEAKER_01", Start: 1.2, End: 3.0},
	}

	merged := MergeSpeakers(words, segments)
	if merged[0].Speaker == nil || *merged[0].Speaker != "SPEAKER_00" {
		t.Errorf("word 0 speaker = %v, want SPEAKER_00", merged[0].Speaker)
	}
	if merged[1].Speaker == nil || *merged[1].Speaker != "SPEAKER_01" {
		t.Errorf("word 1 speaker = %v, want SPEAKER_01", merged[1].Speaker)
	}
	if merged[2].Speaker != nil {
		t.Errorf("word outside all segments got speaker %q", *merged[2].Speaker)
	}
}

func TestMergeSpeakersFirstMatchWins(t *testing.T) {
	words := []Word{{Start: 1.0, End: 2.0, Text: "overlap"}}
	segments := []SpeakerSegment{
		{Speaker: "A", Start: 0.0, End: 3.0},
		{Speaker: "B", Start: 1.0, End: 2.0},
	}
	merged := MergeSpeakers(words, segments)
	if merged[0].Speaker == nil || *merged[0].Speaker != "A" {
		t.Errorf("speaker = %v, want A", merged[0].Speaker)
	}
}

func TestMergeSpeakersNilSegments(t *testing.T) {
	words := []Word{{Start: 0.0, End: 1.0, Text: "solo"}}
	merged := MergeSpeakers(words, nil)
	if merged[0].Speaker != nil {
		t.Errorf("expected nil speaker, got %q", *merged[0].Speaker)
	}
}

func TestDefaultPaths(t *testing.T) {
	if got := defaultOutput("/media/raw/session.mp4"); got != "/media/raw/session.transcript.json" {
		t.Errorf("defaultOutput = %q", got)
	}
	if got := defaultSpeakers("/media/raw/session.mp4"); got != "/media/raw/session.speakers.json" {
		t.Errorf("defaultSpeakers = %q", got)
	}
}

func TestParseWhisperJSON(t *testing.T) {
	raw := `{
		"text": " Hello there.",
		"language": "en",
		"segments": [
			{
				"start": 0.0, "end": 2.0, "text": " Hello there.",
				"words": [
					{"word": " Hello", "start": 0.1234567, "end": 0.5},
					{"word": " there.", "start": 0.6, "end": 1.2}
				]
			}
		]
	}`

	language, words, err := parseWhisperJSON([]byte(raw))
	if err != nil {
		t.Fatalf("parseWhisperJSON: %v", err)
	}
	if language != "en" {
		t.Errorf("language = %q, want en", language)
	}
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2", len(words))
	}
	if words[0].Text != "Hello" {
		t.Errorf("word 0 text = %q, want trimmed %q", words[0].Text, "Hello")
	}
	if words[0].Start != 0.123 {
		t.Errorf("word 0 start = %v, want rounded 0.123", words[0].Start)
	}
	if words[1].Text != "there." {
		t.Errorf("word 1 text = %q", words[1].Text)
	}
}

func TestParseWhisperJSONInvalid(t *testing.T) {
	if _, _, err := parseWhisperJSON([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestTranscriptJSONShape(t *testing.T) {
	tr := Transcript{
		Source:    "session.mp4",
		DurationS: 42.3,
		Model:     "medium",
		Language:  "en",
		Diarized:  true,
		Words: []Word{
			{Start: 0.1, End: 0.5, Text: "hello", Speaker: strptr("SPEAKER_00")},
			{Start: 0.6, End: 1.0, Text: "void"},
		},
	}
	data, err := json.Marshal(tr)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"source", "duration_s", "model", "language", "diarized", "words"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	words := decoded["words"].([]any)
	second := words[1].(map[string]any)
	if spk, ok := second["speaker"]; !ok || spk != nil {
		t.Errorf("unassigned word speaker = %v, want explicit null", spk)
	}
}

func TestRoundTo(t *testing.T) {
	if got := roundTo(1.23456, 3); got != 1.235 {
		t.Errorf("roundTo(1.23456, 3) = %v", got)
	}
	if got := roundTo(42.34, 1); got != 42.3 {
		t.Errorf("roundTo(42.34, 1) = %v", got)
	}
}
