package message

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Level
		wantErr bool
	}{
		{name: "canonical upper case", input: "ERROR", want: LevelError},
		{name: "lower case", input: "warning", want: LevelWarning},
		{name: "mixed case", input: "Notice", want: LevelNotice},
		{name: "surrounding whitespace", input: " debug ", want: LevelDebug},
		{name: "emergency", input: "EMERGENCY", want: LevelEmergency},
		{name: "unknown level", input: "TRACE", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelValid(t *testing.T) {
	for _, l := range Levels() {
		if !l.Valid() {
			t.Errorf("level %s should be valid", l)
		}
	}
	if Level("TRACE").Valid() {
		t.Error("TRACE should not be valid")
	}
	if Level("info").Valid() {
		t.Error("lower-case names are not canonical levels")
	}
}

func TestLevelsOrder(t *testing.T) {
	levels := Levels()
	if len(levels) != 8 {
		t.Fatalf("expected 8 levels, got %d", len(levels))
	}
	if levels[0] != LevelEmergency || levels[7] != LevelDebug {
		t.Errorf("levels not ordered most to least severe: %v", levels)
	}
}
