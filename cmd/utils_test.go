package cmd

import (
	"reflect"
	"testing"
)

func TestParseContext(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "empty",
			pairs: nil,
			want:  nil,
		},
		{
			name:  "string value",
			pairs: []string{"user=joe"},
			want:  map[string]interface{}{"user": "joe"},
		},
		{
			name:  "json number",
			pairs: []string{"retries=3"},
			want:  map[string]interface{}{"retries": float64(3)},
		},
		{
			name:  "json bool and null",
			pairs: []string{"ok=true", "ref=null"},
			want:  map[string]interface{}{"ok": true, "ref": nil},
		},
		{
			name:  "json object",
			pairs: []string{`meta={"a":1}`},
			want:  map[string]interface{}{"meta": map[string]interface{}{"a": float64(1)}},
		},
		{
			name:  "value containing equals",
			pairs: []string{"q=a=b"},
			want:  map[string]interface{}{"q": "a=b"},
		},
		{
			name:    "missing equals",
			pairs:   []string{"nope"},
			wantErr: true,
		},
		{
			name:    "empty key",
			pairs:   []string{"=v"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseContext(tt.pairs)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseContext(%v) = %v, want %v", tt.pairs, got, tt.want)
			}
		})
	}
}
