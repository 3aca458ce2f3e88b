package jsonutil

import (
	"testing"
)

func TestUnmarshalWithContext(t *testing.T) {
	type call struct {
		Method string `json:"method"`
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{name: "valid JSON", data: []byte(`{"method":"append"}`)},
		{name: "invalid JSON", data: []byte(`not json`), wantErr: true},
		{name: "unknown field", data: []byte(`{"method":"append","extra":1}`), wantErr: true},
		{name: "trailing value", data: []byte(`{"method":"append"} {}`), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v call
			err := UnmarshalWithContext(tt.data, &v, "test context")
			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalWithContext() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && v.Method != "append" {
				t.Errorf("UnmarshalWithContext() v.Method = %q, want %q", v.Method, "append")
			}
		})
	}
}

func TestUnmarshalArrayAllowEmpty(t *testing.T) {
	got, err := UnmarshalArrayAllowEmpty[int]([]byte(`[1, 2, 3]`), "numbers")
	if err != nil || len(got) != 3 || got[2] != 3 {
		t.Errorf("got %v, err %v", got, err)
	}

	for _, empty := range []string{"", "  \n", "[]"} {
		got, err := UnmarshalArrayAllowEmpty[int]([]byte(empty), "numbers")
		if err != nil || len(got) != 0 {
			t.Errorf("%q: got %v, err %v", empty, got, err)
		}
	}

	if _, err := UnmarshalArrayAllowEmpty[int]([]byte(`{"a":1}`), "numbers"); err == nil {
		t.Error("object should not decode as an array")
	}
}
