package model

import (
	"encoding/json"
	"testing"
)

func TestValue_Text(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{"string", `"Paris"`, "Paris", true},
		{"empty string", `""`, "", true},
		{"escaped string", `"a \"b\""`, `a "b"`, true},
		{"integer", `40000`, "40000", true},
		{"float kept verbatim", `48.80`, "48.80", true},
		{"bool", `true`, "true", true},
		{"string list", `["Excel", "SQL"]`, "Excel, SQL", true},
		{"mixed list", `["Excel", 5]`, "Excel, 5", true},
		{"object", `{ "min": 1 }`, `{"min":1}`, true},
		{"null", `null`, "", false},
		{"missing", ``, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := RawValue(json.RawMessage(tc.raw)).Text()
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("Text() = %q, %v; want %q, %v", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestValue_UnmarshalJSON(t *testing.T) {
	var job struct {
		Salary Value `json:"salary"`
		City   Value `json:"city"`
	}
	if err := json.Unmarshal([]byte(`{"salary":"competitive","city":null}`), &job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Salary.String() != "competitive" {
		t.Errorf("Salary = %q, want competitive", job.Salary)
	}
	if !job.City.IsNull() {
		t.Errorf("City = %s, want null", job.City.Raw())
	}
}

func TestStringValue(t *testing.T) {
	v := StringValue(`say "hi"`)
	if string(v.Raw()) != `"say \"hi\""` {
		t.Errorf("Raw() = %s", v.Raw())
	}
	if v.String() != `say "hi"` {
		t.Errorf("String() = %q", v.String())
	}
}
