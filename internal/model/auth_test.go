package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewRegisterRequestNestsFullName(t *testing.T) {
	req := NewRegisterRequest(RegistrationProfile{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "asha@example.com",
		Password:  "s3cret",
	})

	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}

	want := `{"fullname":{"firstname":"Asha","lastname":"Rao"},"email":"asha@example.com","password":"s3cret"}`
	if string(b) != want {
		t.Errorf("Marshal() = %s, want %s", b, want)
	}
}

func TestNewRegisterRequestKeepsEmptyLastName(t *testing.T) {
	b, err := json.Marshal(NewRegisterRequest(RegistrationProfile{FirstName: "Asha", Email: "a@b.c", Password: "x"}))
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}

	var decoded struct {
		FullName map[string]string `json:"fullname"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	if _, ok := decoded.FullName["lastname"]; !ok {
		t.Error("Marshal() dropped the empty lastname key")
	}
}

func TestNewLoginRequestDropsRememberMe(t *testing.T) {
	b, err := json.Marshal(NewLoginRequest(Credentials{Email: "a@b.c", Password: "pw", RememberMe: true}))
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	if string(b) != `{"email":"a@b.c","password":"pw"}` {
		t.Errorf("Marshal() = %s", b)
	}
}

func TestAuthResponseHasUser(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`{"token":"t"}`, false},
		{`{"user":null}`, false},
		{`{"user":false}`, false},
		{`{"user":""}`, false},
		{`{"user":{"email":"a@b.c"}}`, true},
		{`{"user":"asha"}`, true},
	}

	for _, tt := range tests {
		var resp AuthResponse
		if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
			t.Fatalf("Unmarshal(%s) unexpected error: %v", tt.body, err)
		}
		if got := resp.HasUser(); got != tt.want {
			t.Errorf("HasUser() for %s = %v, want %v", tt.body, got, tt.want)
		}
	}
}

func TestOutcomeResponse(t *testing.T) {
	o := Outcome{Kind: OutcomeSuccess, Message: "ok", Redirect: "/", Delay: 1500 * time.Millisecond}

	resp := o.Response()

	if resp.DelayMS != 1500 {
		t.Errorf("DelayMS = %d, want 1500", resp.DelayMS)
	}
	if !o.Succeeded() {
		t.Error("Succeeded() = false for success outcome")
	}
}
