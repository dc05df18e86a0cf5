package account

import (
	"errors"
	"testing"
	"time"
)

func validForm() Registration {
	return Registration{
		Username:  "alice",
		Password:  "Secret123",
		Email:     "alice@example.com",
		Forename:  "Alice",
		Surname:   "Smith",
		BirthDate: "1990-05-17",
	}
}

func TestRegistrationRules(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	v := NewValidator(func() time.Time { return today })

	in, err := v.Registration(validForm())
	if err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}
	if in.Username != "alice" || !in.BirthDate.Equal(time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected input %+v", in)
	}

	cases := []struct {
		name  string
		field string
		edit  func(*Registration)
	}{
		{"symbol in username", "username", func(r *Registration) { r.Username = "a!" }},
		{"short password", "password", func(r *Registration) { r.Password = "x" }},
		{"password without digit", "password", func(r *Registration) { r.Password = "Secretsecret" }},
		{"bad email", "email", func(r *Registration) { r.Email = "not-an-email" }},
		{"missing forename", "forename", func(r *Registration) { r.Forename = "" }},
		{"surname too long", "surname", func(r *Registration) { r.Surname = "Montgomeryx" }},
		{"minor", "birth_date", func(r *Registration) { r.BirthDate = "2020-01-01" }},
		{"turns eighteen tomorrow", "birth_date", func(r *Registration) { r.BirthDate = "2006-06-16" }},
		{"bad date format", "birth_date", func(r *Registration) { r.BirthDate = "17/05/1990" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.edit(&form)
			_, err := v.Registration(form)
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected field error, got %v", err)
			}
			if _, ok := fe.Fields[tc.field]; !ok {
				t.Fatalf("expected %s to be reported, got %v", tc.field, fe.Fields)
			}
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("field error should match invalid_request")
			}
		})
	}
}

func TestAgeOn(t *testing.T) {
	birth := time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		day  time.Time
		want int
	}{
		{time.Date(2018, 6, 14, 0, 0, 0, 0, time.UTC), 17},
		{time.Date(2018, 6, 15, 0, 0, 0, 0, time.UTC), 18},
		{time.Date(2018, 7, 1, 0, 0, 0, 0, time.UTC), 18},
	}
	for _, tt := range tests {
		if got := ageOn(birth, tt.day); got != tt.want {
			t.Fatalf("ageOn(%s)=%d want %d", tt.day.Format(birthDateLayout), got, tt.want)
		}
	}
}
