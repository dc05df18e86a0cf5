package httptransport

import (
	"bytes"
	"encoding/json"
	"errors"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type betRequest struct {
	Variant string      `json:"variant" validate:"required"`
	Wager   json.Number `json:"wager" validate:"required"`
	Choice  choiceField `json:"choice" validate:"required"`
}

type creditRequest struct {
	Direction string      `json:"direction" validate:"required"`
	Amount    json.Number `json:"amount" validate:"required"`
}

// choiceField accepts either a JSON number (single-number bets) or a string.
type choiceField string

func (c *choiceField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = choiceField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("choice must be a string or a number")
	}
	*c = choiceField(n.String())
	return nil
}
