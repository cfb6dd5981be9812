package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
)

// Bid is relayed to admins and never stored.
type Bid struct {
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phoneNumber"`
	Email       string    `json:"email"`
	Bid         BidAmount `json:"bid"`
}

func (b Bid) Message() string {
	return fmt.Sprintf("New Bid:\nName: %s\nPhone Number: %s\nEmail: %s\nBid (₹): %s", b.Name, b.PhoneNumber, b.Email, b.Bid)
}

// BidAmount is the offer as the buyer typed it. It decodes from a JSON
// string or number and keeps the literal text.
type BidAmount string

func (a *BidAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decode bid")
		}
		*a = BidAmount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrap(err, "bid must be a string or a number")
	}
	*a = BidAmount(n.String())
	return nil
}
