package contacts

import "time"

// Contact is a named counterparty in the address book.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Memo      string    `json:"memo,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AddInput captures the caller-supplied fields of a new contact. The id and
// timestamps are assigned by the repository.
type AddInput struct {
	Name    string
	Address string
	Memo    string
	Tags    []string
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name    *string
	Address *string
	Memo    *string
	Tags    []string
}

func (in UpdateInput) apply(c Contact, now time.Time) Contact {
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.Memo != nil {
		c.Memo = *in.Memo
	}
	if in.Tags != nil {
		c.Tags = append([]string(nil), in.Tags...)
	}
	c.UpdatedAt = now
	return c
}
