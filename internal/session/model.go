package session

// Identity is the customer's contact data. ID is set only once a backend
// client record exists.
type Identity struct {
	ID        *int64  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Lastname  string  `json:"lastname"`
	Email     string  `json:"email"`
	Telephone *string `json:"telephone,omitempty"`
}

// HasID reports whether the identity is backed by a client record.
func (i Identity) HasID() bool {
	return i.ID != nil
}

// Client is a customer record from the backend collection.
type Client struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Lastname  string  `json:"lastname"`
	Email     string  `json:"email"`
	Telephone *string `json:"telephone,omitempty"`
}

// Update is a partial Identity; nil fields are left unchanged.
type Update struct {
	ID        *int64
	Name      *string
	Lastname  *string
	Email     *string
	Telephone *string
}

type persisted struct {
	Identity        *Identity `json:"identity"`
	IsAuthenticated bool      `json:"is_authenticated"`
}

func identityFromClient(c Client) Identity {
	id := c.ID
	return Identity{
		ID:        &id,
		Name:      c.Name,
		Lastname:  c.Lastname,
		Email:     c.Email,
		Telephone: cloneString(c.Telephone),
	}
}

func (i Identity) clone() Identity {
	out := i
	if i.ID != nil {
		id := *i.ID
		out.ID = &id
	}
	out.Telephone = cloneString(i.Telephone)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
