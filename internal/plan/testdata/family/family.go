// Package family is a synthesis fixture with two parents sharing a child.
package family

import "time"

// Member is anyone in the family tree.
//
//partialgen:generate children=Adult,Kid
type Member interface {
	GetName() string
	//partialgen:required
	GetBorn() time.Time
	//partialgen:skip
	GetNick() string
}

// Elder is a retired member.
//
//partialgen:generate children=Adult
type Elder interface {
	Member
	GetPension() int
}

//partialgen:generate
type Adult struct {
	Name string    `json:"name"`
	Born time.Time `json:"born"`
	Nick string    `partial:"skip" partialdefault:"\"\""`
	// +unit=time.Duration
	// +owner=other.Thing
	Pension int `json:"pension,omitempty" db:"pension"`
	// +maxLength=32
	Job string `json:"-"`
}

func (a Adult) GetName() string    { return a.Name }
func (a Adult) GetBorn() time.Time { return a.Born }
func (a Adult) GetNick() string    { return a.Nick }
func (a Adult) GetPension() int    { return a.Pension }

//partialgen:generate
type Kid struct {
	Name   string `partial:"required"`
	Born   time.Time
	Nick   string `partial:"skip"`
	School string `json:"school,omitzero"`
}

// DefaultKid supplies the skipped fields of Kid.
func DefaultKid() Kid {
	return Kid{Nick: "kiddo"}
}

func (k *Kid) GetName() string    { return k.Name }
func (k *Kid) GetBorn() time.Time { return k.Born }
func (k *Kid) GetNick() string    { return k.Nick }

// Pet is treated as a member but was never added to children.
//
//partialgen:generate
type Pet struct {
	Name string
	Born time.Time
	Nick string `partial:"skip" partialdefault:"\"rex\""`
}

func (p Pet) GetName() string    { return p.Name }
func (p Pet) GetBorn() time.Time { return p.Born }
func (p Pet) GetNick() string    { return p.Nick }
