// Package hierarchy is a loader fixture: a parent with value and pointer
// children, an undeclared implementer and a few leaf declarations.
package hierarchy

import "time"

// Shape is drawn on a canvas.
//
//partialgen:generate children=Circle,Square,Hexagon
type Shape interface {
	//partialgen:required
	GetID() string
	GetLabel() string
	Area() float64
}

// Base carries bookkeeping shared by shapes.
type Base struct {
	ID      string
	Created time.Time
}

//partialgen:generate
type Circle struct {
	Base
	ID     string  `json:"id"`
	Label  string  `json:"label,omitempty"`
	Radius float64 `json:"radius" partial:"required"`
}

func (c Circle) GetID() string    { return c.ID }
func (c Circle) GetLabel() string { return c.Label }
func (c Circle) Area() float64    { return 3 * c.Radius * c.Radius }

//partialgen:generate
type Square struct {
	ID    string
	Label string `partial:"skip" partialdefault:"\"square\""`
	Side  float64
}

func (s *Square) GetID() string    { return s.ID }
func (s *Square) GetLabel() string { return s.Label }
func (s *Square) Area() float64    { return s.Side * s.Side }

// Triangle implements Shape without being listed as a child.
type Triangle struct {
	ID    string
	Label string
}

func (t Triangle) GetID() string    { return t.ID }
func (t Triangle) GetLabel() string { return t.Label }
func (t Triangle) Area() float64    { return 0 }

//partialgen:generate
type Account struct {
	// +validate:min=1,max=10
	// +kind=time.Duration
	Count int `json:"count" db:"count"`
	// +1 for keeping owners explicit
	Owner string `partial:"required,bogus"`
	// +deprecated
	//partialgen:skip
	Token string
}

// DefaultAccount returns the account used for skipped fields.
func DefaultAccount() Account {
	return Account{Token: "anonymous"}
}

//partialgen:generate
type Box[T any] struct {
	V T
}

//partialgen:generate
type Celsius float64
