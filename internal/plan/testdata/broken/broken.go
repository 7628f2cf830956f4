// Package broken is a synthesis fixture full of configuration errors. It
// does not type-check: Crate refers to an undefined type.
package broken

// Animal lists children that are misspelled, unannotated or unrelated.
//
//partialgen:generate children=Dog,Cat,Catt,Bird,Dog
type Animal interface {
	GetName() string
}

//partialgen:generate
type Dog struct {
	Name string
}

func (d Dog) GetName() string { return d.Name }

// Cat is not annotated.
type Cat struct {
	Name string
}

func (c Cat) GetName() string { return c.Name }

//partialgen:generate
type Bird struct {
	Name string
}

// Horse implements Animal with a computed getter.
//
//partialgen:generate
type Horse struct {
	Title string
}

func (h Horse) GetName() string { return h.Title }

// Mule stores its name as bytes.
//
//partialgen:generate
type Mule struct {
	Name []byte
}

func (m Mule) GetName() string { return string(m.Name) }

//partialgen:generate
type Shapeless interface {
	M()
}

//partialgen:generate children=Dog
type Zoo struct{}

//partialgen:generate
type Cage[T any] struct {
	V T
}

//partialgen:generate
type Form struct {
	A string `partial:"required,skip"`
	B string `partial:"skip"`
	C int
}

// Vehicle lists Car, which computes its getter.
//
//partialgen:generate children=Car
type Vehicle interface {
	GetWheels() int
}

//partialgen:generate
type Car struct {
	Axles int
}

func (c Car) GetWheels() int { return 2 * c.Axles }

// Widget has a field named like a generated method.
//
//partialgen:generate
type Widget struct {
	Merge bool
	Size  int
}

//partialgen:generate
type Crate struct {
	Label string
	Lid   *Missing
}
