package world

import (
	"fmt"
	"math"

	"nickandperla.net/devcon/internal/value"
)

// Vec3 is a world-space vector.
type Vec3 struct {
	X, Y, Z float64
}

// V creates a Vec3.
func V(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Scale(f float64) Vec3 { return Vec3{v.X * f, v.Y * f, v.Z * f} }

// Distance returns the euclidean distance between v and o.
func (v Vec3) Distance(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (v Vec3) String() string {
	return fmt.Sprintf("%.3f, %.3f, %.3f", v.X, v.Y, v.Z)
}

func (v Vec3) DumpName() string { return "Vector3" }

func (v Vec3) Fields() []value.Field {
	return []value.Field{
		{Name: "X", Value: value.NewReal(v.X)},
		{Name: "Y", Value: value.NewReal(v.Y)},
		{Name: "Z", Value: value.NewReal(v.Z)},
	}
}

// Vehicle is a spawned vehicle.
type Vehicle struct {
	Handle   int
	Model    string
	Position Vec3
	Velocity Vec3
	Health   int
}

func (v *Vehicle) String() string { return fmt.Sprintf("%s #%d", v.Model, v.Handle) }

func (v *Vehicle) DumpName() string { return "Vehicle" }

func (v *Vehicle) Fields() []value.Field {
	return []value.Field{
		{Name: "Handle", Value: value.NewInt(int64(v.Handle))},
		{Name: "Model", Value: value.NewString(v.Model)},
		{Name: "Position", Value: value.NewHandle(v.Position)},
		{Name: "Velocity", Value: value.NewHandle(v.Velocity)},
		{Name: "Health", Value: value.NewInt(int64(v.Health))},
	}
}

// Ped is a character in the world.
type Ped struct {
	Handle     int
	Health     int
	MaxHealth  int
	Position   Vec3
	Velocity   Vec3
	Invincible bool
	Vehicle    *Vehicle
}

func (p *Ped) String() string { return fmt.Sprintf("Ped #%d", p.Handle) }

// IsDead reports whether the ped has no health left.
func (p *Ped) IsDead() bool { return p.Health <= 0 }

func (p *Ped) DumpName() string { return "Ped" }

func (p *Ped) Fields() []value.Field {
	vehicle := value.Nil
	if p.Vehicle != nil {
		vehicle = value.NewHandle(p.Vehicle)
	}
	return []value.Field{
		{Name: "Handle", Value: value.NewInt(int64(p.Handle))},
		{Name: "Health", Value: value.NewInt(int64(p.Health))},
		{Name: "MaxHealth", Value: value.NewInt(int64(p.MaxHealth))},
		{Name: "Position", Value: value.NewHandle(p.Position)},
		{Name: "Velocity", Value: value.NewHandle(p.Velocity)},
		{Name: "Invincible", Value: value.NewBool(p.Invincible)},
		{Name: "Vehicle", Value: vehicle},
	}
}

// Pickup is an item dropped in the world.
type Pickup struct {
	Handle   int
	Model    string
	Value    int64
	Position Vec3
}

func (p *Pickup) String() string { return fmt.Sprintf("%s #%d ($%d)", p.Model, p.Handle, p.Value) }

func (p *Pickup) DumpName() string { return "Pickup" }

func (p *Pickup) Fields() []value.Field {
	return []value.Field{
		{Name: "Handle", Value: value.NewInt(int64(p.Handle))},
		{Name: "Model", Value: value.NewString(p.Model)},
		{Name: "Value", Value: value.NewInt(p.Value)},
		{Name: "Position", Value: value.NewHandle(p.Position)},
	}
}

// MaxAmmo is the ammo a weapon holds when fully loaded, keyed by weapon.
var MaxAmmo = map[string]int{
	"knife":        0,
	"pistol":       250,
	"smg":          500,
	"assaultrifle": 750,
	"shotgun":      100,
	"sniperrifle":  50,
	"grenade":      25,
	"rpg":          20,
	"minigun":      9999,
}

// Player is a connected player controlling a ped.
type Player struct {
	ID     int
	Name   string
	Ped    *Ped
	Money  int64
	God    bool
	Noclip bool
	Weapon string
	// Weapons maps each carried weapon to its ammo.
	Weapons map[string]int
}

func (p *Player) String() string { return p.Name }

func (p *Player) DumpName() string { return "Player" }

func (p *Player) Fields() []value.Field {
	return []value.Field{
		{Name: "ID", Value: value.NewInt(int64(p.ID))},
		{Name: "Name", Value: value.NewString(p.Name)},
		{Name: "Ped", Value: value.NewHandle(p.Ped)},
		{Name: "Money", Value: value.NewInt(p.Money)},
		{Name: "God", Value: value.NewBool(p.God)},
		{Name: "Noclip", Value: value.NewBool(p.Noclip)},
		{Name: "Weapon", Value: value.NewString(p.Weapon)},
		{Name: "Weapons", Value: value.NewInt(int64(len(p.Weapons)))},
	}
}
