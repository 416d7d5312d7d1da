// Package world is a small simulated game world. It owns the players,
// peds and vehicles that console commands and code blocks act on.
package world

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"nickandperla.net/devcon/internal/script"
)

// Gravity is applied to peds outside noclip, in units per second squared.
const Gravity = 9.81

// ErrNoWaypoint is returned by Teleport when no waypoint is set.
var ErrNoWaypoint = errors.New("no waypoint set")

// ErrNoPlayer is returned when a player lookup fails.
var ErrNoPlayer = errors.New("player not found")

// World holds the simulation state. Entity fields are mutated on the
// console goroutine; the collections are guarded by mu.
type World struct {
	mu       sync.Mutex
	local    *Player
	players  []*Player
	vehicles []*Vehicle
	pickups  []*Pickup
	waypoint *Vec3
	handle   int
	nextID   int
	idle     time.Duration
	timeout  time.Duration
	log      zerolog.Logger
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(w *World) { w.log = l }
}

// New creates a world whose local player is called name.
func New(name string, opts ...Option) *World {
	w := &World{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	w.local = w.AddPlayer(name, Vec3{})
	return w
}

func (w *World) nextHandle() int {
	w.handle++
	return w.handle
}

// AddPlayer spawns a new player with a fresh ped at pos.
func (w *World) AddPlayer(name string, pos Vec3) *Player {
	w.mu.Lock()
	defer w.mu.Unlock()
	p := &Player{
		ID:   w.nextID,
		Name: name,
		Ped: &Ped{
			Handle:    w.nextHandle(),
			Health:    200,
			MaxHealth: 200,
			Position:  pos,
		},
	}
	w.nextID++
	w.players = append(w.players, p)
	w.log.Debug().Int("id", p.ID).Str("name", name).Msg("player joined")
	return p
}

// RemovePlayer drops the player with id. The local player cannot be removed.
func (w *World) RemovePlayer(id int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, p := range w.players {
		if p.ID == id {
			if p == w.local {
				return errors.New("cannot remove the local player")
			}
			w.players = append(w.players[:i], w.players[i+1:]...)
			return nil
		}
	}
	return errors.Wrapf(ErrNoPlayer, "id %d", id)
}

// LocalPlayer returns the player the console acts as.
func (w *World) LocalPlayer() *Player {
	return w.local
}

// Players returns every player in join order.
func (w *World) Players() []*Player {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*Player(nil), w.players...)
}

// PlayerByID returns the player with id.
func (w *World) PlayerByID(id int) (*Player, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errors.Wrapf(ErrNoPlayer, "id %d", id)
}

// FindPlayer returns the first player whose name contains query, case
// insensitively. An exact match wins over a partial one.
func (w *World) FindPlayer(query string) (*Player, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	q := strings.ToLower(query)
	var partial *Player
	for _, p := range w.players {
		name := strings.ToLower(p.Name)
		if name == q {
			return p, nil
		}
		if partial == nil && strings.Contains(name, q) {
			partial = p
		}
	}
	if partial == nil {
		return nil, errors.Wrapf(ErrNoPlayer, "%q", query)
	}
	return partial, nil
}

// SetWaypoint marks pos as the waypoint.
func (w *World) SetWaypoint(pos Vec3) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.waypoint = &pos
}

// Waypoint returns the waypoint, if set.
func (w *World) Waypoint() (Vec3, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.waypoint == nil {
		return Vec3{}, false
	}
	return *w.waypoint, true
}

// Teleport moves p, and the vehicle it sits in, to pos.
func (w *World) Teleport(p *Player, pos Vec3) {
	p.Ped.Position = pos
	p.Ped.Velocity = Vec3{}
	if v := p.Ped.Vehicle; v != nil {
		v.Position = pos
		v.Velocity = Vec3{}
	}
	w.log.Debug().Str("player", p.Name).Stringer("pos", pos).Msg("teleport")
}

// TeleportToWaypoint moves p to the waypoint.
func (w *World) TeleportToWaypoint(p *Player) error {
	pos, ok := w.Waypoint()
	if !ok {
		return ErrNoWaypoint
	}
	w.Teleport(p, pos)
	return nil
}

// SpawnVehicle creates a vehicle of model next to p and seats p in it.
func (w *World) SpawnVehicle(p *Player, model string) *Vehicle {
	w.mu.Lock()
	v := &Vehicle{
		Handle:   w.nextHandle(),
		Model:    model,
		Position: p.Ped.Position,
		Health:   1000,
	}
	w.vehicles = append(w.vehicles, v)
	w.mu.Unlock()

	p.Ped.Vehicle = v
	w.log.Debug().Str("player", p.Name).Str("model", model).Int("handle", v.Handle).Msg("vehicle spawned")
	return v
}

// Vehicles returns every spawned vehicle.
func (w *World) Vehicles() []*Vehicle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*Vehicle(nil), w.vehicles...)
}

// LeaveVehicle takes p out of its vehicle. It reports false if p was on foot.
func (w *World) LeaveVehicle(p *Player) bool {
	if p.Ped.Vehicle == nil {
		return false
	}
	p.Ped.Vehicle = nil
	return true
}

// SetGod toggles invincibility for p.
func (w *World) SetGod(p *Player, on bool) {
	p.God = on
	p.Ped.Invincible = on
	if on {
		p.Ped.Health = p.Ped.MaxHealth
	}
}

// SetNoclip toggles noclip for p.
func (w *World) SetNoclip(p *Player, on bool) {
	p.Noclip = on
	if on {
		p.Ped.Velocity = Vec3{}
	}
}

// Heal restores p to full health.
func (w *World) Heal(p *Player) {
	p.Ped.Health = p.Ped.MaxHealth
}

// Kill drops p's health to zero unless p is invincible. It reports
// whether p died.
func (w *World) Kill(p *Player) bool {
	if p.Ped.Invincible {
		return false
	}
	p.Ped.Health = 0
	p.Ped.Velocity = Vec3{}
	return true
}

// Drop places a pickup of model worth value at p's position.
func (w *World) Drop(p *Player, model string, value int64) *Pickup {
	w.mu.Lock()
	defer w.mu.Unlock()
	pk := &Pickup{
		Handle:   w.nextHandle(),
		Model:    model,
		Value:    value,
		Position: p.Ped.Position,
	}
	w.pickups = append(w.pickups, pk)
	w.log.Debug().Str("model", model).Int64("value", value).Int("handle", pk.Handle).Msg("pickup dropped")
	return pk
}

// Pickups returns every dropped pickup.
func (w *World) Pickups() []*Pickup {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*Pickup(nil), w.pickups...)
}

// GiveWeapons gives p every weapon in MaxAmmo fully loaded. The selected
// weapon is left unchanged. It returns the weapon names, sorted.
func (w *World) GiveWeapons(p *Player) []string {
	if p.Weapons == nil {
		p.Weapons = make(map[string]int, len(MaxAmmo))
	}
	names := make([]string, 0, len(MaxAmmo))
	for name, ammo := range MaxAmmo {
		p.Weapons[name] = ammo
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetIdleTimeout sets how long the world may go without input before
// IdleExpired reports true. Zero disables the timeout.
func (w *World) SetIdleTimeout(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timeout = d
	w.idle = 0
}

// IdleTimeout returns the idle timeout, or zero when disabled.
func (w *World) IdleTimeout() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.timeout
}

// Touch records input, resetting the idle clock.
func (w *World) Touch() {
	w.mu.Lock()
	w.idle = 0
	w.mu.Unlock()
}

// IdleExpired reports whether the idle timeout has elapsed since the last
// input.
func (w *World) IdleExpired() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.timeout > 0 && w.idle >= w.timeout
}

// Tick advances the simulation by dt. Peds move by their velocity and
// gravity pulls peds outside noclip down to the ground at Z=0. God mode
// keeps health topped up. The idle clock advances by dt.
func (w *World) Tick(dt time.Duration) {
	w.mu.Lock()
	w.idle += dt
	w.mu.Unlock()

	secs := dt.Seconds()
	for _, p := range w.Players() {
		ped := p.Ped
		if p.God {
			ped.Health = ped.MaxHealth
		}
		if ped.IsDead() {
			continue
		}
		if !p.Noclip && ped.Position.Z > 0 {
			ped.Velocity.Z -= Gravity * secs
		}
		ped.Position = ped.Position.Add(ped.Velocity.Scale(secs))
		if !p.Noclip && ped.Position.Z < 0 {
			ped.Position.Z = 0
			ped.Velocity.Z = 0
		}
		if v := ped.Vehicle; v != nil {
			v.Position = ped.Position
		}
	}
}

// Shortcut resolves the self.* words used on the command line.
func (w *World) Shortcut(name string) (any, bool) {
	p := w.local
	switch name {
	case "self":
		return p, true
	case "self.character", "self.ped":
		return p.Ped, true
	case "self.vehicle":
		if p.Ped.Vehicle == nil {
			return nil, true
		}
		return p.Ped.Vehicle, true
	case "self.pos", "self.position":
		return p.Ped.Position, true
	case "self.name":
		return p.Name, true
	case "self.id", "self.handle":
		return p.ID, true
	}
	return nil, false
}

// Bindings returns the names visible inside code blocks.
func (w *World) Bindings() map[string]any {
	p := w.local
	return map[string]any{
		"PLAYER": p,
		"PED":    p.Ped,
		"MP_ID":  p.ID,
		"WORLD":  w,
	}
}

// Modules returns the helpers installed in code block scope.
func (w *World) Modules() map[string]any {
	return map[string]any{
		"Vector3": script.Constructor(NewVec3),
	}
}

// NewVec3 builds a Vec3 from up to three numeric script arguments.
func NewVec3(args []any) any {
	var v Vec3
	dst := []*float64{&v.X, &v.Y, &v.Z}
	for i, a := range args {
		if i >= len(dst) {
			break
		}
		switch n := a.(type) {
		case int64:
			*dst[i] = float64(n)
		case float64:
			*dst[i] = n
		case int:
			*dst[i] = float64(n)
		}
	}
	return v
}
