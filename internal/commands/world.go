package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"nickandperla.net/devcon/internal/command"
	"nickandperla.net/devcon/internal/console"
	"nickandperla.net/devcon/internal/token"
	"nickandperla.net/devcon/internal/value"
	"nickandperla.net/devcon/internal/world"
)

// World returns the commands that act on w.
func World(h Host, w *world.World) []*command.Command {
	return []*command.Command{
		God(h, w),
		Noclip(h, w),
		Teleport(h, w),
		Waypoint(h, w),
		Heal(h, w),
		Kill(h, w),
		Vehicle(h, w),
		Gtfo(h, w),
		Players(h, w),
		Kick(h, w),
		Money(h, w),
		Drop(h, w),
		Weapons(h, w),
		Idle(h, w),
	}
}

func toggle(name, description, label string, h Host, set func(bool)) *command.Command {
	return command.New(name, description, func(_ string, args []*token.Token, _ int) error {
		on := boolean(args[0])
		set(on)
		h.Output().PrintLineStyle(fmt.Sprintf("%s %s", label, onOff(on)), console.Success)
		return nil
	}, command.Shape{command.Arg("active", "on or off", value.Bool)})
}

// God toggles invincibility for the local player.
func God(h Host, w *world.World) *command.Command {
	return toggle("god", "Toggles invincibility.", "God mode", h, func(on bool) {
		w.SetGod(w.LocalPlayer(), on)
	})
}

// Noclip toggles free movement for the local player.
func Noclip(h Host, w *world.World) *command.Command {
	return toggle("noclip", "Toggles free movement without gravity.", "Noclip", h, func(on bool) {
		w.SetNoclip(w.LocalPlayer(), on)
	})
}

// Teleport moves the local player to the waypoint, a player or a position.
func Teleport(h Host, w *world.World) *command.Command {
	c := command.New("tp", "Teleports you to the waypoint, a player or a position.", func(_ string, args []*token.Token, shape int) error {
		self := w.LocalPlayer()
		var dest world.Vec3
		switch shape {
		case 0:
			if err := w.TeleportToWaypoint(self); err != nil {
				return err
			}
			dest = self.Ped.Position
		case 1, 3:
			var (
				target *world.Player
				err    error
			)
			if shape == 1 {
				target, err = w.FindPlayer(str(args[0]))
			} else {
				target, err = w.PlayerByID(int(num(args[0])))
			}
			if err != nil {
				return err
			}
			dest = target.Ped.Position
			w.Teleport(self, dest)
		case 2:
			dest = world.V(num(args[0]), num(args[1]), num(args[2]))
			w.Teleport(self, dest)
		}
		h.Output().PrintLineStyle("Teleported to "+dest.String(), console.Success)
		return nil
	})
	c.AddShape()
	c.AddShape(command.Arg("player", "Name of the player to go to", value.String))
	c.AddShape(
		command.Arg("x", "X coordinate", value.Real),
		command.Arg("y", "Y coordinate", value.Real),
		command.Arg("z", "Z coordinate", value.Real),
	)
	c.AddShape(command.Arg("playerId", "ID of the player to go to", value.Int))
	return c
}

// Waypoint shows or sets the waypoint.
func Waypoint(h Host, w *world.World) *command.Command {
	c := command.New("waypoint", "Shows or sets the waypoint.", func(_ string, args []*token.Token, shape int) error {
		if shape == 1 {
			w.SetWaypoint(world.V(num(args[0]), num(args[1]), num(args[2])))
		}
		pos, ok := w.Waypoint()
		if !ok {
			h.Output().PrintLine("No waypoint set.")
			return nil
		}
		h.Output().PrintLine("Waypoint: " + pos.String())
		return nil
	})
	c.AddShape()
	c.AddShape(
		command.Arg("x", "X coordinate", value.Real),
		command.Arg("y", "Y coordinate", value.Real),
		command.Arg("z", "Z coordinate", value.Real),
	)
	return c
}

// Heal restores the local player's health.
func Heal(h Host, w *world.World) *command.Command {
	return command.New("heal", "Restores your health.", func(string, []*token.Token, int) error {
		w.Heal(w.LocalPlayer())
		h.Output().PrintLineStyle("Healed", console.Success)
		return nil
	})
}

// Kill kills the local player or the named one.
func Kill(h Host, w *world.World) *command.Command {
	c := command.New("kill", "Kills you or the named player.", func(_ string, args []*token.Token, shape int) error {
		target := w.LocalPlayer()
		if shape == 1 {
			p, err := w.FindPlayer(str(args[0]))
			if err != nil {
				return err
			}
			target = p
		}
		if !w.Kill(target) {
			h.Output().PrintWarning(target.Name + " is invincible")
			return nil
		}
		h.Output().PrintLine(target.Name + " died")
		return nil
	})
	c.AddShape()
	c.AddShape(command.Arg("player", "Name of the player to kill", value.String))
	return c
}

// Vehicle spawns a vehicle and puts the local player in it.
func Vehicle(h Host, w *world.World) *command.Command {
	return command.New("vehicle", "Spawns a vehicle and puts you in it.", func(_ string, args []*token.Token, _ int) error {
		v := w.SpawnVehicle(w.LocalPlayer(), str(args[0]))
		h.Output().PrintLineStyle("Spawned "+v.String(), console.Success)
		return nil
	}, command.Shape{command.Arg("model", "Vehicle model name", value.String)})
}

// Gtfo takes the local player out of its vehicle.
func Gtfo(h Host, w *world.World) *command.Command {
	return command.New("gtfo", "Leaves your vehicle.", func(string, []*token.Token, int) error {
		if !w.LeaveVehicle(w.LocalPlayer()) {
			h.Output().PrintWarning("You are not in a vehicle")
		}
		return nil
	})
}

// Players lists everyone in the world.
func Players(h Host, w *world.World) *command.Command {
	return command.New("players", "Lists all players.", func(string, []*token.Token, int) error {
		t, flush := printTable(h.Output(), "ID", "Name", "Health", "Position")
		for _, p := range w.Players() {
			t.AddRow(p.ID, p.Name, p.Ped.Health, p.Ped.Position)
		}
		flush()
		return nil
	})
}

// Kick removes a player by ID or name.
func Kick(h Host, w *world.World) *command.Command {
	c := command.New("kick", "Removes a player from the world.", func(_ string, args []*token.Token, shape int) error {
		var (
			p   *world.Player
			err error
		)
		if shape == 0 {
			p, err = w.PlayerByID(int(num(args[0])))
		} else {
			p, err = w.FindPlayer(str(args[0]))
		}
		if err != nil {
			return err
		}
		if err := w.RemovePlayer(p.ID); err != nil {
			return errors.Wrapf(err, "kick %s", p.Name)
		}
		h.Output().PrintLine("Kicked " + p.Name)
		return nil
	})
	c.AddShape(command.Arg("playerId", "ID of the player", value.Int))
	c.AddShape(command.Arg("player", "Name of the player", value.String))
	return c
}

// Money shows or sets the local player's money.
func Money(h Host, w *world.World) *command.Command {
	c := command.New("money", "Shows or sets your money.", func(_ string, args []*token.Token, shape int) error {
		p := w.LocalPlayer()
		if shape == 1 {
			p.Money = int64(num(args[0]))
		}
		h.Output().PrintLine(fmt.Sprintf("Money: $%d", p.Money))
		return nil
	})
	c.AddShape()
	c.AddShape(command.Arg("amount", "New balance", value.Int))
	return c
}

// Drop places a pickup at the local player's position.
func Drop(h Host, w *world.World) *command.Command {
	return command.New("drop", "Drops an item with the specified model and value.", func(_ string, args []*token.Token, _ int) error {
		pk := w.Drop(w.LocalPlayer(), str(args[0]), int64(num(args[1])))
		h.Output().PrintLine(fmt.Sprintf("Dropped %s at %s", pk, pk.Position))
		return nil
	}, command.Shape{
		command.Arg("model", "The model to drop", value.String),
		command.Arg("value", "The dropped item's value", value.Int),
	})
}

// Weapons gives the local player every weapon with full ammo.
func Weapons(h Host, w *world.World) *command.Command {
	return command.New("weapons", "Gives you every weapon with full ammo.", func(string, []*token.Token, int) error {
		names := w.GiveWeapons(w.LocalPlayer())
		h.Output().PrintLineStyle(fmt.Sprintf("Gave %d weapons: %s", len(names), strings.Join(names, ", ")), console.Success)
		return nil
	}, command.Shape{})
}

// Idle shows or sets the idle timeout in seconds. Zero disables it.
func Idle(h Host, w *world.World) *command.Command {
	c := command.New("idle", "Shows or sets the time before idle timeout.", func(_ string, args []*token.Token, shape int) error {
		if shape == 1 {
			secs := num(args[0])
			if secs < 0 {
				h.Output().PrintWarning(fmt.Sprintf("Idle timeout must not be negative, got %v", secs))
				return nil
			}
			w.SetIdleTimeout(time.Duration(secs * float64(time.Second)))
		}
		if d := w.IdleTimeout(); d > 0 {
			h.Output().PrintLine(fmt.Sprintf("Idle timeout: %s", d))
		} else {
			h.Output().PrintLine("Idle timeout: off")
		}
		return nil
	})
	c.AddShape()
	c.AddShape(command.Arg("time", "Seconds before idle timeout", value.Real))
	return c
}
