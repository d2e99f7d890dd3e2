package robot

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cbot/internal/diag"
	"cbot/internal/natives"
	"cbot/internal/stdlib"
	"cbot/internal/types"
	"cbot/internal/value"
)

// ObjectClass is the pointer class radar returns.
const ObjectClass = "object"

// Message kinds for message(text, kind).
const (
	DisplayMessage int32 = iota
	DisplayInfo
	DisplayWarning
	DisplayError
)

// ErrNoPoint is returned when the point class is not registered yet.
var ErrNoPoint = errors.New("robot: register stdlib first, point class is missing")

// progress phases stored in NativeState.Phase
const (
	phaseStart int32 = iota
	phaseForward
	phaseBackward
	phaseTurn
	phaseMove
)

const epsilon = 1e-4

// Register adds the robot natives, the object class and the category
// and message constants to reg.
func Register(reg *natives.Registry) error {
	if reg.Classes().Get(stdlib.PointClass) == nil {
		return ErrNoPoint
	}
	pt := types.IntrinsicOf(stdlib.PointClass)
	err := reg.RegisterClass(ObjectClass, "", []types.Field{
		{Name: "category", Type: types.Int},
		{Name: "position", Type: pt},
		{Name: "id", Type: types.Int},
	}, false)
	if err != nil {
		return err
	}
	for cat, name := range categoryNames {
		reg.RegisterConst(name, value.FromInt(int32(cat)))
	}
	for name, v := range map[string]int32{
		"DisplayMessage": DisplayMessage,
		"DisplayInfo":    DisplayInfo,
		"DisplayWarning": DisplayWarning,
		"DisplayError":   DisplayError,
	} {
		reg.RegisterConst(name, value.FromInt(v))
	}

	reg.Register("message", execMessage, natives.SigOpt(types.Void, 1, types.String, types.Int))
	reg.Register("position", execPosition, natives.Sig(pt))
	reg.Register("energy", func(c *natives.Call) (bool, diag.Code) {
		b, code := hostBot(c)
		if code != diag.OK {
			return true, code
		}
		return true, c.Return(value.FromFloat(b.Energy))
	}, natives.Sig(types.Float))
	reg.Register("radar", execRadar, natives.Sig(types.PointerTo(ObjectClass), types.Int))
	reg.RegisterMethod(ObjectClass, "destroy", execDestroy, natives.Sig(types.Void))

	actions := []struct {
		name string
		exec natives.ExecFunc
	}{
		{"wait", execWait},
		{"move", execMove},
		{"turn", execTurn},
		{"fire", execFire},
	}
	for _, a := range actions {
		e := reg.Register(a.name, a.exec, natives.Sig(types.Void, types.Float))
		e.Release = release
	}
	e := reg.Register("goto", execGoto, natives.Sig(types.Void, pt))
	e.Release = release
	return nil
}

func hostBot(c *natives.Call) (*Bot, diag.Code) {
	b, ok := c.Host.(*Bot)
	if !ok || b == nil {
		return nil, diag.RunUndefCall
	}
	return b, diag.OK
}

// release runs when a program stops in the middle of an action.
func release(c *natives.Call) {
	b, code := hostBot(c)
	if code != diag.OK {
		return
	}
	b.Action = ""
}

func begin(b *Bot, name string) {
	b.Action = name
}

func finish(b *Bot, code diag.Code) (bool, diag.Code) {
	b.Action = ""
	return true, code
}

func execMessage(c *natives.Call) (bool, diag.Code) {
	b, code := hostBot(c)
	if code != diag.OK {
		return true, code
	}
	kind := DisplayMessage
	if k := c.Arg(1); k != nil {
		kind = k.AsInt()
	}
	b.Say(kind, c.Arg(0).AsString())
	return true, diag.OK
}

func execPosition(c *natives.Call) (bool, diag.Code) {
	b, code := hostBot(c)
	if code != diag.OK {
		return true, code
	}
	return true, c.Return(stdlib.NewPoint(c.IDs, c.Classes, b.Pos))
}

// execWait counts the argument down by the tick length.
func execWait(c *natives.Call) (bool, diag.Code) {
	b, code := hostBot(c)
	if code != diag.OK {
		return true, code
	}
	if c.State.Phase == phaseStart {
		c.State.Phase, c.State.Value = phaseForward, c.Arg(0).AsFloat()
		begin(b, "wait")
	}
	c.State.Value -= b.Dt
	if c.State.Value > 0 {
		return false, diag.OK
	}
	return finish(b, diag.OK)
}

// execMove drives the remaining distance kept in State.Value.
func execMove(c *natives.Call) (bool, diag.Code) {
	b, code := hostBot(c)
	if code != diag.OK {
		return true, code
	}
	if c.State.Phase == phaseStart {
		d := c.Arg(0).AsFloat()
		if math.IsNaN(float64(d)) {
			return true, diag.RunBadParam
		}
		c.State.Phase, c.State.Value = phaseForward, d
		if d < 0 {
			c.State.Phase, c.State.Value = phaseBackward, -d
		}
		begin(b, "move")
	}
	step := min(b.Speed*b.Dt, c.State.Value)
	if c.State.Phase == phaseBackward {
		step = -step
	}
	moved, ok := b.advance(step)
	if !ok {
		return finish(b, diag.HostNoEnergy)
	}
	c.State.Value -= float32(math.Abs(float64(moved)))
	if c.State.Value > epsilon {
		return false, diag.OK
	}
	return finish(b, diag.OK)
}

// execTurn rotates by the argument in degrees, positive is left.
func execTurn(c *natives.Call) (bool, diag.Code) {
	b, code := hostBot(c)
	if code != diag.OK {
		return true, code
	}
	if c.State.Phase == phaseStart {
		a := c.Arg(0).AsFloat()
		c.State.Phase, c.State.Value = phaseForward, a
		if a < 0 {
			c.State.Phase, c.State.Value = phaseBackward, -a
		}
		begin(b, "turn")
	}
	step := min(b.TurnRate*b.Dt, c.State.Value)
	c.State.Value -= step
	if c.State.Phase == phaseBackward {
		step = -step
	}
	b.rotate(step)
	if c.State.Value > epsilon {
		return false, diag.OK
	}
	return finish(b, diag.OK)
}

// execGoto turns towards the goal, then drives to it. The goal comes
// from the argument on every call, so only the phase is kept.
func execGoto(c *natives.Call) (bool, diag.Code) {
	b, code := hostBot(c)
	if code != diag.OK {
		return true, code
	}
	goal, code := stdlib.ReadPoint(c.Arg(0))
	if code != diag.OK {
		return true, code
	}
	if math.IsNaN(float64(goal.X)) || math.IsNaN(float64(goal.Y)) {
		return true, diag.HostBadGoal
	}
	if c.State.Phase == phaseStart {
		c.State.Phase = phaseTurn
		begin(b, "goto")
	}
	if c.State.Phase == phaseTurn {
		diff := normAngle(b.headingTo(goal) - b.Heading)
		step := min(b.TurnRate*b.Dt, float32(math.Abs(float64(diff))))
		if diff < 0 {
			step = -step
		}
		b.rotate(step)
		if math.Abs(float64(diff-step)) > epsilon {
			return false, diag.OK
		}
		c.State.Phase = phaseMove
		return false, diag.OK
	}
	left := float32(dist(b.Pos, goal))
	step := min(b.Speed*b.Dt, left)
	if _, ok := b.advance(step); !ok {
		return finish(b, diag.HostNoEnergy)
	}
	c.State.Value = left - step
	if c.State.Value > epsilon {
		return false, diag.OK
	}
	b.Pos.X, b.Pos.Y = goal.X, goal.Y
	return finish(b, diag.OK)
}

// execFire shoots for the given time, draining energy.
func execFire(c *natives.Call) (bool, diag.Code) {
	b, code := hostBot(c)
	if code != diag.OK {
		return true, code
	}
	if c.State.Phase == phaseStart {
		c.State.Phase, c.State.Value = phaseForward, c.Arg(0).AsFloat()
		b.Shots++
		begin(b, "fire")
	}
	cost := FireCost * b.Dt
	if cost > b.Energy {
		return finish(b, diag.HostNoEnergy)
	}
	b.Energy -= cost
	c.State.Value -= b.Dt
	if c.State.Value > 0 {
		return false, diag.OK
	}
	return finish(b, diag.OK)
}

func objectRef(id uint32) string { return "obj-" + strconv.FormatUint(uint64(id), 10) }

func parseRef(ref string) (uint32, bool) {
	s, ok := strings.CutPrefix(ref, "obj-")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 32)
	return uint32(n), err == nil
}

// execRadar returns the nearest object of a category or null.
func execRadar(c *natives.Call) (bool, diag.Code) {
	b, code := hostBot(c)
	if code != diag.OK {
		return true, code
	}
	o := b.World.Nearest(Category(c.Arg(0).AsInt()), b.Pos)
	if o == nil {
		return true, c.Return(value.NullOf(types.PointerTo(ObjectClass)))
	}
	class := c.Classes.Get(ObjectClass)
	if class == nil {
		return true, diag.RunNotClass
	}
	inst := value.NewInstance(c.IDs, c.Classes, class)
	inst.Ref = objectRef(o.ID)
	inst.FieldByName("category").Int = int32(o.Category)
	inst.FieldByName("id").Int = int32(o.ID)
	pos := stdlib.NewPoint(c.IDs, c.Classes, o.Pos)
	if code := value.Assign(c.IDs, inst.FieldByName("position"), pos); code != diag.OK {
		return true, code
	}
	return true, c.Return(value.PointerTo(inst))
}

// execDestroy removes the object from the world; later field access
// through any alias fails with a deleted-object error.
func execDestroy(c *natives.Call) (bool, diag.Code) {
	b, code := hostBot(c)
	if code != diag.OK {
		return true, code
	}
	if c.This == nil || c.This.IsNull() {
		return true, diag.RunNullPointer
	}
	inst := c.This.Inst
	id, ok := parseRef(inst.Ref)
	if !ok || !b.World.Remove(id) {
		return true, diag.HostNoTarget
	}
	inst.Deleted = true
	b.Say(DisplayInfo, fmt.Sprintf("destroyed %s", objectRef(id)))
	return true, diag.OK
}
