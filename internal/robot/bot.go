package robot

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"cbot/internal/stdlib"
)

// Category classifies world objects for radar.
type Category int32

const (
	CatTitaniumOre Category = iota + 1
	CatTitanium
	CatPowerCell
	CatAlienAnt
	CatTarget
)

var categoryNames = map[Category]string{
	CatTitaniumOre: "TitaniumOre",
	CatTitanium:    "Titanium",
	CatPowerCell:   "PowerCell",
	CatAlienAnt:    "AlienAnt",
	CatTarget:      "Target",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "Unknown"
}

// ParseCategory looks a category up by name, case-insensitively.
func ParseCategory(name string) (Category, bool) {
	for c, n := range categoryNames {
		if strings.EqualFold(n, name) {
			return c, true
		}
	}
	return 0, false
}

// ParseObject parses "Category:x,y[,z]" as used by cbot.toml and --object.
func ParseObject(def string) (Category, stdlib.Point, error) {
	name, coords, ok := strings.Cut(def, ":")
	if !ok {
		return 0, stdlib.Point{}, fmt.Errorf("object %q: want Category:x,y", def)
	}
	cat, ok := ParseCategory(strings.TrimSpace(name))
	if !ok {
		return 0, stdlib.Point{}, fmt.Errorf("object %q: unknown category %q", def, name)
	}
	parts := strings.Split(coords, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, stdlib.Point{}, fmt.Errorf("object %q: want 2 or 3 coordinates", def)
	}
	var xyz [3]float32
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return 0, stdlib.Point{}, fmt.Errorf("object %q: %w", def, err)
		}
		xyz[i] = float32(f)
	}
	return cat, stdlib.Point{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// Object is a thing radar can find.
type Object struct {
	ID       uint32
	Category Category
	Pos      stdlib.Point
}

// World holds the objects shared by bots.
type World struct {
	objects []*Object
	next    uint32
}

func NewWorld() *World { return &World{} }

// Add places a new object and returns it.
func (w *World) Add(cat Category, p stdlib.Point) *Object {
	w.next++
	o := &Object{ID: w.next, Category: cat, Pos: p}
	w.objects = append(w.objects, o)
	return o
}

func (w *World) Get(id uint32) *Object {
	for _, o := range w.objects {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Remove deletes the object; it reports whether it existed.
func (w *World) Remove(id uint32) bool {
	n := len(w.objects)
	w.objects = slices.DeleteFunc(w.objects, func(o *Object) bool { return o.ID == id })
	return len(w.objects) != n
}

func (w *World) Objects() []*Object { return slices.Clone(w.objects) }

// Nearest returns the closest object of cat to p, or nil.
func (w *World) Nearest(cat Category, p stdlib.Point) *Object {
	var best *Object
	bestD := math.Inf(1)
	for _, o := range w.objects {
		if o.Category != cat {
			continue
		}
		if d := dist(o.Pos, p); d < bestD {
			best, bestD = o, d
		}
	}
	return best
}

func dist(a, b stdlib.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// Message is one line shown by message().
type Message struct {
	Time float64
	Kind int32
	Text string
}

// Defaults for NewBot.
const (
	DefaultSpeed    = 2  // m/s
	DefaultTurnRate = 90 // deg/s
	MoveCost        = 0.01
	FireCost        = 0.1
)

// Bot is the kinematic state of one robot.
type Bot struct {
	ID       string
	Pos      stdlib.Point
	Heading  float32 // degrees, 0 is +x, counter-clockwise
	Energy   float32
	Speed    float32
	TurnRate float32
	World    *World

	Clock float64 // seconds since start
	Dt    float32 // length of the current tick

	Action string // pending multi-tick action, empty when idle
	Shots  int
	Log    []Message
}

// NewBot creates a bot at the origin with a full battery.
func NewBot(id string, world *World) *Bot {
	if world == nil {
		world = NewWorld()
	}
	return &Bot{ID: id, Energy: 1, Speed: DefaultSpeed, TurnRate: DefaultTurnRate, World: world}
}

// Tick advances the virtual clock by dt seconds.
func (b *Bot) Tick(dt float32) {
	b.Dt = dt
	b.Clock += float64(dt)
}

// Say appends a message to the log.
func (b *Bot) Say(kind int32, text string) {
	b.Log = append(b.Log, Message{Time: b.Clock, Kind: kind, Text: text})
}

// advance moves the bot by at most d meters along its heading and
// returns the distance covered. Negative d moves backwards.
func (b *Bot) advance(d float32) (float32, bool) {
	cost := float32(math.Abs(float64(d))) * MoveCost
	if cost > b.Energy {
		return 0, false
	}
	b.Energy -= cost
	rad := float64(b.Heading) * math.Pi / 180
	b.Pos.X += d * float32(math.Cos(rad))
	b.Pos.Y += d * float32(math.Sin(rad))
	return d, true
}

func (b *Bot) rotate(deg float32) {
	b.Heading = normAngle(b.Heading + deg)
}

// normAngle maps a to (-180, 180].
func normAngle(a float32) float32 {
	f := math.Mod(float64(a), 360)
	switch {
	case f > 180:
		f -= 360
	case f <= -180:
		f += 360
	}
	return float32(f)
}

func (b *Bot) headingTo(p stdlib.Point) float32 {
	return float32(math.Atan2(float64(p.Y-b.Pos.Y), float64(p.X-b.Pos.X)) * 180 / math.Pi)
}

// State is the persisted part of a bot.
type State struct {
	Pos     stdlib.Point `msgpack:"pos"`
	Heading float32      `msgpack:"heading"`
	Energy  float32      `msgpack:"energy"`
	Clock   float64      `msgpack:"clock"`
	Shots   int          `msgpack:"shots"`
}

// State captures the kinematic state for saving.
func (b *Bot) State() State {
	return State{Pos: b.Pos, Heading: b.Heading, Energy: b.Energy, Clock: b.Clock, Shots: b.Shots}
}

// SetState restores a saved kinematic state.
func (b *Bot) SetState(s State) {
	b.Pos, b.Heading, b.Energy, b.Clock, b.Shots = s.Pos, s.Heading, s.Energy, s.Clock, s.Shots
}
