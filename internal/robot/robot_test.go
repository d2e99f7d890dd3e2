package robot_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"cbot/internal/diag"
	"cbot/internal/engine"
	"cbot/internal/natives"
	"cbot/internal/program"
	"cbot/internal/robot"
	"cbot/internal/stdlib"
)

const dt = 0.1

func newContext(t *testing.T) *engine.Context {
	t.Helper()
	reg := natives.NewRegistry()
	require.NoError(t, stdlib.Register(reg, stdlib.Options{}))
	require.NoError(t, robot.Register(reg))
	return engine.NewContext(reg)
}

func load(t *testing.T, ctx *engine.Context, bot *robot.Bot, src string) *program.Program {
	t.Helper()
	p := program.New(ctx, bot.ID)
	p.SetHost(bot)
	require.NoError(t, p.Compile(bot.ID+".cbot", []byte(src)))
	require.NoError(t, p.Start("main"))
	return p
}

// drive ticks the bot until the program ends and returns the tick count.
func drive(t *testing.T, p *program.Program, bot *robot.Bot, limit int) int {
	t.Helper()
	for i := 1; i <= limit; i++ {
		bot.Tick(dt)
		if !p.Run(1000) {
			return i
		}
	}
	t.Fatalf("program still running after %d ticks", limit)
	return 0
}

func TestRegisterNeedsPoint(t *testing.T) {
	require.ErrorIs(t, robot.Register(natives.NewRegistry()), robot.ErrNoPoint)
}

func TestMoveTakesSeveralTicks(t *testing.T) {
	bot := robot.NewBot("bot1", nil)
	p := load(t, newContext(t), bot, `move(1); message("arrived");`)
	ticks := drive(t, p, bot, 100)
	require.Equal(t, 5, ticks)
	require.InDelta(t, 1.0, bot.Pos.X, 1e-4)
	require.InDelta(t, 0.0, bot.Pos.Y, 1e-4)
	require.Less(t, bot.Energy, float32(1))
	require.Len(t, bot.Log, 1)
	require.Equal(t, "arrived", bot.Log[0].Text)
	require.Empty(t, bot.Action)
}

func TestTurnThenMove(t *testing.T) {
	bot := robot.NewBot("bot1", nil)
	p := load(t, newContext(t), bot, `turn(90); move(-1);`)
	drive(t, p, bot, 100)
	require.InDelta(t, 90.0, bot.Heading, 1e-3)
	require.InDelta(t, 0.0, bot.Pos.X, 1e-3)
	require.InDelta(t, -1.0, bot.Pos.Y, 1e-3)
}

func TestGoto(t *testing.T) {
	bot := robot.NewBot("bot1", nil)
	p := load(t, newContext(t), bot, `point g; g.y = 2; goto(g); message("" + position().y);`)
	drive(t, p, bot, 100)
	require.InDelta(t, 0.0, bot.Pos.X, 1e-3)
	require.InDelta(t, 2.0, bot.Pos.Y, 1e-3)
	require.Equal(t, "2", bot.Log[0].Text)
}

func TestWaitAndFire(t *testing.T) {
	bot := robot.NewBot("bot1", nil)
	p := load(t, newContext(t), bot, `wait(1); fire(0.5);`)
	ticks := drive(t, p, bot, 100)
	require.InDelta(t, 15, ticks, 1)
	require.Equal(t, 1, bot.Shots)
	require.InDelta(t, 1-robot.FireCost*0.5, bot.Energy, 1e-3)
}

func TestMessageKinds(t *testing.T) {
	bot := robot.NewBot("bot1", nil)
	p := load(t, newContext(t), bot, `message("hi"); message("careful", DisplayWarning);`)
	drive(t, p, bot, 1)
	require.Len(t, bot.Log, 2)
	require.Equal(t, robot.DisplayMessage, bot.Log[0].Kind)
	require.Equal(t, robot.DisplayWarning, bot.Log[1].Kind)
}

func TestRadarAndDestroy(t *testing.T) {
	world := robot.NewWorld()
	world.Add(robot.CatTitaniumOre, stdlib.Point{X: 9})
	world.Add(robot.CatTitaniumOre, stdlib.Point{X: 5})
	world.Add(robot.CatAlienAnt, stdlib.Point{X: 1})
	bot := robot.NewBot("bot1", world)

	p := load(t, newContext(t), bot, `
object o = radar(TitaniumOre);
message("" + o.position.x);
object none = radar(PowerCell);
if (none == null) message("none");
o.destroy();
`)
	drive(t, p, bot, 1)
	code, _, _ := p.Error()
	require.Equal(t, diag.OK, code)
	require.Equal(t, "5", bot.Log[0].Text)
	require.Equal(t, "none", bot.Log[1].Text)
	require.Len(t, world.Objects(), 2)
	require.InDelta(t, 9.0, world.Nearest(robot.CatTitaniumOre, stdlib.Point{X: 5}).Pos.X, 1e-6)
}

func TestDeletedObjectAccess(t *testing.T) {
	world := robot.NewWorld()
	world.Add(robot.CatTarget, stdlib.Point{X: 3})
	bot := robot.NewBot("bot1", world)
	p := load(t, newContext(t), bot, `
object o = radar(Target);
object alias = o;
o.destroy();
int c = alias.category;
`)
	drive(t, p, bot, 1)
	code, _, _ := p.Error()
	require.Equal(t, diag.RunDeletedObject, code)
	require.Empty(t, world.Objects())
}

func TestNoEnergy(t *testing.T) {
	bot := robot.NewBot("bot1", nil)
	bot.Energy = 0.001
	p := load(t, newContext(t), bot, `move(10);`)
	drive(t, p, bot, 10)
	code, _, _ := p.Error()
	require.Equal(t, diag.HostNoEnergy, code)
}

func TestStopReleasesAction(t *testing.T) {
	bot := robot.NewBot("bot1", nil)
	p := load(t, newContext(t), bot, `move(100);`)
	bot.Tick(dt)
	require.True(t, p.Run(100))
	require.Equal(t, "move", bot.Action)
	p.Stop()
	require.Empty(t, bot.Action)
}

func TestMoveSurvivesSaveRestore(t *testing.T) {
	src := `move(2); turn(-90); move(1);`

	ref := robot.NewBot("bot1", nil)
	drive(t, load(t, newContext(t), ref, src), ref, 100)

	bot := robot.NewBot("bot1", nil)
	p := load(t, newContext(t), bot, src)
	for range 4 {
		bot.Tick(dt)
		require.True(t, p.Run(100))
	}
	var buf bytes.Buffer
	require.NoError(t, p.Save(&buf))
	p.Stop()

	// the host persists its own state next to the program
	moved := robot.NewBot("bot1", nil)
	moved.Pos, moved.Heading, moved.Energy = bot.Pos, bot.Heading, bot.Energy
	q := program.New(newContext(t), "bot1")
	q.SetHost(moved)
	require.NoError(t, q.Compile("bot1.cbot", []byte(src)))
	require.NoError(t, q.Restore(&buf))
	drive(t, q, moved, 100)

	require.InDelta(t, ref.Pos.X, moved.Pos.X, 1e-3)
	require.InDelta(t, ref.Pos.Y, moved.Pos.Y, 1e-3)
	require.InDelta(t, ref.Heading, moved.Heading, 1e-3)
}

func TestParseObject(t *testing.T) {
	cat, p, err := robot.ParseObject("titaniumore: 5, -2")
	require.NoError(t, err)
	require.Equal(t, robot.CatTitaniumOre, cat)
	require.Equal(t, stdlib.Point{X: 5, Y: -2}, p)

	cat, p, err = robot.ParseObject("Target:1,2,3")
	require.NoError(t, err)
	require.Equal(t, robot.CatTarget, cat)
	require.Equal(t, float32(3), p.Z)

	for _, bad := range []string{"Target", "Rock:1,2", "Target:1", "Target:a,b"} {
		_, _, err := robot.ParseObject(bad)
		require.Error(t, err, bad)
	}
}
